package models

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/ascendance/cardadmin/ascendance/database/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fields(errs []ValidationError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Field)
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}

func TestCardCreateRequest_Validate(t *testing.T) {
	valid := func() CardCreateRequest {
		return CardCreateRequest{Name: "Golem", ArchetypeID: 1, TypeID: 1, FactionID: 1}
	}

	tests := []struct {
		name   string
		mutate func(*CardCreateRequest)
		want   []string
	}{
		{name: "valid", mutate: func(*CardCreateRequest) {}, want: []string{}},
		{name: "empty name", mutate: func(r *CardCreateRequest) { r.Name = "  " }, want: []string{"name"}},
		{name: "long name", mutate: func(r *CardCreateRequest) { r.Name = strings.Repeat("a", 101) }, want: []string{"name"}},
		{name: "missing ids", mutate: func(r *CardCreateRequest) { r.TypeID = 0; r.FactionID = -1 }, want: []string{"type_id", "faction_id"}},
		{name: "negative stats", mutate: func(r *CardCreateRequest) { r.Cost = ptr(-1); r.Resilience = ptr(-2) }, want: []string{"cost", "resilience"}},
		{name: "zero max occurrence", mutate: func(r *CardCreateRequest) { r.MaxOccurrence = ptr(0) }, want: []string{"max_occurrence"}},
		{name: "bad effect id", mutate: func(r *CardCreateRequest) { r.EffectIDs = []int64{1, 0} }, want: []string{"effect_ids"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			assert.Equal(t, tt.want, fields(req.Validate()))
		})
	}
}

func TestCardCreateRequest_ModelDefaults(t *testing.T) {
	req := CardCreateRequest{Name: " Golem ", ArchetypeID: 1, TypeID: 2, FactionID: 3}
	card := req.Model()

	assert.Equal(t, "Golem", card.Name)
	assert.Equal(t, 1, card.MaxOccurrence)
	assert.Equal(t, 0, card.Cost)
}

func TestCardUpdateRequest_Apply(t *testing.T) {
	card := &models.Card{Name: "Golem", Cost: 2, MaxOccurrence: 3}
	req := CardUpdateRequest{MaxOccurrence: ptr(1), Description: ptr("Lent")}

	assert.Empty(t, req.Validate())
	columns := req.Apply(card)

	assert.Equal(t, []string{"max_occurrence", "description"}, columns)
	assert.Equal(t, 1, card.MaxOccurrence)
	assert.Equal(t, "Golem", card.Name)
	assert.Equal(t, 2, card.Cost)
}

func TestDeckRequests_Validate(t *testing.T) {
	assert.Equal(t, []string{"name", "archetype_id"}, fields((&DeckRequest{}).Validate()))
	assert.Empty(t, (&DeckRequest{Name: "Starter", ArchetypeID: 1}).Validate())
	assert.Equal(t, []string{"name"}, fields((&DeckUpdateRequest{Name: ptr("")}).Validate()))
	assert.Equal(t, []string{"card_id"}, fields((&AddCardToDeckRequest{Quantity: 1}).Validate()))
}

func TestEffectRequest_Validate(t *testing.T) {
	req := EffectRequest{Name: "Soin", ArchetypeID: 1, EffectTypeID: ptr(int64(0))}
	assert.Equal(t, []string{"description", "effect_type_id"}, fields(req.Validate()))
}

func TestTypeRequests_IgnoreIconPath(t *testing.T) {
	body := []byte(`{"name":"Sort","icon_path":"../illustrations/archetype_1/a.png"}`)

	var create TypeRequest
	require.NoError(t, json.Unmarshal(body, &create))
	assert.Empty(t, create.Validate())
	assert.Nil(t, create.Model().IconPath)

	var update TypeUpdateRequest
	require.NoError(t, json.Unmarshal(body, &update))
	cardType := &models.Type{Name: "Old", IconPath: ptr("icon.png")}
	assert.Equal(t, []string{"name"}, update.Apply(cardType))
	assert.Equal(t, "icon.png", *cardType.IconPath)
}

func TestNewTypeResponse(t *testing.T) {
	resp := NewTypeResponse(&models.Type{ID: 1, Name: "Sort"})
	assert.Nil(t, resp.IconURL)

	resp = NewTypeResponse(&models.Type{ID: 1, Name: "Sort", IconPath: ptr("a.png")})
	if assert.NotNil(t, resp.IconURL) {
		assert.Equal(t, "/api/v1/types/icon/a.png", *resp.IconURL)
	}
}

func TestNewIllustrationResponse(t *testing.T) {
	resp := NewIllustrationResponse(&models.Illustration{ID: 7, Filename: "x.png"})
	assert.Equal(t, "/api/v1/illustrations/7/file", resp.URL)
}
