package models

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/ascendance/cardadmin/ascendance/config"
	"github.com/ascendance/cardadmin/ascendance/database/models"
	"github.com/ascendance/cardadmin/internal/domain/decks"
)

// ValidationError represents a single field rule violation
type ValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// CreateRequest builds a new row of T from a decoded request body
type CreateRequest[T any] interface {
	Validate() []ValidationError
	Model() *T
}

// UpdateRequest applies a partial update to an existing row of T and
// returns the columns it touched.
type UpdateRequest[T any] interface {
	Validate() []ValidationError
	Apply(model *T) []string
}

// =============================================================================
// FIELD RULES
// =============================================================================

type validator struct {
	errors []ValidationError
}

func (v *validator) add(field, format string, args ...interface{}) {
	v.errors = append(v.errors, ValidationError{Field: field, Description: fmt.Sprintf(format, args...)})
}

func (v *validator) name(field, value string) {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	switch {
	case n == 0:
		v.add(field, "%s is required", field)
	case utf8.RuneCountInString(value) > config.MaxNameLength:
		v.add(field, "%s must be at most %d characters", field, config.MaxNameLength)
	}
}

func (v *validator) optionalName(field string, value *string) {
	if value != nil {
		v.name(field, *value)
	}
}

func (v *validator) text(field, value string) {
	if strings.TrimSpace(value) == "" {
		v.add(field, "%s is required", field)
	}
}

func (v *validator) id(field string, value int64) {
	if value <= 0 {
		v.add(field, "%s must be a positive id", field)
	}
}

func (v *validator) optionalID(field string, value *int64) {
	if value != nil {
		v.id(field, *value)
	}
}

func (v *validator) ids(field string, values []int64) {
	for _, id := range values {
		if id <= 0 {
			v.add(field, "%s must only contain positive ids", field)
			return
		}
	}
}

func (v *validator) nonNegative(field string, value *int) {
	if value != nil && *value < 0 {
		v.add(field, "%s must be greater than or equal to 0", field)
	}
}

func (v *validator) maxOccurrence(value *int) {
	if value != nil && *value < config.MinMaxOccurrence {
		v.add("max_occurrence", "max_occurrence must be at least %d", config.MinMaxOccurrence)
	}
}

func intOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// =============================================================================
// CATALOG REQUESTS
// =============================================================================

type ArchetypeRequest struct {
	Name string `json:"name"`
}

func (r *ArchetypeRequest) Validate() []ValidationError {
	var v validator
	v.name("name", r.Name)
	return v.errors
}

func (r *ArchetypeRequest) Model() *models.Archetype {
	return &models.Archetype{Name: strings.TrimSpace(r.Name)}
}

type ArchetypeUpdateRequest struct {
	Name *string `json:"name"`
}

func (r *ArchetypeUpdateRequest) Validate() []ValidationError {
	var v validator
	v.optionalName("name", r.Name)
	return v.errors
}

func (r *ArchetypeUpdateRequest) Apply(m *models.Archetype) []string {
	var columns []string
	if r.Name != nil {
		m.Name = strings.TrimSpace(*r.Name)
		columns = append(columns, "name")
	}
	return columns
}

// TypeRequest carries no icon; icons are set through the icon upload route
type TypeRequest struct {
	Name string `json:"name"`
}

func (r *TypeRequest) Validate() []ValidationError {
	var v validator
	v.name("name", r.Name)
	return v.errors
}

func (r *TypeRequest) Model() *models.Type {
	return &models.Type{Name: strings.TrimSpace(r.Name)}
}

type TypeUpdateRequest struct {
	Name *string `json:"name"`
}

func (r *TypeUpdateRequest) Validate() []ValidationError {
	var v validator
	v.optionalName("name", r.Name)
	return v.errors
}

func (r *TypeUpdateRequest) Apply(m *models.Type) []string {
	var columns []string
	if r.Name != nil {
		m.Name = strings.TrimSpace(*r.Name)
		columns = append(columns, "name")
	}
	return columns
}

type FactionRequest struct {
	Name        string `json:"name"`
	ArchetypeID int64  `json:"archetype_id"`
}

func (r *FactionRequest) Validate() []ValidationError {
	var v validator
	v.name("name", r.Name)
	v.id("archetype_id", r.ArchetypeID)
	return v.errors
}

func (r *FactionRequest) Model() *models.Faction {
	return &models.Faction{Name: strings.TrimSpace(r.Name), ArchetypeID: r.ArchetypeID}
}

type FactionUpdateRequest struct {
	Name        *string `json:"name"`
	ArchetypeID *int64  `json:"archetype_id"`
}

func (r *FactionUpdateRequest) Validate() []ValidationError {
	var v validator
	v.optionalName("name", r.Name)
	v.optionalID("archetype_id", r.ArchetypeID)
	return v.errors
}

func (r *FactionUpdateRequest) Apply(m *models.Faction) []string {
	var columns []string
	if r.Name != nil {
		m.Name = strings.TrimSpace(*r.Name)
		columns = append(columns, "name")
	}
	if r.ArchetypeID != nil {
		m.ArchetypeID = *r.ArchetypeID
		columns = append(columns, "archetype_id")
	}
	return columns
}

type EffectTypeRequest struct {
	Name string `json:"name"`
}

func (r *EffectTypeRequest) Validate() []ValidationError {
	var v validator
	v.name("name", r.Name)
	return v.errors
}

func (r *EffectTypeRequest) Model() *models.EffectType {
	return &models.EffectType{Name: strings.TrimSpace(r.Name)}
}

type EffectTypeUpdateRequest struct {
	Name *string `json:"name"`
}

func (r *EffectTypeUpdateRequest) Validate() []ValidationError {
	var v validator
	v.optionalName("name", r.Name)
	return v.errors
}

func (r *EffectTypeUpdateRequest) Apply(m *models.EffectType) []string {
	if r.Name == nil {
		return nil
	}
	m.Name = strings.TrimSpace(*r.Name)
	return []string{"name"}
}

type EffectRequest struct {
	Name         string `json:"name"`
	Description  string `json:"description"`
	ArchetypeID  int64  `json:"archetype_id"`
	EffectTypeID *int64 `json:"effect_type_id"`
}

func (r *EffectRequest) Validate() []ValidationError {
	var v validator
	v.name("name", r.Name)
	v.text("description", r.Description)
	v.id("archetype_id", r.ArchetypeID)
	v.optionalID("effect_type_id", r.EffectTypeID)
	return v.errors
}

func (r *EffectRequest) Model() *models.Effect {
	return &models.Effect{
		Name:         strings.TrimSpace(r.Name),
		Description:  r.Description,
		ArchetypeID:  r.ArchetypeID,
		EffectTypeID: r.EffectTypeID,
	}
}

type EffectUpdateRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	ArchetypeID  *int64  `json:"archetype_id"`
	EffectTypeID *int64  `json:"effect_type_id"`
}

func (r *EffectUpdateRequest) Validate() []ValidationError {
	var v validator
	v.optionalName("name", r.Name)
	if r.Description != nil {
		v.text("description", *r.Description)
	}
	v.optionalID("archetype_id", r.ArchetypeID)
	v.optionalID("effect_type_id", r.EffectTypeID)
	return v.errors
}

func (r *EffectUpdateRequest) Apply(m *models.Effect) []string {
	var columns []string
	if r.Name != nil {
		m.Name = strings.TrimSpace(*r.Name)
		columns = append(columns, "name")
	}
	if r.Description != nil {
		m.Description = *r.Description
		columns = append(columns, "description")
	}
	if r.ArchetypeID != nil {
		m.ArchetypeID = *r.ArchetypeID
		columns = append(columns, "archetype_id")
	}
	if r.EffectTypeID != nil {
		m.EffectTypeID = r.EffectTypeID
		columns = append(columns, "effect_type_id")
	}
	return columns
}

type BonusRequest struct {
	Description string `json:"description"`
	ArchetypeID int64  `json:"archetype_id"`
}

func (r *BonusRequest) Validate() []ValidationError {
	var v validator
	v.text("description", r.Description)
	v.id("archetype_id", r.ArchetypeID)
	return v.errors
}

func (r *BonusRequest) Model() *models.Bonus {
	return &models.Bonus{Description: r.Description, ArchetypeID: r.ArchetypeID}
}

type BonusUpdateRequest struct {
	Description *string `json:"description"`
	ArchetypeID *int64  `json:"archetype_id"`
}

func (r *BonusUpdateRequest) Validate() []ValidationError {
	var v validator
	if r.Description != nil {
		v.text("description", *r.Description)
	}
	v.optionalID("archetype_id", r.ArchetypeID)
	return v.errors
}

func (r *BonusUpdateRequest) Apply(m *models.Bonus) []string {
	var columns []string
	if r.Description != nil {
		m.Description = *r.Description
		columns = append(columns, "description")
	}
	if r.ArchetypeID != nil {
		m.ArchetypeID = *r.ArchetypeID
		columns = append(columns, "archetype_id")
	}
	return columns
}

// =============================================================================
// CARD REQUESTS
// =============================================================================

// CardCreateRequest creates a card and links it to effects and bonuses
type CardCreateRequest struct {
	Name           string  `json:"name"`
	ArchetypeID    int64   `json:"archetype_id"`
	TypeID         int64   `json:"type_id"`
	FactionID      int64   `json:"faction_id"`
	IllustrationID *int64  `json:"illustration_id"`
	Cost           *int    `json:"cost"`
	CombatPower    *int    `json:"combat_power"`
	Resilience     *int    `json:"resilience"`
	MaxOccurrence  *int    `json:"max_occurrence"`
	Description    *string `json:"description"`
	EffectIDs      []int64 `json:"effect_ids"`
	BonusIDs       []int64 `json:"bonus_ids"`
}

func (r *CardCreateRequest) Validate() []ValidationError {
	var v validator
	v.name("name", r.Name)
	v.id("archetype_id", r.ArchetypeID)
	v.id("type_id", r.TypeID)
	v.id("faction_id", r.FactionID)
	v.optionalID("illustration_id", r.IllustrationID)
	v.nonNegative("cost", r.Cost)
	v.nonNegative("combat_power", r.CombatPower)
	v.nonNegative("resilience", r.Resilience)
	v.maxOccurrence(r.MaxOccurrence)
	v.ids("effect_ids", r.EffectIDs)
	v.ids("bonus_ids", r.BonusIDs)
	return v.errors
}

func (r *CardCreateRequest) Model() *models.Card {
	maxOccurrence := config.DefaultMaxOccurrence
	if r.MaxOccurrence != nil {
		maxOccurrence = *r.MaxOccurrence
	}
	return &models.Card{
		Name:           strings.TrimSpace(r.Name),
		ArchetypeID:    r.ArchetypeID,
		TypeID:         r.TypeID,
		FactionID:      r.FactionID,
		IllustrationID: r.IllustrationID,
		Cost:           intOrZero(r.Cost),
		CombatPower:    intOrZero(r.CombatPower),
		Resilience:     intOrZero(r.Resilience),
		MaxOccurrence:  maxOccurrence,
		Description:    r.Description,
	}
}

// CardUpdateRequest is a partial card update. Lowering max_occurrence never
// touches decks already holding the card.
type CardUpdateRequest struct {
	Name           *string `json:"name"`
	ArchetypeID    *int64  `json:"archetype_id"`
	TypeID         *int64  `json:"type_id"`
	FactionID      *int64  `json:"faction_id"`
	IllustrationID *int64  `json:"illustration_id"`
	Cost           *int    `json:"cost"`
	CombatPower    *int    `json:"combat_power"`
	Resilience     *int    `json:"resilience"`
	MaxOccurrence  *int    `json:"max_occurrence"`
	Description    *string `json:"description"`
}

func (r *CardUpdateRequest) Validate() []ValidationError {
	var v validator
	v.optionalName("name", r.Name)
	v.optionalID("archetype_id", r.ArchetypeID)
	v.optionalID("type_id", r.TypeID)
	v.optionalID("faction_id", r.FactionID)
	v.optionalID("illustration_id", r.IllustrationID)
	v.nonNegative("cost", r.Cost)
	v.nonNegative("combat_power", r.CombatPower)
	v.nonNegative("resilience", r.Resilience)
	v.maxOccurrence(r.MaxOccurrence)
	return v.errors
}

func (r *CardUpdateRequest) Apply(m *models.Card) []string {
	var columns []string
	if r.Name != nil {
		m.Name = strings.TrimSpace(*r.Name)
		columns = append(columns, "name")
	}
	if r.ArchetypeID != nil {
		m.ArchetypeID = *r.ArchetypeID
		columns = append(columns, "archetype_id")
	}
	if r.TypeID != nil {
		m.TypeID = *r.TypeID
		columns = append(columns, "type_id")
	}
	if r.FactionID != nil {
		m.FactionID = *r.FactionID
		columns = append(columns, "faction_id")
	}
	if r.IllustrationID != nil {
		m.IllustrationID = r.IllustrationID
		columns = append(columns, "illustration_id")
	}
	if r.Cost != nil {
		m.Cost = *r.Cost
		columns = append(columns, "cost")
	}
	if r.CombatPower != nil {
		m.CombatPower = *r.CombatPower
		columns = append(columns, "combat_power")
	}
	if r.Resilience != nil {
		m.Resilience = *r.Resilience
		columns = append(columns, "resilience")
	}
	if r.MaxOccurrence != nil {
		m.MaxOccurrence = *r.MaxOccurrence
		columns = append(columns, "max_occurrence")
	}
	if r.Description != nil {
		m.Description = r.Description
		columns = append(columns, "description")
	}
	return columns
}

type CardEffectRequest struct {
	EffectID int64 `json:"effect_id"`
}

type CardBonusRequest struct {
	BonusID int64 `json:"bonus_id"`
}

// CardDetail is a card with its effects and bonuses loaded
type CardDetail struct {
	*models.Card
	Effects []*models.Effect `json:"effects"`
	Bonuses []*models.Bonus  `json:"bonuses"`
}

// =============================================================================
// DECK REQUESTS
// =============================================================================

type DeckRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	ArchetypeID int64   `json:"archetype_id"`
}

func (r *DeckRequest) Validate() []ValidationError {
	var v validator
	v.name("name", r.Name)
	v.id("archetype_id", r.ArchetypeID)
	return v.errors
}

func (r *DeckRequest) Model() *models.Deck {
	return &models.Deck{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		ArchetypeID: r.ArchetypeID,
	}
}

type DeckUpdateRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	ArchetypeID *int64  `json:"archetype_id"`
}

func (r *DeckUpdateRequest) Validate() []ValidationError {
	var v validator
	v.optionalName("name", r.Name)
	v.optionalID("archetype_id", r.ArchetypeID)
	return v.errors
}

func (r *DeckUpdateRequest) Apply(m *models.Deck) []string {
	var columns []string
	if r.Name != nil {
		m.Name = strings.TrimSpace(*r.Name)
		columns = append(columns, "name")
	}
	if r.Description != nil {
		m.Description = r.Description
		columns = append(columns, "description")
	}
	if r.ArchetypeID != nil {
		m.ArchetypeID = *r.ArchetypeID
		columns = append(columns, "archetype_id")
	}
	return columns
}

// AddCardToDeckRequest adds a card to a deck or replaces its quantity.
// Quantity rules are checked by the deck service.
type AddCardToDeckRequest struct {
	CardID   int64 `json:"card_id"`
	Quantity int   `json:"quantity"`
}

func (r *AddCardToDeckRequest) Validate() []ValidationError {
	var v validator
	v.id("card_id", r.CardID)
	return v.errors
}

type UpdateCardQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// DeckDetail is a deck with its cards loaded
type DeckDetail struct {
	*models.Deck
	Cards []decks.Entry `json:"cards"`
}

// QuantityResponse reports how many copies of a card a deck holds
type QuantityResponse struct {
	DeckID   int64 `json:"deck_id"`
	CardID   int64 `json:"card_id"`
	Quantity int   `json:"quantity"`
}

// =============================================================================
// ASSETS
// =============================================================================

// IllustrationResponse is an illustration row with the URL serving its file
type IllustrationResponse struct {
	*models.Illustration
	URL string `json:"url"`
}

func NewIllustrationResponse(il *models.Illustration) *IllustrationResponse {
	return &IllustrationResponse{
		Illustration: il,
		URL:          fmt.Sprintf(config.IllustrationFileURL, il.ID),
	}
}

func NewIllustrationResponses(items []*models.Illustration) []*IllustrationResponse {
	out := make([]*IllustrationResponse, 0, len(items))
	for _, il := range items {
		out = append(out, NewIllustrationResponse(il))
	}
	return out
}

// TypeResponse is a type row with the URL serving its icon, if any
type TypeResponse struct {
	*models.Type
	IconURL *string `json:"icon_url"`
}

func NewTypeResponse(t *models.Type) *TypeResponse {
	resp := &TypeResponse{Type: t}
	if t.IconPath != nil && *t.IconPath != "" {
		url := fmt.Sprintf(config.TypeIconURL, *t.IconPath)
		resp.IconURL = &url
	}
	return resp
}
