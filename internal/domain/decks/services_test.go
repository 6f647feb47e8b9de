package decks

import (
	"context"
	"reflect"
	"testing"

	"github.com/ascendance/cardadmin/ascendance/database/models"
	"github.com/ascendance/cardadmin/internal/domain/decks/mock"
	"github.com/ascendance/cardadmin/internal/domain/errs"
	"go.uber.org/mock/gomock"
)

func repoMock(t *testing.T) *mock.MockRepository {
	return mock.NewMockRepository(gomock.NewController(t))
}

func Test_service_AddCard(t *testing.T) {
	type args struct {
		deckID   int64
		cardID   int64
		quantity int
	}
	tests := []struct {
		name         string
		args         args
		setup        func(repo *mock.MockRepository)
		want         *models.DeckCard
		wantErrCheck func(error) bool
	}{
		{
			name: "Success",
			args: args{deckID: 1, cardID: 1, quantity: 3},
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().GetCard(gomock.Any(), int64(1)).Return(mock.Cards[0], nil)
				repo.EXPECT().UpsertCard(gomock.Any(), int64(1), int64(1), 3).
					Return(&models.DeckCard{DeckID: 1, CardID: 1, Quantity: 3}, nil)
			},
			want: &models.DeckCard{DeckID: 1, CardID: 1, Quantity: 3},
		},
		{
			name: "Quantity below one is rejected before any lookup",
			args: args{deckID: 1, cardID: 1, quantity: 0},
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().GetCard(gomock.Any(), gomock.Any()).Times(0)
				repo.EXPECT().UpsertCard(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantErrCheck: errs.IsInvalidArgument,
		},
		{
			name: "Missing card",
			args: args{deckID: 1, cardID: 99, quantity: 1},
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().GetCard(gomock.Any(), int64(99)).
					Return(nil, &errs.NotFoundError{Entity: "card", ID: int64(99)})
			},
			wantErrCheck: errs.IsNotFound,
		},
		{
			name: "Quantity above max_occurrence leaves the deck untouched",
			args: args{deckID: 1, cardID: 1, quantity: 4},
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().GetCard(gomock.Any(), int64(1)).Return(mock.Cards[0], nil)
				repo.EXPECT().UpsertCard(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantErrCheck: errs.IsLimitExceeded,
		},
		{
			name: "Missing deck",
			args: args{deckID: 42, cardID: 2, quantity: 1},
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().GetCard(gomock.Any(), int64(2)).Return(mock.Cards[1], nil)
				repo.EXPECT().UpsertCard(gomock.Any(), int64(42), int64(2), 1).
					Return(nil, &errs.NotFoundError{Entity: "deck", ID: int64(42)})
			},
			wantErrCheck: errs.IsNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repoMock(t)
			tt.setup(repo)
			s := NewService(repo)

			got, err := s.AddCard(context.Background(), tt.args.deckID, tt.args.cardID, tt.args.quantity)
			if tt.wantErrCheck != nil {
				if !tt.wantErrCheck(err) {
					t.Errorf("service.AddCard() error = %v, unexpected error kind", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("service.AddCard() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("service.AddCard() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_service_AddCard_LimitMessage(t *testing.T) {
	repo := repoMock(t)
	repo.EXPECT().GetCard(gomock.Any(), int64(1)).Return(mock.Cards[0], nil)

	_, err := NewService(repo).AddCard(context.Background(), 1, 1, 4)

	want := "quantity (4) exceeds max_occurrence (3) for card 'Golem'"
	if err == nil || err.Error() != want {
		t.Errorf("service.AddCard() error = %v, want %q", err, want)
	}
}

func Test_service_UpdateQuantity(t *testing.T) {
	tests := []struct {
		name         string
		quantity     int
		setup        func(repo *mock.MockRepository)
		wantErrCheck func(error) bool
	}{
		{
			name:     "Success",
			quantity: 2,
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().GetCard(gomock.Any(), int64(1)).Return(mock.Cards[0], nil)
				repo.EXPECT().UpdateQuantity(gomock.Any(), int64(1), int64(1), 2).
					Return(&models.DeckCard{DeckID: 1, CardID: 1, Quantity: 2}, nil)
			},
		},
		{
			name:     "Pair absent is never created",
			quantity: 1,
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().GetCard(gomock.Any(), int64(1)).Return(mock.Cards[0], nil)
				repo.EXPECT().UpdateQuantity(gomock.Any(), int64(1), int64(1), 1).
					Return(nil, &errs.NotFoundError{Entity: "deck card"})
				repo.EXPECT().UpsertCard(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantErrCheck: errs.IsNotFound,
		},
		{
			name:         "Negative quantity",
			quantity:     -1,
			setup:        func(repo *mock.MockRepository) {},
			wantErrCheck: errs.IsInvalidArgument,
		},
		{
			name:     "Above ceiling",
			quantity: 5,
			setup: func(repo *mock.MockRepository) {
				repo.EXPECT().GetCard(gomock.Any(), int64(1)).Return(mock.Cards[0], nil)
			},
			wantErrCheck: errs.IsLimitExceeded,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repoMock(t)
			tt.setup(repo)

			_, err := NewService(repo).UpdateQuantity(context.Background(), 1, 1, tt.quantity)
			if tt.wantErrCheck != nil {
				if !tt.wantErrCheck(err) {
					t.Errorf("service.UpdateQuantity() error = %v, unexpected error kind", err)
				}
				return
			}
			if err != nil {
				t.Errorf("service.UpdateQuantity() error = %v", err)
			}
		})
	}
}

func Test_service_RemoveCard(t *testing.T) {
	repo := repoMock(t)
	repo.EXPECT().RemoveCard(gomock.Any(), int64(1), int64(1)).Return(nil)
	repo.EXPECT().RemoveCard(gomock.Any(), int64(1), int64(1)).
		Return(&errs.NotFoundError{Entity: "deck card"})

	s := NewService(repo)
	if err := s.RemoveCard(context.Background(), 1, 1); err != nil {
		t.Fatalf("service.RemoveCard() error = %v", err)
	}
	if err := s.RemoveCard(context.Background(), 1, 1); !errs.IsNotFound(err) {
		t.Errorf("service.RemoveCard() second call error = %v, want not found", err)
	}
}

func Test_service_ListCards(t *testing.T) {
	tests := []struct {
		name   string
		stored []*models.DeckCard
		want   []Entry
	}{
		{
			name:   "Empty deck",
			stored: []*models.DeckCard{},
			want:   []Entry{},
		},
		{
			name:   "Two cards",
			stored: mock.DeckCards,
			want: []Entry{
				{Card: mock.Cards[0], Quantity: 2, Count: 2},
				{Card: mock.Cards[1], Quantity: 1, Count: 1},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repoMock(t)
			repo.EXPECT().ListCards(gomock.Any(), int64(1)).Return(tt.stored, nil)

			got, err := NewService(repo).ListCards(context.Background(), 1)
			if err != nil {
				t.Fatalf("service.ListCards() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("service.ListCards() got = %v, want %v", got, tt.want)
			}
		})
	}
}

func Test_service_TotalCount(t *testing.T) {
	repo := repoMock(t)
	repo.EXPECT().TotalCount(gomock.Any(), int64(7)).Return(0, nil)

	got, err := NewService(repo).TotalCount(context.Background(), 7)
	if err != nil {
		t.Fatalf("service.TotalCount() error = %v", err)
	}
	want := &Total{DeckID: 7, TotalCards: 0}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("service.TotalCount() got = %v, want %v", got, want)
	}
}

func Test_service_Validate(t *testing.T) {
	lowered := &models.Card{ID: 3, Name: "Sphinx", MaxOccurrence: 1}

	tests := []struct {
		name   string
		stored []*models.DeckCard
		want   *ValidationReport
	}{
		{
			name:   "Empty deck is valid",
			stored: []*models.DeckCard{},
			want:   &ValidationReport{Valid: true, TotalCards: 0, Errors: []ValidationError{}},
		},
		{
			name:   "Within limits",
			stored: mock.DeckCards,
			want:   &ValidationReport{Valid: true, TotalCards: 3, Errors: []ValidationError{}},
		},
		{
			name: "Ceiling lowered after the card was added",
			stored: []*models.DeckCard{
				{DeckID: 1, CardID: 1, Quantity: 2, Card: mock.Cards[0]},
				{DeckID: 1, CardID: 3, Quantity: 3, Card: lowered},
			},
			want: &ValidationReport{
				Valid:      false,
				TotalCards: 5,
				Errors: []ValidationError{{
					CardID:        3,
					CardName:      "Sphinx",
					Quantity:      3,
					MaxOccurrence: 1,
					Message:       "Card 'Sphinx' has quantity 3 but max_occurrence is 1",
				}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := repoMock(t)
			repo.EXPECT().ListCards(gomock.Any(), int64(1)).Return(tt.stored, nil)
			repo.EXPECT().UpsertCard(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			repo.EXPECT().UpdateQuantity(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			repo.EXPECT().RemoveCard(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

			got, err := NewService(repo).Validate(context.Background(), 1)
			if err != nil {
				t.Fatalf("service.Validate() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("service.Validate() got = %+v, want %+v", got, tt.want)
			}
		})
	}
}
