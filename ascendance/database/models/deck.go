package models

import "github.com/uptrace/bun"

type Deck struct {
	bun.BaseModel `bun:"table:decks,alias:d"`

	ID          int64   `bun:"id,pk,autoincrement" json:"id"`
	Name        string  `bun:"name,notnull" json:"name"`
	Description *string `bun:"description" json:"description"`
	ArchetypeID int64   `bun:"archetype_id,notnull" json:"archetype_id"`
	Timestamps

	// Relations
	Cards []*DeckCard `bun:"rel:has-many,join:id=deck_id" json:"cards,omitempty"`
}

func (m *Deck) GetID() int64 { return m.ID }

// DeckCard stores how many copies of a card a deck holds. Quantity is
// always positive; the max_occurrence ceiling is checked by the deck service.
type DeckCard struct {
	bun.BaseModel `bun:"table:deck_cards,alias:dc"`

	DeckID   int64 `bun:"deck_id,pk" json:"deck_id"`
	CardID   int64 `bun:"card_id,pk" json:"card_id"`
	Quantity int   `bun:"quantity,notnull" json:"quantity"`
	Timestamps

	// Relations
	Card *Card `bun:"rel:belongs-to,join:card_id=id" json:"card,omitempty"`
}
