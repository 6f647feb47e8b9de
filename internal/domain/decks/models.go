package decks

import "github.com/ascendance/cardadmin/ascendance/database/models"

// Entry is one card of a deck with its denormalized attributes
type Entry struct {
	Card     *models.Card `json:"card"`
	Quantity int          `json:"quantity"`
	Count    int          `json:"count"`
}

// Total is the sum of quantities of a deck
type Total struct {
	DeckID     int64 `json:"deck_id"`
	TotalCards int   `json:"total_cards"`
}

// ValidationError describes a card held above its max_occurrence
type ValidationError struct {
	CardID        int64  `json:"card_id"`
	CardName      string `json:"card_name"`
	Quantity      int    `json:"quantity"`
	MaxOccurrence int    `json:"max_occurrence"`
	Message       string `json:"message"`
}

// ValidationReport is recomputed from the current deck contents on every call
type ValidationReport struct {
	Valid      bool              `json:"valid"`
	TotalCards int               `json:"total_cards"`
	Errors     []ValidationError `json:"errors"`
}
