package mock

import "github.com/ascendance/cardadmin/ascendance/database/models"

var Cards = []*models.Card{
	{ID: 1, Name: "Golem", ArchetypeID: 1, TypeID: 1, FactionID: 1, MaxOccurrence: 3},
	{ID: 2, Name: "Dragon", ArchetypeID: 1, TypeID: 1, FactionID: 1, MaxOccurrence: 1},
}

var DeckCards = []*models.DeckCard{
	{DeckID: 1, CardID: 1, Quantity: 2, Card: Cards[0]},
	{DeckID: 1, CardID: 2, Quantity: 1, Card: Cards[1]},
}
