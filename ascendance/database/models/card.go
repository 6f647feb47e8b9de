package models

import "github.com/uptrace/bun"

type Card struct {
	bun.BaseModel `bun:"table:cards,alias:c"`

	ID             int64   `bun:"id,pk,autoincrement" json:"id"`
	Name           string  `bun:"name,notnull" json:"name"`
	ArchetypeID    int64   `bun:"archetype_id,notnull" json:"archetype_id"`
	TypeID         int64   `bun:"type_id,notnull" json:"type_id"`
	FactionID      int64   `bun:"faction_id,notnull" json:"faction_id"`
	IllustrationID *int64  `bun:"illustration_id" json:"illustration_id"`
	Cost           int     `bun:"cost,notnull,default:0" json:"cost"`
	CombatPower    int     `bun:"combat_power,notnull,default:0" json:"combat_power"`
	Resilience     int     `bun:"resilience,notnull,default:0" json:"resilience"`
	MaxOccurrence  int     `bun:"max_occurrence,notnull,default:1" json:"max_occurrence"`
	Description    *string `bun:"description" json:"description"`
	Timestamps

	// Relations
	Type         *Type         `bun:"rel:belongs-to,join:type_id=id" json:"type,omitempty"`
	Archetype    *Archetype    `bun:"rel:belongs-to,join:archetype_id=id" json:"archetype,omitempty"`
	Faction      *Faction      `bun:"rel:belongs-to,join:faction_id=id" json:"faction,omitempty"`
	Illustration *Illustration `bun:"rel:belongs-to,join:illustration_id=id" json:"illustration,omitempty"`
	Effects      []*Effect     `bun:"m2m:card_effects,join:Card=Effect" json:"effects,omitempty"`
	Bonuses      []*Bonus      `bun:"m2m:card_bonuses,join:Card=Bonus" json:"bonuses,omitempty"`
}

func (m *Card) GetID() int64 { return m.ID }

type CardEffect struct {
	bun.BaseModel `bun:"table:card_effects,alias:ce"`

	CardID   int64 `bun:"card_id,pk" json:"card_id"`
	EffectID int64 `bun:"effect_id,pk" json:"effect_id"`
	Timestamps

	// Relations
	Card   *Card   `bun:"rel:belongs-to,join:card_id=id" json:"-"`
	Effect *Effect `bun:"rel:belongs-to,join:effect_id=id" json:"-"`
}

type CardBonus struct {
	bun.BaseModel `bun:"table:card_bonuses,alias:cb"`

	CardID  int64 `bun:"card_id,pk" json:"card_id"`
	BonusID int64 `bun:"bonus_id,pk" json:"bonus_id"`
	Timestamps

	// Relations
	Card  *Card  `bun:"rel:belongs-to,join:card_id=id" json:"-"`
	Bonus *Bonus `bun:"rel:belongs-to,join:bonus_id=id" json:"-"`
}
