package models

import "github.com/uptrace/bun"

type Archetype struct {
	bun.BaseModel `bun:"table:archetypes,alias:a"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull" json:"name"`
	Timestamps
}

func (m *Archetype) GetID() int64 { return m.ID }

type Type struct {
	bun.BaseModel `bun:"table:types,alias:t"`

	ID       int64   `bun:"id,pk,autoincrement" json:"id"`
	Name     string  `bun:"name,notnull" json:"name"`
	IconPath *string `bun:"icon_path" json:"icon_path"`
	Timestamps
}

func (m *Type) GetID() int64 { return m.ID }

type Faction struct {
	bun.BaseModel `bun:"table:factions,alias:f"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	Name        string `bun:"name,notnull" json:"name"`
	ArchetypeID int64  `bun:"archetype_id,notnull" json:"archetype_id"`
	Timestamps

	// Relations
	Archetype *Archetype `bun:"rel:belongs-to,join:archetype_id=id" json:"archetype,omitempty"`
}

func (m *Faction) GetID() int64 { return m.ID }

type EffectType struct {
	bun.BaseModel `bun:"table:effect_types,alias:et"`

	ID   int64  `bun:"id,pk,autoincrement" json:"id"`
	Name string `bun:"name,notnull,unique" json:"name"`
	Timestamps
}

func (m *EffectType) GetID() int64 { return m.ID }

type Effect struct {
	bun.BaseModel `bun:"table:effects,alias:e"`

	ID           int64  `bun:"id,pk,autoincrement" json:"id"`
	Name         string `bun:"name,notnull" json:"name"`
	Description  string `bun:"description,notnull" json:"description"`
	ArchetypeID  int64  `bun:"archetype_id,notnull" json:"archetype_id"`
	EffectTypeID *int64 `bun:"effect_type_id" json:"effect_type_id"`
	Timestamps

	// Relations
	EffectType *EffectType `bun:"rel:belongs-to,join:effect_type_id=id" json:"effect_type,omitempty"`
}

func (m *Effect) GetID() int64 { return m.ID }

type Bonus struct {
	bun.BaseModel `bun:"table:bonuses,alias:b"`

	ID          int64  `bun:"id,pk,autoincrement" json:"id"`
	Description string `bun:"description,notnull" json:"description"`
	ArchetypeID int64  `bun:"archetype_id,notnull" json:"archetype_id"`
	Timestamps
}

func (m *Bonus) GetID() int64 { return m.ID }

type Illustration struct {
	bun.BaseModel `bun:"table:illustrations,alias:il"`

	ID           int64   `bun:"id,pk,autoincrement" json:"id"`
	Filename     string  `bun:"filename,notnull,unique" json:"filename"`
	OriginalName *string `bun:"original_name" json:"original_name"`
	ArchetypeID  int64   `bun:"archetype_id,notnull" json:"archetype_id"`
	Timestamps
}

func (m *Illustration) GetID() int64 { return m.ID }
