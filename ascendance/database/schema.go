package database

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/ascendance/cardadmin/ascendance/database/models"
	"github.com/ascendance/cardadmin/ascendance/logger"
	"github.com/uptrace/bun"
)

const schemaVersion = 1 // bump when schema/migrations change

type tableDef struct {
	model       interface{}
	foreignKeys []string
}

const (
	onDeleteCascade  = "ON DELETE CASCADE"
	onDeleteRestrict = "ON DELETE RESTRICT"
	onDeleteSetNull  = "ON DELETE SET NULL"
)

func references(column, table, rule string) string {
	return fmt.Sprintf(`("%s") REFERENCES "%s" ("id") %s`, column, table, rule)
}

// tables lists every application table in creation order. Deleting an
// archetype is restricted while rows still point at it; deleting a card or
// deck cascades to its join rows.
var tables = []tableDef{
	{model: (*models.Archetype)(nil)},
	{model: (*models.Type)(nil)},
	{model: (*models.EffectType)(nil)},
	{
		model:       (*models.Faction)(nil),
		foreignKeys: []string{references("archetype_id", "archetypes", onDeleteRestrict)},
	},
	{
		model: (*models.Effect)(nil),
		foreignKeys: []string{
			references("archetype_id", "archetypes", onDeleteRestrict),
			references("effect_type_id", "effect_types", onDeleteSetNull),
		},
	},
	{
		model:       (*models.Bonus)(nil),
		foreignKeys: []string{references("archetype_id", "archetypes", onDeleteRestrict)},
	},
	{
		model:       (*models.Illustration)(nil),
		foreignKeys: []string{references("archetype_id", "archetypes", onDeleteRestrict)},
	},
	{
		model: (*models.Card)(nil),
		foreignKeys: []string{
			references("archetype_id", "archetypes", onDeleteRestrict),
			references("type_id", "types", onDeleteRestrict),
			references("faction_id", "factions", onDeleteRestrict),
			references("illustration_id", "illustrations", onDeleteSetNull),
		},
	},
	{
		model: (*models.CardEffect)(nil),
		foreignKeys: []string{
			references("card_id", "cards", onDeleteCascade),
			references("effect_id", "effects", onDeleteCascade),
		},
	},
	{
		model: (*models.CardBonus)(nil),
		foreignKeys: []string{
			references("card_id", "cards", onDeleteCascade),
			references("bonus_id", "bonuses", onDeleteCascade),
		},
	},
	{
		model:       (*models.Deck)(nil),
		foreignKeys: []string{references("archetype_id", "archetypes", onDeleteRestrict)},
	},
	{
		model: (*models.DeckCard)(nil),
		foreignKeys: []string{
			references("deck_id", "decks", onDeleteCascade),
			references("card_id", "cards", onDeleteCascade),
		},
	},
}

// AppTables is the set of tables truncated by ResetAppTables, children first.
var AppTables = []string{
	"deck_cards",
	"card_bonuses",
	"card_effects",
	"decks",
	"cards",
	"illustrations",
	"bonuses",
	"effects",
	"factions",
	"effect_types",
	"types",
	"archetypes",
}

// CreateTables creates every application table that does not exist yet.
// It only relies on portable DDL so it also runs against SQLite.
func CreateTables(ctx context.Context, db bun.IDB) error {
	for _, def := range tables {
		query := db.NewCreateTable().
			Model(def.model).
			IfNotExists()
		for _, fk := range def.foreignKeys {
			query = query.ForeignKey(fk)
		}
		if _, err := query.Exec(ctx); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	return nil
}

// InitializeSchema creates all required database tables, constraints and indexes
func (db *DB) InitializeSchema(ctx context.Context) error {
	// Fast init path for development: skip when schema version matches
	if os.Getenv("DB_FAST_INIT") == "1" {
		if err := db.ensureAppMeta(ctx); err == nil {
			if v, _ := db.getAppMeta(ctx, "schema_version"); v == strconv.Itoa(schemaVersion) {
				logger.LogSystem("Fast DB init: schema up-to-date, skipping initialization",
					"mode", "DB_FAST_INIT",
					"schema_version", schemaVersion)
				return nil
			}
		}
	}

	if err := db.checkServerEncoding(ctx); err != nil {
		return err
	}

	if err := CreateTables(ctx, db.bunDB); err != nil {
		return err
	}

	if err := db.MigrateSchema(ctx); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	indexes := []string{
		"CREATE INDEX IF NOT EXISTS idx_factions_archetype_id ON factions(archetype_id);",
		"CREATE INDEX IF NOT EXISTS idx_effects_archetype_id ON effects(archetype_id);",
		"CREATE INDEX IF NOT EXISTS idx_bonuses_archetype_id ON bonuses(archetype_id);",
		"CREATE INDEX IF NOT EXISTS idx_illustrations_archetype_id ON illustrations(archetype_id);",
		"CREATE INDEX IF NOT EXISTS idx_cards_archetype_id ON cards(archetype_id);",
		"CREATE INDEX IF NOT EXISTS idx_cards_name ON cards(name);",
		"CREATE INDEX IF NOT EXISTS idx_card_effects_effect_id ON card_effects(effect_id);",
		"CREATE INDEX IF NOT EXISTS idx_card_bonuses_bonus_id ON card_bonuses(bonus_id);",
		"CREATE INDEX IF NOT EXISTS idx_decks_archetype_id ON decks(archetype_id);",
		"CREATE INDEX IF NOT EXISTS idx_deck_cards_card_id ON deck_cards(card_id);",
	}
	for _, idx := range indexes {
		if _, err := db.ExecWithLog(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}

	if err := db.ensureAppMeta(ctx); err != nil {
		return fmt.Errorf("failed to create app_meta: %w", err)
	}
	if err := db.setAppMeta(ctx, "schema_version", strconv.Itoa(schemaVersion)); err != nil {
		return fmt.Errorf("failed to record schema version: %w", err)
	}

	logger.LogSystem("Database schema initialized", "schema_version", schemaVersion)
	return nil
}

// MigrateSchema applies CHECK constraints that bun cannot declare through struct tags
func (db *DB) MigrateSchema(ctx context.Context) error {
	checks := []struct {
		table, name, expr string
	}{
		{"deck_cards", "deck_cards_quantity_positive", "quantity > 0"},
		{"cards", "cards_cost_non_negative", "cost >= 0"},
		{"cards", "cards_combat_power_non_negative", "combat_power >= 0"},
		{"cards", "cards_resilience_non_negative", "resilience >= 0"},
		{"cards", "cards_max_occurrence_positive", "max_occurrence >= 1"},
	}

	for _, c := range checks {
		stmt := fmt.Sprintf(`
		DO $$
		BEGIN
			IF NOT EXISTS (
				SELECT 1 FROM pg_constraint WHERE conname = '%s'
			) THEN
				ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s);
			END IF;
		END $$;`, c.name, c.table, c.name, c.expr)

		if _, err := db.ExecWithLog(ctx, stmt); err != nil {
			return fmt.Errorf("failed to add constraint %s: %w", c.name, err)
		}
	}
	return nil
}
