package database

import (
	"context"
	"fmt"

	"github.com/ascendance/cardadmin/ascendance/database/models"
	"github.com/ascendance/cardadmin/ascendance/logger"
	"github.com/uptrace/bun"
)

const seedArchetype = "Universelle"

var (
	seedTypes       = []string{"Personnage", "Sort", "Objet", "Lieu", "Événement"}
	seedFactions    = []string{"Neutre", "Gardiens", "Rebelles", "Marchands"}
	seedEffectTypes = []string{"Buff", "Debuff", "Contrôle", "Dégâts", "Soin", "Utilitaire"}
	seedEffects     = []struct {
		name, description, effectType string
	}{
		{"Pioche de cartes", "Piochez 2 cartes supplémentaires à votre prochain tour", "Utilitaire"},
		{"Dégâts directs", "Inflige 3 points de dégâts à une cible", "Dégâts"},
		{"Bouclier", "Gagne 5 points de résilience temporaire", "Buff"},
	}
	seedBonuses = []string{
		"Bonus de combat : +2 en puissance de combat",
		"Réduction de coût : -1 au coût d'invocation",
		"Résistance : +3 en résilience",
	}
)

// SeedReport counts the rows inserted by Seed
type SeedReport struct {
	Archetypes  int
	Types       int
	Factions    int
	EffectTypes int
	Effects     int
	Bonuses     int
}

func (r SeedReport) Total() int {
	return r.Archetypes + r.Types + r.Factions + r.EffectTypes + r.Effects + r.Bonuses
}

// Seed inserts the starter catalog. Rows are matched by name so running it
// twice leaves the catalog unchanged.
func Seed(ctx context.Context, db *bun.DB) (SeedReport, error) {
	var report SeedReport

	err := db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		archetype := &models.Archetype{Name: seedArchetype}
		created, err := findOrCreate(ctx, tx, archetype, "name = ?", seedArchetype)
		if err != nil {
			return fmt.Errorf("seed archetype: %w", err)
		}
		report.Archetypes += created

		for _, name := range seedTypes {
			created, err := findOrCreate(ctx, tx, &models.Type{Name: name}, "name = ?", name)
			if err != nil {
				return fmt.Errorf("seed type %q: %w", name, err)
			}
			report.Types += created
		}

		for _, name := range seedFactions {
			faction := &models.Faction{Name: name, ArchetypeID: archetype.ID}
			created, err := findOrCreate(ctx, tx, faction, "name = ? AND archetype_id = ?", name, archetype.ID)
			if err != nil {
				return fmt.Errorf("seed faction %q: %w", name, err)
			}
			report.Factions += created
		}

		effectTypes := make(map[string]int64, len(seedEffectTypes))
		for _, name := range seedEffectTypes {
			effectType := &models.EffectType{Name: name}
			created, err := findOrCreate(ctx, tx, effectType, "name = ?", name)
			if err != nil {
				return fmt.Errorf("seed effect type %q: %w", name, err)
			}
			effectTypes[name] = effectType.ID
			report.EffectTypes += created
		}

		for _, e := range seedEffects {
			effectTypeID := effectTypes[e.effectType]
			effect := &models.Effect{
				Name:         e.name,
				Description:  e.description,
				ArchetypeID:  archetype.ID,
				EffectTypeID: &effectTypeID,
			}
			created, err := findOrCreate(ctx, tx, effect, "name = ? AND archetype_id = ?", e.name, archetype.ID)
			if err != nil {
				return fmt.Errorf("seed effect %q: %w", e.name, err)
			}
			report.Effects += created
		}

		for _, description := range seedBonuses {
			bonus := &models.Bonus{Description: description, ArchetypeID: archetype.ID}
			created, err := findOrCreate(ctx, tx, bonus, "description = ? AND archetype_id = ?", description, archetype.ID)
			if err != nil {
				return fmt.Errorf("seed bonus %q: %w", description, err)
			}
			report.Bonuses += created
		}
		return nil
	})
	if err != nil {
		return SeedReport{}, err
	}

	logger.LogSystem("Seed data applied",
		"archetypes", report.Archetypes,
		"types", report.Types,
		"factions", report.Factions,
		"effect_types", report.EffectTypes,
		"effects", report.Effects,
		"bonuses", report.Bonuses)
	return report, nil
}

// findOrCreate loads the row matching where into model, inserting model when
// no row matches. It returns 1 when a row was inserted.
func findOrCreate(ctx context.Context, tx bun.Tx, model interface{}, where string, args ...interface{}) (int, error) {
	exists, err := tx.NewSelect().Model(model).Where(where, args...).Exists(ctx)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, tx.NewSelect().Model(model).Where(where, args...).Limit(1).Scan(ctx)
	}
	if _, err := tx.NewInsert().Model(model).Returning("*").Exec(ctx); err != nil {
		return 0, err
	}
	return 1, nil
}
