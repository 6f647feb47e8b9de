package repositories

import (
	"context"
	"testing"

	"github.com/ascendance/cardadmin/ascendance/database/models"
	"github.com/ascendance/cardadmin/ascendance/database/testdb"
	"github.com/ascendance/cardadmin/internal/domain/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardRepository_Associations(t *testing.T) {
	db := testdb.New(t)
	f := newCatalogFixture(t, db)
	repo := NewCardRepository(db)
	ctx := context.Background()

	effect := &models.Effect{Name: "Bouclier", Description: "Gagne 5 points de résilience temporaire", ArchetypeID: f.archetype.ID}
	require.NoError(t, NewCrudRepository[models.Effect](db, "effect").Create(ctx, effect))
	bonus := &models.Bonus{Description: "Résistance : +3 en résilience", ArchetypeID: f.archetype.ID}
	require.NoError(t, NewCrudRepository[models.Bonus](db, "bonus").Create(ctx, bonus))

	card := &models.Card{
		Name:          "Paladin",
		ArchetypeID:   f.archetype.ID,
		TypeID:        f.golem.TypeID,
		FactionID:     f.golem.FactionID,
		MaxOccurrence: 2,
	}
	require.NoError(t, repo.CreateWithAssociations(ctx, card, []int64{effect.ID}, []int64{bonus.ID}, nil))

	effects, err := repo.ListEffects(ctx, card.ID)
	require.NoError(t, err)
	require.Len(t, effects, 1)
	assert.Equal(t, "Bouclier", effects[0].Name)

	// linking twice is accepted
	require.NoError(t, repo.AddEffect(ctx, card.ID, effect.ID))
	effects, err = repo.ListEffects(ctx, card.ID)
	require.NoError(t, err)
	assert.Len(t, effects, 1)

	require.NoError(t, repo.RemoveBonus(ctx, card.ID, bonus.ID))
	err = repo.RemoveBonus(ctx, card.ID, bonus.ID)
	assert.True(t, errs.IsNotFound(err), "got %v", err)

	err = repo.AddBonus(ctx, card.ID, 999)
	assert.True(t, errs.IsNotFound(err), "got %v", err)

	_, err = repo.ListBonuses(ctx, 999)
	assert.True(t, errs.IsNotFound(err), "got %v", err)
}

func TestCardRepository_CreateRollsBackOnMissingEffect(t *testing.T) {
	db := testdb.New(t)
	f := newCatalogFixture(t, db)
	repo := NewCardRepository(db)
	ctx := context.Background()

	card := &models.Card{
		Name:          "Fantôme",
		ArchetypeID:   f.archetype.ID,
		TypeID:        f.golem.TypeID,
		FactionID:     f.golem.FactionID,
		MaxOccurrence: 1,
	}
	err := repo.CreateWithAssociations(ctx, card, []int64{12345}, nil, nil)
	assert.True(t, errs.IsNotFound(err), "got %v", err)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
