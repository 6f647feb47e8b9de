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

func TestCrudRepository_Lifecycle(t *testing.T) {
	db := testdb.New(t)
	repo := NewCrudRepository[models.Archetype](db, "archetype")
	ctx := context.Background()

	archetype := &models.Archetype{Name: "Mécanique"}
	require.NoError(t, repo.Create(ctx, archetype))
	assert.NotZero(t, archetype.ID)
	assert.False(t, archetype.CreatedAt.IsZero())

	got, err := repo.GetByID(ctx, archetype.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mécanique", got.Name)

	got.Name = "Arcane"
	require.NoError(t, repo.Update(ctx, got))
	assert.Equal(t, "Arcane", got.Name)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	deleted, err := repo.Delete(ctx, archetype.ID)
	require.NoError(t, err)
	assert.Equal(t, "Arcane", deleted.Name)

	_, err = repo.GetByID(ctx, archetype.ID)
	assert.True(t, errs.IsNotFound(err), "got %v", err)

	_, err = repo.Delete(ctx, archetype.ID)
	assert.True(t, errs.IsNotFound(err), "got %v", err)

	err = repo.Update(ctx, &models.Archetype{ID: archetype.ID, Name: "ghost"})
	assert.True(t, errs.IsNotFound(err), "got %v", err)
}

func TestCrudRepository_Constraints(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	archetypes := NewCrudRepository[models.Archetype](db, "archetype")
	factions := NewCrudRepository[models.Faction](db, "faction")
	effectTypes := NewCrudRepository[models.EffectType](db, "effect type")

	err := factions.Create(ctx, &models.Faction{Name: "Orphelins", ArchetypeID: 404})
	assert.True(t, errs.IsNotFound(err), "missing archetype: got %v", err)

	archetype := &models.Archetype{Name: "Universelle"}
	require.NoError(t, archetypes.Create(ctx, archetype))
	require.NoError(t, factions.Create(ctx, &models.Faction{Name: "Neutre", ArchetypeID: archetype.ID}))

	_, err = archetypes.Delete(ctx, archetype.ID)
	assert.True(t, errs.IsConflict(err), "restricted delete: got %v", err)

	require.NoError(t, effectTypes.Create(ctx, &models.EffectType{Name: "Buff"}))
	err = effectTypes.Create(ctx, &models.EffectType{Name: "Buff"})
	assert.True(t, errs.IsConflict(err), "duplicate name: got %v", err)
}

func TestCrudRepository_ListByArchetype(t *testing.T) {
	db := testdb.New(t)
	ctx := context.Background()
	archetypes := NewCrudRepository[models.Archetype](db, "archetype")
	bonuses := NewCrudRepository[models.Bonus](db, "bonus")

	first := &models.Archetype{Name: "Universelle"}
	second := &models.Archetype{Name: "Arcane"}
	require.NoError(t, archetypes.Create(ctx, first))
	require.NoError(t, archetypes.Create(ctx, second))

	require.NoError(t, bonuses.Create(ctx, &models.Bonus{Description: "Résistance : +3 en résilience", ArchetypeID: first.ID}))
	require.NoError(t, bonuses.Create(ctx, &models.Bonus{Description: "Bonus de combat", ArchetypeID: second.ID}))

	list, err := bonuses.List(ctx, WhereArchetype(second.ID))
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Bonus de combat", list[0].Description)
}
