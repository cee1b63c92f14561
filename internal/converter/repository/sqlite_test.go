package repository

import (
	"context"
	"path/filepath"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/golang/geo/r2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorplan/internal/converter/models"
)

func newRepo(t *testing.T) *Repository {
	t.Helper()

	db, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "plans.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := New(db)
	require.NoError(t, repo.Init(context.Background()))
	return repo
}

func sampleResult() *models.Result {
	return &models.Result{
		Plan: models.Plan{
			Scale: 200,
			Walls: []models.Segment{{
				Category: models.CategoryWall,
				ID:       "w1",
				A:        r2.Point{X: -400, Y: 0},
				B:        r2.Point{X: 0, Y: 0},
				Length:   2,
			}},
			Rooms: []models.Room{{Label: "Kitchen", Placed: true, Area: models.KnownArea(12, nil)}},
		},
		Statistics: models.Statistics{
			Walls:     1,
			Rooms:     1,
			RoomNames: []string{"Kitchen"},
			Perimeter: 2,
		},
	}
}

func TestRepository_SaveAndGet(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	result := sampleResult()
	id, err := repo.Save(ctx, result)
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, result.ID)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	require.Len(t, got.Plan.Walls, 1)
	assert.Equal(t, models.CategoryWall, got.Plan.Walls[0].Category)
	assert.Equal(t, r2.Point{X: -400, Y: 0}, got.Plan.Walls[0].A)
	assert.Equal(t, result.Statistics, got.Statistics)

	m2, ok := got.Plan.Rooms[0].Area.Value()
	assert.True(t, ok)
	assert.Equal(t, 12.0, m2)
}

func TestRepository_GetMissing(t *testing.T) {
	repo := newRepo(t)
	_, err := repo.GetByID(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRepository_List(t *testing.T) {
	repo := newRepo(t)
	ctx := context.Background()

	empty, err := repo.List(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)

	first, err := repo.Save(ctx, sampleResult())
	require.NoError(t, err)
	second, err := repo.Save(ctx, sampleResult())
	require.NoError(t, err)

	plans, err := repo.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, plans, 2)
	assert.Equal(t, second, plans[0].ID)
	assert.Equal(t, first, plans[1].ID)
	assert.Equal(t, []string{"Kitchen"}, plans[0].RoomNames)
	assert.Equal(t, 2.0, plans[0].Perimeter)
	assert.NotEmpty(t, plans[0].CreatedAt)

	limited, err := repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestRepository_InitIsIdempotent(t *testing.T) {
	repo := newRepo(t)
	assert.NoError(t, repo.Init(context.Background()))
}
