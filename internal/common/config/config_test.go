package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("3000")
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, 10, cfg.ReadTimeout)
	assert.Equal(t, 10, cfg.WriteTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.IsDevelopment())

	assert.Equal(t, Pipeline{
		ScaleFactor:       200,
		AngleThresholdDeg: 5,
		MergeAngleDeg:     2,
		MergeDistance:     50,
		AreaDistance:      500,
		BoundsPadding:     200,
		WallWidth:         22,
	}, cfg.Pipeline)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DB_PATH", "/var/lib/plans.db")
	t.Setenv("SCALE_FACTOR", "100")
	t.Setenv("NORMALIZE_ANGLES", "true")
	t.Setenv("MERGE_COLLINEAR", "1")
	t.Setenv("WALL_WIDTH", "30.5")

	cfg, err := Load("3000")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "/var/lib/plans.db", cfg.DBPath)
	assert.Equal(t, 100.0, cfg.Pipeline.ScaleFactor)
	assert.True(t, cfg.Pipeline.NormalizeAngles)
	assert.True(t, cfg.Pipeline.MergeCollinear)
	assert.Equal(t, 30.5, cfg.Pipeline.WallWidth)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "floorplan.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"PORT": "4000", "AREA_DISTANCE": 350}`), 0644))
	t.Setenv("CONFIG_FILE", path)
	t.Setenv("PORT", "5000")

	cfg, err := Load("3000")
	require.NoError(t, err)

	// Environment wins over the file.
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, 350.0, cfg.Pipeline.AreaDistance)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "absent.json"))
		_, err := Load("3000")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "read config file")
	})

	t.Run("bad scale", func(t *testing.T) {
		t.Setenv("SCALE_FACTOR", "0")
		_, err := Load("3000")
		require.Error(t, err)
	})
}

func TestLoad_ServicePort(t *testing.T) {
	cfg, err := Load("3001")
	require.NoError(t, err)
	assert.Equal(t, "3001", cfg.Port)

	path := filepath.Join(t.TempDir(), "converter.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"PORT": "4001"}`), 0644))
	t.Setenv("CONFIG_FILE", path)

	cfg, err = Load("3001")
	require.NoError(t, err)
	assert.Equal(t, "4001", cfg.Port)
}
