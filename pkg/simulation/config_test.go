package simulation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validJSON = `{
  "worldWidth": 800,
  "worldHeight": 600,
  "numBoids": 40,
  "maxSpeed": 120,
  "duration": 5,
  "deltaT": 0.5,
  "workers": 4,
  "rules": {
    "distance": 50,
    "separationDistance": 10,
    "separation": 0.2,
    "alignment": 0.3,
    "cohesion": 0.01
  }
}`

const validTOML = `
worldWidth = 640
worldHeight = 480
numFlocks = 2
numBoids = 25
maxSpeed = 300.0
duration = 10
deltaT = 1
seed = 42

[rules]
distance = 40
separationDistance = 8
separation = 0.1
alignment = 0.1
cohesion = 0.002
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefaultConfig_IsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	area, err := cfg.Area()
	require.NoError(t, err)
	assert.Equal(t, flock.Area{Width: 1280, Height: 720}, area)
}

func TestLoadConfigFile_JSON(t *testing.T) {
	cfg, err := LoadConfigFile(writeFile(t, "flock.json", validJSON))
	require.NoError(t, err)

	assert.Equal(t, 800.0, cfg.WorldWidth)
	assert.Equal(t, 40, cfg.NumBoids)
	assert.Equal(t, 4, cfg.Workers)
	assert.Equal(t, 0.5, cfg.DeltaT)
	assert.Equal(t, flock.RuleParameters{
		Distance: 50, SeparationDistance: 10, Separation: 0.2, Alignment: 0.3, Cohesion: 0.01,
	}, cfg.Rules)
	// omitted optional keys keep their default
	assert.Equal(t, DefaultConfig().NumFlocks, cfg.NumFlocks)
	assert.Equal(t, DefaultConfig().InitialSpeed, cfg.InitialSpeed)
}

func TestLoadConfigFile_TOML(t *testing.T) {
	cfg, err := LoadConfigFile(writeFile(t, "flock.toml", validTOML))
	require.NoError(t, err)

	assert.Equal(t, 640.0, cfg.WorldWidth)
	assert.Equal(t, 2, cfg.NumFlocks)
	assert.Equal(t, 25, cfg.NumBoids)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.Equal(t, 8.0, cfg.Rules.SeparationDistance)
}

func TestLoadConfigFile_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"weight above one", "a.json", `{"worldWidth": 800, "worldHeight": 600, "numBoids": 40, "maxSpeed": 1, "duration": 5, "deltaT": 1,
			"rules": {"distance": 50, "separationDistance": 10, "separation": 1.5, "alignment": 0.3, "cohesion": 0.01}}`},
		{"missing rules", "b.json", `{"worldWidth": 800, "worldHeight": 600, "numBoids": 40, "maxSpeed": 1, "duration": 5, "deltaT": 1}`},
		{"too few boids", "c.json", `{"worldWidth": 800, "worldHeight": 600, "numBoids": 1, "maxSpeed": 1, "duration": 5, "deltaT": 1,
			"rules": {"distance": 50, "separationDistance": 10, "separation": 0.5, "alignment": 0.3, "cohesion": 0.01}}`},
		{"unknown key", "d.json", `{"worldWidth": 800, "worldHeight": 600, "numBoids": 4, "maxSpeed": 1, "duration": 5, "deltaT": 1, "colour": "red",
			"rules": {"distance": 50, "separationDistance": 10, "separation": 0.5, "alignment": 0.3, "cohesion": 0.01}}`},
		{"broken json", "e.json", `{"worldWidth": `},
		{"broken toml", "f.toml", `worldWidth = = 3`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfigFile(writeFile(t, tt.file, tt.content))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigFile_SeparationDistanceMustBeSmallerThanDistance(t *testing.T) {
	content := `{"worldWidth": 800, "worldHeight": 600, "numBoids": 4, "maxSpeed": 1, "duration": 5, "deltaT": 1,
		"rules": {"distance": 10, "separationDistance": 10, "separation": 0.5, "alignment": 0.3, "cohesion": 0.01}}`
	_, err := LoadConfigFile(writeFile(t, "ds.json", content))
	require.ErrorIs(t, err, flock.ErrInvalidParameter)
}

func TestLoadConfigFile_Missing(t *testing.T) {
	_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfig_WithSchemaFile(t *testing.T) {
	schemaPath := writeFile(t, "config.schema.json", configSchema)
	cfg, err := LoadConfig(writeFile(t, "flock.json", validJSON), schemaPath)
	require.NoError(t, err)
	assert.Equal(t, 600.0, cfg.WorldHeight)

	_, err = LoadConfig(writeFile(t, "flock.json", validJSON), filepath.Join(t.TempDir(), "missing.schema.json"))
	assert.Error(t, err)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no flock", func(c *Config) { c.NumFlocks = 0 }},
		{"single boid", func(c *Config) { c.NumBoids = 1 }},
		{"negative speed", func(c *Config) { c.MaxSpeed = -1 }},
		{"zero step", func(c *Config) { c.DeltaT = 0 }},
		{"flat world", func(c *Config) { c.WorldHeight = 0 }},
		{"bad rules", func(c *Config) { c.Rules.Cohesion = 3 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
