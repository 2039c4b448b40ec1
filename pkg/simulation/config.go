package simulation

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/lao-tseu-is-alive/go-boids-flock/pkg/flock"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed config.schema.json
var configSchema string

const configSchemaURL = "https://github.com/lao-tseu-is-alive/go-boids-flock/config.schema.json"

type Config struct {
	// World Dimensions
	WorldWidth  float64 `json:"worldWidth" toml:"worldWidth"`
	WorldHeight float64 `json:"worldHeight" toml:"worldHeight"`

	// Population
	NumFlocks int `json:"numFlocks" toml:"numFlocks"`
	NumBoids  int `json:"numBoids" toml:"numBoids"` // per flock

	// Physics
	MaxSpeed     float64 `json:"maxSpeed" toml:"maxSpeed"`
	InitialSpeed float64 `json:"initialSpeed" toml:"initialSpeed"` // velocity components start in [-v, v]

	// Statistics run: simulated time and step
	Duration float64 `json:"duration" toml:"duration"`
	DeltaT   float64 `json:"deltaT" toml:"deltaT"`

	// Workers > 1 ticks each flock with that many goroutines
	Workers int `json:"workers" toml:"workers"`
	// Seed 0 means a random seed
	Seed uint64 `json:"seed" toml:"seed"`

	Rules flock.RuleParameters `json:"rules" toml:"rules"`
}

func DefaultConfig() *Config {
	return &Config{
		WorldWidth:   1280,
		WorldHeight:  720,
		NumFlocks:    3,
		NumBoids:     150,
		MaxSpeed:     400,
		InitialSpeed: 1,
		Duration:     10,
		DeltaT:       1,
		Workers:      1,
		Rules: flock.RuleParameters{
			Distance:           60,
			SeparationDistance: 15,
			Separation:         0.05,
			Alignment:          0.05,
			Cohesion:           0.005,
		},
	}
}

// Area returns the simulation plane described by the configuration.
func (c *Config) Area() (flock.Area, error) {
	return flock.NewArea(c.WorldWidth, c.WorldHeight)
}

// Validate checks what the JSON schema cannot express, like ds < d.
func (c *Config) Validate() error {
	if _, err := c.Area(); err != nil {
		return err
	}
	if err := c.Rules.Validate(); err != nil {
		return fmt.Errorf("rules: %w", err)
	}
	if c.NumFlocks < 1 {
		return fmt.Errorf("%w: numFlocks must be at least 1, got %d", flock.ErrInvalidParameter, c.NumFlocks)
	}
	if c.NumBoids < 2 {
		return fmt.Errorf("%w: numBoids must be at least 2, got %d", flock.ErrInsufficientData, c.NumBoids)
	}
	if c.MaxSpeed < 0 || c.InitialSpeed < 0 {
		return fmt.Errorf("%w: speeds must be positive", flock.ErrInvalidParameter)
	}
	if !(c.DeltaT > 0) || !(c.Duration > 0) {
		return fmt.Errorf("%w: duration and deltaT must be strictly positive", flock.ErrInvalidParameter)
	}
	return nil
}

// LoadConfig loads configuration from a JSON file and validates it against the schema file.
func LoadConfig(configFile string, schemaFile string) (*Config, error) {
	sch, err := jsonschema.Compile(schemaFile)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return loadWithSchema(configFile, sch)
}

// LoadConfigFile loads a .json or .toml configuration file and validates it
// against the schema embedded in the binary.
func LoadConfigFile(configFile string) (*Config, error) {
	sch, err := jsonschema.CompileString(configSchemaURL, configSchema)
	if err != nil {
		return nil, fmt.Errorf("failed to compile embedded schema: %w", err)
	}
	return loadWithSchema(configFile, sch)
}

func loadWithSchema(configFile string, sch *jsonschema.Schema) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}

	// TOML documents are normalized to JSON so both go through the same schema
	if strings.EqualFold(filepath.Ext(configFile), ".toml") {
		if b, err = tomlToJSON(b); err != nil {
			return nil, err
		}
	}
	return decodeConfig(b, sch)
}

func tomlToJSON(b []byte) ([]byte, error) {
	var doc map[string]any
	if err := toml.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode config toml: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("failed to convert config toml: %w", err)
	}
	return out, nil
}

func decodeConfig(b []byte, sch *jsonschema.Schema) (*Config, error) {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := sch.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	// optional keys keep their default value
	cfg := DefaultConfig()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}
