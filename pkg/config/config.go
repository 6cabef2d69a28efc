// Package config loads brushwork settings from a TOML file.
package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/sirupsen/logrus"

	"github.com/chazu/brushwork/pkg/bsp"
)

// Kernel names accepted in [kernel] name.
const (
	KernelBSP  = "bsp"
	KernelSDFX = "sdfx"
)

// Config is the whole settings file.
type Config struct {
	BSP    BSPConfig    `toml:"bsp"`
	Kernel KernelConfig `toml:"kernel"`
	Log    LogConfig    `toml:"log"`
}

// BSPConfig weights the splitter heuristic.
type BSPConfig struct {
	BalanceWeight int `toml:"balance_weight"`
	SplitWeight   int `toml:"split_weight"`
}

// KernelConfig selects the geometry kernel.
type KernelConfig struct {
	Name      string `toml:"name"`       // "bsp" or "sdfx"
	MeshCells int    `toml:"mesh_cells"` // sdfx marching cubes resolution
}

// LogConfig sets the logging level.
type LogConfig struct {
	Level string `toml:"level"`
}

// Default returns the settings used when no file is given.
func Default() Config {
	opts := bsp.DefaultOptions()
	return Config{
		BSP:    BSPConfig{BalanceWeight: opts.BalanceWeight, SplitWeight: opts.SplitWeight},
		Kernel: KernelConfig{Name: KernelBSP, MeshCells: 200},
		Log:    LogConfig{Level: "info"},
	}
}

// Parse reads TOML over the defaults. Unknown keys are rejected.
func Parse(data []byte) (Config, error) {
	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	cfg.Kernel.Name = strings.ToLower(cfg.Kernel.Name)
	cfg.Log.Level = strings.ToLower(cfg.Log.Level)
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Load parses the file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return Parse(data)
}

type checkFunc func(c *Config) error

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	checks := []checkFunc{
		checkWeights,
		checkKernel,
		checkLogLevel,
	}
	for _, check := range checks {
		if err := check(c); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}

func checkWeights(c *Config) error {
	if c.BSP.BalanceWeight < 0 || c.BSP.SplitWeight < 0 {
		return fmt.Errorf("bsp weights must not be negative, got balance %d split %d",
			c.BSP.BalanceWeight, c.BSP.SplitWeight)
	}
	if c.BSP.BalanceWeight == 0 && c.BSP.SplitWeight == 0 {
		return fmt.Errorf("bsp weights must not both be zero")
	}
	return nil
}

func checkKernel(c *Config) error {
	switch c.Kernel.Name {
	case KernelBSP, KernelSDFX:
	default:
		return fmt.Errorf("unknown kernel %q, want %s or %s", c.Kernel.Name, KernelBSP, KernelSDFX)
	}
	if c.Kernel.MeshCells <= 0 {
		return fmt.Errorf("kernel mesh_cells must be positive, got %d", c.Kernel.MeshCells)
	}
	return nil
}

func checkLogLevel(c *Config) error {
	if _, err := logrus.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// BuildOptions returns the BSP build options.
func (c *Config) BuildOptions() bsp.Options {
	return bsp.Options{BalanceWeight: c.BSP.BalanceWeight, SplitWeight: c.BSP.SplitWeight}
}
