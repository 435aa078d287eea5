package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  Server  `yaml:"server" json:"server"`
	Engine  Engine  `yaml:"engine" json:"engine"`
	Balance Balance `yaml:"balance" json:"balance"`
}

type Server struct {
	Addr    string `yaml:"addr" json:"addr"`
	DataDir string `yaml:"data_dir" json:"data_dir"`

	// Backend selects the save store: "sqlite" or "file".
	Backend string `yaml:"backend" json:"backend"`
}

type Engine struct {
	TickIntervalMS  int  `yaml:"tick_interval_ms" json:"tick_interval_ms"`
	AutosaveSeconds int  `yaml:"autosave_seconds" json:"autosave_seconds"`
	OfflineProgress bool `yaml:"offline_progress" json:"offline_progress"`

	// SaveSlot is the slot the server-side engine plays in.
	SaveSlot string `yaml:"save_slot" json:"save_slot"`
}

type Balance struct {
	BaseManualQi           float64 `yaml:"base_manual_qi" json:"base_manual_qi"`
	BreakthroughBaseChance float64 `yaml:"breakthrough_base_chance" json:"breakthrough_base_chance"`
	OfflineCapHours        float64 `yaml:"offline_cap_hours" json:"offline_cap_hours"`
	OfflineDecayFloor      float64 `yaml:"offline_decay_floor" json:"offline_decay_floor"`
}

func Default() Config {
	return Config{
		Server: Server{
			Addr:    ":8080",
			DataDir: "data",
			Backend: "sqlite",
		},
		Engine: Engine{
			TickIntervalMS:  100,
			AutosaveSeconds: 30,
			OfflineProgress: true,
			SaveSlot:        "local",
		},
		Balance: Balance{
			BaseManualQi:           1,
			BreakthroughBaseChance: 100,
			OfflineCapHours:        12,
			OfflineDecayFloor:      0.1,
		},
	}
}

// Load reads a YAML config file over the defaults. A missing file is not
// an error; defaults plus env overrides apply.
func Load(path string) (Config, error) {
	cfg := Default()

	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return FromEnv(cfg), nil
		}
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return FromEnv(cfg), nil
}

func (e Engine) TickInterval() time.Duration {
	if e.TickIntervalMS <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(e.TickIntervalMS) * time.Millisecond
}

func (e Engine) AutosaveInterval() time.Duration {
	if e.AutosaveSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(e.AutosaveSeconds) * time.Second
}

func (b Balance) OfflineCap() time.Duration {
	if b.OfflineCapHours <= 0 {
		return 12 * time.Hour
	}
	return time.Duration(b.OfflineCapHours * float64(time.Hour))
}
