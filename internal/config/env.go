package config

import (
	"os"
	"strconv"
)

// FromEnv applies environment-variable overrides on top of a loaded
// config. Unset variables leave the value alone.
func FromEnv(cfg Config) Config {
	if v := os.Getenv("CULTIVATION_ADDR"); v != "" {
		cfg.Server.Addr = v
	}
	if v := os.Getenv("CULTIVATION_DATA_DIR"); v != "" {
		cfg.Server.DataDir = v
	}
	if v := os.Getenv("CULTIVATION_BACKEND"); v != "" {
		cfg.Server.Backend = v
	}
	if v := getEnvInt("CULTIVATION_TICK_MS"); v > 0 {
		cfg.Engine.TickIntervalMS = v
	}
	if v := getEnvInt("CULTIVATION_AUTOSAVE_SECONDS"); v > 0 {
		cfg.Engine.AutosaveSeconds = v
	}
	if v := os.Getenv("CULTIVATION_OFFLINE_PROGRESS"); v != "" {
		cfg.Engine.OfflineProgress = v == "1" || v == "true" || v == "yes"
	}
	if v := os.Getenv("CULTIVATION_SAVE_SLOT"); v != "" {
		cfg.Engine.SaveSlot = v
	}
	if v := getEnvFloat("CULTIVATION_BASE_MANUAL_QI"); v > 0 {
		cfg.Balance.BaseManualQi = v
	}
	if v := getEnvFloat("CULTIVATION_BREAKTHROUGH_BASE"); v > 0 {
		cfg.Balance.BreakthroughBaseChance = v
	}
	if v := getEnvFloat("CULTIVATION_OFFLINE_CAP_HOURS"); v > 0 {
		cfg.Balance.OfflineCapHours = v
	}
	if v := getEnvFloat("CULTIVATION_OFFLINE_DECAY_FLOOR"); v > 0 {
		cfg.Balance.OfflineDecayFloor = v
	}
	return cfg
}

func getEnvInt(key string) int {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0
	}
	return n
}

func getEnvFloat(key string) float64 {
	val := os.Getenv(key)
	if val == "" {
		return 0
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return 0
	}
	return f
}
