package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

type DisplayConfig struct {
	Style        string `json:"style"` // accepted but unused; useNerdFonts picks powerline
	UseNerdFonts bool   `json:"useNerdFonts"`
}

type BlockConfig struct {
	Enabled           bool   `json:"enabled"`
	DisplayStyle      string `json:"displayStyle"` // "text" or "bar"
	BarWidth          int    `json:"barWidth"`
	ShowTimeRemaining bool   `json:"showTimeRemaining"`
}

type WeeklyConfig struct {
	Enabled          bool   `json:"enabled"`
	DisplayStyle     string `json:"displayStyle"` // "text" or "bar"
	BarWidth         int    `json:"barWidth"`
	ShowWeekProgress bool   `json:"showWeekProgress"`
}

type BudgetConfig struct {
	PollInterval     int `json:"pollInterval"` // minutes between API calls
	ResetDay         int `json:"resetDay"`     // 0=Sunday ... 6=Saturday
	ResetHour        int `json:"resetHour"`
	ResetMinute      int `json:"resetMinute"`
	WarningThreshold int `json:"warningThreshold"` // percent
}

type Config struct {
	Display  DisplayConfig `json:"display"`
	Block    BlockConfig   `json:"block"`
	Weekly   WeeklyConfig  `json:"weekly"`
	Budget   BudgetConfig  `json:"budget"`
	Theme    string        `json:"theme"`
	LogDir   string        `json:"logDir"`
	LogLevel string        `json:"logLevel"` // empty disables file logging
}

func Defaults() Config {
	home, _ := os.UserHomeDir()
	return Config{
		Display: DisplayConfig{Style: "minimal", UseNerdFonts: true},
		Block: BlockConfig{
			Enabled:           true,
			DisplayStyle:      "bar",
			BarWidth:          10,
			ShowTimeRemaining: true,
		},
		Weekly: WeeklyConfig{
			Enabled:          true,
			DisplayStyle:     "bar",
			BarWidth:         10,
			ShowWeekProgress: true,
		},
		Budget: BudgetConfig{
			PollInterval:     15,
			ResetDay:         1,
			WarningThreshold: 80,
		},
		Theme:  "dark",
		LogDir: filepath.Join(home, ".claude", "claude-limitline", "logs"),
	}
}

// SearchPaths lists config locations in priority order.
func SearchPaths() []string {
	home, _ := os.UserHomeDir()
	cwd, _ := os.Getwd()
	return []string{
		filepath.Join(cwd, ".claude-limitline.json"),
		filepath.Join(home, ".claude", "claude-limitline.json"),
	}
}

// FindPath returns the first existing path from SearchPaths, or "" if none.
func FindPath() string {
	for _, p := range SearchPaths() {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// Load reads path over Defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Defaults(), err
	}
	if cfg.Budget.PollInterval < 1 {
		cfg.Budget.PollInterval = 1
	}
	if cfg.Block.BarWidth < 1 {
		cfg.Block.BarWidth = 10
	}
	if cfg.Weekly.BarWidth < 1 {
		cfg.Weekly.BarWidth = 10
	}
	return cfg, nil
}
