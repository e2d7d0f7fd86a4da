package config

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/caarlos0/env/v11"
)

// Bot strategies understood by the scripted opponent factory.
const (
	BotStrategyGreedy = "greedy"
	BotStrategySmart  = "smart"
	BotStrategyLua    = "lua"
)

// TableConfig holds per-table tunables. Values come from the JSON file and are
// overridden by Nakama runtime env entries of the same name.
type TableConfig struct {
	GameTarget  int `json:"game_target" env:"cribbage_game_target"`
	MatchTarget int `json:"match_target" env:"cribbage_match_target"`
	TickRate    int `json:"tick_rate" env:"cribbage_tick_rate"`

	BotsEnabled    bool   `json:"bots_enabled" env:"cribbage_bots_enabled"`
	BotStrategy    string `json:"bot_strategy" env:"cribbage_bot_strategy"`
	BotScript      string `json:"bot_script" env:"cribbage_bot_script"`
	BotMinDelaySec int    `json:"bot_min_delay_sec" env:"cribbage_bot_min_delay_sec"`
	BotMaxDelaySec int    `json:"bot_max_delay_sec" env:"cribbage_bot_max_delay_sec"`

	// IdleTerminateSec ends a match after this long without a connected human.
	IdleTerminateSec int `json:"idle_terminate_sec" env:"cribbage_idle_terminate_sec"`

	InviteSecret      string `json:"-" env:"cribbage_invite_secret"`
	InviteTTLSec      int    `json:"invite_ttl_sec" env:"cribbage_invite_ttl_sec"`
	NatsURL           string `json:"nats_url" env:"cribbage_nats_url"`
	NatsSubjectPrefix string `json:"nats_subject_prefix" env:"cribbage_nats_subject_prefix"`
}

// Default returns the built-in configuration.
func Default() TableConfig {
	return TableConfig{
		GameTarget:        121,
		MatchTarget:       3,
		TickRate:          5,
		BotsEnabled:       true,
		BotStrategy:       BotStrategySmart,
		BotMinDelaySec:    1,
		BotMaxDelaySec:    2,
		IdleTerminateSec:  300,
		InviteTTLSec:      86400,
		NatsSubjectPrefix: "cribbage",
	}
}

var (
	fileCfg  *TableConfig
	loadOnce sync.Once
	loadErr  error
)

// LoadTableConfig loads the file configuration once per process.
func LoadTableConfig(path string) error {
	loadOnce.Do(func() {
		c, err := ReadFile(path)
		if err != nil {
			loadErr = err
			return
		}
		fileCfg = &c
	})
	return loadErr
}

// GetTableConfig returns the loaded file configuration, or the defaults.
func GetTableConfig() TableConfig {
	if fileCfg == nil {
		return Default()
	}
	return *fileCfg
}

// ReadFile reads a JSON config on top of the defaults.
func ReadFile(path string) (TableConfig, error) {
	c := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return c, fmt.Errorf("failed to read table config: %w", err)
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return Default(), fmt.Errorf("failed to unmarshal table config: %w", err)
	}
	return c.normalized(), nil
}

// WithEnv overlays the Nakama runtime env on base. Keys missing from runtimeEnv
// keep the base value.
func WithEnv(base TableConfig, runtimeEnv map[string]string) (TableConfig, error) {
	c := base
	if err := env.ParseWithOptions(&c, env.Options{Environment: runtimeEnv}); err != nil {
		return base, fmt.Errorf("parse env: %w", err)
	}
	return c.normalized(), nil
}

func (c TableConfig) normalized() TableConfig {
	d := Default()
	if c.GameTarget <= 0 {
		c.GameTarget = d.GameTarget
	}
	if c.MatchTarget <= 0 {
		c.MatchTarget = d.MatchTarget
	}
	if c.TickRate <= 0 {
		c.TickRate = d.TickRate
	}
	if c.BotMinDelaySec < 0 {
		c.BotMinDelaySec = 0
	}
	if c.BotMaxDelaySec < c.BotMinDelaySec {
		c.BotMaxDelaySec = c.BotMinDelaySec
	}
	switch c.BotStrategy {
	case BotStrategyGreedy, BotStrategySmart, BotStrategyLua:
	default:
		c.BotStrategy = d.BotStrategy
	}
	if c.BotStrategy == BotStrategyLua && c.BotScript == "" {
		c.BotStrategy = d.BotStrategy
	}
	if c.IdleTerminateSec <= 0 {
		c.IdleTerminateSec = d.IdleTerminateSec
	}
	if c.InviteTTLSec <= 0 {
		c.InviteTTLSec = d.InviteTTLSec
	}
	if c.NatsSubjectPrefix == "" {
		c.NatsSubjectPrefix = d.NatsSubjectPrefix
	}
	return c
}
