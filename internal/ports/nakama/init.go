package nakama

import (
	"context"
	"database/sql"
	"time"

	"cribbage/internal/app"
	"cribbage/internal/bot"
	"cribbage/internal/config"
	"cribbage/internal/ports"
	"cribbage/internal/ports/natsbus"

	"github.com/heroiclabs/nakama-common/runtime"
	lua "github.com/yuin/gopher-lua"
)

const (
	tableConfigPath   = "data/cribbage_config.json"
	botIdentitiesPath = "data/bot_identities.json"
)

// InitModule wires RPCs, hooks and the match handler for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := config.LoadTableConfig(tableConfigPath); err != nil {
		logger.Warn("InitModule: Could not load table config, using defaults: %v", err)
	}
	runtimeEnv, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	cfg, err := config.WithEnv(config.GetTableConfig(), runtimeEnv)
	if err != nil {
		logger.Warn("InitModule: Ignoring invalid runtime env: %v", err)
	}

	deps, err := newModuleDeps(cfg, logger)
	if err != nil {
		return err
	}

	if err := nk.LeaderboardCreate(ctx, LeaderboardMatchWins, true, "desc", "incr", "", nil, true); err != nil {
		logger.Error("InitModule: Failed to create leaderboard %s: %v", LeaderboardMatchWins, err)
		return err
	}

	if err := RegisterRPCs(initializer, deps); err != nil {
		return err
	}
	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}
	if err := initializer.RegisterMatch(MatchNameCribbage, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(deps), nil
	}); err != nil {
		return err
	}

	logger.Info("Cribbage Go module loaded (game_target=%d, match_target=%d, bots=%t/%s).",
		cfg.GameTarget, cfg.MatchTarget, cfg.BotsEnabled, cfg.BotStrategy)
	return nil
}

// newModuleDeps builds the collaborators every match shares. Optional pieces that
// fail to load are logged and left out.
func newModuleDeps(cfg config.TableConfig, logger runtime.Logger) (*moduleDeps, error) {
	deps := &moduleDeps{Config: cfg, Events: ports.NopPublisher{}}

	if cfg.InviteSecret != "" {
		deps.Invites = app.NewInviteService(cfg.InviteSecret, time.Duration(cfg.InviteTTLSec)*time.Second)
	} else {
		logger.Warn("newModuleDeps: cribbage_invite_secret not set, private tables disabled.")
	}

	if cfg.NatsURL != "" {
		pub, err := natsbus.Connect(cfg.NatsURL, cfg.NatsSubjectPrefix)
		if err != nil {
			logger.Error("newModuleDeps: Failed to connect to NATS at %s: %v", cfg.NatsURL, err)
		} else {
			deps.Events = pub
		}
	}

	if err := bot.LoadIdentities(botIdentitiesPath); err != nil {
		logger.Warn("newModuleDeps: Could not load bot identities: %v", err)
	}

	var script *lua.FunctionProto
	if cfg.BotScript != "" {
		proto, err := bot.LoadScript(cfg.BotScript)
		if err != nil {
			if cfg.BotStrategy == config.BotStrategyLua {
				logger.Error("newModuleDeps: Failed to load bot script %s: %v", cfg.BotScript, err)
				return nil, err
			}
			logger.Warn("newModuleDeps: Could not load bot script %s: %v", cfg.BotScript, err)
		}
		script = proto
	}
	deps.NewBrain = func(strategy string) (bot.Brain, error) {
		return bot.NewBrain(strategy, script)
	}
	return deps, nil
}
