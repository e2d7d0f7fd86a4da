package bot

import (
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"cribbage/internal/config"
)

// NewBrain creates a strategy by configured name. script is required for the lua
// strategy and ignored otherwise.
func NewBrain(strategy string, script *lua.FunctionProto) (Brain, error) {
	switch strategy {
	case config.BotStrategyGreedy:
		return &GreedyBot{}, nil
	case config.BotStrategySmart, "":
		return NewSmartBot(DefaultTuning), nil
	case config.BotStrategyLua:
		if script == nil {
			return nil, fmt.Errorf("lua strategy requires a script")
		}
		return NewLuaBot(script)
	default:
		return nil, fmt.Errorf("unknown bot strategy: %q", strategy)
	}
}
