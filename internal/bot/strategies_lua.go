package bot

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"cribbage/internal/domain"
)

// Lua entry points a strategy script must define.
const (
	luaChooseDiscard = "choose_discard"
	luaChoosePlay    = "choose_play"
)

const luaCallTimeout = 200 * time.Millisecond

// LoadScript reads and compiles a strategy script. The compiled proto can be shared by
// any number of LuaBots.
func LoadScript(path string) (*lua.FunctionProto, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bot script: %w", err)
	}
	return CompileScript(path, string(src))
}

// CompileScript compiles src under the given chunk name.
func CompileScript(name, src string) (*lua.FunctionProto, error) {
	chunk, err := parse.Parse(strings.NewReader(src), name)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bot script: %w", err)
	}
	proto, err := lua.Compile(chunk, name)
	if err != nil {
		return nil, fmt.Errorf("failed to compile bot script: %w", err)
	}
	return proto, nil
}

// LuaBot delegates decisions to a Lua script:
//
//	choose_discard(view) -> { "c1", "c7" }
//	choose_play(view)    -> "c3" or nil to say GO
//
// Each LuaBot owns its interpreter and must be used from one goroutine.
type LuaBot struct {
	L *lua.LState
}

// NewLuaBot starts a sandboxed interpreter and runs the script's top level.
func NewLuaBot(script *lua.FunctionProto) (*LuaBot, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})
	for _, pair := range []struct {
		n string
		f lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	} {
		if err := L.CallByParam(lua.P{Fn: L.NewFunction(pair.f), NRet: 0, Protect: true}, lua.LString(pair.n)); err != nil {
			L.Close()
			return nil, fmt.Errorf("failed to open lua lib %s: %w", pair.n, err)
		}
	}

	L.Push(L.NewFunctionFromProto(script))
	if err := L.PCall(0, lua.MultRet, nil); err != nil {
		L.Close()
		return nil, fmt.Errorf("failed to run bot script: %w", err)
	}
	for _, name := range []string{luaChooseDiscard, luaChoosePlay} {
		if L.GetGlobal(name).Type() != lua.LTFunction {
			L.Close()
			return nil, fmt.Errorf("bot script does not define %s", name)
		}
	}
	return &LuaBot{L: L}, nil
}

func (b *LuaBot) ChooseDiscard(v View) ([]domain.Card, error) {
	ret, err := b.call(luaChooseDiscard, b.viewTable(v, false))
	if err != nil {
		return nil, err
	}
	tbl, ok := ret.(*lua.LTable)
	if !ok {
		return nil, fmt.Errorf("%s returned %s, want a table", luaChooseDiscard, ret.Type())
	}
	var cards []domain.Card
	var bad error
	tbl.ForEach(func(_, val lua.LValue) {
		idx := domain.FindCard(v.Hand, val.String())
		if idx < 0 {
			bad = fmt.Errorf("%s returned unknown card %q", luaChooseDiscard, val.String())
			return
		}
		cards = append(cards, v.Hand[idx])
	})
	if bad != nil {
		return nil, bad
	}
	return cards, nil
}

func (b *LuaBot) ChoosePlay(v View) (Move, error) {
	ret, err := b.call(luaChoosePlay, b.viewTable(v, true))
	if err != nil {
		return Move{}, err
	}
	if ret == lua.LNil {
		return Move{Go: true}, nil
	}
	id, ok := ret.(lua.LString)
	if !ok {
		return Move{}, fmt.Errorf("%s returned %s, want a card id", luaChoosePlay, ret.Type())
	}
	idx := domain.FindCard(v.Hand, string(id))
	if idx < 0 {
		return Move{}, fmt.Errorf("%s returned unknown card %q", luaChoosePlay, string(id))
	}
	return Move{Card: v.Hand[idx]}, nil
}

// Close shuts the interpreter down.
func (b *LuaBot) Close() error {
	b.L.Close()
	return nil
}

func (b *LuaBot) call(name string, arg lua.LValue) (lua.LValue, error) {
	ctx, cancel := context.WithTimeout(context.Background(), luaCallTimeout)
	defer cancel()
	b.L.SetContext(ctx)
	defer b.L.RemoveContext()

	if err := b.L.CallByParam(lua.P{Fn: b.L.GetGlobal(name), NRet: 1, Protect: true}, arg); err != nil {
		return lua.LNil, fmt.Errorf("%s: %w", name, err)
	}
	ret := b.L.Get(-1)
	b.L.Pop(1)
	return ret, nil
}

func (b *LuaBot) viewTable(v View, pegging bool) *lua.LTable {
	L := b.L
	t := L.NewTable()
	L.SetField(t, "seat", lua.LString(v.Seat.String()))
	L.SetField(t, "dealer", lua.LBool(v.Dealer))
	L.SetField(t, "count", lua.LNumber(v.Count))
	L.SetField(t, "my_score", lua.LNumber(v.MyScore))
	L.SetField(t, "opponent_score", lua.LNumber(v.OpponentScore))
	L.SetField(t, "game_target", lua.LNumber(v.GameTarget))
	L.SetField(t, "opponent_cards", lua.LNumber(v.OpponentCards))
	L.SetField(t, "unseen_count", lua.LNumber(len(v.Unseen)))

	hand := L.NewTable()
	for _, c := range v.Hand {
		ct := b.cardTable(c)
		if pegging {
			playable := domain.CanPlay(c, v.Count)
			L.SetField(ct, "playable", lua.LBool(playable))
			points := 0
			if playable {
				pile := append(append([]domain.Card(nil), v.Pile...), c)
				points = domain.SumItems(domain.PegPoints(pile, v.Count+c.Value()))
			}
			L.SetField(ct, "points", lua.LNumber(points))
		}
		hand.Append(ct)
	}
	L.SetField(t, "hand", hand)

	pile := L.NewTable()
	for _, c := range v.Pile {
		pile.Append(b.cardTable(c))
	}
	L.SetField(t, "pile", pile)
	if v.Cut != nil {
		L.SetField(t, "cut", b.cardTable(*v.Cut))
	}
	return t
}

func (b *LuaBot) cardTable(c domain.Card) *lua.LTable {
	t := b.L.NewTable()
	b.L.SetField(t, "id", lua.LString(c.ID))
	b.L.SetField(t, "rank", lua.LNumber(c.Rank))
	b.L.SetField(t, "suit", lua.LString(c.Suit.String()))
	b.L.SetField(t, "value", lua.LNumber(c.Value()))
	return t
}
