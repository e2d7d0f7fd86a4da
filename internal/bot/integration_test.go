package bot

import (
	"math/rand"
	"testing"

	"cribbage/internal/app"
	"cribbage/internal/domain"
)

// playMatch drives a full match between two agents, advancing hands the way the
// human seat would.
func playMatch(t *testing.T, seed int64, a, b *Agent) *domain.Table {
	t.Helper()
	svc := app.NewService(rand.New(rand.NewSource(seed)))
	table := domain.NewTable("sim", 61, 2)
	agents := []*Agent{a, b}
	broadcast := func(events []app.Event) {
		for _, ev := range events {
			for _, ag := range agents {
				ag.OnGameEvent(ev)
			}
		}
	}

	for _, ag := range agents {
		_, events, err := svc.AddScriptedOpponent(table, ag.ID, ag.Name)
		if err != nil {
			t.Fatalf("seed %d: AddScriptedOpponent failed: %v", seed, err)
		}
		broadcast(events)
	}

	for step := 0; step < 5000; step++ {
		switch table.Stage {
		case domain.StageMatchOver:
			return table
		case domain.StageGameOver:
			events, err := svc.NextGame(table)
			if err != nil {
				t.Fatalf("seed %d: NextGame failed: %v", seed, err)
			}
			broadcast(events)
			continue
		case domain.StageShow:
			events, err := svc.NextHand(table)
			if err != nil {
				t.Fatalf("seed %d: NextHand failed: %v", seed, err)
			}
			broadcast(events)
			continue
		}

		acted := false
		for _, ag := range agents {
			act := ag.Decide(table)
			if act.Kind == ActionNone {
				continue
			}
			if act.Fallback != nil {
				t.Fatalf("seed %d: %s fell back: %v", seed, ag.Name, act.Fallback)
			}
			events, err := act.Apply(svc, table, table.SeatOf(ag.ID))
			if err != nil {
				t.Fatalf("seed %d: %s action %+v rejected: %v", seed, ag.Name, act, err)
			}
			broadcast(events)
			acted = true
			break
		}
		if !acted {
			t.Fatalf("seed %d: no agent could act in stage %v", seed, table.Stage)
		}
	}
	t.Fatalf("seed %d: match did not finish", seed)
	return nil
}

func TestAgents_PlayFullMatch(t *testing.T) {
	for seed := int64(1); seed <= 4; seed++ {
		table := playMatch(t, seed,
			NewAgent("bot:smart", "Smart", NewSmartBot(DefaultTuning)),
			NewAgent("bot:greedy", "Greedy", &GreedyBot{}),
		)
		if !table.MatchOver || !table.MatchWinner.Valid() {
			t.Fatalf("seed %d: expected a match winner", seed)
		}
		if table.MatchWins[table.MatchWinner] != table.MatchTarget {
			t.Fatalf("seed %d: winner has %d wins, want %d", seed, table.MatchWins[table.MatchWinner], table.MatchTarget)
		}
		for _, s := range domain.Seats {
			if table.Scores[s] > table.GameTarget {
				t.Fatalf("seed %d: score %d exceeds target", seed, table.Scores[s])
			}
		}
	}
}

func TestAgents_LuaPlaysFullMatch(t *testing.T) {
	proto, err := LoadScript("../../data/opponent.lua")
	if err != nil {
		t.Fatalf("LoadScript failed: %v", err)
	}
	lb, err := NewLuaBot(proto)
	if err != nil {
		t.Fatalf("NewLuaBot failed: %v", err)
	}
	luaAgent := NewAgent("bot:lua", "Lua", lb)
	defer luaAgent.Close()

	table := playMatch(t, 11, luaAgent, NewAgent("bot:greedy", "Greedy", &GreedyBot{}))
	if !table.MatchOver {
		t.Fatal("expected the match to finish")
	}
}
