package bot

import (
	"fmt"
	"testing"

	"cribbage/internal/config"
	"cribbage/internal/domain"
)

func cd(r domain.Rank, s domain.Suit) domain.Card {
	return domain.Card{ID: fmt.Sprintf("c%d", int(s)*13+int(r)-1), Rank: r, Suit: s}
}

func unseenWithout(cards ...domain.Card) []domain.Card {
	skip := make(map[string]bool, len(cards))
	for _, c := range cards {
		skip[c.ID] = true
	}
	var out []domain.Card
	for _, c := range domain.NewDeck() {
		if !skip[c.ID] {
			out = append(out, c)
		}
	}
	return out
}

func TestGreedyBot_DiscardsHighest(t *testing.T) {
	hand := []domain.Card{
		cd(2, domain.SuitSpades), cd(domain.King, domain.SuitHearts), cd(5, domain.SuitClubs),
		cd(domain.Queen, domain.SuitDiamonds), cd(3, domain.SuitClubs), cd(domain.Ace, domain.SuitSpades),
	}
	got, err := (&GreedyBot{}).ChooseDiscard(View{Hand: hand})
	if err != nil {
		t.Fatalf("ChooseDiscard failed: %v", err)
	}
	if len(got) != 2 || got[0].Rank != domain.King || got[1].Rank != domain.Queen {
		t.Fatalf("expected K and Q, got %v", got)
	}
	if hand[1].Rank != domain.King || hand[3].Rank != domain.Queen {
		t.Fatal("ChooseDiscard must not reorder the caller's hand")
	}
	if _, err := (&GreedyBot{}).ChooseDiscard(View{Hand: hand[:1]}); err == nil {
		t.Fatal("expected error for a one-card hand")
	}
}

func TestGreedyBot_ChoosePlay(t *testing.T) {
	tests := []struct {
		name   string
		hand   []domain.Card
		count  int
		wantGo bool
		want   domain.Rank
	}{
		{name: "highest legal", hand: []domain.Card{cd(domain.Queen, domain.SuitSpades), cd(6, domain.SuitHearts), cd(3, domain.SuitClubs)}, count: 25, want: 6},
		{name: "face card at zero", hand: []domain.Card{cd(domain.Queen, domain.SuitSpades), cd(6, domain.SuitHearts)}, count: 0, want: domain.Queen},
		{name: "go when blocked", hand: []domain.Card{cd(9, domain.SuitSpades)}, count: 25, wantGo: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			move, err := (&GreedyBot{}).ChoosePlay(View{Hand: tt.hand, Count: tt.count})
			if err != nil {
				t.Fatalf("ChoosePlay failed: %v", err)
			}
			if move.Go != tt.wantGo {
				t.Fatalf("Go = %v, want %v", move.Go, tt.wantGo)
			}
			if !tt.wantGo && move.Card.Rank != tt.want {
				t.Fatalf("played %s, want rank %s", move.Card, tt.want)
			}
		})
	}
}

func TestSmartBot_TakesFifteen(t *testing.T) {
	pile := []domain.Card{cd(domain.King, domain.SuitSpades)}
	hand := []domain.Card{cd(9, domain.SuitHearts), cd(5, domain.SuitClubs), cd(domain.Ace, domain.SuitClubs)}
	v := View{Hand: hand, Pile: pile, Count: 10, Unseen: unseenWithout(append(hand, pile...)...), OpponentCards: 3, GameTarget: 121}

	move, err := NewSmartBot(DefaultTuning).ChoosePlay(v)
	if err != nil {
		t.Fatalf("ChoosePlay failed: %v", err)
	}
	if move.Go || move.Card.Rank != 5 {
		t.Fatalf("expected the five for fifteen, got %+v", move)
	}
}

func TestSmartBot_EndgameIgnoresReplyRisk(t *testing.T) {
	hand := []domain.Card{cd(5, domain.SuitHearts), cd(4, domain.SuitClubs)}
	v := View{Hand: hand, Unseen: unseenWithout(hand...), OpponentCards: 4, GameTarget: 121}
	bot := NewSmartBot(DefaultTuning)

	move, _ := bot.ChoosePlay(v)
	if move.Card.Rank != 4 {
		t.Fatalf("early in the game expected the safe four lead, got %s", move.Card)
	}

	v.MyScore = 118
	move, _ = bot.ChoosePlay(v)
	if move.Card.Rank != 5 {
		t.Fatalf("near the target expected to shed the five, got %s", move.Card)
	}
}

func TestSmartBot_DiscardKeepsFives(t *testing.T) {
	hand := []domain.Card{
		cd(5, domain.SuitSpades), cd(5, domain.SuitHearts), cd(5, domain.SuitDiamonds),
		cd(domain.Jack, domain.SuitClubs), cd(domain.King, domain.SuitSpades), cd(2, domain.SuitClubs),
	}
	got, err := NewSmartBot(DefaultTuning).ChooseDiscard(View{Hand: hand, Unseen: unseenWithout(hand...)})
	if err != nil {
		t.Fatalf("ChooseDiscard failed: %v", err)
	}
	for _, c := range got {
		if c.Rank == 5 {
			t.Fatalf("smart bot threw away a five: %v", got)
		}
	}
}

func TestNewBrain(t *testing.T) {
	proto, err := CompileScript("inline", testScript)
	if err != nil {
		t.Fatalf("CompileScript failed: %v", err)
	}
	tests := []struct {
		strategy string
		wantErr  bool
	}{
		{config.BotStrategyGreedy, false},
		{config.BotStrategySmart, false},
		{"", false},
		{config.BotStrategyLua, false},
		{"oracle", true},
	}
	for _, tt := range tests {
		b, err := NewBrain(tt.strategy, proto)
		if (err != nil) != tt.wantErr {
			t.Fatalf("NewBrain(%q) error = %v, wantErr %v", tt.strategy, err, tt.wantErr)
		}
		if lb, ok := b.(*LuaBot); ok {
			lb.Close()
		}
	}
	if _, err := NewBrain(config.BotStrategyLua, nil); err == nil {
		t.Fatal("expected error for lua strategy without a script")
	}
}
