package app

import "cribbage/internal/domain"

// SeatView is the public view of one seat.
type SeatView struct {
	Seat         domain.Seat `json:"seat"`
	DisplayName  string      `json:"display_name"`
	Occupied     bool        `json:"occupied"`
	Connected    bool        `json:"connected"`
	Scripted     bool        `json:"scripted"`
	HandCount    int         `json:"hand_count"`
	DiscardCount int         `json:"discard_count"`
	Score        int         `json:"score"`
	MatchWins    int         `json:"match_wins"`
}

// PegView is the public pegging state.
type PegView struct {
	Count      int           `json:"count"`
	Pile       []domain.Card `json:"pile"`
	LastPlayer domain.Seat   `json:"last_player"`
	Go         [2]bool       `json:"go"`
}

// Snapshot is the state one seat is allowed to see. The opponent's cards and the
// crib contents stay hidden until the show.
type Snapshot struct {
	TableID    string       `json:"table_id"`
	Stage      domain.Stage `json:"stage"`
	HandNumber int          `json:"hand_number"`
	Me         domain.Seat  `json:"me"`
	Dealer     domain.Seat  `json:"dealer"`
	Turn       domain.Seat  `json:"turn"`
	Cut        *domain.Card `json:"cut"`

	Seats             [2]SeatView   `json:"seats"`
	Hand              []domain.Card `json:"hand"`
	OpponentHandCount int           `json:"opponent_hand_count"`
	CribCount         int           `json:"crib_count"`

	Peg       PegView            `json:"peg"`
	LastScore *domain.ScoreEvent `json:"last_score"`

	Scores      [2]int `json:"scores"`
	MatchWins   [2]int `json:"match_wins"`
	GameTarget  int    `json:"game_target"`
	MatchTarget int    `json:"match_target"`

	GameOver    bool        `json:"game_over"`
	MatchOver   bool        `json:"match_over"`
	Winner      domain.Seat `json:"winner"`
	MatchWinner domain.Seat `json:"match_winner"`

	Show *domain.Show `json:"show,omitempty"`

	Notice    string   `json:"notice"`
	NoticeSeq int      `json:"notice_seq"`
	Log       []string `json:"log"`
}

// SnapshotFor builds the public snapshot for seat. A seat of SeatNone yields a
// spectator view with no hand.
func SnapshotFor(t *domain.Table, seat domain.Seat) Snapshot {
	snap := Snapshot{
		TableID:     t.ID,
		Stage:       t.Stage,
		HandNumber:  t.HandNumber,
		Me:          seat,
		Dealer:      t.Dealer,
		Turn:        t.Turn,
		CribCount:   len(t.Crib),
		Scores:      t.Scores,
		MatchWins:   t.MatchWins,
		GameTarget:  t.GameTarget,
		MatchTarget: t.MatchTarget,
		GameOver:    t.GameOver,
		MatchOver:   t.MatchOver,
		Winner:      t.Winner,
		MatchWinner: t.MatchWinner,
		Notice:      t.Notice,
		NoticeSeq:   t.NoticeSeq,
		Peg: PegView{
			Count:      t.Peg.Count,
			Pile:       append([]domain.Card(nil), t.Peg.Pile...),
			LastPlayer: t.Peg.LastPlayer,
			Go:         t.Peg.Go,
		},
	}
	if t.Stage != domain.StageLobby && t.Cut != nil {
		cut := *t.Cut
		snap.Cut = &cut
	}
	if t.LastScore != nil {
		ls := *t.LastScore
		ls.Reasons = append([]string(nil), ls.Reasons...)
		snap.LastScore = &ls
	}

	for _, s := range domain.Seats {
		info := t.Seats[s]
		snap.Seats[s] = SeatView{
			Seat:         s,
			DisplayName:  info.DisplayName,
			Occupied:     info.Occupied(),
			Connected:    info.Connected,
			Scripted:     info.Scripted,
			HandCount:    len(visibleHand(t, s)),
			DiscardCount: len(t.Discards[s]),
			Score:        t.Scores[s],
			MatchWins:    t.MatchWins[s],
		}
	}
	if seat.Valid() {
		snap.Hand = visibleHand(t, seat)
		snap.OpponentHandCount = len(visibleHand(t, seat.Other()))
	}

	if t.Show != nil && showVisible(t.Stage) {
		show := *t.Show
		snap.Show = &show
	}

	n := len(t.Log)
	start := max(n-SnapshotLogLines, 0)
	snap.Log = append([]string(nil), t.Log[start:]...)
	return snap
}

// visibleHand returns the cards seat currently holds for the stage.
func visibleHand(t *domain.Table, seat domain.Seat) []domain.Card {
	switch t.Stage {
	case domain.StageDiscard:
		return append([]domain.Card(nil), t.Hands[seat]...)
	case domain.StagePegging:
		return append([]domain.Card(nil), t.PegHands[seat]...)
	case domain.StageShow, domain.StageGameOver, domain.StageMatchOver:
		if t.Cut == nil {
			return nil
		}
		// A game won during pegging has no show.
		if t.Show == nil {
			return append([]domain.Card(nil), t.PegHands[seat]...)
		}
		return t.ShowHands[seat].Cards()
	}
	return nil
}

func showVisible(stage domain.Stage) bool {
	switch stage {
	case domain.StageShow, domain.StageGameOver, domain.StageMatchOver:
		return true
	}
	return false
}
