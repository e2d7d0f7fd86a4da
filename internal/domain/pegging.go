package domain

// PegState is the shared pegging pile since the last count reset.
type PegState struct {
	Count      int     `json:"count"`
	Pile       []Card  `json:"pile"`
	LastPlayer Seat    `json:"last_player"`
	Go         [2]bool `json:"go"`
}

// NewPegState returns an empty pile with no last player.
func NewPegState() PegState {
	return PegState{LastPlayer: SeatNone}
}

// CanPlay reports whether c can be added at the given count.
func CanPlay(c Card, count int) bool {
	return count+c.Value() <= MaxCount
}

// CanPlayAny reports whether any card of hand can be added at the given count.
func CanPlayAny(hand []Card, count int) bool {
	for _, c := range hand {
		if CanPlay(c, count) {
			return true
		}
	}
	return false
}

// PlayableCards returns the cards of hand that can be added at the given count.
func PlayableCards(hand []Card, count int) []Card {
	var out []Card
	for _, c := range hand {
		if CanPlay(c, count) {
			out = append(out, c)
		}
	}
	return out
}

// Play adds c to the pile for seat and returns the points it scores.
// The caller checks legality first.
func (p *PegState) Play(seat Seat, c Card) []ScoreItem {
	p.Count += c.Value()
	p.Pile = append(p.Pile, c)
	p.LastPlayer = seat
	return PegPoints(p.Pile, p.Count)
}

// Reset clears the pile, count and GO flags for a new sequence.
func (p *PegState) Reset() {
	p.Count = 0
	p.Pile = nil
	p.LastPlayer = SeatNone
	p.Go = [2]bool{}
}

// LastCard returns the seat owed the last-card point for the current sequence.
// Nothing is owed for an empty sequence or one that ended on 31.
func (p *PegState) LastCard() (Seat, bool) {
	if p.Count == 0 || p.Count == MaxCount || !p.LastPlayer.Valid() {
		return SeatNone, false
	}
	return p.LastPlayer, true
}
