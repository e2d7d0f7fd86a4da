package bot

import (
	"errors"
	"sort"

	"cribbage/internal/domain"
)

var errHandTooSmall = errors.New("hand too small to discard")

// GreedyBot discards its two highest cards and always pegs its highest legal card.
type GreedyBot struct{}

func (b *GreedyBot) ChooseDiscard(v View) ([]domain.Card, error) {
	if len(v.Hand) < domain.DiscardSize {
		return nil, errHandTooSmall
	}
	sorted := append([]domain.Card(nil), v.Hand...)
	sortByValueDesc(sorted)
	return sorted[:domain.DiscardSize], nil
}

func (b *GreedyBot) ChoosePlay(v View) (Move, error) {
	playable := domain.PlayableCards(v.Hand, v.Count)
	if len(playable) == 0 {
		return Move{Go: true}, nil
	}
	sortByValueDesc(playable)
	return Move{Card: playable[0]}, nil
}

// sortByValueDesc orders by counting value, then rank, keeping deal order on ties.
func sortByValueDesc(cards []domain.Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		if cards[i].Value() != cards[j].Value() {
			return cards[i].Value() > cards[j].Value()
		}
		return cards[i].Rank > cards[j].Rank
	})
}
