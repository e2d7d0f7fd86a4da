package domain

import (
	"fmt"
	"math/bits"
)

// ScoreItem is one labelled scoring combination.
type ScoreItem struct {
	Label  string `json:"label"`
	Points int    `json:"points"`
}

// Breakdown is a labelled list of scoring items with their total.
type Breakdown struct {
	Items []ScoreItem `json:"items"`
	Total int         `json:"total"`
}

func (b *Breakdown) add(label string, pts int) {
	if pts <= 0 {
		return
	}
	b.Items = append(b.Items, ScoreItem{Label: label, Points: pts})
	b.Total += pts
}

// SumItems totals a list of scoring items.
func SumItems(items []ScoreItem) int {
	total := 0
	for _, it := range items {
		total += it.Points
	}
	return total
}

// PegPoints scores the card just played. pile is the play pile since the last
// reset ending with that card; count is the running count after it.
func PegPoints(pile []Card, count int) []ScoreItem {
	if len(pile) == 0 {
		return nil
	}
	var items []ScoreItem
	if count == 15 {
		items = append(items, ScoreItem{Label: "15 for 2", Points: 2})
	}
	if count == MaxCount {
		items = append(items, ScoreItem{Label: "31 for 2", Points: 2})
	}

	switch trailingSameRank(pile) {
	case 2:
		items = append(items, ScoreItem{Label: "pair for 2", Points: 2})
	case 3:
		items = append(items, ScoreItem{Label: "three of a kind for 6", Points: 6})
	case 4:
		items = append(items, ScoreItem{Label: "four of a kind for 12", Points: 12})
	}

	if n := pegRunLength(pile); n >= 3 {
		items = append(items, ScoreItem{Label: fmt.Sprintf("run of %d for %d", n, n), Points: n})
	}
	return items
}

// trailingSameRank counts consecutive cards at the end of the pile sharing the last card's rank.
func trailingSameRank(pile []Card) int {
	last := pile[len(pile)-1].Rank
	n := 1
	for i := len(pile) - 2; i >= 0 && pile[i].Rank == last; i-- {
		n++
	}
	return n
}

// pegRunLength returns the length of the longest trailing window of the pile whose ranks
// form a duplicate-free consecutive set, or 0 if none of length 3 or more exists.
func pegRunLength(pile []Card) int {
	for n := len(pile); n >= 3; n-- {
		if isRunSet(pile[len(pile)-n:]) {
			return n
		}
	}
	return 0
}

func isRunSet(cards []Card) bool {
	var seen [King + 1]bool
	lo, hi := King, Ace
	for _, c := range cards {
		if seen[c.Rank] {
			return false
		}
		seen[c.Rank] = true
		if c.Rank < lo {
			lo = c.Rank
		}
		if c.Rank > hi {
			hi = c.Rank
		}
	}
	return int(hi-lo) == len(cards)-1
}

// ScoreHand counts a 4-card hand (or crib) together with the cut card.
func ScoreHand(hand []Card, cut Card, isCrib bool) Breakdown {
	all := make([]Card, 0, len(hand)+1)
	all = append(all, hand...)
	all = append(all, cut)

	var b Breakdown
	if n := countFifteens(all); n > 0 {
		b.add(fmt.Sprintf("%d fifteen%s", n, plural(n)), 2*n)
	}
	if n := countPairs(all); n > 0 {
		b.add(fmt.Sprintf("%d pair%s", n, plural(n)), 2*n)
	}
	if length, mult := runsWithMultiplicity(all); length >= 3 {
		label := fmt.Sprintf("run of %d", length)
		if mult > 1 {
			label = fmt.Sprintf("%d runs of %d", mult, length)
		}
		b.add(label, length*mult)
	}
	if pts := flushPoints(hand, cut, isCrib); pts > 0 {
		b.add(fmt.Sprintf("%d-card flush", pts), pts)
	}
	if hasNobs(hand, cut) {
		b.add("nobs", 1)
	}
	return b
}

// ComboPoints scores fifteens, pairs and runs over any set of cards, ignoring flush and nobs.
// It is used to estimate partial hands.
func ComboPoints(cards []Card) int {
	pts := 2*countFifteens(cards) + 2*countPairs(cards)
	if length, mult := runsWithMultiplicity(cards); length >= 3 {
		pts += length * mult
	}
	return pts
}

// countFifteens counts subsets of two or more cards whose values sum to 15.
func countFifteens(cards []Card) int {
	n := 0
	for mask := uint(1); mask < 1<<len(cards); mask++ {
		if bits.OnesCount(mask) < 2 {
			continue
		}
		sum := 0
		for i, c := range cards {
			if mask&(1<<i) != 0 {
				sum += c.Value()
			}
		}
		if sum == 15 {
			n++
		}
	}
	return n
}

// countPairs returns the number of distinct same-rank pairs.
func countPairs(cards []Card) int {
	var counts [King + 1]int
	for _, c := range cards {
		counts[c.Rank]++
	}
	pairs := 0
	for _, k := range counts {
		pairs += k * (k - 1) / 2
	}
	return pairs
}

// runsWithMultiplicity finds the longest run length present and how many distinct
// card combinations form runs of that length.
func runsWithMultiplicity(cards []Card) (length, mult int) {
	var counts [King + 1]int
	for _, c := range cards {
		counts[c.Rank]++
	}
	for n := len(cards); n >= 3; n-- {
		total := 0
		for start := Ace; int(start)+n-1 <= int(King); start++ {
			m := 1
			for r := start; r < start+Rank(n); r++ {
				m *= counts[r]
				if m == 0 {
					break
				}
			}
			total += m
		}
		if total > 0 {
			return n, total
		}
	}
	return 0, 0
}

// flushPoints scores a flush. A crib only scores a five-card flush.
func flushPoints(hand []Card, cut Card, isCrib bool) int {
	if len(hand) == 0 {
		return 0
	}
	suit := hand[0].Suit
	for _, c := range hand[1:] {
		if c.Suit != suit {
			return 0
		}
	}
	switch {
	case cut.Suit == suit:
		return len(hand) + 1
	case isCrib:
		return 0
	default:
		return len(hand)
	}
}

// hasNobs reports whether the hand holds the jack of the cut's suit.
func hasNobs(hand []Card, cut Card) bool {
	for _, c := range hand {
		if c.Rank == Jack && c.Suit == cut.Suit {
			return true
		}
	}
	return false
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
