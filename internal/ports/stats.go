package ports

import "context"

// PlayerStats is the lifetime cribbage record of one account.
type PlayerStats struct {
	GamesPlayed int `json:"games_played"`
	GamesWon    int `json:"games_won"`
	MatchesWon  int `json:"matches_won"`
	BestScore   int `json:"best_score"`
}

// GameResult is one finished game from a single player's point of view.
type GameResult struct {
	UserID string
	Won    bool
	Score  int
}

// StatsPort records finished games and matches.
type StatsPort interface {
	// GetStats returns the stored record, or a zero record when none exists.
	GetStats(ctx context.Context, userID string) (PlayerStats, error)

	// RecordGame folds each result into the owner's record.
	RecordGame(ctx context.Context, results []GameResult) error

	// RecordMatchWin credits a match win to the user and the match-wins leaderboard.
	RecordMatchWin(ctx context.Context, userID, username string) error
}

// StatsInitPort creates the empty stats record at most once per user.
type StatsInitPort interface {
	// InitStatsOnce writes an empty record.
	// Returns created=false when a record already exists.
	InitStatsOnce(ctx context.Context, userID string) (bool, error)
}
