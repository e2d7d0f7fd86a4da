package nakama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cribbage/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// statsWriteAttempts bounds optimistic-concurrency retries on the stats object.
const statsWriteAttempts = 3

type storedStats struct {
	ports.PlayerStats
	UpdatedAt string `json:"updated_at"`
}

// NakamaStatsAdapter keeps player records in Nakama storage and match wins on a leaderboard.
type NakamaStatsAdapter struct {
	nk  runtime.NakamaModule
	now func() time.Time
}

// NewNakamaStatsAdapter creates a new stats adapter.
func NewNakamaStatsAdapter(nk runtime.NakamaModule) *NakamaStatsAdapter {
	return &NakamaStatsAdapter{nk: nk, now: time.Now}
}

// GetStats returns the stored record, or a zero record when none exists.
func (a *NakamaStatsAdapter) GetStats(ctx context.Context, userID string) (ports.PlayerStats, error) {
	stats, _, err := a.read(ctx, userID)
	return stats, err
}

// RecordGame folds each result into the owner's record, retrying on concurrent writes.
func (a *NakamaStatsAdapter) RecordGame(ctx context.Context, results []ports.GameResult) error {
	for _, r := range results {
		if r.UserID == "" {
			continue
		}
		if err := a.update(ctx, r.UserID, func(s *ports.PlayerStats) {
			s.GamesPlayed++
			if r.Won {
				s.GamesWon++
			}
			s.BestScore = max(s.BestScore, r.Score)
		}); err != nil {
			return fmt.Errorf("failed to record game for user %s: %w", r.UserID, err)
		}
	}
	return nil
}

// RecordMatchWin credits a match win to the record and the match-wins leaderboard.
func (a *NakamaStatsAdapter) RecordMatchWin(ctx context.Context, userID, username string) error {
	if userID == "" {
		return fmt.Errorf("userID is required")
	}
	if err := a.update(ctx, userID, func(s *ports.PlayerStats) { s.MatchesWon++ }); err != nil {
		return fmt.Errorf("failed to record match win for user %s: %w", userID, err)
	}
	if _, err := a.nk.LeaderboardRecordWrite(ctx, LeaderboardMatchWins, userID, username, 1, 0, nil, nil); err != nil {
		return fmt.Errorf("failed to write leaderboard record for user %s: %w", userID, err)
	}
	return nil
}

// InitStatsOnce writes an empty record when the user has none.
func (a *NakamaStatsAdapter) InitStatsOnce(ctx context.Context, userID string) (bool, error) {
	if userID == "" {
		return false, fmt.Errorf("userID is required")
	}
	err := a.write(ctx, userID, ports.PlayerStats{}, "*")
	if errors.Is(err, runtime.ErrStorageRejectedVersion) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to initialize stats: %w", err)
	}
	return true, nil
}

func (a *NakamaStatsAdapter) update(ctx context.Context, userID string, apply func(*ports.PlayerStats)) error {
	var err error
	for attempt := 0; attempt < statsWriteAttempts; attempt++ {
		stats, version, readErr := a.read(ctx, userID)
		if readErr != nil {
			return readErr
		}
		apply(&stats)
		if version == "" {
			// Only create when nobody else has in the meantime.
			version = "*"
		}
		err = a.write(ctx, userID, stats, version)
		if !errors.Is(err, runtime.ErrStorageRejectedVersion) {
			return err
		}
	}
	return err
}

func (a *NakamaStatsAdapter) read(ctx context.Context, userID string) (ports.PlayerStats, string, error) {
	objects, err := a.nk.StorageRead(ctx, []*runtime.StorageRead{{
		Collection: StatsCollection,
		Key:        StatsKey,
		UserID:     userID,
	}})
	if err != nil {
		return ports.PlayerStats{}, "", fmt.Errorf("failed to read stats: %w", err)
	}
	if len(objects) == 0 {
		return ports.PlayerStats{}, "", nil
	}
	var stored storedStats
	if err := json.Unmarshal([]byte(objects[0].GetValue()), &stored); err != nil {
		return ports.PlayerStats{}, "", fmt.Errorf("failed to unmarshal stats: %w", err)
	}
	return stored.PlayerStats, objects[0].GetVersion(), nil
}

func (a *NakamaStatsAdapter) write(ctx context.Context, userID string, stats ports.PlayerStats, version string) error {
	value, err := json.Marshal(storedStats{PlayerStats: stats, UpdatedAt: a.now().UTC().Format(time.RFC3339)})
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}
	_, err = a.nk.StorageWrite(ctx, []*runtime.StorageWrite{{
		Collection:      StatsCollection,
		Key:             StatsKey,
		UserID:          userID,
		Value:           string(value),
		Version:         version,
		PermissionRead:  runtime.STORAGE_PERMISSION_PUBLIC_READ,
		PermissionWrite: runtime.STORAGE_PERMISSION_NO_WRITE,
	}})
	return err
}

var (
	_ ports.StatsPort     = (*NakamaStatsAdapter)(nil)
	_ ports.StatsInitPort = (*NakamaStatsAdapter)(nil)
)
