package bot

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"

	"cribbage/internal/app"
)

// IDPrefix marks scripted opponent user ids. Such ids never belong to a Nakama account.
const IDPrefix = "bot:"

// Identity is a named scripted opponent persona.
type Identity struct {
	UserID      string `json:"-"`
	DisplayName string `json:"display_name"`
	// Strategy overrides the configured default when set.
	Strategy string `json:"strategy"`
}

var (
	botIdentities []Identity
	loadOnce      sync.Once
	loadErr       error
)

// LoadIdentities loads the persona pool from the given path.
func LoadIdentities(path string) error {
	loadOnce.Do(func() {
		data, err := os.ReadFile(path)
		if err != nil {
			loadErr = fmt.Errorf("failed to read bot identities: %w", err)
			return
		}
		var pool []Identity
		if err := json.Unmarshal(data, &pool); err != nil {
			loadErr = fmt.Errorf("failed to unmarshal bot identities: %w", err)
			return
		}
		botIdentities = pool
	})
	return loadErr
}

// NewIdentity returns persona index (mod pool size) with a fresh user id. The first
// persona without a loaded pool is the default captain.
func NewIdentity(index int) Identity {
	id := Identity{DisplayName: app.ScriptedOpponentName}
	if len(botIdentities) > 0 {
		if index < 0 {
			index = -index
		}
		id = botIdentities[index%len(botIdentities)]
	}
	id.UserID = IDPrefix + uuid.NewString()
	return id
}

// IsBot reports whether the given user ID belongs to a scripted opponent.
func IsBot(userID string) bool {
	return strings.HasPrefix(userID, IDPrefix)
}
