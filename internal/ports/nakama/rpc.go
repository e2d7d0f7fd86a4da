package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"cribbage/internal/app"
	"cribbage/internal/ports"

	"github.com/google/uuid"
	"github.com/heroiclabs/nakama-common/runtime"
)

var tableIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,64}$`)

// JoinTableRequest names the table to join. An empty table id quick-matches into an
// open public lobby.
type JoinTableRequest struct {
	TableID     string `json:"table_id"`
	DisplayName string `json:"display_name"`
}

// JoinTableResponse is the payload returned to clients when resolving a table.
type JoinTableResponse struct {
	MatchID string `json:"match_id"`
	TableID string `json:"table_id"`
	IsNew   bool   `json:"is_new"`
}

// PrivateTableResponse carries the invite every other player must present on join.
type PrivateTableResponse struct {
	MatchID string `json:"match_id"`
	TableID string `json:"table_id"`
	Invite  string `json:"invite"`
}

type tableSnapshotRequest struct {
	MatchID string `json:"match_id"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer, deps *moduleDeps) error {
	rpcs := map[string]func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error){
		RpcJoinTable:          rpcJoinTable,
		RpcCreatePrivateTable: rpcCreatePrivateTable(deps.Invites),
		RpcGetStats:           rpcGetStats,
		RpcTableSnapshot:      rpcTableSnapshot,
	}
	for id, fn := range rpcs {
		if err := initializer.RegisterRpc(id, fn); err != nil {
			return fmt.Errorf("register rpc %s: %w", id, err)
		}
	}
	return nil
}

// sanitizeTableID trims the id and checks it against the allowed alphabet.
// An empty id is valid and means "any table".
func sanitizeTableID(id string) (string, bool) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", true
	}
	return id, tableIDPattern.MatchString(id)
}

func rpcJoinTable(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("authentication required", codeUnauthenticated)
	}

	var req JoinTableRequest
	if payload != "" {
		if err := json.Unmarshal([]byte(payload), &req); err != nil {
			return "", runtime.NewError("invalid payload", codeInvalidArgument)
		}
	}
	tableID, ok := sanitizeTableID(req.TableID)
	if !ok {
		return "", runtime.NewError("invalid table_id", codeInvalidArgument)
	}

	if req.DisplayName != "" {
		// Picked up by MatchJoin when the client sends no display_name metadata.
		if err := NewNakamaAccountAdapter(nk).UpdateProfile(ctx, userID, "", req.DisplayName); err != nil {
			logger.Warn("rpcJoinTable [User:%s]: Failed to update display name: %v", userID, err)
		}
	}

	query := fmt.Sprintf("+label.%s:%s", MatchLabelKey_TableID, tableID)
	if tableID == "" {
		query = fmt.Sprintf("+label.%s:>=1 +label.%s:F +label.%s:%s",
			MatchLabelKey_OpenSeats, MatchLabelKey_Private, MatchLabelKey_Stage, "lobby")
	}
	minSize, maxSize := 0, 2
	matches, err := nk.MatchList(ctx, 1, true, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("rpcJoinTable [User:%s]: Failed to list matches: %v", userID, err)
		return "", runtime.NewError("failed to list tables", codeInternal)
	}

	resp := JoinTableResponse{TableID: tableID}
	if len(matches) > 0 {
		resp.MatchID = matches[0].GetMatchId()
		if resp.TableID == "" {
			resp.TableID = labelTableID(matches[0].GetLabel().GetValue())
		}
		logger.Info("rpcJoinTable [User:%s]: Found table %s in match %s", userID, resp.TableID, resp.MatchID)
	} else {
		if resp.TableID == "" {
			resp.TableID = uuid.NewString()
		}
		// Two callers racing on a fresh table id can both create a match; the
		// listing returns whichever was labelled first afterwards.
		resp.MatchID, err = nk.MatchCreate(ctx, MatchNameCribbage, map[string]interface{}{
			ParamTableID: resp.TableID,
			ParamPrivate: false,
		})
		if err != nil {
			logger.Error("rpcJoinTable [User:%s]: Failed to create match: %v", userID, err)
			return "", runtime.NewError("failed to create table", codeInternal)
		}
		resp.IsNew = true
		logger.Info("rpcJoinTable [User:%s]: Created table %s in match %s", userID, resp.TableID, resp.MatchID)
	}

	out, err := json.Marshal(resp)
	if err != nil {
		return "", runtime.NewError("failed to encode response", codeInternal)
	}
	return string(out), nil
}

func labelTableID(label string) string {
	var l map[string]interface{}
	if err := json.Unmarshal([]byte(label), &l); err != nil {
		return ""
	}
	id, _ := l[MatchLabelKey_TableID].(string)
	return id
}

func rpcCreatePrivateTable(invites *app.InviteService) func(context.Context, runtime.Logger, *sql.DB, runtime.NakamaModule, string) (string, error) {
	return func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
		userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
		if userID == "" {
			return "", runtime.NewError("authentication required", codeUnauthenticated)
		}
		if invites == nil {
			return "", runtime.NewError("private tables are not configured", codeFailedPrecondition)
		}

		tableID := uuid.NewString()
		matchID, err := nk.MatchCreate(ctx, MatchNameCribbage, map[string]interface{}{
			ParamTableID: tableID,
			ParamPrivate: true,
		})
		if err != nil {
			logger.Error("rpcCreatePrivateTable [User:%s]: Failed to create match: %v", userID, err)
			return "", runtime.NewError("failed to create table", codeInternal)
		}
		invite, err := invites.Issue(tableID, matchID, userID)
		if err != nil {
			logger.Error("rpcCreatePrivateTable [User:%s]: Failed to issue invite: %v", userID, err)
			return "", runtime.NewError("failed to issue invite", codeInternal)
		}

		logger.Info("rpcCreatePrivateTable [User:%s]: Created private table %s in match %s", userID, tableID, matchID)
		out, err := json.Marshal(PrivateTableResponse{MatchID: matchID, TableID: tableID, Invite: invite})
		if err != nil {
			return "", runtime.NewError("failed to encode response", codeInternal)
		}
		return string(out), nil
	}
}

func rpcGetStats(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("authentication required", codeUnauthenticated)
	}
	var stats ports.StatsPort = NewNakamaStatsAdapter(nk)
	record, err := stats.GetStats(ctx, userID)
	if err != nil {
		logger.Error("rpcGetStats [User:%s]: %v", userID, err)
		return "", runtime.NewError("failed to read stats", codeInternal)
	}
	out, err := json.Marshal(record)
	if err != nil {
		return "", runtime.NewError("failed to encode response", codeInternal)
	}
	return string(out), nil
}

// rpcTableSnapshot returns the spectator snapshot of a running table.
func rpcTableSnapshot(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	var req tableSnapshotRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil || req.MatchID == "" {
		return "", runtime.NewError("match_id is required", codeInvalidArgument)
	}
	out, err := nk.MatchSignal(ctx, req.MatchID, signalSnapshot)
	if err != nil {
		logger.Warn("rpcTableSnapshot: Failed to signal match %s: %v", req.MatchID, err)
		return "", runtime.NewError("table not found", codeNotFound)
	}
	if out == "" {
		return "", runtime.NewError("table not found", codeNotFound)
	}
	return out, nil
}
