package nakama

const (
	// RpcJoinTable finds the match for a table id, creating it when none exists.
	RpcJoinTable = "join_table"
	// RpcCreatePrivateTable creates an invite-only table and returns its invite.
	RpcCreatePrivateTable = "create_private_table"
	// RpcGetStats returns the caller's lifetime cribbage record.
	RpcGetStats = "get_stats"
	// RpcTableSnapshot returns the spectator snapshot of a running match.
	RpcTableSnapshot = "table_snapshot"

	// MatchNameCribbage is the authoritative match handler name registered with Nakama.
	MatchNameCribbage = "cribbage_table"
)

// Storage and leaderboard ids.
const (
	StatsCollection      = "cribbage_stats"
	StatsKey             = "lifetime"
	LeaderboardMatchWins = "cribbage_match_wins"
)

// Op codes for client messages and server messages.
const (
	// Client -> Server
	OpDiscard             int64 = 1
	OpPlay                int64 = 2
	OpGo                  int64 = 3
	OpNextHand            int64 = 4
	OpNextGame            int64 = 5
	OpNewMatch            int64 = 6
	OpAddScriptedOpponent int64 = 7
	OpSetName             int64 = 8

	// Server -> Client
	OpSnapshot  int64 = 100 // sent privately to each presence
	OpRejection int64 = 101
)

// Match label keys.
const (
	MatchLabelKey_TableID   = "table_id"
	MatchLabelKey_OpenSeats = "open"
	MatchLabelKey_Stage     = "stage"
	MatchLabelKey_Private   = "private"
	MatchLabelKey_Humans    = "humans"
)

// Join metadata keys.
const (
	MetaDisplayName = "display_name"
	MetaFormat      = "format"
	MetaInvite      = "invite"
)

// Match create params.
const (
	ParamTableID = "table_id"
	ParamPrivate = "private"
)

// gRPC status codes used with runtime.NewError.
const (
	codeInvalidArgument    = 3
	codeNotFound           = 5
	codeFailedPrecondition = 9
	codeInternal           = 13
	codeUnauthenticated    = 16
)
