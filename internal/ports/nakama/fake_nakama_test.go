package nakama

import (
	"context"
	"fmt"
	"strconv"

	"github.com/heroiclabs/nakama-common/api"
	"github.com/heroiclabs/nakama-common/runtime"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type storedObject struct {
	value   string
	version string
}

// fakeNakama implements the parts of runtime.NakamaModule the adapters use.
type fakeNakama struct {
	runtime.NakamaModule

	accounts       map[string]*api.User
	profileUpdates map[string]string

	objects       map[string]storedObject
	versionSeq    int
	rejectWrites  int // forces this many version conflicts
	storageWrites int

	leaderboard map[string]int64

	matches      []*api.Match
	created      []map[string]interface{}
	signals      map[string]string
	lastQuery    string
	matchListErr error
}

func newFakeNakama() *fakeNakama {
	return &fakeNakama{
		accounts:       make(map[string]*api.User),
		profileUpdates: make(map[string]string),
		objects:        make(map[string]storedObject),
		leaderboard:    make(map[string]int64),
		signals:        make(map[string]string),
	}
}

func (f *fakeNakama) AccountGetId(ctx context.Context, userID string) (*api.Account, error) {
	user, ok := f.accounts[userID]
	if !ok {
		return nil, fmt.Errorf("account %s not found", userID)
	}
	return &api.Account{User: user}, nil
}

func (f *fakeNakama) AccountUpdateId(ctx context.Context, userID, username string, metadata map[string]interface{}, displayName, timezone, location, langTag, avatarUrl string) error {
	f.profileUpdates[userID] = displayName
	return nil
}

func storageKey(collection, key, userID string) string {
	return collection + "/" + key + "/" + userID
}

func (f *fakeNakama) StorageRead(ctx context.Context, reads []*runtime.StorageRead) ([]*api.StorageObject, error) {
	var out []*api.StorageObject
	for _, r := range reads {
		obj, ok := f.objects[storageKey(r.Collection, r.Key, r.UserID)]
		if !ok {
			continue
		}
		out = append(out, &api.StorageObject{
			Collection: r.Collection,
			Key:        r.Key,
			UserId:     r.UserID,
			Value:      obj.value,
			Version:    obj.version,
		})
	}
	return out, nil
}

func (f *fakeNakama) StorageWrite(ctx context.Context, writes []*runtime.StorageWrite) ([]*api.StorageObjectAck, error) {
	f.storageWrites++
	if f.rejectWrites > 0 {
		f.rejectWrites--
		return nil, runtime.ErrStorageRejectedVersion
	}
	var acks []*api.StorageObjectAck
	for _, w := range writes {
		k := storageKey(w.Collection, w.Key, w.UserID)
		existing, exists := f.objects[k]
		switch {
		case w.Version == "*" && exists:
			return nil, runtime.ErrStorageRejectedVersion
		case w.Version != "" && w.Version != "*" && (!exists || existing.version != w.Version):
			return nil, runtime.ErrStorageRejectedVersion
		}
		f.versionSeq++
		version := strconv.Itoa(f.versionSeq)
		f.objects[k] = storedObject{value: w.Value, version: version}
		acks = append(acks, &api.StorageObjectAck{Collection: w.Collection, Key: w.Key, UserId: w.UserID, Version: version})
	}
	return acks, nil
}

func (f *fakeNakama) LeaderboardRecordWrite(ctx context.Context, id, ownerID, username string, score, subscore int64, metadata map[string]interface{}, overrideOperator *int) (*api.LeaderboardRecord, error) {
	f.leaderboard[id+"/"+ownerID] += score
	return &api.LeaderboardRecord{LeaderboardId: id, OwnerId: ownerID, Score: f.leaderboard[id+"/"+ownerID]}, nil
}

func (f *fakeNakama) MatchList(ctx context.Context, limit int, authoritative bool, label string, minSize, maxSize *int, query string) ([]*api.Match, error) {
	f.lastQuery = query
	if f.matchListErr != nil {
		return nil, f.matchListErr
	}
	if len(f.matches) > limit {
		return f.matches[:limit], nil
	}
	return f.matches, nil
}

func (f *fakeNakama) MatchCreate(ctx context.Context, module string, params map[string]interface{}) (string, error) {
	f.created = append(f.created, params)
	return fmt.Sprintf("match-%d.nakama", len(f.created)), nil
}

func (f *fakeNakama) MatchSignal(ctx context.Context, id string, data string) (string, error) {
	out, ok := f.signals[id]
	if !ok {
		return "", fmt.Errorf("match %s not found", id)
	}
	return out, nil
}

func listedMatch(id, label string) *api.Match {
	return &api.Match{MatchId: id, Authoritative: true, Label: wrapperspb.String(label), Size: 1}
}
