// Package snapshot keeps the last known gradebook of each user in Redis so a
// client can repaint without a database round trip.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/redis/go-redis/v9"

	"bmgrades.app/tracker/internal/curriculum"
	"bmgrades.app/tracker/internal/gradebook"
)

// Store loads and saves gradebook snapshots.
type Store interface {
	// Load returns the user's snapshot. ok is false when none was saved.
	Load(ctx context.Context, userID int64) (state gradebook.State, ok bool, err error)
	Save(ctx context.Context, userID int64, state gradebook.State) error
}

type redisStore struct {
	client        redis.Cmdable
	prefix        string
	defaultBMType curriculum.BMType
}

// NewRedisStore builds a Store on client. prefix namespaces every key;
// defaultBMType fills snapshots saved without one.
func NewRedisStore(client redis.Cmdable, prefix string, defaultBMType curriculum.BMType) Store {
	return &redisStore{client: client, prefix: prefix, defaultBMType: defaultBMType}
}

// DataKey is the key of the full snapshot record.
func DataKey(prefix string, userID int64) string {
	return fmt.Sprintf("%sbm-calculator-data:%d", prefix, userID)
}

// SemesterKey is the key of the scalar current semester.
func SemesterKey(prefix string, userID int64) string {
	return fmt.Sprintf("%scurrentSemester:%d", prefix, userID)
}

func (s *redisStore) Load(ctx context.Context, userID int64) (gradebook.State, bool, error) {
	vals, err := s.client.MGet(ctx, DataKey(s.prefix, userID), SemesterKey(s.prefix, userID)).Result()
	if err != nil {
		return gradebook.State{}, false, fmt.Errorf("reading snapshot: %w", err)
	}

	data, _ := vals[0].(string)
	semester, _ := vals[1].(string)
	if data == "" {
		return gradebook.State{}, false, nil
	}

	state, err := Decode([]byte(data), semester, s.defaultBMType)
	if err != nil {
		return gradebook.State{}, false, err
	}
	return state, true, nil
}

func (s *redisStore) Save(ctx context.Context, userID int64, state gradebook.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, DataKey(s.prefix, userID), data, 0)
		pipe.Set(ctx, SemesterKey(s.prefix, userID), strconv.Itoa(state.CurrentSemester), 0)
		return nil
	})
	if err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return nil
}

// ErrCorrupt is returned for a snapshot record that is not valid JSON.
var ErrCorrupt = errors.New("corrupt snapshot")

// Decode parses a snapshot record. A parseable semester scalar takes priority
// over the record's own currentSemester; missing fields get their defaults.
func Decode(data []byte, semester string, defaultBMType curriculum.BMType) (gradebook.State, error) {
	var state gradebook.State
	if err := json.Unmarshal(data, &state); err != nil {
		return gradebook.State{}, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}

	if semester != "" {
		if n, err := strconv.Atoi(semester); err == nil && n >= 1 {
			state.CurrentSemester = n
		} else {
			slog.Warn("ignoring unparseable current semester in snapshot", "value", semester)
		}
	}

	return state.Normalize(defaultBMType), nil
}
