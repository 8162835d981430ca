package tasks

import (
	"encoding/json"
	"fmt"
	"log/slog"
)

// KV is the byte store a Snapshot reads from and writes to.
type KV interface {
	Get(key string) ([]byte, bool, error)
	Put(key string, value []byte) error
}

// Snapshot serializes the whole task list under a single key.
type Snapshot struct {
	kv     KV
	key    string
	logger *slog.Logger
}

func NewSnapshot(kv KV, key string, logger *slog.Logger) *Snapshot {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Snapshot{kv: kv, key: key, logger: logger}
}

// Load never fails: an absent, unreadable, or malformed snapshot yields
// an empty list. Records without a category get DefaultCategory.
func (s *Snapshot) Load() []Task {
	raw, ok, err := s.kv.Get(s.key)
	if err != nil {
		s.logger.Warn("failed to read snapshot", "key", s.key, "error", err)
		return []Task{}
	}
	if !ok {
		return []Task{}
	}

	var list []Task
	if err := json.Unmarshal(raw, &list); err != nil {
		s.logger.Warn("failed to load tasks", "key", s.key, "error", err)
		return []Task{}
	}
	if list == nil {
		return []Task{}
	}
	for i := range list {
		if list[i].Category == "" {
			list[i].Category = DefaultCategory
		}
	}
	s.logger.Debug("loaded snapshot", "key", s.key, "tasks", len(list))
	return list
}

func (s *Snapshot) Save(list []Task) error {
	if list == nil {
		list = []Task{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return fmt.Errorf("encoding tasks: %w", err)
	}
	if err := s.kv.Put(s.key, data); err != nil {
		return fmt.Errorf("writing snapshot %q: %w", s.key, err)
	}
	return nil
}
