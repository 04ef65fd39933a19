package seed

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"time"

	"github.com/lenzenc/convo/internal/storage"
)

type Store interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, opts storage.PutOptions) (storage.ObjectInfo, error)
	List(ctx context.Context, prefix string, max int) ([]storage.ObjectInfo, error)
	Delete(ctx context.Context, key string) error
}

type Seeder struct {
	store  Store
	logger *slog.Logger
}

type Summary struct {
	Sessions int
	Entries  int
	Files    int
	Purged   int
}

func New(store Store, logger *slog.Logger) *Seeder {
	return &Seeder{store: store, logger: logger}
}

// Run replaces the corpus: it deletes every existing parquet file
// under the table prefix and uploads a freshly generated corpus, one
// file per (date, hour) partition.
func (s *Seeder) Run(ctx context.Context, sessions int, randomSeed int64) (Summary, error) {
	if sessions <= 0 {
		return Summary{}, fmt.Errorf("sessions must be > 0, got %d", sessions)
	}

	purged, err := s.purge(ctx)
	if err != nil {
		return Summary{}, err
	}

	entries := NewGenerator(randomSeed).Generate(sessions)
	partitions := partition(entries)

	summary := Summary{Sessions: sessions, Entries: len(entries), Purged: purged}
	for _, part := range partitions {
		data, err := EncodeEntries(part.entries)
		if err != nil {
			return Summary{}, err
		}
		key, err := storage.BuildEntryFilePath(part.day, part.hour, 0)
		if err != nil {
			return Summary{}, err
		}
		if _, err := s.store.Put(ctx, key, bytes.NewReader(data), int64(len(data)), storage.PutOptions{ContentType: "application/octet-stream"}); err != nil {
			return Summary{}, err
		}
		summary.Files++
		if s.logger != nil {
			s.logger.Debug("uploaded partition",
				slog.String("key", key),
				slog.Int("entries", len(part.entries)),
			)
		}
	}

	if s.logger != nil {
		s.logger.Info("seed complete",
			slog.Int("sessions", summary.Sessions),
			slog.Int("entries", summary.Entries),
			slog.Int("files", summary.Files),
			slog.Int("purged", summary.Purged),
		)
	}
	return summary, nil
}

func (s *Seeder) purge(ctx context.Context) (int, error) {
	infos, err := s.store.List(ctx, storage.TablePrefix, 0)
	if err != nil {
		return 0, err
	}
	for _, info := range infos {
		if err := s.store.Delete(ctx, info.Key); err != nil {
			return 0, err
		}
	}
	return len(infos), nil
}

type partitionGroup struct {
	day     time.Time
	hour    int
	entries []Entry
}

// partition groups entries by (date, hour) in a stable order.
func partition(entries []Entry) []partitionGroup {
	type key struct {
		day  string
		hour int
	}
	grouped := make(map[key][]Entry)
	days := make(map[string]time.Time)
	for _, entry := range entries {
		k := key{day: entry.Date.Format("2006-01-02"), hour: entry.Hour}
		grouped[k] = append(grouped[k], entry)
		days[k.day] = entry.Date
	}

	keys := make([]key, 0, len(grouped))
	for k := range grouped {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].day != keys[j].day {
			return keys[i].day < keys[j].day
		}
		return keys[i].hour < keys[j].hour
	})

	groups := make([]partitionGroup, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, partitionGroup{day: days[k.day], hour: k.hour, entries: grouped[k]})
	}
	return groups
}
