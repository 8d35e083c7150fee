package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/amishk599/jobcache/internal/model"
	"github.com/amishk599/jobcache/internal/search"
)

var _ model.CacheStore = (*RedisStore)(nil)

const defaultRedisPrefix = "jobcache:"

// redisRecord is the JSON stored per hash field. FetchedAt is unix nanoseconds.
type redisRecord struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Company     *string `json:"company"`
	Location    *string `json:"location"`
	URL         *string `json:"url"`
	DatePosted  *string `json:"date_posted"`
	IsRemote    bool    `json:"is_remote"`
	Source      string  `json:"source"`
	FetchedAt   int64   `json:"fetched_at"`
}

// RedisStore keeps the job cache in one Redis hash (id -> JSON record) plus
// the latest batch time. Writes go through MULTI/EXEC so a batch or a wipe
// is applied whole or not at all. Search loads every record and ranks in Go.
type RedisStore struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewRedisStore connects to redisURL (redis://host:port/db) and verifies the
// connection.
func NewRedisStore(ctx context.Context, redisURL string, opts ...Option) (*RedisStore, error) {
	o := buildOptions(opts)

	ropts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(ropts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis: %w", err)
	}

	prefix := o.prefix
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix, now: o.now}, nil
}

func (s *RedisStore) recordsKey() string   { return s.prefix + "records" }
func (s *RedisStore) fetchedAtKey() string { return s.prefix + "fetched_at" }
func (s *RedisStore) nextIDKey() string    { return s.prefix + "next_id" }

// HasAnyData returns true if at least one record is cached.
func (s *RedisStore) HasAnyData(ctx context.Context) (bool, error) {
	n, err := s.client.HLen(ctx, s.recordsKey()).Result()
	if err != nil {
		return false, fmt.Errorf("checking for cached records: %w", err)
	}
	return n > 0, nil
}

// MostRecentFetchTime returns the time of the latest inserted batch, or nil
// when empty.
func (s *RedisStore) MostRecentFetchTime(ctx context.Context) (*time.Time, error) {
	has, err := s.HasAnyData(ctx)
	if err != nil || !has {
		return nil, err
	}
	nanos, err := s.client.Get(ctx, s.fetchedAtKey()).Int64()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading most recent fetch time: %w", err)
	}
	t := time.Unix(0, nanos).UTC()
	return &t, nil
}

// InsertAll stores the batch in one MULTI/EXEC. Ids are reserved up front
// with INCRBY, so a failed batch leaves a gap in the sequence and nothing else.
func (s *RedisStore) InsertAll(ctx context.Context, records []model.Record) error {
	if len(records) == 0 {
		return nil
	}
	fetchedAt := s.now().UTC().UnixNano()

	last, err := s.client.IncrBy(ctx, s.nextIDKey(), int64(len(records))).Result()
	if err != nil {
		return &model.PersistenceError{Op: "insert", Err: fmt.Errorf("reserve ids: %w", err)}
	}
	first := last - int64(len(records)) + 1

	fields := make([]any, 0, 2*len(records))
	for i, r := range records {
		id := first + int64(i)
		data, err := json.Marshal(redisRecord{
			ID:          id,
			Title:       search.Normalize(r.Title),
			Description: r.Description,
			Company:     r.Company,
			Location:    r.Location,
			URL:         r.URL,
			DatePosted:  r.DatePosted,
			IsRemote:    r.IsRemote,
			Source:      string(r.Source),
			FetchedAt:   fetchedAt,
		})
		if err != nil {
			return &model.PersistenceError{Op: "insert", Err: fmt.Errorf("record %d: %w", i, err)}
		}
		fields = append(fields, strconv.FormatInt(id, 10), data)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, s.recordsKey(), fields...)
		pipe.Set(ctx, s.fetchedAtKey(), fetchedAt, 0)
		return nil
	})
	if err != nil {
		return &model.PersistenceError{Op: "insert", Err: fmt.Errorf("exec: %w", err)}
	}
	return nil
}

// WipeAll deletes every record and returns how many were removed.
func (s *RedisStore) WipeAll(ctx context.Context) (int64, error) {
	var count *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		count = pipe.HLen(ctx, s.recordsKey())
		pipe.Del(ctx, s.recordsKey(), s.fetchedAtKey())
		return nil
	})
	if err != nil {
		return 0, &model.PersistenceError{Op: "wipe", Err: fmt.Errorf("exec: %w", err)}
	}
	return count.Val(), nil
}

// SearchByTitle ranks every stored record in Go.
func (s *RedisStore) SearchByTitle(ctx context.Context, query string) ([]model.Record, error) {
	query = search.Normalize(query)
	if query == "" {
		return nil, nil
	}

	all, err := s.loadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("searching %q: %w", query, err)
	}
	return search.Match(query, all, func() ([]model.Record, error) {
		return all, nil
	})
}

func (s *RedisStore) loadAll(ctx context.Context) ([]model.Record, error) {
	vals, err := s.client.HVals(ctx, s.recordsKey()).Result()
	if err != nil {
		return nil, err
	}

	records := make([]model.Record, 0, len(vals))
	for _, v := range vals {
		var rr redisRecord
		if err := json.Unmarshal([]byte(v), &rr); err != nil {
			return nil, fmt.Errorf("decoding job record: %w", err)
		}
		records = append(records, model.Record{
			ID:          rr.ID,
			Title:       rr.Title,
			Description: rr.Description,
			Company:     rr.Company,
			Location:    rr.Location,
			URL:         rr.URL,
			DatePosted:  rr.DatePosted,
			IsRemote:    rr.IsRemote,
			Source:      model.ProviderID(rr.Source),
			FetchedAt:   time.Unix(0, rr.FetchedAt).UTC(),
		})
	}
	// HVALS order is arbitrary.
	sort.Slice(records, func(i, j int) bool { return records[i].ID < records[j].ID })
	return records, nil
}

// Close closes the client connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
