// Package cache stores keyword analysis results in redis so repeated
// analyses of the same keyword within the TTL do not hit the backend's
// rate-limited data sources again.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"threadlens/internal/api"
)

type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Store{rdb: rdb, ttl: ttl}
}

func keywordKey(keyword string) string {
	return fmt.Sprintf("threadlens:analysis:keyword:%s", strings.ToLower(strings.TrimSpace(keyword)))
}

// GetKeywordAnalysis returns the cached analysis for a keyword, with
// ok=false on a cache miss. A nil store always misses.
func (s *Store) GetKeywordAnalysis(ctx context.Context, keyword string) (api.KeywordAnalysis, bool, error) {
	if s == nil || s.rdb == nil {
		return api.KeywordAnalysis{}, false, nil
	}
	b, err := s.rdb.Get(ctx, keywordKey(keyword)).Bytes()
	if err == redis.Nil {
		return api.KeywordAnalysis{}, false, nil
	}
	if err != nil {
		return api.KeywordAnalysis{}, false, err
	}
	var a api.KeywordAnalysis
	if err := json.Unmarshal(b, &a); err != nil {
		return api.KeywordAnalysis{}, false, err
	}
	return a, true, nil
}

// SetKeywordAnalysis stores an analysis result under the keyword for
// the configured TTL. A nil store is a no-op.
func (s *Store) SetKeywordAnalysis(ctx context.Context, keyword string, a api.KeywordAnalysis) error {
	if s == nil || s.rdb == nil {
		return nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keywordKey(keyword), b, s.ttl).Err()
}
