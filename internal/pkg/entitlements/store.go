package entitlements

import (
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/TobiasFuchs/AdBoard/app/models"
	"github.com/TobiasFuchs/AdBoard/internal/pkg/cache"
)

// RuleCacheTTL bounds how stale a cached plan rule may get. Administrative
// rule changes take up to one TTL to propagate; there is no write-through
// invalidation.
const RuleCacheTTL = 10 * time.Minute

// Source reads plan rule rows from persistence.
type Source interface {
	// Lookup returns the raw value for (planID, key) and whether a row exists.
	Lookup(planID string, key FeatureKey) (string, bool, error)
}

type gormSource struct {
	db *gorm.DB
}

// NewSource creates a rule source backed by GORM.
func NewSource(db *gorm.DB) Source {
	return &gormSource{db: db}
}

func (s *gormSource) Lookup(planID string, key FeatureKey) (string, bool, error) {
	var rule models.PlanRule
	err := s.db.Where("plan_id = ? AND rule_key = ?", planID, string(key)).First(&rule).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", false, nil
		}
		return "", false, err
	}
	return rule.Value, true, nil
}

// Cache is the minimal cache surface the rule store needs. Production uses
// the shared Redis cache; tests inject an in-memory fake with a fake clock.
type Cache interface {
	// Get returns the cached value and whether the key was present.
	Get(key string) (string, bool, error)
	Set(key string, value string, ttl time.Duration) error
}

// redisCache adapts internal/pkg/cache to the Cache interface.
type redisCache struct{}

func (redisCache) Get(key string) (string, bool, error) {
	v, err := cache.Get(key)
	if err != nil {
		if cache.IsMiss(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return v, true, nil
}

func (redisCache) Set(key string, value string, ttl time.Duration) error {
	return cache.Set(key, value, ttl)
}

// Cached rule entries carry a marker so that an absent row is cached too and
// an empty rule value stays distinguishable from "no rule".
const (
	cachedValuePrefix = "v:"
	cachedAbsent      = "absent"
)

// RuleStore reads (planID, key) -> raw value rows with a TTL cache in front.
// Concurrent lookups for the same cold key may each hit the database; the
// reads are cheap and idempotent, so no locking is done.
type RuleStore struct {
	source Source
	cache  Cache
}

// NewRuleStore creates a rule store over GORM rows and the shared Redis cache.
func NewRuleStore(db *gorm.DB) *RuleStore {
	return &RuleStore{source: NewSource(db), cache: redisCache{}}
}

// NewRuleStoreWith creates a rule store from an injected source and cache.
func NewRuleStoreWith(source Source, c Cache) *RuleStore {
	return &RuleStore{source: source, cache: c}
}

func ruleCacheKey(planID string, key FeatureKey) string {
	return fmt.Sprintf("entitlements:rule:%s:%s", planID, key)
}

// Get returns the raw stored value for (planID, key) and whether a rule row
// exists. Source errors propagate; cache errors only cost a cache round trip
// and fall through to the source.
func (s *RuleStore) Get(planID string, key FeatureKey) (string, bool, error) {
	ck := ruleCacheKey(planID, key)

	if cached, ok, err := s.cache.Get(ck); err != nil {
		log.Printf("entitlements: cache read failed for %s: %v", ck, err)
	} else if ok {
		if cached == cachedAbsent {
			return "", false, nil
		}
		if len(cached) >= len(cachedValuePrefix) && cached[:len(cachedValuePrefix)] == cachedValuePrefix {
			return cached[len(cachedValuePrefix):], true, nil
		}
		// Unrecognized cache payload, treat as miss and repopulate.
	}

	value, found, err := s.source.Lookup(planID, key)
	if err != nil {
		return "", false, err
	}
	if !found {
		if cerr := s.cache.Set(ck, cachedAbsent, RuleCacheTTL); cerr != nil {
			log.Printf("entitlements: cache write failed for %s: %v", ck, cerr)
		}
		return "", false, nil
	}

	if cerr := s.cache.Set(ck, cachedValuePrefix+value, RuleCacheTTL); cerr != nil {
		log.Printf("entitlements: cache write failed for %s: %v", ck, cerr)
	}
	return value, true, nil
}
