// internal/cache/report.go
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/hasithasandunlakshan/inventory-console/internal/analytics"
	"github.com/hasithasandunlakshan/inventory-console/internal/config"
	"github.com/hasithasandunlakshan/inventory-console/internal/domain"
)

const (
	reportKeyPrefix  = "report:dashboard"
	defaultReportTTL = time.Minute
)

// ReportCache is a short-lived render cache for assembled reports. It is not
// offline storage; entries expire within the TTL and a miss simply rebuilds.
type ReportCache interface {
	GetReport(ctx context.Context, filter domain.SearchFilter) (*analytics.Report, bool, error)
	SetReport(ctx context.Context, filter domain.SearchFilter, report *analytics.Report) error
	InvalidateAll(ctx context.Context) error
}

type redisReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopReportCache struct{}

// NewReportCache builds a Redis-backed cache, or a noop one when caching is
// disabled in config.
func NewReportCache(cfg config.CacheConfig) (ReportCache, error) {
	if !cfg.Enabled {
		return &noopReportCache{}, nil
	}

	opts, err := buildRedisOptions(cfg)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	ttl := time.Duration(cfg.ReportTTLSeconds) * time.Second
	if ttl <= 0 {
		ttl = defaultReportTTL
	}

	return &redisReportCache{client: client, ttl: ttl}, nil
}

// NewRedisReportCache wraps an existing client; used by tests with miniredis.
func NewRedisReportCache(client *redis.Client, ttl time.Duration) ReportCache {
	if ttl <= 0 {
		ttl = defaultReportTTL
	}
	return &redisReportCache{client: client, ttl: ttl}
}

func buildRedisOptions(cfg config.CacheConfig) (*redis.Options, error) {
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opt, nil
	}

	host := cfg.RedisHost
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.RedisPort
	if port == "" {
		port = "6379"
	}

	return &redis.Options{
		Addr:     net.JoinHostPort(host, port),
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, nil
}

// cachedReport strips the non-serializable error fields; a cached section
// keeps its state but drops the original cause.
type cachedReport struct {
	TopSuppliers  cachedSection[[]domain.SupplierSpend]    `json:"topSuppliers"`
	MonthlyTrends cachedSection[[]domain.MonthlyTrend]     `json:"monthlyTrends"`
	Summary       cachedSection[domain.StatsSummary]       `json:"summary"`
	Categories    cachedSection[[]domain.SupplierCategory] `json:"categories"`
}

type cachedSection[T any] struct {
	State analytics.SectionState `json:"state"`
	Value T                      `json:"value"`
}

func toCached(report *analytics.Report) cachedReport {
	return cachedReport{
		TopSuppliers:  cachedSection[[]domain.SupplierSpend]{State: report.TopSuppliers.State, Value: report.TopSuppliers.Value},
		MonthlyTrends: cachedSection[[]domain.MonthlyTrend]{State: report.MonthlyTrends.State, Value: report.MonthlyTrends.Value},
		Summary:       cachedSection[domain.StatsSummary]{State: report.Summary.State, Value: report.Summary.Value},
		Categories:    cachedSection[[]domain.SupplierCategory]{State: report.Categories.State, Value: report.Categories.Value},
	}
}

func fromCached(c cachedReport) *analytics.Report {
	return &analytics.Report{
		TopSuppliers:  analytics.Section[[]domain.SupplierSpend]{State: c.TopSuppliers.State, Value: c.TopSuppliers.Value},
		MonthlyTrends: analytics.Section[[]domain.MonthlyTrend]{State: c.MonthlyTrends.State, Value: c.MonthlyTrends.Value},
		Summary:       analytics.Section[domain.StatsSummary]{State: c.Summary.State, Value: c.Summary.Value},
		Categories:    analytics.Section[[]domain.SupplierCategory]{State: c.Categories.State, Value: c.Categories.Value},
	}
}

func (c *redisReportCache) GetReport(ctx context.Context, filter domain.SearchFilter) (*analytics.Report, bool, error) {
	data, err := c.client.Get(ctx, buildReportKey(filter)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var cached cachedReport
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, false, fmt.Errorf("corrupt cached report: %w", err)
	}
	return fromCached(cached), true, nil
}

func (c *redisReportCache) SetReport(ctx context.Context, filter domain.SearchFilter, report *analytics.Report) error {
	data, err := json.Marshal(toCached(report))
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, buildReportKey(filter), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisReportCache) InvalidateAll(ctx context.Context) error {
	var cursor uint64
	pattern := reportKeyPrefix + "*"
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("redis scan failed: %w", err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("redis delete failed: %w", err)
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (c *noopReportCache) GetReport(context.Context, domain.SearchFilter) (*analytics.Report, bool, error) {
	return nil, false, nil
}

func (c *noopReportCache) SetReport(context.Context, domain.SearchFilter, *analytics.Report) error {
	return nil
}

func (c *noopReportCache) InvalidateAll(context.Context) error { return nil }

func buildReportKey(filter domain.SearchFilter) string {
	var parts []string
	if filter.Q != "" {
		parts = append(parts, "q="+filter.Q)
	}
	if filter.Status != "" {
		parts = append(parts, "status="+string(filter.Status))
	}
	if filter.SupplierID > 0 {
		parts = append(parts, "supplier="+strconv.FormatInt(filter.SupplierID, 10))
	}
	if filter.DateFrom != "" {
		parts = append(parts, "from="+filter.DateFrom)
	}
	if filter.DateTo != "" {
		parts = append(parts, "to="+filter.DateTo)
	}

	if len(parts) == 0 {
		return reportKeyPrefix + ":default"
	}

	hash := sha1.Sum([]byte(strings.Join(parts, "|")))
	return fmt.Sprintf("%s:%s", reportKeyPrefix, hex.EncodeToString(hash[:]))
}
