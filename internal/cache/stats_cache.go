package cache

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/redis/go-redis/v9"

	"goodtime-diagnostic/internal/model"
)

// StatsCache keeps running counters over finished diagnostics
type StatsCache interface {
	Record(ctx context.Context, segment model.SegmentID, scores model.Scores, answers model.AnswerMap) error
	Get(ctx context.Context) (*model.Stats, error)
}

type statsCache struct {
	client *redis.Client
}

// NewStatsCache creates a new stats cache. Counters never expire.
func NewStatsCache(client *redis.Client) StatsCache {
	return &statsCache{client: client}
}

// Key helpers
func (c *statsCache) totalsKey() string {
	return "diagnostic:stats"
}

func (c *statsCache) answersKey() string {
	return "diagnostic:stats:answers"
}

func (c *statsCache) Record(ctx context.Context, segment model.SegmentID, scores model.Scores, answers model.AnswerMap) error {
	pipe := c.client.TxPipeline()
	pipe.HIncrBy(ctx, c.totalsKey(), "completed", 1)
	pipe.HIncrBy(ctx, c.totalsKey(), "segment:"+string(segment), 1)
	pipe.HIncrBy(ctx, c.totalsKey(), "sum:total", int64(scores.Total))
	pipe.HIncrBy(ctx, c.totalsKey(), "sum:structure", int64(scores.Structure))
	pipe.HIncrBy(ctx, c.totalsKey(), "sum:acquisition", int64(scores.Acquisition))
	pipe.HIncrBy(ctx, c.totalsKey(), "sum:value", int64(scores.Value))
	for id, value := range answers {
		pipe.HIncrBy(ctx, c.answersKey(), fmt.Sprintf("%d:%d", id, value), 1)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *statsCache) Get(ctx context.Context) (*model.Stats, error) {
	totals, err := c.client.HGetAll(ctx, c.totalsKey()).Result()
	if err != nil {
		return nil, err
	}
	answers, err := c.client.HGetAll(ctx, c.answersKey()).Result()
	if err != nil {
		return nil, err
	}

	stats := &model.Stats{
		Segments:  make(map[model.SegmentID]int64),
		Questions: make(map[int]map[int]int64),
	}
	sums := make(map[string]int64)
	for field, raw := range totals {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		switch {
		case field == "completed":
			stats.Completed = n
		case strings.HasPrefix(field, "segment:"):
			stats.Segments[model.SegmentID(strings.TrimPrefix(field, "segment:"))] = n
		case strings.HasPrefix(field, "sum:"):
			sums[strings.TrimPrefix(field, "sum:")] = n
		}
	}
	if stats.Completed > 0 {
		avg := func(key string) float64 { return float64(sums[key]) / float64(stats.Completed) }
		stats.Average = model.AverageScores{
			Total:       avg("total"),
			Structure:   avg("structure"),
			Acquisition: avg("acquisition"),
			Value:       avg("value"),
		}
	}

	for field, raw := range answers {
		var id, value int
		if _, err := fmt.Sscanf(field, "%d:%d", &id, &value); err != nil {
			continue
		}
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			continue
		}
		if stats.Questions[id] == nil {
			stats.Questions[id] = make(map[int]int64)
		}
		stats.Questions[id][value] = n
	}
	return stats, nil
}
