package llm

import (
	"context"
	"log"
	"time"
)

type loggingProvider struct {
	inner Provider
}

// WithLogging logs latency and token usage of every call
func WithLogging(p Provider) Provider {
	return &loggingProvider{inner: p}
}

func (l *loggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := l.inner.Generate(ctx, req)
	elapsed := time.Since(start).Milliseconds()

	if err != nil {
		log.Printf("llm %s: failed after %dms: %v", l.inner.ModelID(), elapsed, err)
		return nil, err
	}
	log.Printf("llm %s: %dms, %d in / %d out tokens, stop=%s",
		resp.Model, elapsed, resp.Usage.InputTokens, resp.Usage.OutputTokens, resp.StopReason)
	return resp, nil
}

func (l *loggingProvider) ModelID() string {
	return l.inner.ModelID()
}
