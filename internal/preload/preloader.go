// Package preload warms exercise media so the training screens render
// without waiting on the network.
package preload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"

	"github.com/2beens/fitcoach/internal/telemetry/metrics"
	"github.com/2beens/fitcoach/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
)

const DefaultConcurrency = 4

// Preloader remembers every url it fetched successfully; failed urls are retried on the next warm-up.
type Preloader struct {
	httpClient  *http.Client
	metrics     *metrics.Manager
	concurrency int

	mu     sync.Mutex
	warmed map[string]struct{}
	wg     sync.WaitGroup
}

func NewPreloader(httpClient *http.Client, metricsManager *metrics.Manager, concurrency int) *Preloader {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	if metricsManager == nil {
		metricsManager = metrics.NewTestManager()
	}
	return &Preloader{
		httpClient:  httpClient,
		metrics:     metricsManager,
		concurrency: concurrency,
		warmed:      make(map[string]struct{}),
	}
}

// Warm fetches urls in the background and returns immediately.
func (p *Preloader) Warm(ctx context.Context, urls []string) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		warmed := p.WarmSync(ctx, urls)
		log.Debugf("preload: %d/%d media urls warm", warmed, len(urls))
	}()
}

// WarmSync fetches urls not yet warm and returns how many of the given urls are warm afterwards.
func (p *Preloader) WarmSync(ctx context.Context, urls []string) int {
	ctx, span := tracing.GlobalTracer.Start(ctx, "preloader.warm")
	defer span.End()

	pending := p.pending(urls)
	span.SetAttributes(attribute.Int("urls.pending", len(pending)))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for _, url := range pending {
		url := url
		g.Go(func() error {
			if err := p.fetch(gCtx, url); err != nil {
				log.Warnf("preload: %s: %s", url, err)
				p.metrics.CounterPreloadedImages.WithLabelValues("failed").Inc()
				return nil
			}
			p.mu.Lock()
			p.warmed[url] = struct{}{}
			p.mu.Unlock()
			p.metrics.CounterPreloadedImages.WithLabelValues("ok").Inc()
			return nil
		})
	}
	_ = g.Wait()

	warm := 0
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, url := range dedupe(urls) {
		if _, ok := p.warmed[url]; ok {
			warm++
		}
	}
	return warm
}

func (p *Preloader) IsWarm(url string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.warmed[url]
	return ok
}

// Close waits for background warm-ups started by Warm.
func (p *Preloader) Close() {
	p.wg.Wait()
}

func (p *Preloader) pending(urls []string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	var pending []string
	for _, url := range dedupe(urls) {
		if _, ok := p.warmed[url]; !ok {
			pending = append(pending, url)
		}
	}
	return pending
}

func (p *Preloader) fetch(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Debugf("preload: close body %s: %s", url, err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("read body: %w", err)
	}
	return nil
}

func dedupe(urls []string) []string {
	seen := make(map[string]struct{}, len(urls))
	unique := make([]string, 0, len(urls))
	for _, url := range urls {
		if url == "" {
			continue
		}
		if _, ok := seen[url]; ok {
			continue
		}
		seen[url] = struct{}{}
		unique = append(unique, url)
	}
	return unique
}
