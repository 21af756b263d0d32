package ringtest

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"ringscrape/internal/logger"
	"ringscrape/internal/ringtest/writer"
)

// DriverConfig controls a load-generation run against a discovered
// cluster of nodes.
type DriverConfig struct {
	Duration       time.Duration
	Rate           float64 // scrape waves issued per second
	MinWorkers     int
	MaxWorkers     int
	RequestTimeout time.Duration
	URLs           []string // candidate URLs to scrape each wave
	BearerToken    string
}

// Driver issues waves of concurrent /scrape requests against a
// discovered cluster, mirroring the teacher's Tester wave-of-lookups
// shape but targeting the HTTP front door instead of the gRPC lookup
// RPC.
type Driver struct {
	cfg     DriverConfig
	lgr     logger.Logger
	writer  writer.Writer
	cluster *Cluster
	client  *http.Client
}

// NewDriver builds a Driver.
func NewDriver(cfg DriverConfig, lgr logger.Logger, w writer.Writer, cluster *Cluster) *Driver {
	return &Driver{
		cfg:     cfg,
		lgr:     lgr,
		writer:  w,
		cluster: cluster,
		client:  &http.Client{Timeout: cfg.RequestTimeout},
	}
}

// Run drives load until duration elapses or ctx is canceled.
func (d *Driver) Run(ctx context.Context) error {
	d.lgr.Info("driver started", logger.F("duration", d.cfg.Duration.String()))
	end := time.Now().Add(d.cfg.Duration)
	interval := time.Duration(float64(time.Second) / d.cfg.Rate)

	t := time.NewTicker(interval)
	defer t.Stop()

	for time.Now().Before(end) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if err := d.wave(ctx); err != nil {
				d.lgr.Error("wave failed", logger.F("err", err.Error()))
			}
		}
	}
	d.lgr.Info("driver finished")
	return nil
}

func (d *Driver) wave(ctx context.Context) error {
	nodes, err := d.cluster.Nodes(ctx)
	if err != nil {
		return fmt.Errorf("discovering cluster nodes: %w", err)
	}
	if len(nodes) == 0 {
		d.lgr.Warn("no nodes discovered")
		return nil
	}

	workers := randomInt(d.cfg.MinWorkers, d.cfg.MaxWorkers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			d.doScrape(nodes)
		}()
	}
	wg.Wait()
	return nil
}

func (d *Driver) doScrape(nodes []string) {
	if len(d.cfg.URLs) == 0 {
		return
	}
	node := nodes[rand.Intn(len(nodes))]
	url := d.cfg.URLs[rand.Intn(len(d.cfg.URLs))]

	ctx, cancel := context.WithTimeout(context.Background(), d.cfg.RequestTimeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		fmt.Sprintf("http://%s/scrape?url=%s", node, url), nil)
	if err != nil {
		d.lgr.Warn("building request failed", logger.F("err", err.Error()))
		return
	}
	if d.cfg.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+d.cfg.BearerToken)
	}

	resp, err := d.client.Do(req)
	delay := time.Since(start)

	var result string
	switch {
	case err != nil:
		result = "UNAVAILABLE"
	case resp.StatusCode == http.StatusOK:
		result = "SUCCESS"
	case resp.StatusCode == http.StatusTemporaryRedirect:
		result = "REDIRECT"
	default:
		result = fmt.Sprintf("ERROR_%d", resp.StatusCode)
	}
	if resp != nil {
		resp.Body.Close()
	}

	d.lgr.Info("scrape result",
		logger.F("node", node),
		logger.F("url", url),
		logger.F("result", result),
		logger.F("delay_ms", delay.Milliseconds()),
	)
	if err := d.writer.WriteRow(node, result, delay); err != nil {
		d.lgr.Warn("failed to write result row", logger.F("err", err.Error()))
	}
}

func randomInt(min, max int) int {
	if min >= max {
		return min
	}
	return rand.Intn(max-min+1) + min
}
