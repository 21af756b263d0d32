package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"
	"time"

	"ringscrape/internal/config"
	"ringscrape/internal/logger"
	zapfactory "ringscrape/internal/logger/zap"
	"ringscrape/internal/ringtest"
	"ringscrape/internal/ringtest/writer"
)

func main() {
	label := flag.String("label", "ringscrape.node", "docker label identifying node containers")
	network := flag.String("network", "ringscrape-net", "docker network the cluster runs on")
	httpPort := flag.Int("http-port", 8080, "front door HTTP port nodes listen on")
	duration := flag.Duration("duration", time.Minute, "how long to drive load")
	rate := flag.Float64("rate", 2.0, "scrape waves issued per second")
	minWorkers := flag.Int("min-workers", 1, "minimum concurrent requests per wave")
	maxWorkers := flag.Int("max-workers", 8, "maximum concurrent requests per wave")
	reqTimeout := flag.Duration("request-timeout", 5*time.Second, "per-request timeout")
	csvPath := flag.String("csv", "", "path to append results as CSV; empty disables")
	url := flag.String("url", "http://example.com", "URL to repeatedly scrape")
	token := flag.String("token", "", "bearer token for authenticated /scrape calls")
	flag.Parse()

	lgr := logger.Logger(&logger.NopLogger{})
	if zapLog, err := zapfactory.New(config.LoggerConfig{Active: true, Level: "info", Encoding: "console", Mode: "stdout"}); err == nil {
		lgr = zapfactory.NewZapAdapter(zapLog)
	}

	var w writer.Writer = writer.NopWriter{}
	if *csvPath != "" {
		cw, err := writer.NewCSVWriter(*csvPath)
		if err != nil {
			log.Fatalf("failed to open csv writer: %v", err)
		}
		defer cw.Close()
		w = cw
	}

	cluster, err := ringtest.NewCluster(*label, *network, ringtest.WithHTTPPort(*httpPort))
	if err != nil {
		log.Fatalf("failed to connect to docker: %v", err)
	}
	defer cluster.Close()

	driver := ringtest.NewDriver(ringtest.DriverConfig{
		Duration:       *duration,
		Rate:           *rate,
		MinWorkers:     *minWorkers,
		MaxWorkers:     *maxWorkers,
		RequestTimeout: *reqTimeout,
		URLs:           []string{*url},
		BearerToken:    *token,
	}, lgr, w, cluster)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := driver.Run(ctx); err != nil && err != context.Canceled {
		log.Fatalf("driver run failed: %v", err)
	}
}
