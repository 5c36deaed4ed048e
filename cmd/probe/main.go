// Command probe checks a running server's liveness endpoint and exits
// non-zero when it does not answer 200 in time. It is meant for container
// health checks.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/freekieb7/kiezel/config"
	"github.com/freekieb7/kiezel/telemetry"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
)

func main() {
	if err := run(context.Background()); err != nil {
		log.Fatalln(err)
	}
}

func run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	path := flag.String("path", "/health", "path to probe")
	timeout := flag.Duration("timeout", 2*time.Second, "request timeout")
	flag.Parse()

	otel.SetTextMapPropagator(telemetry.NewPropagator())

	client := &http.Client{
		Transport: otelhttp.NewTransport(http.DefaultTransport),
		Timeout:   *timeout,
	}

	return probe(ctx, client, "http://"+cfg.Addr+*path)
}

func probe(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", url, err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(io.LimitReader(res.Body, 1024))
	if err != nil {
		return fmt.Errorf("probe %s: read body: %w", url, err)
	}

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("probe %s: unexpected status %d: %s", url, res.StatusCode, strings.TrimSpace(string(body)))
	}

	fmt.Fprintf(os.Stdout, "%s %s\n", res.Status, strings.TrimSpace(string(body)))
	return nil
}
