// Package collyfetch downloads CSV result exports using gocolly.
package collyfetch

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/draftline-io/linkedin-ingest/internal/ingest"
)

// Config controls collector behavior.
type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Fetcher implements ingest.CSVFetcher using the Colly collector. Export URLs
// delivered in webhook envelopes point at plain file downloads, so there is no
// robots.txt handling here.
type Fetcher struct {
	cfg           Config
	baseCollector *colly.Collector
}

// New builds a Fetcher.
func New(cfg Config) *Fetcher {
	c := colly.NewCollector(colly.Async(false))
	c.WithTransport(newHTTPTransport())
	return &Fetcher{
		cfg:           cfg,
		baseCollector: c,
	}
}

// Fetch executes a single HTTP GET for the CSV export. Non-2xx responses are
// returned with their status code so the caller can reject the batch; network
// failures and timeouts are returned as errors.
func (f *Fetcher) Fetch(ctx context.Context, url string) (ingest.CSVPayload, error) {
	var (
		payload  ingest.CSVPayload
		fetchErr error
	)

	collector := f.baseCollector.Clone()
	collector.AllowURLRevisit = true
	collector.IgnoreRobotsTxt = true
	if f.cfg.UserAgent != "" {
		collector.UserAgent = f.cfg.UserAgent
	}
	timeout := f.cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	collector.SetRequestTimeout(timeout)

	collector.OnResponse(func(r *colly.Response) {
		payload = ingest.CSVPayload{
			Body:        append([]byte(nil), r.Body...),
			ContentType: r.Headers.Get("Content-Type"),
			StatusCode:  r.StatusCode,
		}
	})
	collector.OnError(func(r *colly.Response, err error) {
		if r != nil && r.StatusCode != 0 {
			payload = ingest.CSVPayload{
				Body:        append([]byte(nil), r.Body...),
				ContentType: r.Headers.Get("Content-Type"),
				StatusCode:  r.StatusCode,
			}
		}
		fetchErr = err
	})

	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return ingest.CSVPayload{}, fmt.Errorf("csv fetch canceled: %w", ctx.Err())
	case err := <-done:
		if err == nil && fetchErr == nil {
			return payload, nil
		}
		// Responses that carry a status code are handed back; the caller
		// treats anything outside 2xx as a download failure.
		if payload.StatusCode != 0 {
			return payload, nil
		}
		if err == nil {
			err = fetchErr
		}
		return ingest.CSVPayload{}, fmt.Errorf("csv fetch failed: %w", err)
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
