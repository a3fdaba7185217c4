package helpers

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
)

// ESOptions configures the Elasticsearch client. Empty Addrs disables search.
type ESOptions struct {
	Addrs      []string
	Username   string
	Password   string
	MaxRetries int
}

// NewESClient returns a nil client when no address is configured.
func NewESClient(opts ESOptions) (*elasticsearch.Client, error) {
	if len(opts.Addrs) == 0 {
		return nil, nil
	}
	retries := opts.MaxRetries
	if retries <= 0 {
		retries = 2
	}
	return elasticsearch.NewClient(elasticsearch.Config{
		Addresses:     opts.Addrs,
		Username:      opts.Username,
		Password:      opts.Password,
		MaxRetries:    retries,
		RetryOnStatus: []int{502, 503, 504, 429},
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 3 * time.Second,
			TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
			DialContext:           (&net.Dialer{Timeout: 3 * time.Second}).DialContext,
		},
	})
}

// ESPing reports whether the cluster answers a ping.
func ESPing(ctx context.Context, es *elasticsearch.Client) error {
	res, err := es.Ping(es.Ping.WithContext(ctx))
	if err != nil {
		return err
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() {
		return fmt.Errorf("es ping: %s", res.Status())
	}
	return nil
}
