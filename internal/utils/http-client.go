package utils

import (
	"net/http"
	"net/url"
	"time"
)

type HTTPClientConfig struct {
	Timeout   time.Duration
	ProxyURL  string
	UserAgent string
}

type BulkHTTPClient struct {
	client *http.Client
	config HTTPClientConfig
}

func NewBulkHTTPClient(cfg HTTPClientConfig) *BulkHTTPClient {
	if cfg.Timeout == 0 {
		cfg.Timeout = 5 * time.Minute
	}
	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		IdleConnTimeout: 60 * time.Second,
	}
	if cfg.ProxyURL != "" {
		if proxyURL, err := url.Parse(cfg.ProxyURL); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}
	return &BulkHTTPClient{
		client: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: transport,
		},
		config: cfg,
	}
}

func (c *BulkHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	} else {
		req.Header.Set("User-Agent", "ytbulk")
	}
	return c.client.Do(req)
}
