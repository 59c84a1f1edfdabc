package http

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/polyrabbit/coin-dashboard/config"
	"github.com/sirupsen/logrus"
)

const userAgent = "Mozilla/5.0 (compatible; coin-dashboard; +https://github.com/polyrabbit/coin-dashboard)"

type Client struct {
	StdClient *http.Client
}

func New(cfg *config.Config) *Client {
	// Thread safe
	stdClient := &http.Client{}
	if cfg.Timeout != 0 {
		logrus.Debugf("HTTP request timeout is set to %d seconds", cfg.Timeout)
		stdClient.Timeout = time.Duration(cfg.Timeout) * time.Second
	}

	if cfg.Proxy != "" {
		proxyURL, err := url.Parse(cfg.Proxy)
		if err != nil {
			logrus.Warnf("Failed to parse proxy URL: %s, error: %v, using system proxy", cfg.Proxy, err)
		} else {
			transport := http.DefaultTransport.(*http.Transport).Clone()
			transport.Proxy = http.ProxyURL(proxyURL)
			logrus.Debugf("Using proxy %s", cfg.Proxy)
			stdClient.Transport = transport
		}
	}
	return &Client{stdClient}
}

// Get issues a single GET, there are no retries. A non-2xx status comes back as *ResponseError.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Add("Cache-Control", "no-store")
	req.Header.Add("Cache-Control", "must-revalidate")

	start := time.Now()
	resp, err := c.StdClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"status":  resp.StatusCode,
		"bytes":   len(respBytes),
		"elapsed": time.Since(start).String(),
	}).Debugf("GET %s", rawURL)
	if !(resp.StatusCode >= 200 && resp.StatusCode < 300) {
		return respBytes, &ResponseError{resp.Status, resp.StatusCode, respBytes}
	}
	return respBytes, nil
}

type ResponseError struct {
	Status     string
	StatusCode int
	Body       []byte
}

func (e *ResponseError) Error() string {
	body := e.Body
	if len(body) > 200 {
		body = body[:200]
	}
	return "HTTP " + e.Status + ", body " + string(body)
}
