package eastmoney

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/argus/pkg/httputil"
	"github.com/wonny/argus/pkg/logger"
	"github.com/wonny/argus/pkg/redis"
)

const apiToken = "fa5fd1943c7b386f172d6893dbfba10b"

// Client handles communication with the Eastmoney push2 quote service.
// All quote, sector, k-line and market-wide calls go through this client.
type Client struct {
	httpClient *httputil.Client
	cache      *redis.Cache
	logger     *logger.Logger
	baseURL    string
	histURL    string
	quoteTTL   time.Duration
}

// NewClient creates a new Eastmoney client. cache may be a disabled
// no-op cache; the client works without it.
func NewClient(httpClient *httputil.Client, cache *redis.Cache, log *logger.Logger, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://push2.eastmoney.com"
	}
	return &Client{
		httpClient: httpClient,
		cache:      cache,
		logger:     log,
		baseURL:    baseURL,
		histURL:    "https://push2his.eastmoney.com",
		quoteTTL:   redis.TTLQuote,
	}
}

// WithHistBaseURL overrides the historical data host.
func (c *Client) WithHistBaseURL(u string) *Client {
	c.histURL = u
	return c
}

// WithQuoteTTL overrides how long quote snapshots stay cached.
func (c *Client) WithQuoteTTL(ttl time.Duration) *Client {
	if ttl > 0 {
		c.quoteTTL = ttl
	}
	return c
}

var defaultHeaders = map[string]string{
	"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
	"Referer":    "https://quote.eastmoney.com/",
}

// fetchJSON fetches a push2 endpoint and decodes the response envelope.
// Responses requested with a cb parameter come back as JSONP and are
// unwrapped before decoding.
func (c *Client) fetchJSON(ctx context.Context, fullURL string, dest interface{}) error {
	resp, err := c.httpClient.GetWithHeaders(ctx, fullURL, defaultHeaders)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	payload := stripJSONP(body)
	if err := json.Unmarshal(payload, dest); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// stripJSONP unwraps a "j({...});" callback envelope. Plain JSON
// payloads are returned unchanged.
func stripJSONP(body []byte) []byte {
	s := strings.TrimSpace(string(body))
	open := strings.Index(s, "(")
	if open < 0 || !strings.HasSuffix(strings.TrimSuffix(s, ";"), ")") {
		return body
	}
	s = strings.TrimSuffix(s, ";")
	return []byte(s[open+1 : len(s)-1])
}

// ParseSecID converts a stock symbol to the push2 secid form
// ("1.600519" for Shanghai, "0.000858" for Shenzhen). An explicit
// exchange suffix (.SH/.SZ) wins over the prefix heuristic.
func ParseSecID(symbol string) string {
	code := strings.TrimSpace(symbol)
	upper := strings.ToUpper(code)
	switch {
	case strings.HasSuffix(upper, ".SH"):
		return "1." + code[:len(code)-3]
	case strings.HasSuffix(upper, ".SZ"):
		return "0." + code[:len(code)-3]
	}
	if strings.HasPrefix(code, "399") {
		return "0." + code
	}
	if strings.HasPrefix(code, "6") || strings.HasPrefix(code, "5") || strings.HasPrefix(code, "9") {
		return "1." + code
	}
	return "0." + code
}

// bareCode strips any exchange suffix from a symbol.
func bareCode(symbol string) string {
	code := strings.TrimSpace(symbol)
	if i := strings.IndexByte(code, '.'); i > 0 {
		return code[:i]
	}
	return code
}

// asFloat reads a numeric field from a diff entry. The service sends
// "-" for suspended or missing values; those decode to 0.
func asFloat(entry map[string]interface{}, key string) float64 {
	v, ok := entry[key]
	if !ok {
		return 0
	}
	switch t := v.(type) {
	case float64:
		return t
	case string:
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0
		}
		return f
	}
	return 0
}

func asInt64(entry map[string]interface{}, key string) int64 {
	return int64(asFloat(entry, key))
}

func asString(entry map[string]interface{}, key string) string {
	if v, ok := entry[key].(string); ok {
		return v
	}
	return ""
}
