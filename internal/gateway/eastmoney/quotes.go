package eastmoney

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/internal/gateway"
	"github.com/wonny/argus/pkg/redis"
)

const quoteFields = "f12,f14,f2,f3,f5,f6,f9,f15,f16,f17,f18,f23"

type listEnvelope struct {
	Data *struct {
		Total int                      `json:"total"`
		Diff  []map[string]interface{} `json:"diff"`
	} `json:"data"`
}

// GetQuotes fetches real-time snapshots for a batch of symbols.
// Symbols missing from the response (unknown codes, suspended without
// data) are simply absent from the returned map. Cached snapshots are
// served without hitting the upstream.
func (c *Client) GetQuotes(ctx context.Context, symbols []string) (map[string]contracts.Quote, error) {
	quotes := make(map[string]contracts.Quote, len(symbols))
	var misses []string
	for _, sym := range symbols {
		code := bareCode(sym)
		var cached contracts.Quote
		ok, err := c.cache.Get(ctx, redis.QuoteKey(code), &cached)
		if err == nil && ok {
			quotes[code] = cached
			continue
		}
		misses = append(misses, sym)
	}
	if len(misses) == 0 {
		return quotes, nil
	}

	secIDs := make([]string, 0, len(misses))
	for _, sym := range misses {
		secIDs = append(secIDs, ParseSecID(sym))
	}

	params := url.Values{}
	params.Set("secids", strings.Join(secIDs, ","))
	params.Set("fields", quoteFields)
	params.Set("fltt", "2")
	params.Set("ut", apiToken)
	fullURL := fmt.Sprintf("%s/api/qt/ulist.np/get?%s", c.baseURL, params.Encode())

	var envelope listEnvelope
	if err := c.fetchJSON(ctx, fullURL, &envelope); err != nil {
		return nil, fmt.Errorf("%w: batch quotes: %v", gateway.ErrGatewayUnavailable, err)
	}
	if envelope.Data == nil {
		return quotes, nil
	}

	now := time.Now()
	for _, entry := range envelope.Data.Diff {
		q := parseQuote(entry, now)
		if q.Symbol == "" {
			continue
		}
		quotes[q.Symbol] = q
		_ = c.cache.Set(ctx, redis.QuoteKey(q.Symbol), q, c.quoteTTL)
	}

	c.logger.WithFields(map[string]interface{}{
		"requested": len(symbols),
		"fetched":   len(envelope.Data.Diff),
	}).Debug("Fetched batch quotes")
	return quotes, nil
}

func parseQuote(entry map[string]interface{}, ts time.Time) contracts.Quote {
	return contracts.Quote{
		Symbol:    asString(entry, "f12"),
		Name:      asString(entry, "f14"),
		Price:     asFloat(entry, "f2"),
		ChangePct: asFloat(entry, "f3"),
		Volume:    asInt64(entry, "f5"),
		Amount:    asFloat(entry, "f6"),
		High:      asFloat(entry, "f15"),
		Low:       asFloat(entry, "f16"),
		Open:      asFloat(entry, "f17"),
		PrevClose: asFloat(entry, "f18"),
		PE:        asFloat(entry, "f9"),
		PB:        asFloat(entry, "f23"),
		Timestamp: ts,
	}
}
