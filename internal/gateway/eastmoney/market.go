package eastmoney

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/internal/gateway"
)

// indexSecIDs are the benchmark indices tracked in the market context:
// SSE Composite, SZSE Component and ChiNext.
var indexSecIDs = []string{"1.000001", "0.399001", "0.399006"}

// GetMarketContext assembles a market-wide snapshot: benchmark index
// moves, the sector inflow ranking, breadth counts and the session's
// main capital net flow. Index and sector data are required; breadth
// and flow failures degrade to zero values.
func (c *Client) GetMarketContext(ctx context.Context) (*contracts.MarketContext, error) {
	indexes, err := c.getIndexChanges(ctx)
	if err != nil {
		return nil, err
	}

	sectors, err := c.GetSectorRanking(ctx, 50)
	if err != nil {
		return nil, err
	}

	mc := &contracts.MarketContext{
		IndexChanges: indexes,
		Sectors:      sectors,
		Timestamp:    time.Now(),
	}

	if adv, dec, err := c.getMarketBreadth(ctx); err != nil {
		c.logger.WithError(err).Warn("Market breadth unavailable")
	} else {
		mc.Advancing = adv
		mc.Declining = dec
	}

	if flow, err := c.getMarketFlow(ctx); err != nil {
		c.logger.WithError(err).Warn("Market flow unavailable")
	} else {
		mc.NetInflow = flow
	}

	return mc, nil
}

// getIndexChanges fetches the day's percentage change for the
// benchmark indices, keyed by index code.
func (c *Client) getIndexChanges(ctx context.Context) (map[string]float64, error) {
	params := url.Values{}
	params.Set("secids", strings.Join(indexSecIDs, ","))
	params.Set("fields", "f12,f14,f3")
	params.Set("fltt", "2")
	params.Set("ut", apiToken)
	fullURL := fmt.Sprintf("%s/api/qt/ulist.np/get?%s", c.baseURL, params.Encode())

	var envelope listEnvelope
	if err := c.fetchJSON(ctx, fullURL, &envelope); err != nil {
		return nil, fmt.Errorf("%w: index quotes: %v", gateway.ErrGatewayUnavailable, err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("%w: index quotes: empty response", gateway.ErrGatewayUnavailable)
	}

	changes := make(map[string]float64, len(envelope.Data.Diff))
	for _, entry := range envelope.Data.Diff {
		code := asString(entry, "f12")
		if code == "" {
			continue
		}
		changes[code] = asFloat(entry, "f3")
	}
	return changes, nil
}

// getMarketBreadth fetches advancing and declining counts across the
// whole market from the SSE Composite aggregate fields.
func (c *Client) getMarketBreadth(ctx context.Context) (int, int, error) {
	params := url.Values{}
	params.Set("secids", "1.000001")
	params.Set("fields", "f104,f105,f106")
	params.Set("fltt", "2")
	params.Set("ut", apiToken)
	fullURL := fmt.Sprintf("%s/api/qt/ulist.np/get?%s", c.baseURL, params.Encode())

	var envelope listEnvelope
	if err := c.fetchJSON(ctx, fullURL, &envelope); err != nil {
		return 0, 0, err
	}
	if envelope.Data == nil || len(envelope.Data.Diff) == 0 {
		return 0, 0, fmt.Errorf("empty breadth response")
	}
	entry := envelope.Data.Diff[0]
	return int(asInt64(entry, "f104")), int(asInt64(entry, "f105")), nil
}

type flowEnvelope struct {
	Data *struct {
		Klines []string `json:"klines"`
	} `json:"data"`
}

// getMarketFlow fetches the latest main capital net inflow for the
// whole market, in yuan.
func (c *Client) getMarketFlow(ctx context.Context) (float64, error) {
	params := url.Values{}
	params.Set("secid", "1.000001")
	params.Set("fields1", "f1,f2,f3,f7")
	params.Set("fields2", "f51,f52,f53,f54,f55,f56")
	params.Set("klt", "101")
	params.Set("lmt", "1")
	params.Set("ut", apiToken)
	fullURL := fmt.Sprintf("%s/api/qt/stock/fflow/kline/get?%s", c.baseURL, params.Encode())

	var envelope flowEnvelope
	if err := c.fetchJSON(ctx, fullURL, &envelope); err != nil {
		return 0, err
	}
	if envelope.Data == nil || len(envelope.Data.Klines) == 0 {
		return 0, fmt.Errorf("empty flow response")
	}

	latest := envelope.Data.Klines[len(envelope.Data.Klines)-1]
	parts := strings.Split(latest, ",")
	if len(parts) < 2 {
		return 0, fmt.Errorf("malformed flow kline: %q", latest)
	}
	// fields2 order puts main net inflow right after the date.
	flow, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return 0, fmt.Errorf("malformed flow value: %w", err)
	}
	return flow, nil
}
