package eastmoney

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/internal/gateway"
	"github.com/wonny/argus/pkg/redis"
)

type klineEnvelope struct {
	Data *struct {
		Code   string   `json:"code"`
		Name   string   `json:"name"`
		Klines []string `json:"klines"`
	} `json:"data"`
}

// GetKlines fetches forward-adjusted daily bars for a symbol, oldest
// first, up to limit bars ending at the most recent session.
func (c *Client) GetKlines(ctx context.Context, symbol string, limit int) ([]contracts.Kline, error) {
	if limit <= 0 {
		limit = 120
	}
	code := bareCode(symbol)

	var cached []contracts.Kline
	ok, err := c.cache.Get(ctx, redis.KlinesKey(code, limit), &cached)
	if err == nil && ok {
		return cached, nil
	}

	params := url.Values{}
	params.Set("secid", ParseSecID(symbol))
	params.Set("fields1", "f1,f2,f3,f4,f5,f6")
	params.Set("fields2", "f51,f52,f53,f54,f55,f56,f57,f58,f59,f60,f61")
	params.Set("klt", "101")
	params.Set("fqt", "1")
	params.Set("end", "20500101")
	params.Set("lmt", strconv.Itoa(limit))
	params.Set("ut", apiToken)
	fullURL := fmt.Sprintf("%s/api/qt/stock/kline/get?%s", c.histURL, params.Encode())

	var envelope klineEnvelope
	if err := c.fetchJSON(ctx, fullURL, &envelope); err != nil {
		return nil, fmt.Errorf("%w: klines %s: %v", gateway.ErrGatewayUnavailable, code, err)
	}
	if envelope.Data == nil || len(envelope.Data.Klines) == 0 {
		return nil, fmt.Errorf("%w: klines %s: no data", gateway.ErrQuoteUnavailable, code)
	}

	bars := make([]contracts.Kline, 0, len(envelope.Data.Klines))
	for _, line := range envelope.Data.Klines {
		bar, ok := parseKline(line)
		if !ok {
			continue
		}
		bars = append(bars, bar)
	}
	_ = c.cache.Set(ctx, redis.KlinesKey(code, limit), bars, redis.TTLKlines)
	return bars, nil
}

// parseKline decodes one comma-joined daily bar. The service sends
// bars as "date,open,close,high,low,volume,amount,amplitude,pct,chg,turnover".
func parseKline(line string) (contracts.Kline, bool) {
	parts := strings.Split(line, ",")
	if len(parts) < 6 {
		return contracts.Kline{}, false
	}
	open, err1 := strconv.ParseFloat(parts[1], 64)
	close_, err2 := strconv.ParseFloat(parts[2], 64)
	high, err3 := strconv.ParseFloat(parts[3], 64)
	low, err4 := strconv.ParseFloat(parts[4], 64)
	volume, err5 := strconv.ParseInt(parts[5], 10, 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil || err5 != nil {
		return contracts.Kline{}, false
	}
	return contracts.Kline{
		Date:   parts[0],
		Open:   open,
		Close:  close_,
		High:   high,
		Low:    low,
		Volume: float64(volume),
	}, true
}
