package eastmoney

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/wonny/argus/internal/contracts"
	"github.com/wonny/argus/internal/gateway"
	"github.com/wonny/argus/pkg/redis"
)

// GetSectorRanking fetches industry sectors ordered by main capital
// net inflow, strongest first.
func (c *Client) GetSectorRanking(ctx context.Context, limit int) ([]contracts.SectorRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	var cached []contracts.SectorRecord
	ok, err := c.cache.Get(ctx, redis.SectorRankingKey(), &cached)
	if err == nil && ok && len(cached) >= limit {
		return cached[:limit], nil
	}

	params := url.Values{}
	params.Set("cb", "j")
	params.Set("pn", "1")
	params.Set("pz", "50")
	params.Set("po", "1")
	params.Set("np", "1")
	params.Set("fltt", "2")
	params.Set("invt", "2")
	params.Set("fid", "f62")
	params.Set("fs", "m:90+t:2+f:!50")
	params.Set("fields", "f12,f14,f2,f3,f62,f184")
	params.Set("ut", apiToken)
	fullURL := fmt.Sprintf("%s/api/qt/clist/get?%s", c.baseURL, params.Encode())

	var envelope listEnvelope
	if err := c.fetchJSON(ctx, fullURL, &envelope); err != nil {
		return nil, fmt.Errorf("%w: sector ranking: %v", gateway.ErrGatewayUnavailable, err)
	}
	if envelope.Data == nil {
		return nil, fmt.Errorf("%w: sector ranking: empty response", gateway.ErrGatewayUnavailable)
	}

	sectors := make([]contracts.SectorRecord, 0, len(envelope.Data.Diff))
	for _, entry := range envelope.Data.Diff {
		sectors = append(sectors, contracts.SectorRecord{
			Code:      asString(entry, "f12"),
			Name:      asString(entry, "f14"),
			ChangePct: asFloat(entry, "f3"),
			NetInflow: asFloat(entry, "f62"),
		})
	}
	_ = c.cache.Set(ctx, redis.SectorRankingKey(), sectors, redis.TTLSector)

	if len(sectors) > limit {
		sectors = sectors[:limit]
	}
	return sectors, nil
}

// GetSectorStocks fetches the member stocks of an industry sector,
// ordered by main capital net inflow.
func (c *Client) GetSectorStocks(ctx context.Context, sectorCode string, limit int) ([]contracts.SectorStock, error) {
	if limit <= 0 {
		limit = 20
	}

	params := url.Values{}
	params.Set("pn", "1")
	params.Set("pz", strconv.Itoa(limit))
	params.Set("po", "1")
	params.Set("np", "1")
	params.Set("fltt", "2")
	params.Set("invt", "2")
	params.Set("fid", "f62")
	params.Set("fs", "b:"+sectorCode)
	params.Set("fields", "f12,f14,f2,f3,f9,f23,f62")
	params.Set("ut", apiToken)
	fullURL := fmt.Sprintf("%s/api/qt/clist/get?%s", c.baseURL, params.Encode())

	var envelope listEnvelope
	if err := c.fetchJSON(ctx, fullURL, &envelope); err != nil {
		return nil, fmt.Errorf("%w: sector stocks %s: %v", gateway.ErrGatewayUnavailable, sectorCode, err)
	}
	if envelope.Data == nil {
		return nil, nil
	}

	stocks := make([]contracts.SectorStock, 0, len(envelope.Data.Diff))
	for _, entry := range envelope.Data.Diff {
		stocks = append(stocks, contracts.SectorStock{
			Symbol:    asString(entry, "f12"),
			Name:      asString(entry, "f14"),
			Price:     asFloat(entry, "f2"),
			ChangePct: asFloat(entry, "f3"),
			NetInflow: asFloat(entry, "f62"),
			PE:        asFloat(entry, "f9"),
			PB:        asFloat(entry, "f23"),
		})
	}

	c.logger.WithFields(map[string]interface{}{
		"sector": sectorCode,
		"count":  len(stocks),
	}).Debug("Fetched sector stocks")
	return stocks, nil
}

// GetMarketTopStocks fetches the strongest stocks across all A-share
// boards by main capital net inflow. Used when the sector pool comes
// up thin.
func (c *Client) GetMarketTopStocks(ctx context.Context, limit int) ([]contracts.SectorStock, error) {
	if limit <= 0 {
		limit = 20
	}

	params := url.Values{}
	params.Set("pn", "1")
	params.Set("pz", strconv.Itoa(limit))
	params.Set("po", "1")
	params.Set("np", "1")
	params.Set("fltt", "2")
	params.Set("invt", "2")
	params.Set("fid", "f62")
	params.Set("fs", "m:0+t:6,m:0+t:80,m:1+t:2,m:1+t:23")
	params.Set("fields", "f12,f14,f2,f3,f9,f23,f62")
	params.Set("ut", apiToken)
	fullURL := fmt.Sprintf("%s/api/qt/clist/get?%s", c.baseURL, params.Encode())

	var envelope listEnvelope
	if err := c.fetchJSON(ctx, fullURL, &envelope); err != nil {
		return nil, fmt.Errorf("%w: market top stocks: %v", gateway.ErrGatewayUnavailable, err)
	}
	if envelope.Data == nil {
		return nil, nil
	}

	stocks := make([]contracts.SectorStock, 0, len(envelope.Data.Diff))
	for _, entry := range envelope.Data.Diff {
		stocks = append(stocks, contracts.SectorStock{
			Symbol:    asString(entry, "f12"),
			Name:      asString(entry, "f14"),
			Price:     asFloat(entry, "f2"),
			ChangePct: asFloat(entry, "f3"),
			NetInflow: asFloat(entry, "f62"),
			PE:        asFloat(entry, "f9"),
			PB:        asFloat(entry, "f23"),
		})
	}
	return stocks, nil
}
