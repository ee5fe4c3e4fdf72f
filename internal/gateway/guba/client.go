package guba

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/wonny/argus/pkg/httputil"
	"github.com/wonny/argus/pkg/logger"
)

// Client scrapes discussion headlines from the Guba message boards.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new Guba client.
func NewClient(httpClient *httputil.Client, log *logger.Logger, baseURL string) *Client {
	if baseURL == "" {
		baseURL = "https://guba.eastmoney.com"
	}
	return &Client{
		httpClient: httpClient,
		logger:     log,
		baseURL:    baseURL,
	}
}

// GetHeadlines fetches the most recent post titles for a symbol's
// message board, newest first.
func (c *Client) GetHeadlines(ctx context.Context, symbol string, limit int) ([]string, error) {
	if limit <= 0 {
		limit = 10
	}
	code := symbol
	if i := strings.IndexByte(code, '.'); i > 0 {
		code = code[:i]
	}

	fullURL := fmt.Sprintf("%s/list,%s.html", c.baseURL, code)
	resp, err := c.httpClient.GetWithHeaders(ctx, fullURL, map[string]string{
		"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
		"Referer":    "https://guba.eastmoney.com/",
	})
	if err != nil {
		return nil, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body failed: %w", err)
	}

	headlines := parseHeadlines(string(body), limit)
	c.logger.WithFields(map[string]interface{}{
		"symbol": code,
		"count":  len(headlines),
	}).Debug("Fetched headlines")
	return headlines, nil
}

// parseHeadlines extracts post titles from a message board list page.
// The board renders titles as anchors carrying a title attribute
// inside elements with the title class.
func parseHeadlines(html string, limit int) []string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var headlines []string
	doc.Find(".title a, .listbody a[title]").EachWithBreak(func(i int, sel *goquery.Selection) bool {
		text := strings.TrimSpace(sel.AttrOr("title", ""))
		if text == "" {
			text = strings.TrimSpace(sel.Text())
		}
		if text == "" || seen[text] {
			return true
		}
		seen[text] = true
		headlines = append(headlines, text)
		return len(headlines) < limit
	})
	return headlines
}
