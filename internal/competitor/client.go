package competitor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/wonny/compass/backend/pkg/config"
	"github.com/wonny/compass/backend/pkg/httputil"
	"github.com/wonny/compass/backend/pkg/logger"
)

// PriceObservation is one scraped competitor listing for a sku.
type PriceObservation struct {
	SKU        string
	Competitor string
	Price      float64
}

// Client scrapes competitor product listings from a price comparison site.
// Requests are rate limited so we stay a polite guest.
// ⭐ SSOT: 경쟁사 가격 수집은 이 클라이언트에서만
type Client struct {
	httpClient *httputil.Client
	limiter    *rate.Limiter
	logger     *logger.Logger
	baseURL    string
}

// NewClient creates a new competitor price client
func NewClient(cfg *config.Config, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(cfg.Competitor.RequestsPerSec), 1),
		logger:     log,
		baseURL:    strings.TrimRight(cfg.Competitor.BaseURL, "/"),
	}
}

// FetchPrices fetches current competitor prices for one sku.
func (c *Client) FetchPrices(ctx context.Context, sku string) ([]PriceObservation, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("sku", sku)
	fullURL := fmt.Sprintf("%s/search?%s", c.baseURL, params.Encode())

	resp, err := c.httpClient.Get(ctx, fullURL, map[string]string{
		"User-Agent": "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36",
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

	observations := c.parseListings(string(body), sku)

	c.logger.WithFields(map[string]interface{}{
		"sku":   sku,
		"count": len(observations),
	}).Debug("Fetched competitor prices")

	return observations, nil
}

// parseListings extracts seller/price pairs from the listing HTML.
// Expected structure: one div.listing per seller with .seller and .price cells.
func (c *Client) parseListings(html, sku string) []PriceObservation {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	var observations []PriceObservation
	doc.Find("div.listing").Each(func(_ int, row *goquery.Selection) {
		seller := strings.TrimSpace(row.Find(".seller").Text())
		price, ok := parsePrice(row.Find(".price").Text())
		if seller == "" || !ok {
			return
		}
		observations = append(observations, PriceObservation{
			SKU:        sku,
			Competitor: seller,
			Price:      price,
		})
	})

	return observations
}

// parsePrice normalizes "$1,299.00" style price text.
func parsePrice(text string) (float64, bool) {
	s := strings.TrimSpace(text)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	price, err := strconv.ParseFloat(s, 64)
	if err != nil || price <= 0 {
		return 0, false
	}
	return price, true
}
