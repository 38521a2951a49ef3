// Package discovery sources candidate products by scraping a marketplace
// listing search. Failures degrade to "no candidates this cycle".
package discovery

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"github.com/suruagyvieira/dropmasters-alpha/pkg/config"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/logger"
	"github.com/suruagyvieira/dropmasters-alpha/pkg/randx"
)

// Candidate is one scraped listing with its synthetic quality score.
type Candidate struct {
	Name      string
	Price     float64
	URL       string
	Image     string
	Location  string
	Seller    string
	VibeScore int
	Source    string
}

var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36",
}

// Client scrapes the marketplace search page, rate limited and bounded by
// the configured request timeout.
type Client struct {
	baseURL string
	http    *http.Client
	limiter *rate.Limiter
	rand    randx.Rand
	logg    *logger.Logger
}

// NewClient builds a scraping client from config.
func NewClient(cfg config.DiscoveryConfig, r randx.Rand, logg *logger.Logger) *Client {
	rps := cfg.RatePerSecond
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    &http.Client{Timeout: cfg.RequestTimeout},
		limiter: rate.NewLimiter(rate.Limit(rps), 2),
		rand:    r,
		logg:    logg,
	}
}

// Search scrapes listings for the keyword, scored and sorted by vibe
// descending. A scrape failure returns an empty slice and no error is
// retried synchronously.
func (c *Client) Search(ctx context.Context, keyword string, limit int) ([]Candidate, error) {
	if limit <= 0 {
		limit = 5
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	formatted := strings.ReplaceAll(strings.TrimSpace(keyword), " ", "-")
	url := fmt.Sprintf("%s/%s", c.baseURL, formatted)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", randx.Pick(c.rand, userAgents))
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9")

	resp, err := c.http.Do(req)
	if err != nil {
		c.warn(ctx, "discovery request failed", err)
		return nil, nil
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		c.warn(ctx, fmt.Sprintf("discovery request returned %d", resp.StatusCode), nil)
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		c.warn(ctx, "discovery parse failed", err)
		return nil, nil
	}

	return c.parseListings(doc, limit), nil
}

func (c *Client) parseListings(doc *goquery.Document, limit int) []Candidate {
	items := doc.Find("li.ui-search-layout__item")
	if items.Length() == 0 {
		items = doc.Find("div.ui-search-result__wrapper")
	}

	var candidates []Candidate
	items.EachWithBreak(func(_ int, item *goquery.Selection) bool {
		if len(candidates) >= limit {
			return false
		}

		title := firstText(item, ".ui-search-item__title", ".poly-component__title")
		priceText := firstText(item,
			".ui-search-price__part .andes-money-amount__fraction",
			".poly-price__current .andes-money-amount__fraction")
		link := firstAttr(item, "href", "a.ui-search-link", "a.poly-component__title")
		if title == "" || priceText == "" || link == "" {
			return true
		}

		price, err := parsePrice(priceText)
		if err != nil {
			return true
		}

		seller := firstText(item, ".ui-search-item__group__element--seller", ".poly-component__seller")
		if seller == "" {
			seller = "Fornecedor Validado"
		}
		location := firstText(item, ".ui-search-item__location", ".poly-component__location")
		if location == "" {
			location = "SP"
		}
		image := firstAttr(item, "src", "img.ui-search-result-image__element", ".poly-component__picture img")
		if image == "" {
			image = firstAttr(item, "data-src", "img.ui-search-result-image__element", ".poly-component__picture img")
		}

		candidates = append(candidates, Candidate{
			Name:      title,
			Price:     price,
			URL:       link,
			Image:     image,
			Location:  location,
			Seller:    seller,
			VibeScore: VibeScore(title, price, seller),
			Source:    "MercadoLivre",
		})
		return true
	})

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].VibeScore > candidates[j].VibeScore
	})
	return candidates
}

func firstText(item *goquery.Selection, selectors ...string) string {
	for _, selector := range selectors {
		if found := item.Find(selector).First(); found.Length() > 0 {
			return strings.TrimSpace(found.Text())
		}
	}
	return ""
}

func firstAttr(item *goquery.Selection, attr string, selectors ...string) string {
	for _, selector := range selectors {
		if value, ok := item.Find(selector).First().Attr(attr); ok && value != "" {
			return value
		}
	}
	return ""
}

// parsePrice converts "1.899" style fraction text into a float.
func parsePrice(text string) (float64, error) {
	normalized := strings.ReplaceAll(text, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")
	return strconv.ParseFloat(normalized, 64)
}

func (c *Client) warn(ctx context.Context, msg string, err error) {
	if c.logg == nil {
		return
	}
	if err != nil {
		ctx = c.logg.WithField(ctx, "error", err.Error())
	}
	c.logg.Warn(ctx, msg)
}
