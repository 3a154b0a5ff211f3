package scrape

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/jazzx/internal/models"
	"github.com/desertthunder/jazzx/internal/shared"
	"golang.org/x/time/rate"
)

// compositionHref matches detail-page links on the compositions index.
var compositionHref = regexp.MustCompile(`compositions-0/.*\.htm`)

// Scraper fetches and parses jazzstandards.com pages.
type Scraper struct {
	client        *http.Client
	logger        *log.Logger
	limiter       *rate.Limiter
	rules         []Rule
	baseURL       string
	indexPath     string
	userAgent     string
	topN          int
	maxRecordings int
}

// Opts contains optional overrides for constructing a Scraper.
type Opts struct {
	Client *http.Client
	Logger *log.Logger
	Rules  []Rule
}

// New creates a Scraper from source configuration.
//
// The rate limiter bounds detail-page requests to cfg.RateLimit requests per
// second (default 2, the original half-second pause between pages).
func New(cfg shared.SourceConfig, opts Opts) *Scraper {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Rules == nil {
		opts.Rules = DefaultRules()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.jazzstandards.com"
	}
	if cfg.IndexPath == "" {
		cfg.IndexPath = "/compositions/index.htm"
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 100
	}
	if cfg.MaxRecordings <= 0 {
		cfg.MaxRecordings = 6
	}
	if cfg.RateLimit <= 0 {
		cfg.RateLimit = 2.0
	}

	return &Scraper{
		client:        opts.Client,
		logger:        opts.Logger,
		limiter:       rate.NewLimiter(rate.Limit(cfg.RateLimit), 1),
		rules:         opts.Rules,
		baseURL:       cfg.BaseURL,
		indexPath:     cfg.IndexPath,
		userAgent:     cfg.UserAgent,
		topN:          cfg.TopN,
		maxRecordings: cfg.MaxRecordings,
	}
}

// fetchDocument retrieves a page and parses it into a goquery document.
func (s *Scraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if s.userAgent != "" {
		req.Header.Set("User-Agent", s.userAgent)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d for %s", shared.ErrFetchFailed, resp.StatusCode, pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrParseFailed, err)
	}

	return doc, nil
}

// Harvest fetches the compositions index and returns the top-N standards in
// document order.
//
// Failures are soft: any fetch or parse error is logged and an empty slice
// returned, leaving the caller with nothing to do rather than a crash.
func (s *Scraper) Harvest(ctx context.Context) []models.Standard {
	indexURL := s.baseURL + s.indexPath

	doc, err := s.fetchDocument(ctx, indexURL)
	if err != nil {
		s.logger.Error("failed to harvest standards index", "url", indexURL, "error", err)
		return nil
	}

	base, err := url.Parse(indexURL)
	if err != nil {
		s.logger.Error("invalid index url", "url", indexURL, "error", err)
		return nil
	}

	var standards []models.Standard
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href, ok := sel.Attr("href")
		if !ok || !compositionHref.MatchString(href) {
			return true
		}

		title := collapseWhitespace(sel.Text())
		if title == "" {
			return true
		}

		ref, err := url.Parse(href)
		if err != nil {
			s.logger.Warn("skipping malformed composition link", "href", href, "error", err)
			return true
		}

		standards = append(standards, models.Standard{
			Title: title,
			URL:   base.ResolveReference(ref).String(),
		})
		s.logger.Info("found standard", "title", title)

		return len(standards) < s.topN
	})

	return standards
}

// ExtractCitations fetches one standard's detail page and extracts its
// recommended-recording citations.
//
// The rate limiter is consulted before the fetch so detail pages are never
// requested faster than the configured rate. Failures are soft and yield an
// empty slice.
func (s *Scraper) ExtractCitations(ctx context.Context, pageURL string) []models.Citation {
	if err := s.limiter.Wait(ctx); err != nil {
		s.logger.Warn("rate limiter interrupted", "url", pageURL, "error", err)
		return nil
	}

	doc, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		s.logger.Error("failed to extract recordings", "url", pageURL, "error", err)
		return nil
	}

	return s.ExtractFromText(doc.Text())
}

// ExtractFromText applies the citation rules to already-flattened page text.
//
// Split out from ExtractCitations so the pattern policy is testable without
// a live page.
func (s *Scraper) ExtractFromText(text string) []models.Citation {
	var citations []models.Citation
	for _, rule := range s.rules {
		citations = append(citations, rule.Apply(text)...)
	}

	return Dedupe(citations, s.maxRecordings)
}

// collapseWhitespace trims and joins interior runs of whitespace to single
// spaces, matching the "visible text" of a link.
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
