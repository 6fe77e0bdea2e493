package scraper

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"
)

const (
	defaultMaxChars = 1500
	userAgent       = "HireflowBot/0.1"
)

var (
	ErrInvalidURL = errors.New("company url must be absolute http(s)")
	ErrNoContent  = errors.New("no company description found")
)

// CompanyInfo reads a company's public page and extracts a short description.
type CompanyInfo struct {
	timeout  time.Duration
	maxChars int
	logger   *zap.Logger
}

func NewCompanyInfo(timeout time.Duration, logger *zap.Logger) *CompanyInfo {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CompanyInfo{timeout: timeout, maxChars: defaultMaxChars, logger: logger}
}

// FetchAbout prefers the page's meta description and falls back to body paragraphs.
func (s *CompanyInfo) FetchAbout(ctx context.Context, pageURL string) (string, error) {
	host, err := hostFromURL(pageURL)
	if err != nil {
		return "", err
	}
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	c := colly.NewCollector(
		colly.AllowedDomains(host),
		colly.UserAgent(userAgent),
		colly.MaxDepth(1),
	)
	c.SetRequestTimeout(s.timeout)

	var (
		meta       string
		paragraphs []string
		reqErr     error
	)

	c.OnRequest(func(r *colly.Request) {
		if ctx.Err() != nil {
			r.Abort()
			return
		}
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9")
	})

	c.OnHTML(`meta[name="description"], meta[property="og:description"]`, func(e *colly.HTMLElement) {
		if meta == "" {
			meta = collapse(e.Attr("content"))
		}
	})

	c.OnHTML("main p, article p, section p", func(e *colly.HTMLElement) {
		if t := collapse(e.Text); len(t) >= 40 {
			paragraphs = append(paragraphs, t)
		}
	})

	c.OnError(func(r *colly.Response, err error) {
		reqErr = err
	})

	if err := c.Visit(pageURL); err != nil {
		return "", fmt.Errorf("visit %s: %w", pageURL, err)
	}
	c.Wait()
	if reqErr != nil {
		return "", fmt.Errorf("fetch %s: %w", pageURL, reqErr)
	}

	about := meta
	if about == "" {
		about = strings.Join(paragraphs, "\n")
	}
	about = clip(about, s.maxChars)
	if about == "" {
		return "", ErrNoContent
	}

	s.logger.Debug("company info fetched", zap.String("host", host), zap.Int("length", len(about)))
	return about, nil
}

func hostFromURL(raw string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidURL
	}
	if h, _, err := net.SplitHostPort(u.Host); err == nil {
		return h, nil
	}
	return u.Host, nil
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func clip(s string, limit int) string {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) <= limit {
		return string(runes)
	}
	return strings.TrimSpace(string(runes[:limit]))
}
