// Package webfetch renders a team's published schedule page in a headless
// browser and extracts its text so the schedule interpreter can work from
// pages that build their content with JavaScript.
package webfetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/chromedp"
	"golang.org/x/time/rate"
)

const (
	// UserAgent for requests
	UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// MinRequestInterval between page fetches
	MinRequestInterval = 2 * time.Second
)

// Client fetches schedule pages with a shared headless-browser allocator.
// Fetches are rate limited; the limiter is safe for concurrent use, so the
// client can be shared across HTTP handlers.
type Client struct {
	limiter *rate.Limiter

	allocCtx context.Context
	cancel   context.CancelFunc
}

// NewClient creates a schedule page fetcher
func NewClient() (*Client, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent(UserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(context.Background(), opts...)

	return &Client{
		limiter:  rate.NewLimiter(rate.Every(MinRequestInterval), 1),
		allocCtx: allocCtx,
		cancel:   cancel,
	}, nil
}

// Close releases browser resources
func (c *Client) Close() {
	if c.cancel != nil {
		c.cancel()
	}
}

// FetchScheduleText renders the page at url and returns its visible text,
// ready to hand to the interpreter.
func (c *Client) FetchScheduleText(ctx context.Context, url string) (string, error) {
	if err := c.waitTurn(ctx); err != nil {
		return "", err
	}

	html, err := c.fetch(ctx, url)
	if err != nil {
		return "", err
	}

	return ExtractText(html)
}

// waitTurn blocks until the rate limiter grants the next fetch slot
func (c *Client) waitTurn(ctx context.Context) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("waiting for fetch slot: %w", err)
	}
	return nil
}

// fetch performs the actual page load using chromedp
func (c *Client) fetch(ctx context.Context, url string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(c.allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, 30*time.Second)
	defer cancel()

	var htmlContent string

	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitVisible(`body`, chromedp.ByQuery),
		chromedp.Sleep(1*time.Second), // Allow JS to render
		chromedp.OuterHTML(`html`, &htmlContent, chromedp.ByQuery),
	)

	if err != nil {
		return "", fmt.Errorf("chromedp error: %w", err)
	}

	if htmlContent == "" {
		return "", fmt.Errorf("empty HTML content returned")
	}

	return htmlContent, nil
}

// ExtractText parses HTML and returns the page's visible text with scripts
// and styles dropped and whitespace collapsed line by line.
func ExtractText(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript").Remove()

	var lines []string
	for _, line := range strings.Split(doc.Find("body").Text(), "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}

	return strings.Join(lines, "\n"), nil
}
