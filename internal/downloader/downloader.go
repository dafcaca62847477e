// Package downloader locates the interaction thesaurus PDF on the ANSM site
// and stores it locally.
package downloader

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"nephila/thesaurus/internal/fileutils"
	"nephila/thesaurus/internal/logging"
)

// DefaultTimeout applies when the client is built with a zero timeout.
const DefaultTimeout = 120 * time.Second

// Client fetches the ANSM thesaurus page and the PDF it links to.
type Client struct {
	http      *http.Client
	userAgent string
	baseURL   string
	logger    logging.Logger
}

// NewClient builds a client. Relative PDF links are resolved against
// baseURL, or against the page URL when baseURL is empty.
func NewClient(timeout time.Duration, userAgent, baseURL string, logger logging.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Client{
		http:      &http.Client{Timeout: timeout},
		userAgent: userAgent,
		baseURL:   baseURL,
		logger:    logger,
	}
}

// FindPDFURL fetches pageURL and returns the absolute URL of the thesaurus
// PDF it links to. Links whose target mentions "thesaurus" win over any
// other PDF link; within a group the first link in document order wins.
func (c *Client) FindPDFURL(ctx context.Context, pageURL string) (string, error) {
	resp, err := c.get(ctx, pageURL)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close response body")
		}
	}()

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}

	href := pickPDFLink(links(doc))
	if href == "" {
		return "", fmt.Errorf("no PDF found on ANSM page: %s", pageURL)
	}

	base := c.baseURL
	if base == "" {
		base = pageURL
	}
	abs, err := resolve(base, href)
	if err != nil {
		return "", err
	}

	c.logger.Info("ANSM thesaurus found", logging.Field{Key: logging.FieldURL, Value: abs})
	return abs, nil
}

// Download streams fileURL to dest, creating parent directories. dest is
// only replaced once the whole body has been received.
func (c *Client) Download(ctx context.Context, fileURL, dest string) (int64, error) {
	start := time.Now()
	resp, err := c.get(ctx, fileURL)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.WithError(err).Warn("Failed to close response body")
		}
	}()

	n, err := fileutils.WriteAtomic(dest, resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to download %s: %w", fileURL, err)
	}

	c.logger.Info("Downloaded file",
		logging.Field{Key: logging.FieldURL, Value: fileURL},
		logging.Field{Key: logging.FieldOutputFile, Value: dest},
		logging.Field{Key: "bytes", Value: n},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()})
	return n, nil
}

// Fetch locates the PDF on pageURL and downloads it to dest. It returns the
// PDF URL.
func (c *Client) Fetch(ctx context.Context, pageURL, dest string) (string, error) {
	pdfURL, err := c.FindPDFURL(ctx, pageURL)
	if err != nil {
		return "", err
	}
	if _, err := c.Download(ctx, pdfURL, dest); err != nil {
		return "", err
	}
	return pdfURL, nil
}

func (c *Client) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", target, err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", target, err)
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch %s: unexpected status %s", target, resp.Status)
	}
	return resp, nil
}

// links returns the href of every anchor in document order.
func links(n *html.Node) []string {
	var out []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "a" {
			for _, attr := range n.Attr {
				if attr.Key == "href" && strings.TrimSpace(attr.Val) != "" {
					out = append(out, strings.TrimSpace(attr.Val))
				}
			}
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return out
}

func pickPDFLink(hrefs []string) string {
	var fallback string
	for _, href := range hrefs {
		if !isPDF(href) {
			continue
		}
		if strings.Contains(strings.ToLower(href), "thesaurus") {
			return href
		}
		if fallback == "" {
			fallback = href
		}
	}
	return fallback
}

// isPDF matches on the link path, ignoring any query or fragment.
func isPDF(href string) bool {
	p := href
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return strings.HasSuffix(strings.ToLower(p), ".pdf")
}

func resolve(base, href string) (string, error) {
	b, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid base URL %s: %w", base, err)
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid PDF link %s: %w", href, err)
	}
	return b.ResolveReference(ref).String(), nil
}
