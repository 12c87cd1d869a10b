// Package linkpreview implements the LinkPreviewer port by fetching a page and
// reading its title.
package linkpreview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/netip"
	"net/url"
	"strings"
	"syscall"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gregjones/httpcache"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/ericfisherdev/scanmaster/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.LinkPreviewer = (*Fetcher)(nil)

const (
	maxPageSize = 512 << 10
	userAgent   = "scanmaster-linkpreview/1.0"
	// maxTitleLen caps the title, in runes, passed on to the summarizer.
	maxTitleLen = 200
	// cacheEntries bounds the number of cached responses.
	cacheEntries = 256
)

// ErrNonPublicAddress is returned when a link resolves to a loopback,
// private, link-local or unspecified address.
var ErrNonPublicAddress = errors.New("link resolves to a non-public address")

// Fetcher retrieves page titles over HTTP. Responses are cached in memory
// according to their caching headers, so rescanning the same link is cheap.
type Fetcher struct {
	client *http.Client
}

// NewFetcher creates a Fetcher with a bounded in-memory HTTP cache. It only
// connects to public addresses, so a scanned link cannot reach services on
// the host or its local network.
func NewFetcher() *Fetcher {
	dialer := &net.Dialer{
		Timeout: 5 * time.Second,
		Control: publicOnly,
	}
	base := http.DefaultTransport.(*http.Transport).Clone()
	base.Proxy = nil
	base.DialContext = dialer.DialContext

	return &Fetcher{client: &http.Client{
		Transport: &httpcache.Transport{
			Transport:           base,
			Cache:               newLRUCache(cacheEntries),
			MarkCachedResponses: true,
		},
		Timeout: 5 * time.Second,
	}}
}

// publicOnly is a net.Dialer Control hook. It runs after name resolution, so
// redirects and DNS names pointing inward are caught too.
func publicOnly(_, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrNonPublicAddress, address)
	}
	ip := ap.Addr().Unmap()
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() || ip.IsInterfaceLocalMulticast() {
		return fmt.Errorf("%w: %s", ErrNonPublicAddress, ip)
	}
	return nil
}

// lruCache adapts a fixed-size LRU to httpcache.Cache.
type lruCache struct {
	entries *lru.Cache[string, []byte]
}

func newLRUCache(size int) *lruCache {
	entries, err := lru.New[string, []byte](size)
	if err != nil {
		panic("linkpreview: " + err.Error())
	}
	return &lruCache{entries: entries}
}

func (c *lruCache) Get(key string) ([]byte, bool) { return c.entries.Get(key) }

func (c *lruCache) Set(key string, resp []byte) { c.entries.Add(key, resp) }

func (c *lruCache) Delete(key string) { c.entries.Remove(key) }

// NewFetcherWithHTTPClient creates a Fetcher around a custom client.
// This constructor is intended for testing.
func NewFetcherWithHTTPClient(client *http.Client) *Fetcher {
	return &Fetcher{client: client}
}

// Title returns the og:title or <title> of the page at rawURL. A page without
// a title yields an empty string and no error.
func (f *Fetcher) Title(ctx context.Context, rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse link %q: %w", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("unsupported link scheme %q", u.Scheme)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return "", fmt.Errorf("build preview request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch %s: %w", u.Host, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("fetch %s: HTTP %d", u.Host, resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return "", fmt.Errorf("parse page %s: %w", u.Host, err)
	}

	title, _ := doc.Find(`meta[property="og:title"]`).First().Attr("content")
	if strings.TrimSpace(title) == "" {
		title = doc.Find("title").First().Text()
	}
	return truncate(strings.Join(strings.Fields(title), " "), maxTitleLen), nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
