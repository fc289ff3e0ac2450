package tld_tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/domainwatch/lookup/records"
	"github.com/domainwatch/lookup/server_lists"
	"github.com/domainwatch/lookup/utils"
	"github.com/domainwatch/lookup/whois_tools"
)

const (
	// DefaultTTL bounds how long a resolved TLD entry stays cached. TLD
	// endpoints change rarely, so a day is plenty.
	DefaultTTL = 24 * time.Hour

	defaultBootstrapURL   = "https://data.iana.org/rdap/dns.json"
	defaultTLDPageURL     = "https://www.iana.org/domains/root/db/"
	defaultRootWhoisHost  = "whois.iana.org"
	tldServersCachePrefix = "tld_servers:"

	// IANA lists no WHOIS server for .pro even though one exists.
	proWhoisServer = "whois.afilias.net"
)

// Directory resolves a TLD to its WHOIS server and RDAP base URL. Lookups
// prefer the local registry, then fall back to IANA's published data. A
// resolution never fails: when nothing is found the entry is empty, and that
// negative result is cached too.
type Directory struct {
	registry    server_lists.Registry
	cache       utils.Cache
	httpClient  *http.Client
	whoisClient *whois_tools.Client
	ttl         time.Duration

	// Overridable for tests.
	bootstrapURL  string
	tldPageURL    string
	rootWhoisHost string
}

// NewDirectory creates a directory over the given registry and cache.
func NewDirectory(registry server_lists.Registry, cache utils.Cache, httpClient *http.Client) *Directory {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Directory{
		registry:      registry,
		cache:         cache,
		httpClient:    httpClient,
		whoisClient:   whois_tools.NewClient(whois_tools.DefaultTimeout),
		ttl:           DefaultTTL,
		bootstrapURL:  defaultBootstrapURL,
		tldPageURL:    defaultTLDPageURL,
		rootWhoisHost: defaultRootWhoisHost,
	}
}

// SetTTL overrides the cache lifetime of resolved entries.
func (d *Directory) SetTTL(ttl time.Duration) {
	if ttl > 0 {
		d.ttl = ttl
	}
}

// Resolve finds the endpoints for a single TLD label like "com" or "co.uk".
func (d *Directory) Resolve(ctx context.Context, tld string) records.TLDServerInfo {
	tld = strings.ToLower(strings.Trim(strings.TrimSpace(tld), "."))
	info := records.TLDServerInfo{TLD: tld}
	if tld == "" {
		return info
	}

	cacheKey := tldServersCachePrefix + tld
	if d.cache != nil {
		if cached, err := utils.GetFromCache(ctx, d.cache, cacheKey); err == nil && cached.Found {
			if err := json.Unmarshal([]byte(cached.Data), &info); err == nil {
				return info
			}
		}
	}

	if endpoints, ok := d.registry.GetByTLD(tld); ok {
		info.WhoisServer = endpoints.WhoisServer
		if len(endpoints.RDAPServers) > 0 {
			info.RDAPBaseURL = normalizeBaseURL(endpoints.RDAPServers[0])
		}
		d.store(ctx, cacheKey, info)
		return info
	}

	info.WhoisServer = d.whoisServerFromRootWhois(tld)

	info.RDAPBaseURL = d.rdapURLFromBootstrap(tld)
	if info.RDAPBaseURL == "" {
		// Scrape IANA's TLD page only when the bootstrap registry has no
		// entry. Guessing an RDAP URL is never an option: unverified
		// guesses do not resolve and waste a query.
		info.RDAPBaseURL = d.rdapURLFromTLDPage(tld)
	}

	d.store(ctx, cacheKey, info)
	return info
}

func (d *Directory) store(ctx context.Context, cacheKey string, info records.TLDServerInfo) {
	if d.cache == nil {
		return
	}
	utils.SetToCache(ctx, d.cache, cacheKey, info, d.ttl)
}

// whoisServerFromRootWhois asks the IANA root WHOIS service for the TLD and
// reads the "whois:" line from its reply.
func (d *Directory) whoisServerFromRootWhois(tld string) string {
	raw, err := d.whoisClient.Query(tld, d.rootWhoisHost)
	if err != nil {
		log.Printf("Root WHOIS lookup for TLD %s failed: %v\n", tld, err)
		raw = ""
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		if strings.HasPrefix(lower, "whois:") {
			if server := strings.TrimSpace(line[len("whois:"):]); server != "" {
				return server
			}
		}
	}

	if tld == "pro" {
		return proWhoisServer
	}
	return ""
}

// bootstrapDocument is the IANA RDAP bootstrap file: each service entry is a
// pair of a TLD list and a base URL list.
type bootstrapDocument struct {
	Services [][][]string `json:"services"`
}

func (d *Directory) rdapURLFromBootstrap(tld string) string {
	body, err := d.fetch(d.bootstrapURL)
	if err != nil {
		log.Printf("RDAP bootstrap fetch failed: %v\n", err)
		return ""
	}

	var doc bootstrapDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		log.Printf("RDAP bootstrap parse failed: %v\n", err)
		return ""
	}

	for _, service := range doc.Services {
		if len(service) < 2 {
			continue
		}
		for _, entry := range service[0] {
			if strings.EqualFold(entry, tld) {
				for _, rawURL := range service[1] {
					if rawURL != "" {
						return normalizeBaseURL(rawURL)
					}
				}
			}
		}
	}
	return ""
}

// rdapURLFromTLDPage scrapes IANA's per-TLD information page for an explicit
// "RDAP Server:" entry.
func (d *Directory) rdapURLFromTLDPage(tld string) string {
	body, err := d.fetch(d.tldPageURL + tld + ".html")
	if err != nil {
		log.Printf("IANA TLD page fetch for %s failed: %v\n", tld, err)
		return ""
	}

	tokenizer := html.NewTokenizer(bytes.NewReader(body))
	sawLabel := false
	for {
		switch tokenizer.Next() {
		case html.ErrorToken:
			return ""
		case html.TextToken:
			text := strings.TrimSpace(string(tokenizer.Text()))
			if strings.HasPrefix(text, "RDAP Server:") {
				sawLabel = true
				if rest := strings.TrimSpace(strings.TrimPrefix(text, "RDAP Server:")); strings.HasPrefix(rest, "http") {
					return normalizeBaseURL(rest)
				}
			} else if sawLabel && strings.HasPrefix(text, "http") {
				return normalizeBaseURL(text)
			}
		case html.StartTagToken:
			if !sawLabel {
				continue
			}
			token := tokenizer.Token()
			if token.Data != "a" {
				continue
			}
			for _, attr := range token.Attr {
				if attr.Key == "href" && strings.HasPrefix(attr.Val, "http") {
					return normalizeBaseURL(attr.Val)
				}
			}
		}
	}
}

func (d *Directory) fetch(rawURL string) ([]byte, error) {
	resp, err := d.httpClient.Get(rawURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code %d fetching %s", resp.StatusCode, rawURL)
	}
	return io.ReadAll(resp.Body)
}

// normalizeBaseURL makes sure an RDAP base URL ends with "/" so a lookup path
// can be appended directly.
func normalizeBaseURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	if !strings.HasSuffix(rawURL, "/") {
		rawURL += "/"
	}
	return rawURL
}
