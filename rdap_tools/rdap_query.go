package rdap_tools

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/domainwatch/lookup/records"
)

// ErrRateLimited is returned when the registry answered 429. Callers decide
// whether to surface the error or fall back to WHOIS.
var ErrRateLimited = errors.New("rdap: registry rate limit hit")

// Client queries RDAP registries over HTTPS. RDAP base URLs come from the TLD
// directory and always address a single registry.
type Client struct {
	httpClient *http.Client
}

// NewClient creates an RDAP client on top of the given HTTP client.
func NewClient(httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{httpClient: httpClient}
}

// Query fetches and parses the RDAP record for domain from the registry at
// baseURL. A 404 from the registry means the domain is not registered, which
// is a successful lookup, not an error.
func (c *Client) Query(domain, baseURL string) (*records.DomainRecord, error) {
	queryURL, err := domainQueryURL(baseURL, domain)
	if err != nil {
		return nil, err
	}

	log.Printf("Querying RDAP for domain: %s on server: %s\n", domain, queryURL)

	req, err := http.NewRequest("GET", queryURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/rdap+json, application/json, */*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, resp.Body); err != nil {
		return nil, err
	}
	body := buf.String()

	sourceHost := sourceLabel(queryURL)

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case resp.StatusCode == http.StatusNotFound:
		// Only a recognizable not-found body proves the domain is
		// unregistered. A 404 carrying anything else (a CDN error page,
		// a registry maintenance notice) is a failed lookup, not an
		// available domain.
		if notFoundMeansAvailable(body) {
			available := records.AvailableRecord(domain, sourceHost)
			return &available, nil
		}
		return nil, fmt.Errorf("rdap: unrecognized not-found response from %s", sourceHost)
	case resp.StatusCode == http.StatusForbidden:
		return nil, errors.New("rdap: the registry denied the query")
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("rdap: unexpected status code: %d", resp.StatusCode)
	}

	// A few registries answer 200 with an RDAP error object for unknown
	// domains instead of a proper 404.
	if errorResponseCode(body) == http.StatusNotFound {
		available := records.AvailableRecord(domain, sourceHost)
		return &available, nil
	}

	return ParseRDAPResponseForDomain(domain, body, sourceHost)
}

// domainQueryURL joins an RDAP base URL with the domain lookup path. Base
// URLs from the bootstrap registry end in "/", but hand-maintained entries
// may not.
func domainQueryURL(baseURL, domain string) (string, error) {
	if baseURL == "" {
		return "", errors.New("rdap: empty base URL")
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	// Some registries publish a base URL that already includes the domain
	// lookup path.
	queryURL := baseURL
	if !strings.HasSuffix(baseURL, "domain/") {
		queryURL += "domain/"
	}
	queryURL += domain
	if _, err := url.Parse(queryURL); err != nil {
		return "", fmt.Errorf("rdap: bad query URL %q: %w", queryURL, err)
	}
	return queryURL, nil
}

// sourceLabel reduces a query URL to the registry host for the record's
// source field.
func sourceLabel(queryURL string) string {
	parsed, err := url.Parse(queryURL)
	if err != nil || parsed.Host == "" {
		return queryURL
	}
	return parsed.Host + " (RDAP)"
}

// notFoundMeansAvailable reports whether a 404 body is one of the shapes
// registries use for unregistered domains: an empty body, an RDAP error
// object with errorCode 404, or a domain object whose status carries a
// "free" token.
func notFoundMeansAvailable(body string) bool {
	trimmed := strings.TrimSpace(body)
	if trimmed == "" {
		return true
	}

	var result map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &result); err != nil {
		return false
	}
	if code, ok := result["errorCode"].(float64); ok && int(code) == http.StatusNotFound {
		return true
	}
	if status, ok := result["status"].([]interface{}); ok {
		for _, s := range status {
			if token, ok := s.(string); ok && strings.Contains(strings.ToLower(token), "free") {
				return true
			}
		}
	}
	return false
}

// errorResponseCode extracts errorCode from an RDAP error body, or 0.
func errorResponseCode(body string) int {
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(body), &result); err != nil {
		return 0
	}
	if code, ok := result["errorCode"].(float64); ok {
		return int(code)
	}
	return 0
}
