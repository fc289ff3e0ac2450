package whois_tools

import (
	"bytes"
	"io"
	"log"
	"net"
	"strings"
	"time"
)

// DefaultTimeout bounds both the connection attempt and the full read of a
// WHOIS response.
const DefaultTimeout = 10 * time.Second

// Client speaks the port-43 WHOIS protocol: send the domain followed by CRLF,
// read until the server closes the connection. There is no other framing.
type Client struct {
	Timeout time.Duration
}

// NewClient creates a WHOIS client with the given socket timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{Timeout: timeout}
}

// Query sends domain to the given WHOIS server and returns the full response
// text. The server may be a bare host (port 43 assumed) or host:port.
// Network failures are logged and reported as errors; they are expected and
// non-fatal for callers.
func (c *Client) Query(domain, server string) (string, error) {
	addr := strings.TrimSpace(server)
	if !strings.Contains(addr, ":") {
		addr += ":43"
	}

	log.Printf("Querying WHOIS for domain: %s on server: %s\n", domain, addr)

	conn, err := net.DialTimeout("tcp", addr, c.Timeout)
	if err != nil {
		log.Printf("WHOIS connection to %s failed: %v\n", addr, err)
		return "", err
	}
	defer conn.Close()

	if err := conn.SetDeadline(time.Now().Add(c.Timeout)); err != nil {
		return "", err
	}

	if _, err := conn.Write([]byte(domain + "\r\n")); err != nil {
		log.Printf("WHOIS query to %s failed: %v\n", addr, err)
		return "", err
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, conn); err != nil {
		log.Printf("WHOIS read from %s failed: %v\n", addr, err)
		return "", err
	}

	return buf.String(), nil
}
