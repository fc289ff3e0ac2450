package whois_tools

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"
)

// startMockWhoisServer listens on a random local port and answers every
// connection with respond(request). It returns the listener address.
func startMockWhoisServer(t *testing.T, respond func(domain string) string) string {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to start mock WHOIS server: %v", err)
	}
	t.Cleanup(func() { listener.Close() })

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				line, err := bufio.NewReader(conn).ReadString('\n')
				if err != nil {
					return
				}
				domain := strings.TrimRight(line, "\r\n")
				conn.Write([]byte(respond(domain)))
			}(conn)
		}
	}()

	return listener.Addr().String()
}

func TestQuery(t *testing.T) {
	addr := startMockWhoisServer(t, func(domain string) string {
		return "Domain Name: " + domain + "\nRegistrar: Example Registrar, Inc.\n"
	})

	client := NewClient(2 * time.Second)
	raw, err := client.Query("example.com", addr)
	if err != nil {
		t.Fatalf("Query() error: %v", err)
	}

	if !strings.Contains(raw, "Domain Name: example.com") {
		t.Errorf("response missing echoed domain, got: %q", raw)
	}
	if !strings.Contains(raw, "Registrar: Example Registrar, Inc.") {
		t.Errorf("response missing registrar line, got: %q", raw)
	}
}

func TestQueryConnectionRefused(t *testing.T) {
	// Grab a free port and release it so the dial fails fast.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("failed to reserve port: %v", err)
	}
	addr := listener.Addr().String()
	listener.Close()

	client := NewClient(time.Second)
	if _, err := client.Query("example.com", addr); err == nil {
		t.Error("Query() against closed port succeeded; want error")
	}
}

func TestQueryAppendsDefaultPort(t *testing.T) {
	client := NewClient(500 * time.Millisecond)
	// A bare hostname that cannot resolve proves the ":43" path without
	// reaching the network.
	_, err := client.Query("example.com", "whois.invalid")
	if err == nil {
		t.Error("Query() against unresolvable host succeeded; want error")
	}
}
