package whois_tools

import (
	"bufio"
	"strings"
)

// rootWhoisHost is the IANA root WHOIS service. A referral pointing back at it
// is never followed; it has already been queried by then.
const rootWhoisHost = "whois.iana.org"

// referralKeys are the line prefixes that can carry a referral, in priority
// order. Registry operators never agreed on one spelling.
var referralKeys = []string{
	"registrar whois server:",
	"referralserver:",
	"refer:",
	"whois server:",
}

// ExtractReferral scans raw WHOIS text for a pointer to a more authoritative
// server. Returns "" when the response carries no usable referral.
func ExtractReferral(raw string) string {
	for _, key := range referralKeys {
		scanner := bufio.NewScanner(strings.NewReader(raw))
		scanner.Buffer(make([]byte, 0, 1024), 1024*1024)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(strings.ToLower(line), key) {
				continue
			}
			value := strings.TrimSpace(line[len(key):])
			value = strings.TrimPrefix(value, "whois://")
			if value == "" || strings.EqualFold(value, rootWhoisHost) {
				continue
			}
			return value
		}
	}
	return ""
}
