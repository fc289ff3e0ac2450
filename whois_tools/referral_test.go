package whois_tools

import "testing"

func TestExtractReferral(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected string
	}{
		{
			"registrar whois server",
			"Domain Name: EXAMPLE.COM\nRegistrar WHOIS Server: whois.example-registrar.com\n",
			"whois.example-registrar.com",
		},
		{
			"referral server scheme stripped",
			"ReferralServer: whois://whois.example-registrar.com\n",
			"whois.example-registrar.com",
		},
		{
			"iana refer line",
			"refer:        whois.verisign-grs.com\n\ndomain:       COM\n",
			"whois.verisign-grs.com",
		},
		{
			"bare whois server line",
			"whois server: whois.nic.io\n",
			"whois.nic.io",
		},
		{
			"registrar server outranks refer line",
			"refer: whois.verisign-grs.com\nRegistrar WHOIS Server: whois.example-registrar.com\n",
			"whois.example-registrar.com",
		},
		{
			"root server excluded",
			"Registrar WHOIS Server: whois.iana.org\n",
			"",
		},
		{
			"empty value skipped",
			"Registrar WHOIS Server:\nrefer: whois.nic.dev\n",
			"whois.nic.dev",
		},
		{
			"no referral",
			"Domain Name: EXAMPLE.COM\nRegistrar: Example Registrar, Inc.\n",
			"",
		},
	}

	for _, test := range tests {
		if got := ExtractReferral(test.raw); got != test.expected {
			t.Errorf("%s: ExtractReferral() = %q; want %q", test.name, got, test.expected)
		}
	}
}

func TestIsRateLimited(t *testing.T) {
	longResponse := "Domain Name: example.com\n"
	for len(longResponse) <= 500 {
		longResponse += "Name Server: ns1.example.com\n"
	}

	tests := []struct {
		name     string
		raw      string
		expected bool
	}{
		{"explicit ratelimit", "Error: RateLimit Exceeded", true},
		{"too many requests", "ERROR: too many requests from your host", true},
		{"quota exceeded", "Query quota exceeded. Come back tomorrow.", true},
		{"rate near limit short", "rate of queries limited", true},
		{"long response never rate limited", longResponse, false},
		{"data marker wins", "Domain Name: example.com\nrate limit notice in terms of service", false},
		{"plain not found", "No match for domain", false},
		{"empty", "", false},
	}

	for _, test := range tests {
		if got := IsRateLimited(test.raw); got != test.expected {
			t.Errorf("%s: IsRateLimited(%q) = %v; want %v", test.name, test.raw, got, test.expected)
		}
	}
}
