package whois_tools

import (
	"regexp"
	"strings"
)

// WHOIS has no structured error channel, so throttling has to be recognized
// from the response text itself. The guards below keep short but valid
// responses from being misread as errors.

// dataMarkers are fields only a real registration record carries. Their
// presence rules out a rate-limit error body.
var dataMarkers = []string{
	"domain name:",
	"domain:",
	"registrar:",
	"creation date:",
	"registry expiry date:",
	"expiration date:",
	"name server:",
	"nserver:",
	"registered on:",
}

// rateLimitPhrases are known throttling messages across registry operators.
var rateLimitPhrases = []string{
	"ratelimit",
	"rate limit exceeded",
	"too many requests",
	"quota exceeded",
	"limit exceeded",
}

// rateNearLimitRe catches terse errors like "rate of queries limited" in very
// short responses, where "rate" and "limit" sit close together.
var rateNearLimitRe = regexp.MustCompile(`(?s)rate.{0,20}limit`)

// IsRateLimited reports whether raw WHOIS text is a throttling error rather
// than registration data. Real domain data always runs longer than 500
// characters, so anything above that is never classified as rate limiting.
func IsRateLimited(raw string) bool {
	if len(raw) > 500 {
		return false
	}

	lower := strings.ToLower(raw)
	for _, marker := range dataMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}

	for _, phrase := range rateLimitPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}

	if len(raw) < 100 && rateNearLimitRe.MatchString(lower) {
		return true
	}

	return false
}
