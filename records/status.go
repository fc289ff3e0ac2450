package records

import (
	"strings"
	"time"
)

// Status is the canonical classification of a domain's registration state.
type Status string

const (
	StatusAvailable        Status = "available"
	StatusPendingDelete    Status = "pending_delete"
	StatusRedemptionPeriod Status = "redemption_period"
	StatusActive           Status = "active"
	StatusExpired          Status = "expired"
	StatusExpiringSoon     Status = "expiring_soon"
	StatusError            Status = "error"
)

// expiringSoonDays is the window, in days, within which an upcoming expiry is
// reported as expiring_soon rather than active.
const expiringSoonDays = 30

var pendingDeleteTokens = []string{
	"pendingdelete",
	"pending delete",
	"pending_delete",
	"pending-delete",
}

var redemptionTokens = []string{
	"redemptionperiod",
	"redemption period",
	"redemption_period",
	"redemption-period",
	"pendingrestore",
}

var availableTokens = []string{
	"available",
	"free",
	"no match",
	"not found",
}

// Classify maps a record's signals to a Status using the current time.
func Classify(expiration *Date, statusTokens []string, rec *DomainRecord) Status {
	return ClassifyAt(time.Now(), expiration, statusTokens, rec)
}

// ClassifyAt evaluates the classification rules in strict precedence order;
// the first matching rule wins. It never reports a domain as available purely
// from absence of data.
func ClassifyAt(now time.Time, expiration *Date, statusTokens []string, rec *DomainRecord) Status {
	for _, token := range statusTokens {
		if containsAny(token, availableTokens) {
			return StatusAvailable
		}
	}
	for _, token := range statusTokens {
		if containsAny(token, pendingDeleteTokens) {
			return StatusPendingDelete
		}
	}
	for _, token := range statusTokens {
		if containsAny(token, redemptionTokens) {
			return StatusRedemptionPeriod
		}
	}
	for _, token := range statusTokens {
		if strings.Contains(strings.ToLower(token), "active") {
			return StatusActive
		}
	}
	if expiration == nil {
		for _, token := range statusTokens {
			if containsAny(token, []string{"ok", "registered", "client", "server"}) {
				return StatusActive
			}
		}
	}
	if rec != nil && len(rec.NameServers) > 0 {
		return StatusActive
	}
	if rec != nil && expiration == nil &&
		rec.Registrar != "" &&
		rec.Registrar != RegistrarUnknown &&
		rec.Registrar != RegistrarNotRegistered {
		return StatusActive
	}
	if expiration != nil {
		days := expiration.DaysUntil(now)
		switch {
		case days < 0:
			return StatusExpired
		case days <= expiringSoonDays:
			return StatusExpiringSoon
		default:
			return StatusActive
		}
	}
	return StatusError
}

func containsAny(token string, needles []string) bool {
	lower := strings.ToLower(token)
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}
