package records

import (
	"testing"
	"time"
)

func datePtr(t time.Time) *Date {
	d := NewDate(t)
	return &d
}

func TestClassifyAt(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	empty := &DomainRecord{Registrar: RegistrarUnknown, Owner: RegistrarUnknown}
	withNS := &DomainRecord{Registrar: RegistrarUnknown, NameServers: []string{"ns1.example.com"}}
	withRegistrar := &DomainRecord{Registrar: "Example Registrar Inc."}

	tests := []struct {
		name       string
		expiration *Date
		status     []string
		rec        *DomainRecord
		expected   Status
	}{
		{"expired", datePtr(now.AddDate(0, 0, -5)), nil, empty, StatusExpired},
		{"expiring soon", datePtr(now.AddDate(0, 0, 10)), nil, empty, StatusExpiringSoon},
		{"expiring boundary", datePtr(now.AddDate(0, 0, 30)), nil, empty, StatusExpiringSoon},
		{"active far expiry", datePtr(now.AddDate(0, 0, 100)), nil, empty, StatusActive},
		{"pending delete beats active", nil, []string{"active", "pendingDelete"}, empty, StatusPendingDelete},
		{"pending delete spaced", nil, []string{"PENDING-DELETE"}, empty, StatusPendingDelete},
		{"redemption", nil, []string{"redemptionPeriod"}, empty, StatusRedemptionPeriod},
		{"pending restore", nil, []string{"pendingRestore"}, empty, StatusRedemptionPeriod},
		{"available token", nil, []string{"AVAILABLE"}, empty, StatusAvailable},
		{"free token", nil, []string{"status: free"}, empty, StatusAvailable},
		{"available beats pending delete", nil, []string{"pendingDelete", "No Match"}, empty, StatusAvailable},
		{"active token", nil, []string{"Active"}, empty, StatusActive},
		{"epp client token without expiry", nil, []string{"clientTransferProhibited"}, empty, StatusActive},
		{"epp token with expiry falls through", datePtr(now.AddDate(0, 0, -1)), []string{"clientTransferProhibited"}, empty, StatusExpired},
		{"nameservers imply active", nil, nil, withNS, StatusActive},
		{"registrar without expiry implies active", nil, nil, withRegistrar, StatusActive},
		{"no signals", nil, nil, empty, StatusError},
	}

	for _, test := range tests {
		result := ClassifyAt(now, test.expiration, test.status, test.rec)
		if result != test.expected {
			t.Errorf("%s: ClassifyAt() = %v; want %v", test.name, result, test.expected)
		}
	}
}

func TestDaysUntil(t *testing.T) {
	now := time.Date(2026, 8, 30, 23, 59, 0, 0, time.UTC)

	tests := []struct {
		date     time.Time
		expected int
	}{
		{time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC), 0},
		{time.Date(2026, 8, 31, 1, 0, 0, 0, time.UTC), 1},
		{time.Date(2026, 9, 29, 0, 0, 0, 0, time.UTC), 30},
		{time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), -5},
	}

	for _, test := range tests {
		d := NewDate(test.date)
		if got := d.DaysUntil(now); got != test.expected {
			t.Errorf("DaysUntil(%v) = %d; want %d", test.date, got, test.expected)
		}
	}
}
