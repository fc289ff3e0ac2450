package records

import (
	"encoding/json"
	"strings"
	"time"
)

// Registrar placeholder values used when the registries give us nothing usable.
const (
	RegistrarUnknown       = "Unknown"
	RegistrarNotRegistered = "Not Registered"
)

// StatusTokenAvailable is the canonical status token for an unregistered domain.
const StatusTokenAvailable = "AVAILABLE"

// Date is a calendar date without a time component. Registry responses carry
// anything from bare dates to sub-second timestamps; everything is truncated
// to a UTC calendar date before it reaches a DomainRecord.
type Date struct {
	time.Time
}

// NewDate truncates t to its UTC calendar date.
func NewDate(t time.Time) Date {
	u := t.UTC()
	return Date{time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)}
}

// DaysUntil returns the number of whole days between now's calendar date and d.
// Negative when d is in the past.
func (d Date) DaysUntil(now time.Time) int {
	today := NewDate(now)
	return int(d.Sub(today.Time).Hours() / 24)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Format("2006-01-02"))
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return err
	}
	*d = NewDate(t)
	return nil
}

// DomainRecord represents the registration information about a domain, merged
// from whichever of RDAP and WHOIS produced usable data.
type DomainRecord struct {
	Domain         string                 `json:"Domain Name"`      // Domain is the name as queried.
	Registrar      string                 `json:"Registrar"`        // Registrar is the sponsoring registrar, or a placeholder.
	RegistrarURL   string                 `json:"Registrar URL"`    // RegistrarURL is the registrar's web address, if published.
	CreationDate   *Date                  `json:"Creation Date"`    // CreationDate is the registration date.
	UpdatedDate    *Date                  `json:"Updated Date"`     // UpdatedDate is the last-changed date.
	ExpirationDate *Date                  `json:"Expiration Date"`  // ExpirationDate is the registry expiry date.
	AbuseEmail     string                 `json:"Abuse Email"`      // AbuseEmail is the registrar's abuse contact.
	NameServers    []string               `json:"Name Server"`      // NameServers is de-duplicated and lowercased.
	DomainStatus   []string               `json:"Domain Status"`    // DomainStatus holds raw registry status tokens.
	Owner          string                 `json:"Owner"`            // Owner is the registrant, or "Unknown".
	SourceServer   string                 `json:"Source Server"`    // SourceServer names the server that supplied the data.
	RawData        map[string]interface{} `json:"Raw Data,omitempty"` // RawData echoes status and nameservers for audit.
}

// AddNameServer appends a nameserver after normalizing it: lowercase, no
// trailing dot, no duplicates, no empty strings.
func (r *DomainRecord) AddNameServer(ns string) {
	ns = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(ns), "."))
	if ns == "" {
		return
	}
	for _, existing := range r.NameServers {
		if existing == ns {
			return
		}
	}
	r.NameServers = append(r.NameServers, ns)
}

// IsAvailable reports whether the record describes an unregistered domain.
func (r *DomainRecord) IsAvailable() bool {
	if r.Registrar == RegistrarNotRegistered {
		return true
	}
	for _, s := range r.DomainStatus {
		if strings.EqualFold(s, StatusTokenAvailable) {
			return true
		}
	}
	return false
}

// Finalize fills placeholder values and the raw-data echo. Parsers call this
// exactly once before handing the record out; the record must not be mutated
// afterwards.
func (r *DomainRecord) Finalize() {
	if r.Registrar == "" {
		r.Registrar = RegistrarUnknown
	}
	if r.Owner == "" {
		r.Owner = RegistrarUnknown
	}
	status := make([]string, len(r.DomainStatus))
	copy(status, r.DomainStatus)
	nameServers := make([]string, len(r.NameServers))
	copy(nameServers, r.NameServers)
	r.RawData = map[string]interface{}{
		"status":      status,
		"nameServers": nameServers,
	}
}

// AvailableRecord builds the minimal record for a domain a registry reported
// as unregistered.
func AvailableRecord(domain, sourceServer string) DomainRecord {
	rec := DomainRecord{
		Domain:       domain,
		Registrar:    RegistrarNotRegistered,
		DomainStatus: []string{StatusTokenAvailable},
		SourceServer: sourceServer,
	}
	rec.Finalize()
	return rec
}

// TLDServerInfo is a cached directory entry mapping a TLD to its known
// endpoints. Both fields empty is a valid, cacheable "unknown" result.
type TLDServerInfo struct {
	TLD         string `json:"tld"`
	WhoisServer string `json:"whoisServer,omitempty"`
	RDAPBaseURL string `json:"rdapBaseUrl,omitempty"`
}

// Empty reports whether no endpoint at all is known for the TLD.
func (i TLDServerInfo) Empty() bool {
	return i.WhoisServer == "" && i.RDAPBaseURL == ""
}
