package lookup

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/domainwatch/lookup/rdap_tools"
	"github.com/domainwatch/lookup/records"
	"github.com/domainwatch/lookup/whois_tools"
)

// rootWhoisHost is the fallback WHOIS server when the directory knows nothing.
const rootWhoisHost = "whois.iana.org"

// ServerDirectory resolves a TLD label to its known endpoints.
type ServerDirectory interface {
	Resolve(ctx context.Context, tld string) records.TLDServerInfo
}

// WhoisQuerier performs a raw port-43 query against a named server.
type WhoisQuerier interface {
	Query(domain, server string) (string, error)
}

// RDAPQuerier fetches and parses an RDAP record from a registry base URL.
type RDAPQuerier interface {
	Query(domain, baseURL string) (*records.DomainRecord, error)
}

// Resolver orchestrates a full domain lookup: endpoint discovery, RDAP first,
// WHOIS as supplement or fallback, one referral hop. All state is injected,
// so concurrent lookups are independent.
type Resolver struct {
	directory ServerDirectory
	whois     WhoisQuerier
	rdap      RDAPQuerier
}

// NewResolver wires an orchestrator from its three collaborators.
func NewResolver(directory ServerDirectory, whois WhoisQuerier, rdap RDAPQuerier) *Resolver {
	return &Resolver{directory: directory, whois: whois, rdap: rdap}
}

// Resolve looks up domain and returns its canonical record. On failure the
// record is nil and the error is a *records.LookupError carrying the kind.
func (r *Resolver) Resolve(ctx context.Context, domain string) (rec *records.DomainRecord, err error) {
	// Registry responses are hostile input. A panic while digging through
	// one must not take the caller down.
	defer func() {
		if recovered := recover(); recovered != nil {
			log.Printf("Lookup for %s panicked: %v\n", domain, recovered)
			rec = nil
			err = &records.LookupError{
				Kind:   records.KindUnexpected,
				Domain: domain,
				Err:    fmt.Errorf("internal fault: %v", recovered),
			}
		}
	}()

	domain = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(domain), "."))

	info := r.serverInfo(ctx, domain)

	if info.RDAPBaseURL != "" {
		rdapRec, rdapErr := r.rdap.Query(domain, info.RDAPBaseURL)
		switch {
		case errors.Is(rdapErr, rdap_tools.ErrRateLimited):
			return nil, &records.LookupError{Kind: records.KindRateLimited, Domain: domain, Err: rdapErr}
		case rdapErr != nil:
			log.Printf("RDAP lookup for %s failed, falling back to WHOIS: %v\n", domain, rdapErr)
		default:
			r.supplementFromWhois(rdapRec, domain, info.WhoisServer)
			return rdapRec, nil
		}
	}

	return r.resolveViaWhois(domain, info.WhoisServer)
}

// serverInfo discovers endpoints for the domain's TLD. For names with three
// or more labels the two-label suffix is tried first, so "example.co.uk"
// resolves "co.uk" before falling back to "uk".
func (r *Resolver) serverInfo(ctx context.Context, domain string) records.TLDServerInfo {
	labels := strings.Split(domain, ".")
	if len(labels) >= 3 {
		doubleTld := strings.Join(labels[len(labels)-2:], ".")
		if info := r.directory.Resolve(ctx, doubleTld); !info.Empty() {
			return info
		}
	}
	return r.directory.Resolve(ctx, labels[len(labels)-1])
}

// supplementFromWhois fills gaps in a successful RDAP record from WHOIS. The
// RDAP record is already a result; a failed or rate-limited supplement leaves
// it untouched.
func (r *Resolver) supplementFromWhois(rec *records.DomainRecord, domain, whoisServer string) {
	if rec.ExpirationDate != nil || rec.IsAvailable() || whoisServer == "" {
		return
	}

	raw, server, err := r.queryWithReferral(domain, whoisServer)
	if err != nil {
		return
	}

	whoisRec, err := whois_tools.Parse(domain, raw, server)
	if err != nil {
		return
	}

	rec.ExpirationDate = whoisRec.ExpirationDate
	if needsRegistrarReplacement(rec.Registrar) && whoisRec.Registrar != records.RegistrarUnknown {
		rec.Registrar = whoisRec.Registrar
	}
}

// queryWithReferral queries a WHOIS server and follows at most one referral,
// returning the chosen response and the server that supplied it.
func (r *Resolver) queryWithReferral(domain, server string) (string, string, error) {
	raw, err := r.whois.Query(domain, server)
	if err != nil {
		return "", "", err
	}
	if strings.TrimSpace(raw) == "" {
		return "", "", errors.New("empty WHOIS response")
	}

	if referral := whois_tools.ExtractReferral(raw); referral != "" && !strings.EqualFold(referral, server) {
		if referred, referralErr := r.whois.Query(domain, referral); referralErr == nil && strings.TrimSpace(referred) != "" {
			return referred, referral, nil
		}
	}
	return raw, server, nil
}

// needsRegistrarReplacement reports whether an RDAP registrar value is a
// placeholder or still carries the "Name:" artifact some registries emit.
func needsRegistrarReplacement(registrar string) bool {
	return registrar == "" ||
		registrar == records.RegistrarUnknown ||
		strings.HasPrefix(registrar, "Name:")
}

// resolveViaWhois is the WHOIS-only path: query, optionally follow one
// referral, parse.
func (r *Resolver) resolveViaWhois(domain, whoisServer string) (*records.DomainRecord, error) {
	if whoisServer == "" {
		whoisServer = rootWhoisHost
	}

	raw, err := r.whois.Query(domain, whoisServer)
	if err != nil || strings.TrimSpace(raw) == "" {
		return nil, &records.LookupError{Kind: records.KindNoData, Domain: domain, Err: err}
	}

	server := whoisServer
	if referral := whois_tools.ExtractReferral(raw); referral != "" && !strings.EqualFold(referral, whoisServer) {
		// Skip the extra round trip when the first answer is already
		// complete.
		if original, parseErr := whois_tools.Parse(domain, raw, server); parseErr == nil &&
			original.Registrar != records.RegistrarUnknown && original.ExpirationDate != nil {
			return &original, nil
		}
		if referred, referralErr := r.whois.Query(domain, referral); referralErr == nil && strings.TrimSpace(referred) != "" {
			raw = referred
			server = referral
		}
	}

	rec, err := whois_tools.Parse(domain, raw, server)
	if err != nil {
		if errors.Is(err, whois_tools.ErrRateLimited) {
			return nil, &records.LookupError{Kind: records.KindRateLimited, Domain: domain, Err: err}
		}
		return nil, &records.LookupError{Kind: records.KindUnexpected, Domain: domain, Err: err}
	}
	rec.SourceServer = server
	return &rec, nil
}
