package whois_tools

import (
	"errors"
	"reflect"
	"testing"
)

const verisignStyleResponse = `   Domain Name: EXAMPLE.COM
   Registry Domain ID: 2336799_DOMAIN_COM-VRSN
   Registrar WHOIS Server: whois.example-registrar.com
   Registrar URL: http://www.example-registrar.com
   Updated Date: 2024-08-14T07:01:31Z
   Creation Date: 1995-08-14T04:00:00Z
   Registry Expiry Date: 2026-08-13T04:00:00Z
   Registrar: Example Registrar, Inc.
   Registrar IANA ID: 376
   Registrar Abuse Contact Email: abuse@example-registrar.com
   Registrar Abuse Contact Phone: +1.2025551234
   Domain Status: clientDeleteProhibited https://icann.org/epp#clientDeleteProhibited
   Domain Status: clientTransferProhibited https://icann.org/epp#clientTransferProhibited
   Name Server: A.IANA-SERVERS.NET
   Name Server: B.IANA-SERVERS.NET
   Name Server: a.iana-servers.net
   DNSSEC: signedDelegation
>>> Last update of whois database: 2026-08-30T10:00:00Z <<<`

func TestParseVerisignStyle(t *testing.T) {
	rec, err := Parse("example.com", verisignStyleResponse, "whois.verisign-grs.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Registrar != "Example Registrar, Inc." {
		t.Errorf("Registrar = %q; want %q", rec.Registrar, "Example Registrar, Inc.")
	}
	if rec.RegistrarURL != "http://www.example-registrar.com" {
		t.Errorf("RegistrarURL = %q", rec.RegistrarURL)
	}
	if rec.AbuseEmail != "abuse@example-registrar.com" {
		t.Errorf("AbuseEmail = %q", rec.AbuseEmail)
	}
	if rec.CreationDate == nil || rec.CreationDate.Format("2006-01-02") != "1995-08-14" {
		t.Errorf("CreationDate = %v; want 1995-08-14", rec.CreationDate)
	}
	if rec.UpdatedDate == nil || rec.UpdatedDate.Format("2006-01-02") != "2024-08-14" {
		t.Errorf("UpdatedDate = %v; want 2024-08-14", rec.UpdatedDate)
	}
	if rec.ExpirationDate == nil || rec.ExpirationDate.Format("2006-01-02") != "2026-08-13" {
		t.Errorf("ExpirationDate = %v; want 2026-08-13", rec.ExpirationDate)
	}

	// Lowercased, de-duplicated.
	expectedNS := []string{"a.iana-servers.net", "b.iana-servers.net"}
	if !reflect.DeepEqual(rec.NameServers, expectedNS) {
		t.Errorf("NameServers = %v; want %v", rec.NameServers, expectedNS)
	}

	// EPP reference URLs stripped from status tokens.
	expectedStatus := []string{"clientDeleteProhibited", "clientTransferProhibited"}
	if !reflect.DeepEqual(rec.DomainStatus, expectedStatus) {
		t.Errorf("DomainStatus = %v; want %v", rec.DomainStatus, expectedStatus)
	}
	if rec.SourceServer != "whois.verisign-grs.com" {
		t.Errorf("SourceServer = %q", rec.SourceServer)
	}
}

const nominetStyleResponse = `
    Domain name:
        example.co.uk

    Registrar:
        Example Registrar Ltd [Tag = EXAMPLE]
        URL: https://www.example-registrar.co.uk

    Relevant dates:
        Registered on: 01-Mar-2020
        Expiry date:  01-Mar-2027
        Last updated:  10-Feb-2026

    Registration status:
        Registered until expiry date.

    Name servers:
        ns1.example.net
        ns2.example.net      192.0.2.53

    WHOIS lookup made at 10:00:00 30-Aug-2026
`

func TestParseNominetStyle(t *testing.T) {
	rec, err := Parse("example.co.uk", nominetStyleResponse, "whois.nic.uk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rec.Registrar != "Example Registrar Ltd" {
		t.Errorf("Registrar = %q; want tag suffix stripped", rec.Registrar)
	}
	if rec.CreationDate == nil || rec.CreationDate.Format("2006-01-02") != "2020-03-01" {
		t.Errorf("CreationDate = %v; want 2020-03-01", rec.CreationDate)
	}
	if rec.ExpirationDate == nil || rec.ExpirationDate.Format("2006-01-02") != "2027-03-01" {
		t.Errorf("ExpirationDate = %v; want 2027-03-01", rec.ExpirationDate)
	}

	// The glue IP after a nameserver must be dropped.
	expectedNS := []string{"ns1.example.net", "ns2.example.net"}
	if !reflect.DeepEqual(rec.NameServers, expectedNS) {
		t.Errorf("NameServers = %v; want %v", rec.NameServers, expectedNS)
	}
}

func TestParseNamePrefixQuirk(t *testing.T) {
	response := `domain: example.it
status: ok
registrar: Name: Example SRL
created: 2010-01-02 00:00:00
expire date: 2027-01-02`

	rec, err := Parse("example.it", response, "whois.nic.it")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Registrar != "Example SRL" {
		t.Errorf("Registrar = %q; want Name: prefix stripped", rec.Registrar)
	}
}

func TestParseNotFound(t *testing.T) {
	responses := []string{
		`No match for domain "UNREGISTERED-EXAMPLE.COM".`,
		"Domain not found.\n",
		"Status: free\n",
		"    This domain name has not been registered.\n",
	}

	for _, response := range responses {
		rec, err := Parse("unregistered-example.com", response, "whois.verisign-grs.com")
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", response, err)
		}
		if !rec.IsAvailable() {
			t.Errorf("Parse(%q) should report available", response)
		}
		if rec.Registrar != "Not Registered" {
			t.Errorf("Registrar = %q; want Not Registered", rec.Registrar)
		}
		if !reflect.DeepEqual(rec.DomainStatus, []string{"AVAILABLE"}) {
			t.Errorf("DomainStatus = %v; want [AVAILABLE]", rec.DomainStatus)
		}
	}
}

func TestParseRateLimited(t *testing.T) {
	_, err := Parse("example.com", "Error: RateLimit Exceeded", "whois.nic.xyz")
	if !errors.Is(err, ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestParseRegistrarRejectsContactNoise(t *testing.T) {
	response := `Domain Name: example.net
Registrar Phone: +1.5555550100
Registrar: 12345
Name Server: ns1.example.net`

	rec, err := Parse("example.net", response, "whois.verisign-grs.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Registrar != "Unknown" {
		t.Errorf("Registrar = %q; numeric value should have been rejected", rec.Registrar)
	}
}

func TestParseIdempotent(t *testing.T) {
	first, err := Parse("example.com", verisignStyleResponse, "whois.verisign-grs.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Parse("example.com", verisignStyleResponse, "whois.verisign-grs.com")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("parsing identical text twice produced different records:\n%+v\n%+v", first, second)
	}
}
