// Package server_lists holds the local TLD directory: known WHOIS and RDAP
// endpoints per top-level domain. The tables are seeded with the registries
// the dashboard monitors most; the import tooling that refreshes them from
// IANA lives outside this repository. TLDs missing here are discovered live
// by tld_tools and cached.
package server_lists

// Endpoints is a registry table entry for one TLD.
type Endpoints struct {
	TLD         string
	WhoisServer string
	RDAPServers []string
}

// Registry is the lookup interface over the local TLD table. The dashboard
// substitutes a database-backed implementation; tests substitute fixtures.
type Registry interface {
	GetByTLD(tld string) (Endpoints, bool)
}

// StaticRegistry serves lookups from the package-level tables.
type StaticRegistry struct{}

// GetByTLD returns the known endpoints for a TLD. The second return value is
// false when the TLD appears in neither table.
func (StaticRegistry) GetByTLD(tld string) (Endpoints, bool) {
	whoisServer, haveWhois := TLDToWhoisServer[tld]
	rdapServer, haveRdap := TLDToRdapServer[tld]
	if !haveWhois && !haveRdap {
		return Endpoints{}, false
	}
	e := Endpoints{TLD: tld, WhoisServer: whoisServer}
	if haveRdap {
		e.RDAPServers = []string{rdapServer}
	}
	return e, true
}

// TLDToWhoisServer maps a TLD to its registry WHOIS server.
var TLDToWhoisServer = map[string]string{
	"ac":    "whois.nic.ac",
	"ae":    "whois.aeda.net.ae",
	"ai":    "whois.nic.ai",
	"app":   "whois.nic.google",
	"au":    "whois.auda.org.au",
	"biz":   "whois.nic.biz",
	"ca":    "whois.cira.ca",
	"cc":    "ccwhois.verisign-grs.com",
	"ch":    "whois.nic.ch",
	"cn":    "whois.cnnic.cn",
	"co":    "whois.nic.co",
	"com":   "whois.verisign-grs.com",
	"co.uk": "whois.nic.uk",
	"de":    "whois.denic.de",
	"dev":   "whois.nic.google",
	"edu":   "whois.educause.edu",
	"eu":    "whois.eu",
	"fr":    "whois.nic.fr",
	"hk":    "whois.hkirc.hk",
	"info":  "whois.nic.info",
	"io":    "whois.nic.io",
	"it":    "whois.nic.it",
	"jp":    "whois.jprs.jp",
	"kr":    "whois.kr",
	"me":    "whois.nic.me",
	"net":   "whois.verisign-grs.com",
	"nl":    "whois.domain-registry.nl",
	"org":   "whois.publicinterestregistry.org",
	"org.uk": "whois.nic.uk",
	"ru":    "whois.tcinet.ru",
	"sh":    "whois.nic.sh",
	"so":    "whois.nic.so",
	"su":    "whois.tcinet.ru",
	"tv":    "tvwhois.verisign-grs.com",
	"uk":    "whois.nic.uk",
	"us":    "whois.nic.us",
	"xyz":   "whois.nic.xyz",
}

// TLDToRdapServer maps a TLD to its RDAP base URL (always ending in "/").
var TLDToRdapServer = map[string]string{
	"app":  "https://www.registry.google/rdap/",
	"biz":  "https://rdap.nic.biz/",
	"cc":   "https://rdap.verisign.com/cc/v1/",
	"com":  "https://rdap.verisign.com/com/v1/",
	"dev":  "https://www.registry.google/rdap/",
	"info": "https://rdap.identitydigital.services/rdap/",
	"io":   "https://rdap.identitydigital.services/rdap/",
	"me":   "https://rdap.nic.me/",
	"net":  "https://rdap.verisign.com/net/v1/",
	"org":  "https://rdap.publicinterestregistry.org/rdap/",
	"sh":   "https://rdap.identitydigital.services/rdap/",
	"so":   "https://rdap.nic.so/",
	"tv":   "https://rdap.verisign.com/tv/v1/",
	"us":   "https://rdap.nic.us/",
	"xyz":  "https://rdap.centralnic.com/xyz/",
}
