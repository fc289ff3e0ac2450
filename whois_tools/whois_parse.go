package whois_tools

import (
	"bufio"
	"errors"
	"regexp"
	"strings"

	"github.com/domainwatch/lookup/records"
	"github.com/domainwatch/lookup/utils"
)

// ErrRateLimited signals that the response was a throttling error and carries
// no registration data. A truncated error body must never be parsed as data.
var ErrRateLimited = errors.New("whois: rate limited by server")

// notFoundLines are known "domain is unregistered" sentinels, matched against
// the start of standalone response lines.
var notFoundLines = []string{
	"no match for",
	"no match",
	"not found",
	"domain not found",
	"no data found",
	"no entries found",
	"no object found",
	"object does not exist",
	"the queried object does not exist",
	"available for registration",
	"this domain name has not been registered",
	"this domain is available for registration",
}

// section tracks the block format used by registries that put a bare
// "Label:" header on one line and the values on the following lines.
type section int

const (
	sectionNone section = iota
	sectionRegistrar
	sectionNameservers
)

var (
	sectionHeaderRe = regexp.MustCompile(`^([A-Za-z][A-Za-z0-9 ()/_.'-]*):$`)
	namePrefixRe    = regexp.MustCompile(`^(?i)name:\s*`)
	// Nominet-style registrar lines carry a "[Tag = XXX]" suffix.
	ukTagRe     = regexp.MustCompile(`\s*\[Tag\s*=\s*[^\]]*\]\s*$`)
	phoneLikeRe = regexp.MustCompile(`^\+?[\d\s().-]+$`)
	digitsRe    = regexp.MustCompile(`^\d+$`)
)

// Parse converts heterogeneous raw WHOIS text into a canonical record.
// It returns ErrRateLimited when the response is a throttling error.
func Parse(domain, raw, sourceServer string) (records.DomainRecord, error) {
	if IsRateLimited(raw) {
		return records.DomainRecord{}, ErrRateLimited
	}
	if isNotFound(raw) {
		return records.AvailableRecord(domain, sourceServer), nil
	}

	rec := records.DomainRecord{Domain: domain, SourceServer: sourceServer}
	state := sectionNone

	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			state = sectionNone
			continue
		}
		if strings.HasPrefix(line, "%") || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ">>>") {
			continue
		}

		if m := sectionHeaderRe.FindStringSubmatch(line); m != nil {
			state = sectionFor(m[1])
			continue
		}

		if !strings.Contains(line, ":") {
			switch state {
			case sectionRegistrar:
				if rec.Registrar == "" {
					rec.Registrar = cleanRegistrar(line)
				}
				state = sectionNone
			case sectionNameservers:
				rec.AddNameServer(hostOnly(line))
			}
			continue
		}

		key, value, _ := strings.Cut(line, ":")
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		applyKeyValue(&rec, key, value)
	}

	rec.Finalize()
	return rec, nil
}

func sectionFor(label string) section {
	lower := strings.ToLower(strings.TrimSpace(label))
	switch {
	case strings.Contains(lower, "name server") || lower == "nameservers" || lower == "nservers":
		return sectionNameservers
	case lower == "registrar" || lower == "sponsoring registrar":
		return sectionRegistrar
	default:
		return sectionNone
	}
}

func applyKeyValue(rec *records.DomainRecord, key, value string) {
	switch {
	case isExpiryKey(key):
		if rec.ExpirationDate == nil {
			rec.ExpirationDate = utils.ParseDate(value)
		}
	case isUpdatedKey(key):
		if rec.UpdatedDate == nil {
			rec.UpdatedDate = utils.ParseDate(value)
		}
	case isCreationKey(key):
		if rec.CreationDate == nil {
			rec.CreationDate = utils.ParseDate(value)
		}
	case key == "registrar url":
		if rec.RegistrarURL == "" {
			rec.RegistrarURL = value
		}
	case key == "registrar whois server":
		// Referral hint; ExtractReferral reads it from the raw text.
	case isRegistrarKey(key):
		if rec.Registrar == "" {
			if v := cleanRegistrar(value); v != "" && !looksLikeContactNoise(v) {
				rec.Registrar = v
			}
		}
	case isNameServerKey(key):
		rec.AddNameServer(hostOnly(value))
	case isStatusKey(key):
		if v := cleanStatus(value); v != "" {
			rec.DomainStatus = append(rec.DomainStatus, v)
		}
	case isAbuseEmailKey(key):
		if rec.AbuseEmail == "" && strings.Contains(value, "@") {
			rec.AbuseEmail = value
		}
	case isOwnerKey(key):
		if rec.Owner == "" {
			rec.Owner = value
		}
	}
}

func isExpiryKey(key string) bool {
	return strings.Contains(key, "expir") ||
		strings.Contains(key, "paid-till") ||
		strings.Contains(key, "renewal date") ||
		strings.Contains(key, "valid until") ||
		strings.Contains(key, "valid-thru")
}

func isUpdatedKey(key string) bool {
	if strings.Contains(key, "database") {
		return false
	}
	return strings.Contains(key, "updated") ||
		strings.Contains(key, "last modified") ||
		key == "changed"
}

func isCreationKey(key string) bool {
	return strings.Contains(key, "creat") ||
		strings.Contains(key, "registered on") ||
		strings.Contains(key, "registration time") ||
		strings.Contains(key, "registration date") ||
		key == "registered"
}

func isRegistrarKey(key string) bool {
	if !strings.Contains(key, "registrar") {
		return false
	}
	for _, excluded := range []string{"url", "whois", "iana", "phone", "email", "fax", "id"} {
		if strings.Contains(key, excluded) {
			return false
		}
	}
	return true
}

func isNameServerKey(key string) bool {
	return strings.HasPrefix(key, "name server") ||
		key == "nameserver" ||
		key == "nameservers" ||
		key == "nserver"
}

func isStatusKey(key string) bool {
	return key == "status" ||
		key == "domain status" ||
		key == "state" ||
		key == "registration status"
}

func isAbuseEmailKey(key string) bool {
	return strings.Contains(key, "abuse") &&
		(strings.Contains(key, "email") || strings.Contains(key, "e-mail"))
}

func isOwnerKey(key string) bool {
	if !strings.HasPrefix(key, "registrant") && !strings.HasPrefix(key, "owner") {
		return false
	}
	for _, excluded := range []string{"email", "e-mail", "phone", "fax"} {
		if strings.Contains(key, excluded) {
			return false
		}
	}
	return true
}

// cleanRegistrar strips artifacts some registries attach to the registrar
// name: a "Name:" prefix and a Nominet "[Tag = XXX]" suffix.
func cleanRegistrar(value string) string {
	value = namePrefixRe.ReplaceAllString(value, "")
	value = ukTagRe.ReplaceAllString(value, "")
	return strings.TrimSpace(value)
}

// cleanStatus strips the EPP reference URL some registries append to status
// tokens and rejects redaction placeholders.
func cleanStatus(value string) string {
	if idx := strings.Index(strings.ToLower(value), " http"); idx != -1 {
		value = value[:idx]
	}
	value = strings.TrimSpace(value)
	if strings.EqualFold(value, "na") || strings.EqualFold(value, "redacted") {
		return ""
	}
	return value
}

// looksLikeContactNoise reports whether a would-be registrar value is really
// a phone number, email address, or bare numeric id.
func looksLikeContactNoise(value string) bool {
	if strings.Contains(value, "@") {
		return true
	}
	if digitsRe.MatchString(value) {
		return true
	}
	return phoneLikeRe.MatchString(value) && strings.ContainsAny(value, "0123456789")
}

// hostOnly returns the first whitespace-separated field, dropping the glue IP
// some registries append after a nameserver host.
func hostOnly(value string) string {
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// isNotFound reports whether the response is an explicit "domain is
// unregistered" answer rather than sparse data.
func isNotFound(raw string) bool {
	scanner := bufio.NewScanner(strings.NewReader(raw))
	scanner.Buffer(make([]byte, 0, 1024), 1024*1024)
	for scanner.Scan() {
		line := strings.ToLower(strings.TrimSpace(scanner.Text()))
		if line == "" {
			continue
		}
		for _, sentinel := range notFoundLines {
			if strings.HasPrefix(line, sentinel) {
				return true
			}
		}
		if key, value, ok := strings.Cut(line, ":"); ok {
			key = strings.TrimSpace(key)
			value = strings.TrimSpace(value)
			if isStatusKey(key) && (strings.Contains(value, "available") || strings.Contains(value, "free")) {
				return true
			}
		}
	}
	return false
}
