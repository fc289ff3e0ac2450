package rdap_tools

import (
	"encoding/json"
	"strings"

	"github.com/domainwatch/lookup/records"
	"github.com/domainwatch/lookup/utils"
)

// ParseRDAPResponseForDomain parses an RDAP domain response body into a
// canonical record. RDAP bodies are decoded generically because registries
// disagree on which optional members they send.
func ParseRDAPResponseForDomain(domain, response, sourceServer string) (*records.DomainRecord, error) {
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(response), &result); err != nil {
		return nil, err
	}

	rec := &records.DomainRecord{
		Domain:       domain,
		SourceServer: sourceServer,
	}

	if ldhName, ok := result["ldhName"].(string); ok && ldhName != "" {
		rec.Domain = strings.ToLower(ldhName)
	}

	if status, ok := result["status"].([]interface{}); ok {
		for _, s := range status {
			token, ok := s.(string)
			if !ok || token == "" {
				continue
			}
			// Registries that keep unregistered names queryable mark
			// them with a "free" status. The token is rewritten in
			// place; the rest of the parsed record stays intact.
			if strings.Contains(strings.ToLower(token), "free") {
				token = records.StatusTokenAvailable
			}
			rec.DomainStatus = append(rec.DomainStatus, token)
		}
	}

	if entities, ok := result["entities"].([]interface{}); ok {
		parseEntities(rec, entities)
	}

	if events, ok := result["events"].([]interface{}); ok {
		for _, event := range events {
			eventInfo, ok := event.(map[string]interface{})
			if !ok {
				continue
			}
			action, _ := eventInfo["eventAction"].(string)
			date, _ := eventInfo["eventDate"].(string)
			if date == "" {
				continue
			}
			switch action {
			case "registration":
				rec.CreationDate = utils.ParseDate(date)
			case "expiration":
				rec.ExpirationDate = utils.ParseDate(date)
			case "last changed":
				rec.UpdatedDate = utils.ParseDate(date)
			}
		}
	}

	if nameservers, ok := result["nameservers"].([]interface{}); ok {
		for _, ns := range nameservers {
			nsMap, ok := ns.(map[string]interface{})
			if !ok {
				continue
			}
			if ldhName, ok := nsMap["ldhName"].(string); ok {
				rec.AddNameServer(ldhName)
			}
		}
	}

	rec.Finalize()
	return rec, nil
}

// parseEntities pulls the registrar name and URL from the registrar entity
// and the abuse contact email from its nested abuse entity.
func parseEntities(rec *records.DomainRecord, entities []interface{}) {
	for _, entity := range entities {
		entityMap, ok := entity.(map[string]interface{})
		if !ok {
			continue
		}
		if !hasRole(entityMap, "registrar") {
			continue
		}

		if name := vcardText(entityMap, "fn"); name != "" {
			rec.Registrar = strings.TrimSpace(strings.TrimPrefix(name, "Name:"))
		}
		if rawURL := vcardText(entityMap, "url"); rawURL != "" {
			rec.RegistrarURL = rawURL
		}

		if nested, ok := entityMap["entities"].([]interface{}); ok {
			for _, sub := range nested {
				subMap, ok := sub.(map[string]interface{})
				if !ok || !hasRole(subMap, "abuse") {
					continue
				}
				if email := vcardText(subMap, "email"); email != "" {
					rec.AbuseEmail = email
				}
			}
		}
		return
	}
}

// hasRole reports whether an RDAP entity carries the given role.
func hasRole(entity map[string]interface{}, role string) bool {
	roles, ok := entity["roles"].([]interface{})
	if !ok {
		return false
	}
	for _, r := range roles {
		if s, ok := r.(string); ok && s == role {
			return true
		}
	}
	return false
}

// vcardText returns the text value of the first vCard property with the
// given name. A vcardArray is ["vcard", [["fn", {}, "text", "value"], ...]].
func vcardText(entity map[string]interface{}, property string) string {
	vcardArray, ok := entity["vcardArray"].([]interface{})
	if !ok || len(vcardArray) < 2 {
		return ""
	}
	properties, ok := vcardArray[1].([]interface{})
	if !ok {
		return ""
	}
	for _, item := range properties {
		itemSlice, ok := item.([]interface{})
		if !ok || len(itemSlice) < 4 {
			continue
		}
		name, ok := itemSlice[0].(string)
		if !ok || name != property {
			continue
		}
		if value, ok := itemSlice[3].(string); ok && value != "" {
			return value
		}
	}
	return ""
}
