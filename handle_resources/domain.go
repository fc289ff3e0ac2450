package handle_resources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/idna"
	"golang.org/x/net/publicsuffix"

	"github.com/domainwatch/lookup/config"
	"github.com/domainwatch/lookup/lookup"
	"github.com/domainwatch/lookup/metrics"
	"github.com/domainwatch/lookup/records"
	"github.com/domainwatch/lookup/utils"
)

// domainResponse is the wire shape of a successful lookup: the canonical
// record plus the derived lifecycle status.
type domainResponse struct {
	records.DomainRecord
	Status records.Status `json:"Status"`
}

// HandleDomain serves a domain lookup over HTTP: normalize the name, check
// the cache, run the resolver, classify, cache and respond.
func HandleDomain(ctx context.Context, w http.ResponseWriter, resolver *lookup.Resolver, resource, cacheKeyPrefix string) {
	// Convert the domain to Punycode so IDN names work.
	punycodeDomain, err := idna.ToASCII(strings.ToLower(strings.TrimSpace(resource)))
	if err != nil {
		utils.HandleHTTPError(w, utils.ErrorTypeBadRequest, "Invalid domain name: "+resource)
		return
	}
	resource = punycodeDomain

	// Queries for hostnames collapse to the registrable domain.
	domain, err := publicsuffix.EffectiveTLDPlusOne(resource)
	if err != nil || domain == "" {
		domain = resource
	}
	key := fmt.Sprintf("%s%s", cacheKeyPrefix, domain)

	cacheResult, err := utils.GetFromCache(ctx, config.CacheManager, key)
	if err != nil {
		utils.HandleInternalError(w, err)
		return
	}
	metrics.ObserveCacheRead(cacheResult.Found)
	if cacheResult.Found {
		utils.HandleCacheResponse(w, cacheResult.Data, "application/json")
		return
	}

	started := time.Now()
	rec, err := resolver.Resolve(ctx, domain)
	if err != nil {
		metrics.ObserveLookup(outcomeForError(err), time.Since(started).Seconds())
		utils.HandleLookupError(w, err)
		return
	}
	metrics.ObserveLookup(metrics.OutcomeSuccess, time.Since(started).Seconds())

	response := domainResponse{
		DomainRecord: *rec,
		Status:       records.Classify(rec.ExpirationDate, rec.DomainStatus, rec),
	}

	resultBytes, err := json.Marshal(response)
	if err != nil {
		utils.HandleInternalError(w, err)
		return
	}

	utils.SetToCache(ctx, config.CacheManager, key, string(resultBytes), config.CacheExpiration)

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, string(resultBytes))
}

func outcomeForError(err error) string {
	var lookupErr *records.LookupError
	if errors.As(err, &lookupErr) {
		switch lookupErr.Kind {
		case records.KindRateLimited:
			return metrics.OutcomeRateLimited
		case records.KindNoData:
			return metrics.OutcomeNoData
		}
	}
	return metrics.OutcomeError
}
