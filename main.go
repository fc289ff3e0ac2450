package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/domainwatch/lookup/config"
	"github.com/domainwatch/lookup/handle_resources"
	"github.com/domainwatch/lookup/lookup"
	"github.com/domainwatch/lookup/rdap_tools"
	"github.com/domainwatch/lookup/server_lists"
	"github.com/domainwatch/lookup/tld_tools"
	"github.com/domainwatch/lookup/whois_tools"
)

const cacheKeyPrefix = "lookup:"

var domainRe = regexp.MustCompile(`^([a-z0-9]([a-z0-9-]*[a-z0-9])?\.)+[a-z]{2,}$`)

// isDomain reports whether resource looks like a fully qualified domain name.
func isDomain(resource string) bool {
	return domainRe.MatchString(strings.ToLower(resource))
}

// newResolver wires the production lookup pipeline.
func newResolver() *lookup.Resolver {
	directory := tld_tools.NewDirectory(server_lists.StaticRegistry{}, config.CacheManager, config.HttpClient)
	directory.SetTTL(config.DirectoryTTL)
	return lookup.NewResolver(
		directory,
		whois_tools.NewClient(whois_tools.DefaultTimeout),
		rdap_tools.NewClient(config.HttpClient),
	)
}

func handler(resolver *lookup.Resolver) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if len(config.ConcurrencyLimiter) == config.RateLimit {
			log.Printf("Rate limit reached, waiting for a slot to become available...\n")
		}
		config.ConcurrencyLimiter <- struct{}{}
		config.Wg.Add(1)
		defer func() {
			config.Wg.Done()
			<-config.ConcurrencyLimiter
		}()

		resource := strings.ToLower(strings.TrimPrefix(r.URL.Path, "/domain/"))
		resource = strings.TrimPrefix(resource, "/")
		if resource == "" || !isDomain(resource) {
			http.Error(w, "Invalid domain name: "+resource, http.StatusBadRequest)
			return
		}

		handle_resources.HandleDomain(r.Context(), w, resolver, resource, cacheKeyPrefix)
	}
}

func main() {
	mcpMode := flag.Bool("mcp", false, "serve the domain lookup tool over MCP stdio instead of HTTP")
	flag.Parse()

	config.Init()
	resolver := newResolver()

	if *mcpMode {
		if err := runMCPServer(resolver); err != nil {
			log.Fatalf("MCP server failed: %v", err)
		}
		return
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/domain/", handler(resolver))
	mux.HandleFunc("/health", handle_resources.HandleHealth)
	mux.HandleFunc("/ready", handle_resources.HandleReady)
	mux.HandleFunc("/info", handle_resources.HandleInfo)
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Port),
		Handler: mux,
	}

	go func() {
		log.Printf("Server is listening on port %d...\n", config.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Println("Received shutdown signal, waiting for all queries to complete...")
	config.Wg.Wait()

	log.Println("All queries completed. Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v\n", err)
	}
	config.RedisClient.Close()
}
