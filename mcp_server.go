package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/domainwatch/lookup/config"
	"github.com/domainwatch/lookup/lookup"
	"github.com/domainwatch/lookup/records"
)

// lookupArgs are the arguments of the domain_lookup MCP tool.
type lookupArgs struct {
	Domain string `json:"domain" jsonschema:"the domain name to look up"`
}

// runMCPServer exposes the resolver as an MCP tool over stdio, so agent
// hosts can run domain lookups without the HTTP server.
func runMCPServer(resolver *lookup.Resolver) error {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "domainwatch-lookup",
		Version: config.Version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "domain_lookup",
		Description: "Look up registration data (registrar, dates, nameservers, status) for a domain via RDAP and WHOIS.",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args lookupArgs) (*mcp.CallToolResult, any, error) {
		if args.Domain == "" || !isDomain(args.Domain) {
			return nil, nil, fmt.Errorf("invalid domain name: %q", args.Domain)
		}

		rec, err := resolver.Resolve(ctx, args.Domain)
		if err != nil {
			return nil, nil, err
		}

		response := struct {
			records.DomainRecord
			Status records.Status `json:"Status"`
		}{
			DomainRecord: *rec,
			Status:       records.Classify(rec.ExpirationDate, rec.DomainStatus, rec),
		}

		body, err := json.MarshalIndent(response, "", "  ")
		if err != nil {
			return nil, nil, err
		}

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: string(body)}},
		}, nil, nil
	})

	return server.Run(context.Background(), &mcp.StdioTransport{})
}
