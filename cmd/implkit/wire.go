package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"google.golang.org/api/option"

	"github.com/custodia-labs/implkit/internal/adapters/driven/auth"
	"github.com/custodia-labs/implkit/internal/adapters/driven/config/file"
	"github.com/custodia-labs/implkit/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/implkit/internal/adapters/driving/cli"
	"github.com/custodia-labs/implkit/internal/connectors"
	"github.com/custodia-labs/implkit/internal/connectors/dataverse"
	"github.com/custodia-labs/implkit/internal/connectors/filesystem"
	"github.com/custodia-labs/implkit/internal/connectors/google"
	"github.com/custodia-labs/implkit/internal/connectors/google/gmail"
	"github.com/custodia-labs/implkit/internal/connectors/graph"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
	"github.com/custodia-labs/implkit/internal/core/services"
	"github.com/custodia-labs/implkit/internal/format"
	"github.com/custodia-labs/implkit/internal/logger"
	"github.com/custodia-labs/implkit/internal/metrics"
	"github.com/custodia-labs/implkit/internal/normalisers"
	"github.com/custodia-labs/implkit/internal/normalisers/code"
	"github.com/custodia-labs/implkit/internal/normalisers/docx"
	"github.com/custodia-labs/implkit/internal/normalisers/eml"
	"github.com/custodia-labs/implkit/internal/normalisers/html"
	"github.com/custodia-labs/implkit/internal/normalisers/markdown"
	"github.com/custodia-labs/implkit/internal/normalisers/pdf"
	"github.com/custodia-labs/implkit/internal/normalisers/plaintext"
	"github.com/custodia-labs/implkit/internal/normalisers/structured"
)

// tokenTimeout bounds calls to the OAuth token endpoints.
const tokenTimeout = 30 * time.Second

// remote carries the overrides tests use to point clients at local servers.
type remote struct {
	httpClient   *http.Client
	azureToken   string
	googleToken  string
	graphBaseURL string
	gmailOptions []option.ClientOption
}

// buildServices wires adapters into the services for cfg.
func buildServices(ctx context.Context, cfg *file.Config) (*cli.Services, error) {
	return wire(ctx, cfg, remote{})
}

func wire(ctx context.Context, cfg *file.Config, r remote) (*cli.Services, error) {
	tokenClient := r.httpClient
	if tokenClient == nil {
		tokenClient = &http.Client{Timeout: tokenTimeout}
	}

	azure := auth.AzureADConfig{
		TenantID:     cfg.Azure.TenantID,
		ClientID:     cfg.Azure.ClientID,
		ClientSecret: cfg.Azure.ClientSecret,
		TokenURL:     r.azureToken,
	}
	gcfg := auth.GoogleConfig{
		ClientID:     cfg.Gmail.ClientID,
		ClientSecret: cfg.Gmail.ClientSecret,
		RefreshToken: cfg.Gmail.RefreshToken,
		TokenURL:     r.googleToken,
	}

	fetchers := make(map[string]auth.Fetcher)
	if azure.Complete() {
		fetchers[driven.ScopeGraph] = auth.ClientCredentials(azure, auth.GraphScope, tokenClient)
		if cfg.Dataverse.URL != "" {
			fetchers[driven.ScopeDataverse] = auth.ClientCredentials(azure, auth.DataverseScope(cfg.Dataverse.URL), tokenClient)
		}
	}
	if gcfg.Complete() {
		fetchers[driven.ScopeGmail] = auth.RefreshToken(gcfg, tokenClient)
	}
	tokens := auth.NewTokenCache(fetchers)

	var clientOpts []connectors.ClientOption
	if r.httpClient != nil {
		clientOpts = append(clientOpts, connectors.WithHTTPClient(r.httpClient))
	}

	var extractionOpts []services.ExtractionOption
	if cfg.Dataverse.URL != "" {
		dv, err := dataverse.New(dataverse.Config{
			URL:        cfg.Dataverse.URL,
			APIVersion: cfg.Dataverse.APIVersion,
		}, tokens, clientOpts...)
		if err != nil {
			return nil, err
		}
		extractionOpts = append(extractionOpts, services.WithTabularClient(dv))
	}
	if tokens.Configured(driven.ScopeGraph) && cfg.Graph.Mailbox != "" {
		extractionOpts = append(extractionOpts, services.WithMailClient(graph.New(graph.Config{
			Mailbox: cfg.Graph.Mailbox,
			BaseURL: r.graphBaseURL,
		}, tokens, clientOpts...)))
	}
	if tokens.Configured(driven.ScopeGmail) {
		svc, err := google.NewGmailService(ctx, tokens, r.gmailOptions...)
		if err != nil {
			return nil, fmt.Errorf("create gmail service: %w", err)
		}
		extractionOpts = append(extractionOpts, services.WithMailClient(gmail.New(gmail.Config{
			User: cfg.Gmail.User,
		}, svc, tokens)))
	}

	registry := normalisers.NewRegistry(
		pdf.New(),
		eml.New(),
		structured.New(),
		code.New(),
		html.New(),
		markdown.New(),
		docx.New(),
		plaintext.New(),
	)
	extraction := services.NewExtractionService(
		filesystem.NewReader(cfg.Files.MaxBytes),
		registry,
		format.New(cfg.Format),
		extractionOpts...,
	)

	templates, err := file.NewTemplateStore(cfg.Templates.Dir)
	if err != nil {
		return nil, err
	}
	store, err := memory.NewSeededCustomerStore()
	if err != nil {
		return nil, err
	}

	logger.Debug("wire: %d normaliser MIME types, mail backends %v", len(registry.SupportedMIMETypes()),
		extraction.MailBackends())

	return &cli.Services{
		Extraction: extraction,
		Customers:  services.NewCustomerService(store, templates),
		Metrics:    metrics.New(),
	}, nil
}
