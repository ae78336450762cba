package dataverse

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/custodia-labs/implkit/internal/connectors"
	"github.com/custodia-labs/implkit/internal/core/domain"
	"github.com/custodia-labs/implkit/internal/core/ports/driven"
	"github.com/custodia-labs/implkit/internal/logger"
	"github.com/custodia-labs/implkit/internal/records"
)

const (
	// MaxRecords caps the records returned by one query.
	MaxRecords = 500

	// MaxPages caps the pages fetched by one query.
	MaxPages = 5

	// DefaultTop applies when the caller gives no record count.
	DefaultTop = 50

	// DefaultPageSize is requested through Prefer: odata.maxpagesize.
	DefaultPageSize = 100

	// DefaultAPIVersion is the Web API version used when none is configured.
	DefaultAPIVersion = "v9.2"

	formattedAnnotation = "@OData.Community.Display.V1.FormattedValue"
	formattedSuffix     = "_formatted"
)

var entityPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config locates a Dataverse environment.
type Config struct {
	// URL is the environment URL, e.g. https://org.crm.dynamics.com.
	URL string

	// APIVersion defaults to DefaultAPIVersion.
	APIVersion string
}

// Ensure Client implements the TabularClient interface.
var _ driven.TabularClient = (*Client)(nil)

// Client reads rows from one Dataverse environment.
type Client struct {
	rest    *connectors.Client
	baseURL string
	apiURL  string
	now     func() time.Time
}

// New creates a client for the environment in cfg.
func New(cfg Config, tokens driven.TokenProvider, opts ...connectors.ClientOption) (*Client, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("%w: dataverse environment URL", domain.ErrNotConfigured)
	}
	u, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%w: dataverse URL %q", domain.ErrInvalidInput, cfg.URL)
	}
	version := cfg.APIVersion
	if version == "" {
		version = DefaultAPIVersion
	}
	base := u.Scheme + "://" + u.Host
	return &Client{
		rest:    connectors.NewClient("dataverse", driven.ScopeDataverse, tokens, opts...),
		baseURL: base,
		apiURL:  base + "/api/data/" + version + "/",
		now:     time.Now,
	}, nil
}

// Query fetches rows of q.Entity.
func (c *Client) Query(ctx context.Context, q driven.TabularQuery) (*domain.ExtractionResult, error) {
	if !entityPattern.MatchString(q.Entity) {
		return nil, fmt.Errorf("%w: entity set name %q", domain.ErrInvalidInput, q.Entity)
	}

	limit := Limit(q.Top)
	pageSize := min(limit, DefaultPageSize)
	header := http.Header{}
	header.Set("Prefer", fmt.Sprintf(
		`odata.maxpagesize=%d,odata.include-annotations="OData.Community.Display.V1.FormattedValue"`, pageSize))
	header.Set("OData-MaxVersion", "4.0")
	header.Set("OData-Version", "4.0")

	result := domain.NewExtractionResult(domain.SourceDataverse, c.now())
	next := c.queryURL(q)

	for page := 1; next != "" && page <= MaxPages; page++ {
		body, err := c.rest.Get(ctx, next, header)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", q.Entity, err)
		}
		doc, err := domain.ParseJSON(body)
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", q.Entity, err)
		}
		obj, ok := domain.AsObject(doc)
		if !ok {
			return nil, fmt.Errorf("%w: query %s: response is not an object", domain.ErrInvalidInput, q.Entity)
		}

		rows, _ := obj.Get("value")
		values, _ := domain.AsSequence(rows)
		dropped := false
		for _, v := range values {
			if len(result.Records) >= limit {
				dropped = true
				break
			}
			row, ok := domain.AsObject(v)
			if !ok {
				continue
			}
			rec := CleanRow(row)
			if q.Flatten {
				rec = records.Flatten(rec, "")
			}
			result.Add(rec)
		}
		logger.Debug("dataverse: %s page %d, %d records so far", q.Entity, page, len(result.Records))

		link, _ := obj.Get("@odata.nextLink")
		next, _ = link.(string)
		if next != "" && !strings.HasPrefix(next, c.baseURL+"/") {
			result.Warn("ignoring next link outside %s", c.baseURL)
			next = ""
		}
		if len(result.Records) >= limit {
			if next != "" || dropped {
				result.Warn("more records available; showing first %d", limit)
			}
			next = ""
		}
	}

	if next != "" {
		result.Warn("stopped after %d pages; more records available", MaxPages)
	}
	result.Finalize()
	return result, nil
}

// Limit caps a requested record count to [1, MaxRecords], applying DefaultTop
// when none is given.
func Limit(top int) int {
	if top <= 0 {
		return DefaultTop
	}
	return min(top, MaxRecords)
}

func (c *Client) queryURL(q driven.TabularQuery) string {
	var params []string
	if len(q.Select) > 0 {
		cols := make([]string, 0, len(q.Select))
		for _, s := range q.Select {
			if s = strings.TrimSpace(s); s != "" {
				cols = append(cols, s)
			}
		}
		if len(cols) > 0 {
			params = append(params, "$select="+escape(strings.Join(cols, ",")))
		}
	}
	if q.Filter != "" {
		params = append(params, "$filter="+escape(q.Filter))
	}
	if q.OrderBy != "" {
		params = append(params, "$orderby="+escape(q.OrderBy))
	}
	if q.Expand != "" {
		params = append(params, "$expand="+escape(q.Expand))
	}

	u := c.apiURL + q.Entity
	if len(params) > 0 {
		u += "?" + strings.Join(params, "&")
	}
	return u
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// CleanRow renames formatted-value annotations to "<field>_formatted" and
// drops every other annotation, recursing into expanded navigation values.
func CleanRow(row *domain.Record) *domain.Record {
	out := domain.NewRecord()
	for _, k := range row.Keys() {
		v, _ := row.Get(k)
		switch {
		case strings.HasSuffix(k, formattedAnnotation):
			out.Set(strings.TrimSuffix(k, formattedAnnotation)+formattedSuffix, v)
		case strings.Contains(k, "@"):
		default:
			out.Set(k, cleanValue(v))
		}
	}
	return out
}

func cleanValue(v any) any {
	if obj, ok := v.(*domain.Record); ok {
		return CleanRow(obj)
	}
	if seq, ok := v.([]any); ok {
		out := make([]any, len(seq))
		for i, item := range seq {
			out[i] = cleanValue(item)
		}
		return out
	}
	return v
}
