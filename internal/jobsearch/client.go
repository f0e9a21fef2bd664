// Package jobsearch provides the job-search gateway client. Search terms are
// inferred from candidate records; results decode into a fixed posting shape.
package jobsearch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/sgrishin/recruit-pilot/internal/crm"
	"go.uber.org/zap"
)

const searchPath = "/search"

type Client struct {
	logger     *zap.Logger
	defaults   SearchParams
	HTTPClient *http.Client
	APIURL     string
}

// New creates a job-search client. defaults supply the site list, result
// count, posting age and country applied to every search unless overridden.
func New(logger *zap.Logger, apiURL string, defaults SearchParams) *Client {
	return &Client{
		logger:   logger,
		defaults: defaults,
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		APIURL: apiURL,
	}
}

type searchResponse struct {
	Jobs []map[string]any `json:"jobs"`
}

// Search queries the job-search service with a term inferred from the
// record. Overrides take precedence over inferred and default parameters.
func (c *Client) Search(ctx context.Context, record *crm.Record, override *Override) ([]Posting, error) {
	params := c.defaults
	params.SearchTerm = InferSearchTerm(record)
	params = params.withOverride(override)

	c.logger.Info("job search",
		zap.String("record_id", record.ID),
		zap.String("search_term", params.SearchTerm),
		zap.Int("results_wanted", params.ResultsWanted),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.APIURL+searchPath, nil)
	if err != nil {
		return nil, err
	}
	req.URL.RawQuery = buildQuery(params).Encode()
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("job search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("job search returned status %d: %s", resp.StatusCode, body)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode job search response: %w", err)
	}

	postings := make([]Posting, 0, len(decoded.Jobs))
	cfg := &mapstructure.DecoderConfig{
		Result:  &postings,
		TagName: "json",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(decoded.Jobs); err != nil {
		return nil, fmt.Errorf("map job postings: %w", err)
	}

	return postings, nil
}
