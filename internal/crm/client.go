// Package crm provides the candidate record store client. The core treats
// the CRM as a capability: fetch a record by identifier, upsert the linked
// interview record.
package crm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sgrishin/recruit-pilot/internal/apperr"
	"go.uber.org/zap"
)

const (
	recordsPath    = "/records"
	interviewsPath = "/interviews"
	contentType    = "application/json"
	userAgent      = "recruit-pilot"
)

type Client struct {
	token      string
	logger     *zap.Logger
	HTTPClient *http.Client
	APIURL     string
	UserAgent  string
}

func New(logger *zap.Logger, apiURL, token string) *Client {
	return &Client{
		token:  token,
		APIURL: apiURL,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger:    logger,
		UserAgent: userAgent,
	}
}

// FetchRecord retrieves a candidate record by identifier. The identifier
// shape is validated before the request; a missing record maps to
// apperr.ErrNotFound.
func (c *Client) FetchRecord(ctx context.Context, id string) (*Record, error) {
	if err := ValidateRecordID(id); err != nil {
		return nil, err
	}

	var record Record
	status, err := c.do(ctx, http.MethodGet, recordsPath+"/"+id, nil, &record)
	if err != nil {
		return nil, apperr.Gateway("fetch record", err)
	}

	switch status {
	case http.StatusOK:
		c.logger.Debug("fetched record from crm", zap.String("record_id", record.ID))
		return &record, nil
	case http.StatusNotFound:
		return nil, apperr.ErrNotFound
	default:
		return nil, apperr.Gateway("fetch record", fmt.Errorf("unexpected status %d", status))
	}
}

// UpsertInterviewSummary persists the interview summary against the record:
// the existing linked interview record is updated when present, otherwise a
// new one is created.
func (c *Client) UpsertInterviewSummary(ctx context.Context, recordID, summary string) error {
	if err := ValidateRecordID(recordID); err != nil {
		return err
	}

	existing, err := c.findInterview(ctx, recordID)
	if err != nil {
		return err
	}

	payload := &InterviewRecord{RecordID: recordID, Summary: summary}

	if existing != nil {
		status, err := c.do(ctx, http.MethodPatch, interviewsPath+"/"+existing.ID, payload, nil)
		if err != nil {
			return apperr.Gateway("update interview record", err)
		}
		if status != http.StatusOK && status != http.StatusNoContent {
			return apperr.Gateway("update interview record", fmt.Errorf("unexpected status %d", status))
		}
		c.logger.Info("updated interview record",
			zap.String("interview_id", existing.ID),
			zap.String("record_id", recordID),
		)
		return nil
	}

	status, err := c.do(ctx, http.MethodPost, interviewsPath, payload, nil)
	if err != nil {
		return apperr.Gateway("create interview record", err)
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return apperr.Gateway("create interview record", fmt.Errorf("unexpected status %d", status))
	}
	c.logger.Info("created interview record", zap.String("record_id", recordID))
	return nil
}

// findInterview looks up the interview record linked to recordID, returning
// nil when none exists yet.
func (c *Client) findInterview(ctx context.Context, recordID string) (*InterviewRecord, error) {
	path := interviewsPath + "?" + url.Values{"record_id": []string{recordID}}.Encode()

	var found []InterviewRecord
	status, err := c.do(ctx, http.MethodGet, path, nil, &found)
	if err != nil {
		return nil, apperr.Gateway("find interview record", err)
	}

	switch status {
	case http.StatusOK:
		if len(found) == 0 {
			return nil, nil
		}
		return &found[0], nil
	case http.StatusNotFound:
		return nil, nil
	default:
		return nil, apperr.Gateway("find interview record", fmt.Errorf("unexpected status %d", status))
	}
}

// do performs one request against the CRM API, decoding a JSON body into out
// when out is non-nil and the response carries content.
func (c *Client) do(ctx context.Context, method, path string, body, out any) (int, error) {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.APIURL+path, reqBody)
	if err != nil {
		return 0, err
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept", contentType)
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if out != nil && resp.StatusCode == http.StatusOK {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}

	return resp.StatusCode, nil
}
