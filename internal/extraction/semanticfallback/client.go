// internal/extraction/semanticfallback/client.go
// Package semanticfallback calls the remote GenAI extraction service when
// the keyword mapper found nothing, and merges whatever the service could
// confidently extract into the profile answers.
package semanticfallback

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"francis-backend/internal/common/logger"
)

var (
	ErrExtractionFailed = errors.New("EXTRACTION_FAILED")
	ErrExtractionEmpty  = errors.New("EXTRACTION_EMPTY")
)

type Config struct {
	BaseURL string
	Timeout time.Duration
}

type Client struct {
	config *Config
	client *http.Client
	logger logger.Logger
}

func NewClient(config *Config, log logger.Logger) *Client {
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: log.WithFields(map[string]interface{}{"component": "semantic-fallback"}),
	}
}

// Request carries one unmatched fragment plus its conversational context.
type Request struct {
	Text             string   `json:"text"`
	Context          []string `json:"conversational_context,omitempty"`
	TargetQuestionID string   `json:"target_question_id"`
	ExtractAll       bool     `json:"extract_all"`
}

type response struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
}

// Extract sends the fragment to the GenAI service. It returns every field the
// service extracted; the caller decides which it recognizes. There is no
// automatic retry: a failure degrades to free-text storage upstream.
func (c *Client) Extract(ctx context.Context, req *Request) (map[string]interface{}, error) {
	req.ExtractAll = true

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.config.BaseURL+"/api/ai/extract-profile", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrExtractionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrExtractionFailed, resp.StatusCode)
	}

	var apiResp response
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrExtractionFailed, err)
	}
	if !apiResp.Success || len(apiResp.Data) == 0 {
		return nil, ErrExtractionEmpty
	}

	c.logger.Info("semantic extraction succeeded", map[string]interface{}{
		"targetQuestion": req.TargetQuestionID,
		"fieldCount":     len(apiResp.Data),
	})
	return apiResp.Data, nil
}
