// internal/francis/client.go
// Package francis is the client for the GenAI assistant service behind the
// chat, profile analysis and IRPP endpoints.
package francis

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"francis-backend/internal/common/logger"
	"francis-backend/internal/models"
)

var (
	ErrAssistantFailed  = errors.New("ASSISTANT_FAILED")
	ErrAssistantTimeout = errors.New("ASSISTANT_TIMEOUT")
)

// The assistant sees at most this many prior turns.
const maxHistoryTurns = 10

const fallbackAnswer = "Je n'ai pas assez d'éléments pour répondre précisément à cette question. " +
	"Pouvez-vous préciser votre situation ?"

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
		config.Timeout = 20 * time.Second
	}
	return &Client{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: log.WithFields(map[string]interface{}{"component": "francis-client"}),
	}
}

// Answer is the assistant's reply to one question.
type Answer struct {
	Text       string  `json:"text"`
	Confidence float64 `json:"confidence"`
}

// Ask sends a user question with bounded chat history and optional profile
// context. An empty reply degrades to a fixed French fallback rather than an
// error: the conversation must keep going.
func (c *Client) Ask(ctx context.Context, question string, history []models.ChatMessage, profile *models.ClientProfile) (*Answer, error) {
	if len(history) > maxHistoryTurns {
		history = history[len(history)-maxHistoryTurns:]
	}

	requestBody := map[string]interface{}{
		"question": question,
		"history":  history,
	}
	if profile != nil {
		requestBody["profile"] = profile
	}

	var apiResponse struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
	}
	if err := c.post(ctx, "/api/ai/ask", requestBody, &apiResponse); err != nil {
		return nil, err
	}

	if strings.TrimSpace(apiResponse.Text) == "" {
		apiResponse.Text = fallbackAnswer
		apiResponse.Confidence = 0.1
	}
	if apiResponse.Confidence < 0.0 || apiResponse.Confidence > 1.0 {
		apiResponse.Confidence = 0.5
	}

	return &Answer{Text: apiResponse.Text, Confidence: apiResponse.Confidence}, nil
}

// Analysis is the structured profile review returned by the assistant.
type Analysis struct {
	Summary         string                 `json:"summary"`
	Recommendations []string               `json:"recommendations"`
	ExtractedFields map[string]interface{} `json:"extracted_fields,omitempty"`
}

// AnalyzeProfile asks for a full review of a stored client profile.
func (c *Client) AnalyzeProfile(ctx context.Context, profile *models.ClientProfile) (*Analysis, error) {
	var analysis Analysis
	err := c.post(ctx, "/api/ai/analyze-profile", map[string]interface{}{"profile": profile}, &analysis)
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

// IRPPEstimate is the income tax simulation for a profile.
type IRPPEstimate struct {
	ImpotEstime      float64 `json:"impot_estime"`
	TrancheMarginale float64 `json:"tranche_marginale"`
	PartsFiscales    float64 `json:"parts_fiscales"`
	Details          string  `json:"details,omitempty"`
}

// EstimateIRPP proxies the income tax simulation to the assistant service.
func (c *Client) EstimateIRPP(ctx context.Context, profile *models.ClientProfile) (*IRPPEstimate, error) {
	var estimate IRPPEstimate
	err := c.post(ctx, "/api/ai/irpp", map[string]interface{}{"profile": profile}, &estimate)
	if err != nil {
		return nil, err
	}
	return &estimate, nil
}

// post sends one request and surfaces the failure as-is. Assistant calls are
// not idempotent, so a transport error is never retried; the caller degrades
// or reports it.
func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAssistantFailed, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrAssistantFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return ErrAssistantTimeout
		}
		return fmt.Errorf("%w: %v", ErrAssistantFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: status %d", ErrAssistantFailed, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode error: %v", ErrAssistantFailed, err)
	}
	return nil
}
