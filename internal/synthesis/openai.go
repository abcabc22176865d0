package synthesis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/faultline/faultline/internal/model"
)

// OpenAIConfig configures the chat-completions provider
type OpenAIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// OpenAIProvider synthesizes reports through an OpenAI-compatible
// chat-completions endpoint. The low temperature is a quality lever,
// minimizing variance across retries; it is not a correctness mechanism.
type OpenAIProvider struct {
	cfg        OpenAIConfig
	httpClient *http.Client
}

// NewOpenAIProvider creates an OpenAI-backed provider
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 120 * time.Second
	}
	return &OpenAIProvider{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	Temperature    float64       `json:"temperature"`
	MaxTokens      int           `json:"max_tokens,omitempty"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// wireReport is the JSON shape the model is instructed to produce
type wireReport struct {
	Score          int             `json:"score"`
	Summary        string          `json:"summary"`
	Findings       []model.Finding `json:"findings"`
	Charts         []model.Chart   `json:"charts"`
	NextSteps      []string        `json:"next_steps"`
	MarkdownReport string          `json:"markdown_report"`
}

// Synthesize performs one chat-completions call. Transport and provider
// failures surface as plain errors for the transport budget; a response
// whose payload cannot be decoded surfaces as ErrSchemaInvalid so the
// client charges the schema budget instead.
func (p *OpenAIProvider) Synthesize(ctx context.Context, req Request) (*Output, error) {
	userPrompt, err := buildUserPrompt(req)
	if err != nil {
		return nil, err
	}

	chatReq := chatRequest{
		Model: p.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: p.cfg.Temperature,
		MaxTokens:   p.cfg.MaxTokens,
	}
	chatReq.ResponseFormat.Type = "json_object"

	body, err := json.Marshal(chatReq)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		p.cfg.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.cfg.APIKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("provider returned status %d: %s", resp.StatusCode, truncate(string(respBody), 200))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to decode provider response: %w", err)
	}
	if chatResp.Error != nil {
		return nil, fmt.Errorf("provider error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("provider returned no choices")
	}

	var wire wireReport
	if err := json.Unmarshal([]byte(chatResp.Choices[0].Message.Content), &wire); err != nil {
		return nil, fmt.Errorf("%w: model output is not valid JSON: %v", ErrSchemaInvalid, err)
	}

	return &Output{
		Report: model.AnalysisReport{
			Score:     wire.Score,
			Summary:   wire.Summary,
			Findings:  wire.Findings,
			Charts:    wire.Charts,
			NextSteps: wire.NextSteps,
		},
		Markdown: wire.MarkdownReport,
	}, nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
