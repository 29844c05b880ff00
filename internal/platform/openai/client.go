// Package openai implements the transcript oracle against an OpenAI-style
// chat-completions API.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/ashleyrevlett/youtube-guardian/internal/model"
)

const systemPrompt = `You review YouTube video transcripts for a parent auditing a child's viewing history.
Respond with a single JSON object, no markdown, with exactly these fields:
{"summary": "...", "tags": ["..."], "riskLevel": "high"|"medium"|"low", "reasoning": "...", "contentFlags": ["..."], "flaggedSeverity": "severe"|"moderate"|"none"}
Tags are topical labels for the content. contentFlags list concerning content kinds (violence, profanity, adult themes); use an empty list and flaggedSeverity "none" when nothing is concerning.`

// Config holds the client settings, all env-sourced by the caller.
type Config struct {
	APIKey      string
	BaseURL     string
	Model       string
	Timeout     time.Duration
	MinInterval time.Duration
}

// Client calls the chat-completions endpoint once per video, one call at a
// time with a mandatory minimum interval between calls.
type Client struct {
	cfg        Config
	httpClient *http.Client

	mu       sync.Mutex
	lastCall time.Time
}

func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com"
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 60 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// AnalyzeTranscript sends one transcript to the oracle and parses its
// structured verdict. Transport failures and unparseable output both surface
// as errors; the caller treats them as per-video failures.
func (c *Client) AnalyzeTranscript(ctx context.Context, text string) (*model.TranscriptAnalysis, error) {
	if err := c.pace(ctx); err != nil {
		return nil, err
	}

	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: text},
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		strings.TrimRight(c.cfg.BaseURL, "/")+"/v1/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oracle request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("oracle response read: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("oracle http %d: %s", resp.StatusCode, truncateBody(raw))
	}

	var cr chatResponse
	if err := json.Unmarshal(raw, &cr); err != nil {
		return nil, fmt.Errorf("oracle response parse: %w", err)
	}
	if len(cr.Choices) == 0 {
		return nil, fmt.Errorf("oracle response has no choices")
	}

	var analysis model.TranscriptAnalysis
	content := stripFences(cr.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &analysis); err != nil {
		return nil, fmt.Errorf("oracle verdict parse: %w", err)
	}
	return &analysis, nil
}

// pace blocks until at least MinInterval has passed since the previous call.
func (c *Client) pace(ctx context.Context) error {
	c.mu.Lock()
	wait := c.cfg.MinInterval - time.Since(c.lastCall)
	c.lastCall = time.Now().Add(max(wait, 0))
	c.mu.Unlock()

	if wait <= 0 {
		return nil
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// stripFences unwraps a ```json ... ``` fenced block if the model added one.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

func truncateBody(b []byte) string {
	const limit = 256
	if len(b) > limit {
		b = b[:limit]
	}
	return string(b)
}
