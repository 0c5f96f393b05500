package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"time"
)

const (
	connectTimeout = 30 * time.Second
	readTimeout    = 60 * time.Second
	writeTimeout   = 30 * time.Second

	// Low temperature favors deterministic answers.
	analyzeTemperature = 0.3
)

// Config holds the chat completion endpoint settings.
type Config struct {
	APIURL string
	APIKey string
	Model  string
}

// Client talks to an OpenAI-compatible chat completion endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

func NewClient(cfg Config) *Client {
	dialer := &net.Dialer{Timeout: connectTimeout}
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: connectTimeout + readTimeout + writeTimeout,
			Transport: &http.Transport{
				DialContext:           dialer.DialContext,
				TLSHandshakeTimeout:   connectTimeout,
				ResponseHeaderTimeout: readTimeout,
				ExpectContinueTimeout: writeTimeout,
			},
		},
	}
}

func configValid(apiURL, apiKey, model string) bool {
	return strings.TrimSpace(apiURL) != "" &&
		strings.TrimSpace(apiKey) != "" &&
		strings.TrimSpace(model) != "" &&
		strings.HasPrefix(apiURL, "http")
}

// Analyze sends the recognized question text to the model and returns the
// structured answer. Runs one network round trip; never retries.
func (c *Client) Analyze(ctx context.Context, text string, questionTypes []string, scope string) (Answer, error) {
	if !configValid(c.cfg.APIURL, c.cfg.APIKey, c.cfg.Model) {
		return Answer{}, ErrConfigInvalid
	}

	request := ChatRequest{
		Model: c.cfg.Model,
		Messages: []ChatMessage{
			{Role: "system", Content: BuildSystemPrompt(questionTypes, scope)},
			{Role: "user", Content: "Analyze the following question:\n\n" + text},
		},
		Temperature:    analyzeTemperature,
		ResponseFormat: &ResponseFormat{Type: "json_object"},
	}

	body, status, err := c.post(ctx, c.cfg.APIURL, c.cfg.APIKey, request)
	if err != nil {
		return Answer{}, mapTransportError(err)
	}
	if status < 200 || status >= 300 {
		return Answer{}, &StatusError{Code: status}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return Answer{}, ErrEmptyResponse
	}

	var response ChatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return Answer{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if len(response.Choices) == 0 || response.Choices[0].Message.Content == "" {
		return Answer{}, ErrNoAnswerContent
	}

	content := response.Choices[0].Message.Content
	payload := ExtractJSONPayload(content)

	var answer Answer
	if err := json.Unmarshal([]byte(payload), &answer); err != nil {
		// Degrade gracefully: hand the raw content back as an essay answer
		// instead of failing the whole call.
		log.Printf("llm: answer payload is not structured JSON, returning raw content")
		return Answer{
			QuestionType: QuestionTypeEssay,
			Answer:       strings.TrimSpace(content),
		}, nil
	}
	if answer.QuestionType == "" {
		answer.QuestionType = QuestionTypeEssay
	}
	return answer, nil
}

// TestConnection probes the endpoint with a minimal one-message request: no
// system prompt, no forced response format. HTTP status codes and transport
// failures map to the specific causes a settings screen can show.
func (c *Client) TestConnection(ctx context.Context, apiURL, apiKey, model string) error {
	if !configValid(apiURL, apiKey, model) {
		return ErrConfigInvalid
	}

	request := ChatRequest{
		Model:    model,
		Messages: []ChatMessage{{Role: "user", Content: "hello"}},
	}

	body, status, err := c.post(ctx, apiURL, apiKey, request)
	if err != nil {
		return mapTransportError(err)
	}
	switch {
	case status == http.StatusUnauthorized:
		return ErrInvalidKey
	case status == http.StatusForbidden:
		return ErrForbidden
	case status == http.StatusNotFound:
		return ErrNotFound
	case status == http.StatusTooManyRequests:
		return ErrRateLimited
	case status >= 500:
		return ErrServer
	case status < 200 || status >= 300:
		return &StatusError{Code: status}
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return ErrEmptyResponse
	}
	var response ChatResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return ErrResponseInvalid
	}
	if len(response.Choices) == 0 {
		return ErrResponseInvalid
	}
	return nil
}

// Ping probes the endpoint with the client's own configuration. Used as a
// startup gate.
func (c *Client) Ping(ctx context.Context) error {
	return c.TestConnection(ctx, c.cfg.APIURL, c.cfg.APIKey, c.cfg.Model)
}

func (c *Client) post(ctx context.Context, apiURL, apiKey string, payload ChatRequest) ([]byte, int, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(data))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, err
	}
	return body, resp.StatusCode, nil
}
