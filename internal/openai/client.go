// Package openai is a thin client for the hosted transcription, chat and
// vision endpoints. Only the request surface this application needs is
// modeled.
package openai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/sabishii-bit/hack-interview/internal/config"
)

const transcribeModel = "whisper-1"

// AnswerOpts selects model, position context and answer length for one
// generation call.
type AnswerOpts struct {
	Model    string
	Position string
	Short    bool
}

// Client performs the API calls.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        zerolog.Logger
}

// New creates a client for the configured endpoint.
func New(cfg config.OpenAIConfig, log zerolog.Logger) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = "https://api.openai.com/v1"
	}
	return &Client{
		baseURL:    base,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		log:        log,
	}
}

// --- chat request/response types ---

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *imageURL `json:"image_url,omitempty"`
}

type imageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float32       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Transcribe uploads the WAV at path to the transcription endpoint and
// returns the plain-text transcript.
func (c *Client) Transcribe(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open recording: %w", err)
	}
	defer f.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := writer.WriteField("model", transcribeModel); err != nil {
		return "", err
	}
	if err := writer.WriteField("response_format", "text"); err != nil {
		return "", err
	}
	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Msg("Transcription request failed")
		return "", fmt.Errorf("transcribe: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("transcribe: read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Error().Int("status", resp.StatusCode).Str("body", string(data)).Msg("Transcription API error")
		return "", fmt.Errorf("transcribe: API error (status %d): %s", resp.StatusCode, string(data))
	}

	return strings.TrimSpace(string(data)), nil
}

// GenerateAnswer asks the chat model for an answer to the transcribed
// question. Short answers run at temperature 0, long ones at 0.7.
func (c *Client) GenerateAnswer(ctx context.Context, transcript string, opts AnswerOpts) (string, error) {
	var temperature float32 = 0.7
	if opts.Short {
		temperature = 0
	}

	req := chatRequest{
		Model:       opts.Model,
		Temperature: temperature,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt(opts.Position, opts.Short)},
			{Role: "user", Content: transcript},
		},
	}
	return c.chat(ctx, req)
}

// AnalyzeImage sends the screenshot at path to the vision-capable model.
func (c *Client) AnalyzeImage(ctx context.Context, path string, opts AnswerOpts) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read screenshot: %w", err)
	}
	encoded := base64.StdEncoding.EncodeToString(data)

	prompt := fmt.Sprintf(visionPrompt, opts.Position)
	maxTokens := 1500
	if opts.Short {
		prompt += shortInstruction
		maxTokens = 600
	} else {
		prompt += longInstruction
	}

	req := chatRequest{
		Model:       opts.Model,
		Temperature: 0.2,
		MaxTokens:   maxTokens,
		Messages: []chatMessage{
			{Role: "system", Content: prompt},
			{Role: "user", Content: []contentPart{
				{Type: "image_url", ImageURL: &imageURL{
					URL:    "data:image/png;base64," + encoded,
					Detail: "high",
				}},
				{Type: "text", Text: visionUserText},
			}},
		},
	}
	return c.chat(ctx, req)
}

func (c *Client) chat(ctx context.Context, body chatRequest) (string, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Msg("Chat request failed")
		return "", fmt.Errorf("chat: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("chat: read response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("chat: decode response (status %d): %w", resp.StatusCode, err)
	}
	if parsed.Error != nil {
		c.log.Error().Str("type", parsed.Error.Type).Str("message", parsed.Error.Message).Msg("Chat API error")
		return "", fmt.Errorf("chat: API error: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("chat: API error (status %d): %s", resp.StatusCode, string(data))
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("chat: empty response")
	}

	return parsed.Choices[0].Message.Content, nil
}
