package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sabishii-bit/hack-interview/internal/config"
)

func newTestClient(url string) *Client {
	return New(config.OpenAIConfig{BaseURL: url, APIKey: "test-key"}, zerolog.Nop())
}

func writeTempWAV(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "take.wav")
	if err := os.WriteFile(path, []byte("RIFFfakewavdata"), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestTranscribeSendsMultipartAndReturnsText(t *testing.T) {
	var gotModel, gotFormat, gotAuth, gotFile string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		gotModel = r.FormValue("model")
		gotFormat = r.FormValue("response_format")
		if _, hdr, err := r.FormFile("file"); err == nil {
			gotFile = hdr.Filename
		}
		w.Write([]byte("What is a goroutine?\n"))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	text, err := c.Transcribe(context.Background(), writeTempWAV(t))
	if err != nil {
		t.Fatalf("Transcribe error: %v", err)
	}

	if text != "What is a goroutine?" {
		t.Errorf("transcript = %q", text)
	}
	if gotModel != "whisper-1" {
		t.Errorf("model = %q, want whisper-1", gotModel)
	}
	if gotFormat != "text" {
		t.Errorf("response_format = %q, want text", gotFormat)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth = %q", gotAuth)
	}
	if gotFile != "take.wav" {
		t.Errorf("uploaded filename = %q", gotFile)
	}
}

func TestTranscribeAPIErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.Transcribe(context.Background(), writeTempWAV(t))
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error %q does not mention status", err)
	}
}

func TestGenerateAnswerShort(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"A goroutine is a lightweight thread."},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	answer, err := c.GenerateAnswer(context.Background(), "What is a goroutine?", AnswerOpts{
		Model:    "gpt-4o",
		Position: "Go Developer",
		Short:    true,
	})
	if err != nil {
		t.Fatalf("GenerateAnswer error: %v", err)
	}

	if answer != "A goroutine is a lightweight thread." {
		t.Errorf("answer = %q", answer)
	}
	if got.Model != "gpt-4o" {
		t.Errorf("model = %q", got.Model)
	}
	if got.Temperature != 0 {
		t.Errorf("short answer temperature = %v, want 0", got.Temperature)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
	sys, _ := got.Messages[0].Content.(string)
	if !strings.Contains(sys, "Go Developer") {
		t.Errorf("system prompt missing position: %q", sys)
	}
	if !strings.Contains(sys, "100 words") {
		t.Errorf("system prompt missing short instruction: %q", sys)
	}
}

func TestGenerateAnswerLongTemperature(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&got)
		w.Write([]byte(`{"choices":[{"message":{"content":"long answer"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.GenerateAnswer(context.Background(), "q", AnswerOpts{Model: "gpt-4o", Position: "SWE"}); err != nil {
		t.Fatalf("GenerateAnswer error: %v", err)
	}
	if got.Temperature != 0.7 {
		t.Errorf("long answer temperature = %v, want 0.7", got.Temperature)
	}
}

func TestGenerateAnswerAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":{"message":"invalid api key","type":"auth_error"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.GenerateAnswer(context.Background(), "q", AnswerOpts{Model: "gpt-4o"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("error %q missing API message", err)
	}
}

func TestAnalyzeImageSendsDataURL(t *testing.T) {
	dir := t.TempDir()
	img := filepath.Join(dir, "shot.png")
	if err := os.WriteFile(img, []byte{0x89, 'P', 'N', 'G'}, 0644); err != nil {
		t.Fatal(err)
	}

	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&raw)
		w.Write([]byte(`{"choices":[{"message":{"content":"binary tree problem"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	answer, err := c.AnalyzeImage(context.Background(), img, AnswerOpts{Model: "gpt-4o", Position: "SWE", Short: true})
	if err != nil {
		t.Fatalf("AnalyzeImage error: %v", err)
	}
	if answer != "binary tree problem" {
		t.Errorf("answer = %q", answer)
	}

	if raw["max_tokens"].(float64) != 600 {
		t.Errorf("max_tokens = %v, want 600 for short answers", raw["max_tokens"])
	}
	payload, _ := json.Marshal(raw)
	if !strings.Contains(string(payload), "data:image/png;base64,") {
		t.Error("request missing base64 image data URL")
	}
	if !strings.Contains(string(payload), `"detail":"high"`) {
		t.Error("request missing high-detail image flag")
	}
}
