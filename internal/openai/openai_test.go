package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(ClientConfig{APIKey: "test-key", BaseURL: srv.URL})
}

func writeAudioFixture(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "consult.wav")
	if err := os.WriteFile(path, []byte("RIFFfake"), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	return path
}

func TestTranscribe(t *testing.T) {
	var gotAuth, gotModel, gotFormat, gotFilename string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/audio/transcriptions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("failed to parse multipart form: %v", err)
		}
		gotModel = r.FormValue("model")
		gotFormat = r.FormValue("response_format")
		_, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("missing file part: %v", err)
		}
		gotFilename = header.Filename
		fmt.Fprint(w, `{"text":"Patient reports mild headache","duration":12.5}`)
	})

	result, err := client.Transcribe(context.Background(), writeAudioFixture(t))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("unexpected Authorization header %q", gotAuth)
	}
	if gotModel != TranscriptionModel {
		t.Errorf("expected model %q, got %q", TranscriptionModel, gotModel)
	}
	if gotFormat != "verbose_json" {
		t.Errorf("expected response_format verbose_json, got %q", gotFormat)
	}
	if gotFilename != "consult.wav" {
		t.Errorf("expected filename consult.wav, got %q", gotFilename)
	}
	if result.Text != "Patient reports mild headache" {
		t.Errorf("unexpected text %q", result.Text)
	}
	if result.Duration == nil || *result.Duration != 12.5 {
		t.Errorf("unexpected duration %v", result.Duration)
	}
}

func TestTranscribe_APIError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error":{"type":"invalid_request_error","message":"Incorrect API key provided"}}`)
	})

	_, err := client.Transcribe(context.Background(), writeAudioFixture(t))
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *openai.Error, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected status 401, got %d", apiErr.StatusCode)
	}
	if apiErr.Message != "Incorrect API key provided" {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
}

func TestTranscribe_MissingFile(t *testing.T) {
	client := NewClient(ClientConfig{APIKey: "test-key"})
	if _, err := client.Transcribe(context.Background(), filepath.Join(t.TempDir(), "nope.wav")); err == nil {
		t.Fatal("expected an error for a missing audio file")
	}
}

func generationClient(t *testing.T, content string) *Client {
	return newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req struct {
			Model          string `json:"model"`
			ResponseFormat struct {
				Type string `json:"type"`
			} `json:"response_format"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != GenerationModel {
			t.Errorf("expected model %q, got %q", GenerationModel, req.Model)
		}
		if req.ResponseFormat.Type != "json_object" {
			t.Errorf("expected json_object response format, got %q", req.ResponseFormat.Type)
		}
		if len(req.Messages) != 2 || !strings.Contains(req.Messages[1].Content, "Transcribed Text:") {
			t.Error("expected the fixed scribe prompt with the transcript embedded")
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	})
}

func TestGenerateClinicalNote(t *testing.T) {
	client := generationClient(t, `{"summary":"Brief visit note.","clinicalNote":"S: headache. O: afebrile. A: tension headache. P: OTC analgesic."}`)
	result, err := client.GenerateClinicalNote(context.Background(), "Patient reports mild headache")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary != "Brief visit note." {
		t.Errorf("unexpected summary %q", result.Summary)
	}
	if result.ClinicalNote != "S: headache. O: afebrile. A: tension headache. P: OTC analgesic." {
		t.Errorf("unexpected clinical note %q", result.ClinicalNote)
	}
}

func TestGenerateClinicalNote_SnakeCaseKey(t *testing.T) {
	client := generationClient(t, `{"summary":"Summary.","clinical_note":"Narrative note."}`)
	result, err := client.GenerateClinicalNote(context.Background(), "transcript")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ClinicalNote != "Narrative note." {
		t.Errorf("expected the clinical_note spelling to be accepted, got %q", result.ClinicalNote)
	}
}

func TestGenerateClinicalNote_MissingNoteFallsBackToTranscript(t *testing.T) {
	client := generationClient(t, `{"summary":"Summary only."}`)
	result, err := client.GenerateClinicalNote(context.Background(), "the original transcript")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.ClinicalNote != "the original transcript" {
		t.Errorf("expected transcript fallback, got %q", result.ClinicalNote)
	}
	if result.Summary != "Summary only." {
		t.Errorf("unexpected summary %q", result.Summary)
	}
}

func TestGenerateClinicalNote_UnparseableResponse(t *testing.T) {
	client := generationClient(t, `not json at all`)
	result, err := client.GenerateClinicalNote(context.Background(), "the original transcript")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary != NoSummarySentinel {
		t.Errorf("expected summary sentinel %q, got %q", NoSummarySentinel, result.Summary)
	}
	if result.ClinicalNote != "the original transcript" {
		t.Errorf("expected transcript fallback, got %q", result.ClinicalNote)
	}
}

func TestGenerateClinicalNote_MissingSummary(t *testing.T) {
	client := generationClient(t, `{"clinicalNote":"Just the note."}`)
	result, err := client.GenerateClinicalNote(context.Background(), "transcript")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Summary != NoSummarySentinel {
		t.Errorf("expected summary sentinel, got %q", result.Summary)
	}
	if result.ClinicalNote != "Just the note." {
		t.Errorf("expected clinical note to be unaffected by the summary fallback, got %q", result.ClinicalNote)
	}
}

func TestGenerateClinicalNote_EmptyChoices(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices":[]}`)
	})
	if _, err := client.GenerateClinicalNote(context.Background(), "transcript"); err == nil {
		t.Fatal("expected an error for an empty choices list")
	}
}

func TestGenerateClinicalNote_CallError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error":{"type":"server_error","message":"overloaded"}}`)
	})
	if _, err := client.GenerateClinicalNote(context.Background(), "transcript"); err == nil {
		t.Fatal("expected a call-level error to propagate")
	}
}
