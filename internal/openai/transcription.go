package openai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
)

// TranscriptionModel is the fixed speech-to-text model identifier
// recorded in note metadata.
const TranscriptionModel = "whisper-1"

type Transcription struct {
	Text     string   `json:"text"`
	Duration *float64 `json:"duration"`
}

// Transcribe uploads the audio file at audioPath and returns its
// transcript. The verbose response format carries the audio duration.
func (c *Client) Transcribe(ctx context.Context, audioPath string) (*Transcription, error) {
	f, err := os.Open(audioPath)
	if err != nil {
		return nil, fmt.Errorf("error opening audio file: %w", err)
	}
	defer f.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return nil, err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, fmt.Errorf("error reading audio file: %w", err)
	}
	writer.WriteField("model", TranscriptionModel)
	writer.WriteField("response_format", "verbose_json")

	if err := writer.Close(); err != nil {
		return nil, err
	}

	req, err := c.newRequest(ctx, "POST", "audio/transcriptions", writer.FormDataContentType(), body)
	if err != nil {
		return nil, err
	}

	var transcription Transcription
	if err := c.do(req, &transcription); err != nil {
		return nil, err
	}
	return &transcription, nil
}
