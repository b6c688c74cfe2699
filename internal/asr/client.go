// Package asr uploads audio to a whisper-style transcription API.
package asr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"
)

// ErrTranscription indicates the transcription service call failed: network
// error, auth rejection, rate limit, or malformed response.
var ErrTranscription = errors.New("transcription request failed")

// Client performs one transcription upload per call. Decoding temperature is
// fixed at zero so repeated runs over the same audio are stable.
type Client struct {
	Endpoint   string
	Model      string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient builds a client with a bounded request timeout.
func NewClient(endpoint, model, apiKey string, timeout time.Duration) *Client {
	return &Client{
		Endpoint:   endpoint,
		Model:      model,
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

// Request describes one upload: the audio file, an optional explicit
// language hint (empty requests automatic detection), and an optional
// continuation prompt.
type Request struct {
	AudioPath string
	Language  string
	Prompt    string
}

type transcriptionResponse struct {
	Text string `json:"text"`
}

// Transcribe uploads the audio and returns the raw transcription text.
func (c *Client) Transcribe(ctx context.Context, req Request) (string, error) {
	if c.Endpoint == "" {
		return "", fmt.Errorf("%w: endpoint is empty", ErrTranscription)
	}

	body, contentType, err := c.buildBody(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscription, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint, body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscription, err)
	}
	httpReq.Header.Set("Content-Type", contentType)
	if c.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.APIKey)
	}

	client := c.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 120 * time.Second}
	}

	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTranscription, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: HTTP %d: %s", ErrTranscription, resp.StatusCode, bytes.TrimSpace(snippet))
	}

	var payload transcriptionResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrTranscription, err)
	}

	return payload.Text, nil
}

// buildBody assembles the multipart form: audio bytes plus model,
// temperature, response format, and the optional language/prompt fields.
func (c *Client) buildBody(req Request) (*bytes.Buffer, string, error) {
	f, err := os.Open(req.AudioPath)
	if err != nil {
		return nil, "", fmt.Errorf("open audio: %v", err)
	}
	defer f.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("file", filepath.Base(req.AudioPath))
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, f); err != nil {
		return nil, "", fmt.Errorf("copy audio: %v", err)
	}

	fields := map[string]string{
		"model":           c.Model,
		"temperature":     "0",
		"response_format": "json",
	}
	if req.Language != "" {
		fields["language"] = req.Language
	}
	if req.Prompt != "" {
		fields["prompt"] = req.Prompt
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, "", err
		}
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}
	return body, writer.FormDataContentType(), nil
}
