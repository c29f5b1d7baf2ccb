// Package gemini implements the model gateway against a Gemini-style HTTP
// API: resumable file uploads and structured generateContent calls.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/preetatdate/docpipeline/internal/core/domain"
	"github.com/preetatdate/docpipeline/internal/core/ports"
	"github.com/preetatdate/docpipeline/internal/infrastructure/resilience"
)

const (
	uploadProtocolHeader = "X-Goog-Upload-Protocol"
	uploadCommandHeader  = "X-Goog-Upload-Command"
	uploadOffsetHeader   = "X-Goog-Upload-Offset"
	uploadURLHeader      = "X-Goog-Upload-URL"

	responsePreviewLimit = 500
)

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	executor   *resilience.Executor
	callLog    ports.CallLog
}

func New(baseURL, apiKey string, executor *resilience.Executor, callLog ports.CallLog) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		executor:   executor,
		callLog:    callLog,
	}
}

// UploadFile performs the two-step resumable upload: initiate to obtain the
// session URL, then stream the bytes and read back the file handle.
func (c *Client) UploadFile(ctx context.Context, content []byte, displayName string) (ports.FileHandle, error) {
	uploadURL, err := c.initiateUpload(ctx, len(content), displayName)
	if err != nil {
		return ports.FileHandle{}, domain.WrapError(domain.ErrUpload, "initiate upload", err)
	}

	handle, err := c.streamUpload(ctx, uploadURL, content)
	if err != nil {
		return ports.FileHandle{}, domain.WrapError(domain.ErrUpload, "stream upload", err)
	}
	return handle, nil
}

func (c *Client) initiateUpload(ctx context.Context, size int, displayName string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"file": map[string]any{"display_name": displayName},
	})
	if err != nil {
		return "", fmt.Errorf("marshal initiate request: %w", err)
	}

	url := fmt.Sprintf("%s/upload/v1beta/files?key=%s", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create initiate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(uploadProtocolHeader, "resumable")
	req.Header.Set(uploadCommandHeader, "start")
	req.Header.Set("X-Goog-Upload-Header-Content-Length", strconv.Itoa(size))
	req.Header.Set("X-Goog-Upload-Header-Content-Type", "application/pdf")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("initiate upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", newStatusError("initiate upload", resp)
	}

	uploadURL := resp.Header.Get(uploadURLHeader)
	if uploadURL == "" {
		return "", errors.New("initiate response missing upload url")
	}
	return uploadURL, nil
}

func (c *Client) streamUpload(ctx context.Context, uploadURL string, content []byte) (ports.FileHandle, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uploadURL, bytes.NewReader(content))
	if err != nil {
		return ports.FileHandle{}, fmt.Errorf("create stream request: %w", err)
	}
	req.Header.Set(uploadCommandHeader, "upload, finalize")
	req.Header.Set(uploadOffsetHeader, "0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ports.FileHandle{}, fmt.Errorf("stream upload request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return ports.FileHandle{}, newStatusError("stream upload", resp)
	}

	var parsed struct {
		File struct {
			Name     string `json:"name"`
			URI      string `json:"uri"`
			MimeType string `json:"mimeType"`
		} `json:"file"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return ports.FileHandle{}, fmt.Errorf("decode upload response: %w", err)
	}
	if parsed.File.URI == "" {
		return ports.FileHandle{}, errors.New("upload response missing file uri")
	}

	return ports.FileHandle{
		URI:      parsed.File.URI,
		Name:     parsed.File.Name,
		MimeType: parsed.File.MimeType,
	}, nil
}

// Invoke sends a structured prompt and returns the model's JSON text. Rate
// limiting is retried by the executor with increasing backoff; any other
// non-success status fails immediately.
func (c *Client) Invoke(ctx context.Context, invReq ports.InvokeRequest) (string, error) {
	start := time.Now()

	var text string
	err := c.executor.Execute(ctx, "invoke_"+invReq.Tag, func(callCtx context.Context) error {
		var callErr error
		text, callErr = c.generateContent(callCtx, invReq)
		return callErr
	}, classifyGeminiError)

	c.recordCall(invReq, text, time.Since(start), err)

	if err != nil {
		return "", translateInvokeError(err)
	}
	return text, nil
}

func (c *Client) generateContent(ctx context.Context, invReq ports.InvokeRequest) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": encodeParts(invReq.Parts)},
		},
		"generationConfig": map[string]any{
			"responseMimeType": "application/json",
		},
	})
	if err != nil {
		return "", fmt.Errorf("marshal generate request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.baseURL, invReq.ModelID, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return "", newStatusError("generate", resp)
	}

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", domain.WrapError(domain.ErrMalformedResponse, "decode generate response", err)
	}

	var b strings.Builder
	for _, candidate := range parsed.Candidates {
		for _, part := range candidate.Content.Parts {
			b.WriteString(part.Text)
		}
		break
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", domain.WrapError(domain.ErrEmptyResponse, "generate", errors.New("no extractable text in candidates"))
	}
	return text, nil
}

func encodeParts(parts []ports.PromptPart) []map[string]any {
	encoded := make([]map[string]any, 0, len(parts))
	for _, part := range parts {
		switch {
		case part.File != nil:
			encoded = append(encoded, map[string]any{
				"file_data": map[string]any{
					"mime_type": orDefault(part.File.MimeType, "application/pdf"),
					"file_uri":  part.File.URI,
				},
			})
		case part.Inline != nil:
			encoded = append(encoded, map[string]any{
				"inline_data": map[string]any{
					"mime_type": orDefault(part.Inline.MimeType, "application/pdf"),
					"data":      base64.StdEncoding.EncodeToString(part.Inline.Data),
				},
			})
		default:
			encoded = append(encoded, map[string]any{"text": part.Text})
		}
	}
	return encoded
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

// recordCall writes one telemetry row, best-effort: a log-store failure is
// reported and swallowed, never surfaced to the primary operation.
func (c *Client) recordCall(invReq ports.InvokeRequest, text string, latency time.Duration, callErr error) {
	if c.callLog == nil {
		return
	}

	call := ports.ModelCall{
		ID:        uuid.NewString(),
		CaseID:    invReq.CaseID,
		ModelID:   invReq.ModelID,
		Tag:       invReq.Tag,
		LatencyMS: latency.Milliseconds(),
		Status:    "ok",
		Preview:   truncate(text, responsePreviewLimit),
	}
	if callErr != nil {
		call.Status = "error"
		call.Error = truncate(callErr.Error(), responsePreviewLimit)
	}

	logCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := c.callLog.Record(logCtx, call); err != nil {
		logSwallowedWriteError(invReq.Tag, err)
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
