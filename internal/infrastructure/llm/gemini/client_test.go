package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/preetatdate/docpipeline/internal/core/domain"
	"github.com/preetatdate/docpipeline/internal/core/ports"
	"github.com/preetatdate/docpipeline/internal/infrastructure/resilience"
)

type memoryCallLog struct {
	mu    sync.Mutex
	calls []ports.ModelCall
}

func (l *memoryCallLog) Record(_ context.Context, call ports.ModelCall) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
	return nil
}

func (l *memoryCallLog) last(t *testing.T) ports.ModelCall {
	t.Helper()
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.calls) == 0 {
		t.Fatal("no call recorded")
	}
	return l.calls[len(l.calls)-1]
}

func TestUploadFileTwoStep(t *testing.T) {
	var initiated, streamed bool

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/upload/v1beta/files":
			initiated = true
			if got := r.Header.Get(uploadProtocolHeader); got != "resumable" {
				t.Errorf("upload protocol = %q", got)
			}
			if got := r.Header.Get(uploadCommandHeader); got != "start" {
				t.Errorf("upload command = %q", got)
			}
			w.Header().Set(uploadURLHeader, "http://"+r.Host+"/upload/session/abc")
			w.WriteHeader(http.StatusOK)
		case "/upload/session/abc":
			streamed = true
			if got := r.Header.Get(uploadCommandHeader); got != "upload, finalize" {
				t.Errorf("stream command = %q", got)
			}
			if got := r.Header.Get(uploadOffsetHeader); got != "0" {
				t.Errorf("offset = %q", got)
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"file": map[string]any{
					"name":     "files/abc",
					"uri":      "https://files/abc",
					"mimeType": "application/pdf",
				},
			})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := New(server.URL, "test-key", resilience.NewExecutor(resilience.Config{RetryMaxAttempts: 1}), nil)
	handle, err := client.UploadFile(context.Background(), []byte("%PDF-1.4"), "releve.pdf")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !initiated || !streamed {
		t.Fatalf("initiated=%v streamed=%v", initiated, streamed)
	}
	if handle.URI != "https://files/abc" || handle.Name != "files/abc" {
		t.Fatalf("handle = %+v", handle)
	}
}

func TestUploadFileInitiateFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusForbidden)
	}))
	defer server.Close()

	client := New(server.URL, "test-key", resilience.NewExecutor(resilience.Config{RetryMaxAttempts: 1}), nil)
	_, err := client.UploadFile(context.Background(), []byte("%PDF-"), "x.pdf")
	if !domain.IsKind(err, domain.ErrUpload) {
		t.Fatalf("expected upload kind, got %v", err)
	}
}

func TestInvokeReturnsCandidateText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "models/test-model:generateContent") {
			t.Errorf("path = %s", r.URL.Path)
		}
		var body struct {
			Contents []struct {
				Parts []map[string]any `json:"parts"`
			} `json:"contents"`
			GenerationConfig struct {
				ResponseMimeType string `json:"responseMimeType"`
			} `json:"generationConfig"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.GenerationConfig.ResponseMimeType != "application/json" {
			t.Errorf("responseMimeType = %q", body.GenerationConfig.ResponseMimeType)
		}
		if len(body.Contents) != 1 || len(body.Contents[0].Parts) != 2 {
			t.Errorf("contents = %+v", body.Contents)
		}

		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{
					{"text": `{"document_type":`},
					{"text": `"pv_ag","confidence":0.9}`},
				}}},
			},
		})
	}))
	defer server.Close()

	callLog := &memoryCallLog{}
	client := New(server.URL, "test-key", resilience.NewExecutor(resilience.Config{RetryMaxAttempts: 1}), callLog)

	text, err := client.Invoke(context.Background(), ports.InvokeRequest{
		ModelID: "test-model",
		Parts: []ports.PromptPart{
			ports.TextPart("instructions"),
			ports.FilePart(ports.FileHandle{URI: "https://files/abc"}),
		},
		Tag:    "classify",
		CaseID: "case-1",
	})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if text != `{"document_type":"pv_ag","confidence":0.9}` {
		t.Fatalf("text = %q", text)
	}

	call := callLog.last(t)
	if call.Tag != "classify" || call.Status != "ok" || call.CaseID != "case-1" {
		t.Fatalf("call = %+v", call)
	}
}

func TestInvokeRetriesThrottling(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		requests++
		if requests == 1 {
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]any{{"text": "{}"}}}},
			},
		})
	}))
	defer server.Close()

	executor := resilience.NewExecutorWithSleep(resilience.Config{RetryMaxAttempts: 3},
		func(context.Context, time.Duration) error { return nil })
	client := New(server.URL, "test-key", executor, nil)

	text, err := client.Invoke(context.Background(), ports.InvokeRequest{ModelID: "m", Tag: "t"})
	if err != nil {
		t.Fatalf("invoke: %v", err)
	}
	if text != "{}" || requests != 2 {
		t.Fatalf("text = %q, requests = %d", text, requests)
	}
}

func TestInvokeTranslatesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := New(server.URL, "test-key", resilience.NewExecutor(resilience.Config{RetryMaxAttempts: 1}), nil)
	_, err := client.Invoke(context.Background(), ports.InvokeRequest{ModelID: "m", Tag: "t"})
	if !domain.IsKind(err, domain.ErrUpstream) {
		t.Fatalf("expected upstream kind, got %v", err)
	}
}

func TestInvokeExhaustedThrottlingIsRateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer server.Close()

	executor := resilience.NewExecutorWithSleep(resilience.Config{RetryMaxAttempts: 2},
		func(context.Context, time.Duration) error { return nil })
	callLog := &memoryCallLog{}
	client := New(server.URL, "test-key", executor, callLog)

	_, err := client.Invoke(context.Background(), ports.InvokeRequest{ModelID: "m", Tag: "t"})
	if !domain.IsKind(err, domain.ErrRateLimited) {
		t.Fatalf("expected rate-limited kind, got %v", err)
	}
	if call := callLog.last(t); call.Status != "error" {
		t.Fatalf("call status = %q", call.Status)
	}
}

func TestInvokeEmptyCandidates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"candidates": []any{}})
	}))
	defer server.Close()

	client := New(server.URL, "test-key", resilience.NewExecutor(resilience.Config{RetryMaxAttempts: 1}), nil)
	_, err := client.Invoke(context.Background(), ports.InvokeRequest{ModelID: "m", Tag: "t"})
	if !domain.IsKind(err, domain.ErrEmptyResponse) {
		t.Fatalf("expected empty-response kind, got %v", err)
	}
}
