package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/preetatdate/docpipeline/internal/core/ports"
)

// fakeGateway records every call; response functions are swappable per test.
// Safe for the concurrent upload/phase paths.
type fakeGateway struct {
	mu sync.Mutex

	uploadFn func(content []byte, displayName string) (ports.FileHandle, error)
	invokeFn func(req ports.InvokeRequest) (string, error)

	uploads []string
	invokes []ports.InvokeRequest
}

func (g *fakeGateway) UploadFile(_ context.Context, content []byte, displayName string) (ports.FileHandle, error) {
	g.mu.Lock()
	g.uploads = append(g.uploads, displayName)
	g.mu.Unlock()

	if g.uploadFn != nil {
		return g.uploadFn(content, displayName)
	}
	return ports.FileHandle{
		URI:      "files/" + displayName,
		Name:     displayName,
		MimeType: "application/pdf",
	}, nil
}

func (g *fakeGateway) Invoke(_ context.Context, req ports.InvokeRequest) (string, error) {
	g.mu.Lock()
	g.invokes = append(g.invokes, req)
	g.mu.Unlock()

	if g.invokeFn != nil {
		return g.invokeFn(req)
	}
	return "{}", nil
}

func (g *fakeGateway) uploadCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.uploads)
}

func (g *fakeGateway) invokeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.invokes)
}

func (g *fakeGateway) invokeByTag(tag string) (ports.InvokeRequest, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, req := range g.invokes {
		if req.Tag == tag {
			return req, nil
		}
	}
	return ports.InvokeRequest{}, fmt.Errorf("no invocation tagged %q", tag)
}
