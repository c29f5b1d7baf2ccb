package gemini

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/preetatdate/docpipeline/internal/core/domain"
	"github.com/preetatdate/docpipeline/internal/infrastructure/resilience"
)

// classifyGeminiError drives the retry/breaker policy: only throttling and
// transport-level failures are retried; every other failure is final on the
// first attempt.
func classifyGeminiError(err error) resilience.ErrorClassification {
	if err == nil {
		return resilience.ErrorClassification{}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return resilience.ErrorClassification{Retryable: false, RecordFailure: false}
	}
	if resilience.IsCircuitOpen(err) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusTooManyRequests {
			return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
		}
		return resilience.ErrorClassification{Retryable: false, RecordFailure: statusErr.StatusCode >= 500}
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return resilience.ErrorClassification{Retryable: true, RecordFailure: true}
	}

	return resilience.ErrorClassification{Retryable: false, RecordFailure: true}
}

// translateInvokeError maps transport failures onto the domain error kinds
// the callers and the HTTP layer key on.
func translateInvokeError(err error) error {
	if err == nil {
		return nil
	}
	if domain.IsKind(err, domain.ErrEmptyResponse) || domain.IsKind(err, domain.ErrMalformedResponse) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}

	var statusErr *HTTPStatusError
	if errors.As(err, &statusErr) {
		if statusErr.StatusCode == http.StatusTooManyRequests {
			return domain.WrapError(domain.ErrRateLimited, statusErr.Operation, err)
		}
		return domain.WrapError(domain.ErrUpstream, statusErr.Operation, err)
	}
	if resilience.IsCircuitOpen(err) {
		return domain.WrapError(domain.ErrTemporary, "invoke", err)
	}
	return domain.WrapError(domain.ErrUpstream, "invoke", err)
}

func logSwallowedWriteError(tag string, err error) {
	slog.Warn("call_log_write_failed", "tag", tag, "error", err)
}
