package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
)

// documentReceived is the wire envelope for a classification job.
type documentReceived struct {
	DocumentID string    `json:"document_id"`
	EnqueuedAt time.Time `json:"enqueued_at"`
}

type Queue struct {
	conn    *nats.Conn
	subject string
	queue   string
	logger  *slog.Logger
}

type Config struct {
	URL     string
	Subject string
	// QueueGroup balances message delivery across worker replicas.
	QueueGroup string
}

func NewQueue(cfg Config, logger *slog.Logger) (*Queue, error) {
	conn, err := nats.Connect(cfg.URL,
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", "error", err)
			}
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("nats reconnected", "url", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Queue{
		conn:    conn,
		subject: cfg.Subject,
		queue:   cfg.QueueGroup,
		logger:  logger,
	}, nil
}

func (q *Queue) PublishDocumentReceived(ctx context.Context, documentID string) error {
	payload, err := json.Marshal(documentReceived{
		DocumentID: documentID,
		EnqueuedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	if err := q.conn.Publish(q.subject, payload); err != nil {
		return fmt.Errorf("publish %s: %w", q.subject, err)
	}
	return nil
}

// SubscribeDocumentReceived consumes classification jobs until ctx is
// cancelled. Handler errors are logged; the message is not redelivered.
func (q *Queue) SubscribeDocumentReceived(ctx context.Context, handler func(context.Context, string) error) error {
	sub, err := q.conn.QueueSubscribe(q.subject, q.queue, func(msg *nats.Msg) {
		var job documentReceived
		if err := json.Unmarshal(msg.Data, &job); err != nil {
			q.logger.Error("discarding malformed job", "subject", q.subject, "error", err)
			return
		}
		if err := handler(ctx, job.DocumentID); err != nil {
			q.logger.Error("job failed", "document_id", job.DocumentID, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("subscribe %s: %w", q.subject, err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		q.logger.Warn("drain subscription", "error", err)
	}
	return nil
}

func (q *Queue) Close() {
	if err := q.conn.Drain(); err != nil {
		q.logger.Warn("drain connection", "error", err)
	}
	q.conn.Close()
}
