// Package nats publishes and consumes review lifecycle events. The api
// process publishes; the report worker consumes with a queue group so only
// one worker instance handles each event.
package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/MaxKamachee/openrecord/internal/core/domain"
	"github.com/MaxKamachee/openrecord/internal/infrastructure/resilience"
)

const (
	subjectAnalysisCompleted = "analysis.completed"
	subjectRedactionsApplied = "redactions.applied"
	workerQueueGroup         = "report-workers"
)

type Queue struct {
	conn          *nats.Conn
	subjectPrefix string
	executor      *resilience.Executor
}

type Options struct {
	ConnectTimeout       time.Duration
	ReconnectWait        time.Duration
	MaxReconnects        int
	RetryOnFailedConnect *bool
	ResilienceExecutor   *resilience.Executor
}

func New(url, subjectPrefix string) (*Queue, error) {
	return NewWithOptions(url, subjectPrefix, Options{})
}

func NewWithOptions(url, subjectPrefix string, options Options) (*Queue, error) {
	connectTimeout := options.ConnectTimeout
	if connectTimeout <= 0 {
		connectTimeout = 2 * time.Second
	}
	reconnectWait := options.ReconnectWait
	if reconnectWait <= 0 {
		reconnectWait = 2 * time.Second
	}
	maxReconnects := options.MaxReconnects
	if maxReconnects <= 0 {
		maxReconnects = 60
	}
	retryOnFailedConnect := true
	if options.RetryOnFailedConnect != nil {
		retryOnFailedConnect = *options.RetryOnFailedConnect
	}

	conn, err := nats.Connect(
		url,
		nats.Name("openrecord"),
		nats.Timeout(connectTimeout),
		nats.ReconnectWait(reconnectWait),
		nats.MaxReconnects(maxReconnects),
		nats.RetryOnFailedConnect(retryOnFailedConnect),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Printf("nats disconnected: %v", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Printf("nats reconnected: %s", nc.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}
	return &Queue{
		conn:          conn,
		subjectPrefix: subjectPrefix,
		executor:      options.ResilienceExecutor,
	}, nil
}

func (q *Queue) Close() {
	if q.conn != nil {
		q.conn.Close()
	}
}

func (q *Queue) PublishAnalysisCompleted(ctx context.Context, ev domain.AnalysisCompletedEvent) error {
	return q.publish(ctx, subjectAnalysisCompleted, ev)
}

func (q *Queue) PublishRedactionsApplied(ctx context.Context, ev domain.RedactionsAppliedEvent) error {
	return q.publish(ctx, subjectRedactionsApplied, ev)
}

func (q *Queue) publish(ctx context.Context, subject string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	call := func(_ context.Context) error {
		if err := q.conn.Publish(q.subject(subject), data); err != nil {
			return fmt.Errorf("nats publish: %w", err)
		}
		return nil
	}

	if q.executor != nil {
		err = q.executor.Execute(ctx, "nats.publish", call, classifyNATSError)
	} else {
		err = call(ctx)
	}
	if err != nil {
		return wrapTemporaryIfNeeded(err)
	}
	return nil
}

// SubscribeAnalysisCompleted blocks until ctx is cancelled, then drains the
// subscription so in-flight handlers finish before returning.
func (q *Queue) SubscribeAnalysisCompleted(ctx context.Context, handler func(context.Context, domain.AnalysisCompletedEvent) error) error {
	sub, err := q.conn.QueueSubscribe(q.subject(subjectAnalysisCompleted), workerQueueGroup, func(msg *nats.Msg) {
		if errors.Is(ctx.Err(), context.Canceled) {
			return
		}

		var ev domain.AnalysisCompletedEvent
		if err := json.Unmarshal(msg.Data, &ev); err != nil {
			log.Printf("worker discarding malformed event: %v", err)
			return
		}

		handlerCtx, cancel := context.WithCancel(ctx)
		defer cancel()
		if err := handler(handlerCtx, ev); err != nil {
			log.Printf("worker handler error for analysis=%s: %v", ev.AnalysisID, err)
		}
	})
	if err != nil {
		return fmt.Errorf("nats subscribe: %w", err)
	}

	if err := q.conn.Flush(); err != nil {
		return fmt.Errorf("nats flush: %w", err)
	}

	<-ctx.Done()
	if err := sub.Drain(); err != nil {
		return fmt.Errorf("nats drain subscription: %w", err)
	}
	if err := q.conn.FlushTimeout(5 * time.Second); err != nil {
		return fmt.Errorf("nats flush after drain: %w", err)
	}
	return nil
}

func (q *Queue) subject(suffix string) string {
	if q.subjectPrefix == "" {
		return suffix
	}
	return q.subjectPrefix + "." + suffix
}
