package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/suPer8Hu/paper-explorer/internal/quiz"
	"github.com/suPer8Hu/paper-explorer/internal/store/rabbitmq"
)

type settleRecorder struct {
	acks, nacks int
	requeued    bool
}

func (s *settleRecorder) Ack(uint64, bool) error { s.acks++; return nil }

func (s *settleRecorder) Nack(_ uint64, _ bool, requeue bool) error {
	s.nacks++
	s.requeued = s.requeued || requeue
	return nil
}

func (s *settleRecorder) Reject(_ uint64, requeue bool) error { return s.Nack(0, false, requeue) }

type fakeStore struct {
	err    error
	stored []*quiz.Result
	ctxErr error
}

func (f *fakeStore) Insert(ctx context.Context, r *quiz.Result) error {
	f.ctxErr = ctx.Err()
	if f.err != nil {
		return f.err
	}
	f.stored = append(f.stored, r)
	return nil
}

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func delivery(t *testing.T, acks *settleRecorder, attempts int32) amqp.Delivery {
	t.Helper()
	body, err := rabbitmq.EncodeResult(&quiz.Result{
		Ref:            "01J0000000000000000000000B",
		UserID:         4,
		PaperTitle:     "Bone Density Changes",
		Score:          4,
		TotalQuestions: 5,
	})
	require.NoError(t, err)
	d := amqp.Delivery{Acknowledger: acks, Body: body, MessageId: "m1"}
	if attempts > 0 {
		d.Headers = amqp.Table{"x-retry-count": attempts}
	}
	return d
}

func TestHandle_BufferedDeliveryStoredAfterShutdown(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &fakeStore{}
	h := &handler{store: store, retry: func(context.Context, amqp.Delivery) error {
		t.Fatal("retry must not run when the insert succeeds")
		return nil
	}}
	acks := &settleRecorder{}
	h.handle(ctx, discardLogger(), delivery(t, acks, 0))

	require.Len(t, store.stored, 1)
	assert.NoError(t, store.ctxErr)
	assert.Equal(t, 1, acks.acks)
	assert.Zero(t, acks.nacks)
}

func TestHandle_BadBodyDeadLettered(t *testing.T) {
	store := &fakeStore{}
	h := &handler{store: store}
	acks := &settleRecorder{}
	h.handle(context.Background(), discardLogger(), amqp.Delivery{Acknowledger: acks, Body: []byte("not json")})

	assert.Empty(t, store.stored)
	assert.Equal(t, 1, acks.nacks)
	assert.False(t, acks.requeued)
	assert.Zero(t, acks.acks)
}

func TestHandle_StoreFailureRetries(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var retried []amqp.Delivery
	var retryCtxErr error
	h := &handler{
		store: &fakeStore{err: errors.New("db down")},
		retry: func(ctx context.Context, d amqp.Delivery) error {
			retryCtxErr = ctx.Err()
			retried = append(retried, d)
			return nil
		},
	}
	acks := &settleRecorder{}
	h.handle(ctx, discardLogger(), delivery(t, acks, 1))

	require.Len(t, retried, 1)
	assert.NoError(t, retryCtxErr)
	assert.Equal(t, 1, acks.acks)
	assert.Zero(t, acks.nacks)
}

func TestHandle_RetryPublishFailureDeadLetters(t *testing.T) {
	h := &handler{
		store: &fakeStore{err: errors.New("db down")},
		retry: func(context.Context, amqp.Delivery) error { return errors.New("channel closed") },
	}
	acks := &settleRecorder{}
	h.handle(context.Background(), discardLogger(), delivery(t, acks, 0))

	assert.Equal(t, 1, acks.nacks)
	assert.False(t, acks.requeued)
	assert.Zero(t, acks.acks)
}

func TestHandle_LastAttemptDeadLetters(t *testing.T) {
	h := &handler{
		store: &fakeStore{err: errors.New("db down")},
		retry: func(context.Context, amqp.Delivery) error {
			t.Fatal("no retry after the last attempt")
			return nil
		},
	}
	acks := &settleRecorder{}
	h.handle(context.Background(), discardLogger(), delivery(t, acks, maxAttempts-1))

	assert.Equal(t, 1, acks.nacks)
	assert.False(t, acks.requeued)
	assert.Zero(t, acks.acks)
}
