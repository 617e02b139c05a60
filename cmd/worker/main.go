package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/suPer8Hu/paper-explorer/internal/config"
	"github.com/suPer8Hu/paper-explorer/internal/db"
	"github.com/suPer8Hu/paper-explorer/internal/quiz"
	"github.com/suPer8Hu/paper-explorer/internal/store/rabbitmq"
)

const (
	maxAttempts  = 3
	retryDelay   = 5 * time.Second
	storeTimeout = 10 * time.Second
)

func main() {
	cfg := config.Load()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("worker stopped", "err", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	gdb, err := db.Open(db.Options{Driver: cfg.DBDriver, DSN: cfg.DBDSN})
	if err != nil {
		return err
	}
	defer db.Close(gdb)

	repo := quiz.NewRepo(gdb)

	conn, err := amqp.Dial(cfg.RabbitURL)
	if err != nil {
		return err
	}
	defer conn.Close()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := rabbitmq.DeclareTopology(ch, cfg.RabbitQueue); err != nil {
		return err
	}

	//  strict concurrency control
	concurrency := cfg.WorkerConcurrency
	if err := ch.Qos(concurrency, 0, false); err != nil {
		return err
	}

	msgs, err := ch.Consume(cfg.RabbitQueue, "", false, false, false, false, nil)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("worker started", "queue", cfg.RabbitQueue, "concurrency", concurrency)

	// worker pool
	jobs := make(chan amqp.Delivery, concurrency*2)
	// retries publish on the shared channel
	var pubMu sync.Mutex
	h := &handler{
		store: repo,
		retry: func(ctx context.Context, d amqp.Delivery) error {
			pubMu.Lock()
			defer pubMu.Unlock()
			return rabbitmq.Retry(ctx, ch, cfg.RabbitQueue, d, retryDelay)
		},
	}

	var wg sync.WaitGroup
	wg.Add(concurrency)
	for i := 0; i < concurrency; i++ {
		go func(workerID int) {
			defer wg.Done()
			log := logger.With("worker", workerID)
			for d := range jobs {
				h.handle(ctx, log, d)
			}
		}(i)
	}

	// dispatcher
	for {
		select {
		case <-ctx.Done():
			logger.Info("worker shutting down")
			close(jobs)
			wg.Wait()
			return nil

		case d, ok := <-msgs:
			if !ok {
				logger.Warn("delivery channel closed")
				close(jobs)
				wg.Wait()
				return nil
			}
			jobs <- d
		}
	}
}

type resultStore interface {
	Insert(ctx context.Context, r *quiz.Result) error
}

type handler struct {
	store resultStore
	retry func(ctx context.Context, d amqp.Delivery) error
}

// handle settles exactly one delivery. Jobs still buffered when shutdown
// starts are processed in full, so store and retry calls run on a context
// detached from the shutdown signal and bounded by storeTimeout.
func (h *handler) handle(ctx context.Context, log *slog.Logger, d amqp.Delivery) {
	res, err := rabbitmq.DecodeResult(d.Body)
	if err != nil {
		log.Warn("bad message", "message_id", d.MessageId, "err", err)
		_ = d.Nack(false, false)
		return
	}

	opCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), storeTimeout)
	defer cancel()

	start := time.Now()
	if err := h.store.Insert(opCtx, res); err != nil {
		attempt := rabbitmq.Attempts(d) + 1
		log.Error("store quiz result failed", "ref", res.Ref, "attempt", attempt, "cost", time.Since(start), "err", err)
		if attempt >= maxAttempts {
			_ = d.Nack(false, false)
			return
		}
		if rerr := h.retry(opCtx, d); rerr != nil {
			log.Error("schedule retry failed", "ref", res.Ref, "err", rerr)
			_ = d.Nack(false, false)
			return
		}
		_ = d.Ack(false)
		return
	}

	if err := d.Ack(false); err != nil {
		log.Error("ack failed", "ref", res.Ref, "err", err)
		return
	}
	log.Debug("quiz result stored", "ref", res.Ref, "user_id", res.UserID, "cost", time.Since(start))
}
