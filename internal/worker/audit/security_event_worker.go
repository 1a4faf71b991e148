package audit

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/elastiquality-search/internal/domain"
	"github.com/elastiquality-search/internal/domain/repository"
	"github.com/elastiquality-search/internal/worker"
)

const (
	defaultBatchSize = 50
	emptyQueueSleep  = 200 * time.Millisecond
	errorBackoff     = time.Second
)

// EventArchiver - сохранение событий из стрима и ротация архива
type EventArchiver interface {
	ArchiveMessages(ctx context.Context, messages []domain.StreamMessage) ([]string, error)
	PurgeExpired(ctx context.Context) (int64, error)
}

// Options - параметры SecurityEventWorker, приходят из config.WorkerConfig
type Options struct {
	ConsumerGroup string
	BatchSize     int
	MaxRetries    int
	PurgeSchedule string
}

// SecurityEventWorker переносит события из stream:security:events в Postgres
// и по расписанию удаляет устаревшие записи
type SecurityEventWorker struct {
	*worker.BaseWorker
	streamRepo   repository.StreamRepository
	archiver     EventArchiver
	consumerName string
	batchSize    int
	maxRetries   int
	schedule     string
	cron         *cron.Cron

	// drainPending - сначала перечитать свой pending список (старт, ошибка архивации или ack)
	drainPending bool
}

var _ worker.Worker = (*SecurityEventWorker)(nil)

func NewSecurityEventWorker(
	streamRepo repository.StreamRepository,
	archiver EventArchiver,
	opts Options,
	logger *zap.Logger,
) *SecurityEventWorker {
	hostname, _ := os.Hostname()

	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultBatchSize
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}

	return &SecurityEventWorker{
		BaseWorker:   worker.NewBaseWorker("security-event-archiver", opts.ConsumerGroup, logger),
		streamRepo:   streamRepo,
		archiver:     archiver,
		consumerName: fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		batchSize:    opts.BatchSize,
		maxRetries:   opts.MaxRetries,
		schedule:     opts.PurgeSchedule,
		drainPending: true,
	}
}

// Start создаёт consumer group, запускает cron-ротацию и читает стрим до остановки
func (w *SecurityEventWorker) Start(ctx context.Context) error {
	logger := w.Logger()
	logger.Info("Starting SecurityEventWorker",
		zap.String("consumer_group", w.ConsumerGroup()),
		zap.String("consumer_name", w.consumerName),
		zap.Int("batch_size", w.batchSize))

	if err := w.streamRepo.CreateConsumerGroup(ctx, domain.StreamSecurityEvents, w.ConsumerGroup()); err != nil {
		return fmt.Errorf("failed to create consumer group: %w", err)
	}

	if err := w.startPurgeSchedule(ctx); err != nil {
		return err
	}
	defer w.stopPurgeSchedule()

	for {
		select {
		case <-w.StopChan():
			logger.Info("Worker stopped")
			return nil
		case <-ctx.Done():
			logger.Info("Context cancelled")
			return ctx.Err()
		default:
		}

		processed, err := w.ProcessBatch(ctx)
		if err != nil {
			logger.Error("Failed to process batch", zap.Error(err))
			w.Sleep(ctx, errorBackoff)
			continue
		}
		if processed == 0 {
			w.Sleep(ctx, emptyQueueSleep)
		}
	}
}

// ProcessBatch читает одну пачку сообщений, архивирует и подтверждает их.
// Пока у consumer есть неподтверждённые сообщения, читаются они, а не новые.
// Возвращает число прочитанных сообщений.
func (w *SecurityEventWorker) ProcessBatch(ctx context.Context) (int, error) {
	messages, err := w.nextBatch(ctx)
	if err != nil {
		return 0, err
	}
	if len(messages) == 0 {
		return 0, nil
	}

	ackIDs, err := w.archiveWithRetry(ctx, messages)
	if err != nil {
		// сообщения остаются в pending списке и будут перечитаны следующей пачкой
		w.drainPending = true
		return 0, err
	}

	if err := w.streamRepo.AckMessages(ctx, domain.StreamSecurityEvents, w.ConsumerGroup(), ackIDs); err != nil {
		// повторная вставка тех же ID игнорируется, так что повтор безопасен
		w.Logger().Warn("Failed to ack archived events", zap.Error(err))
		w.drainPending = true
	}

	w.Logger().Debug("Batch archived",
		zap.Int("read", len(messages)),
		zap.Int("acked", len(ackIDs)))

	return len(messages), nil
}

func (w *SecurityEventWorker) nextBatch(ctx context.Context) ([]domain.StreamMessage, error) {
	if w.drainPending {
		pending, err := w.streamRepo.ConsumePending(ctx,
			domain.StreamSecurityEvents,
			w.ConsumerGroup(),
			w.consumerName,
			w.batchSize,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to read pending batch: %w", err)
		}
		if len(pending) > 0 {
			w.Logger().Info("Re-reading pending events", zap.Int("count", len(pending)))
			return pending, nil
		}
		w.drainPending = false
	}

	messages, err := w.streamRepo.ConsumeBatch(ctx,
		domain.StreamSecurityEvents,
		w.ConsumerGroup(),
		w.consumerName,
		w.batchSize,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to consume batch: %w", err)
	}
	return messages, nil
}

func (w *SecurityEventWorker) archiveWithRetry(ctx context.Context, messages []domain.StreamMessage) ([]string, error) {
	var lastErr error
	for attempt := 0; attempt <= w.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt) * errorBackoff
			w.Logger().Warn("Retrying archive",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff),
				zap.Error(lastErr))
			if !w.Sleep(ctx, backoff) {
				return nil, lastErr
			}
		}

		ackIDs, err := w.archiver.ArchiveMessages(ctx, messages)
		if err == nil {
			return ackIDs, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("archive failed after %d attempts: %w", w.maxRetries+1, lastErr)
}

func (w *SecurityEventWorker) startPurgeSchedule(ctx context.Context) error {
	if w.schedule == "" {
		w.Logger().Info("Purge schedule disabled")
		return nil
	}

	w.cron = cron.New()
	_, err := w.cron.AddFunc(w.schedule, func() {
		w.runPurge(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalid purge schedule %q: %w", w.schedule, err)
	}

	w.cron.Start()
	w.Logger().Info("Purge schedule started", zap.String("schedule", w.schedule))
	return nil
}

func (w *SecurityEventWorker) stopPurgeSchedule() {
	if w.cron == nil {
		return
	}
	<-w.cron.Stop().Done()
}

func (w *SecurityEventWorker) runPurge(ctx context.Context) {
	deleted, err := w.archiver.PurgeExpired(ctx)
	if err != nil {
		w.Logger().Error("Failed to purge expired security events", zap.Error(err))
		return
	}
	w.Logger().Debug("Purge finished", zap.Int64("deleted", deleted))
}
