package document

import (
	"context"
	"time"

	"github.com/google/uuid"

	"walletd/internal/logger"
	"walletd/internal/models"
)

const (
	defaultCountWorkers    = 4               // Number of workers completing documents
	defaultProduceInterval = 1 * time.Second // Interval for scanning pending documents
	defaultCompletionDelay = 3 * time.Second // A document stays pending at least this long
	defaultBatchSize       = 100
)

type documentService interface {
	SetStatus(ctx context.Context, documentID uuid.UUID, status string) (models.Document, error)
	ListPendingCreatedBefore(ctx context.Context, createdBefore time.Time, limit int) ([]models.Document, error)
}

type ProcessorConfig struct {
	// How long a document stays 'pending' before it completes
	// If not set then default is used
	CompletionDelay time.Duration

	// Worker pool size and scan cadence
	// If not set then defaults are used
	CountWorkers    int
	ProduceInterval time.Duration
	BatchSize       int
}

// Processor completes pending documents after a delay
// The documents table is the queue: state survives restarts, and the
// whole unit is cancellable through its context
type Processor struct {
	consumer *consumer
	producer *producer
}

func NewProcessor(cfg ProcessorConfig, documentService documentService, logger logger.Logger) *Processor {
	if cfg.CompletionDelay == 0 {
		cfg.CompletionDelay = defaultCompletionDelay
	}
	if cfg.CountWorkers == 0 {
		cfg.CountWorkers = defaultCountWorkers
	}
	if cfg.ProduceInterval == 0 {
		cfg.ProduceInterval = defaultProduceInterval
	}
	if cfg.BatchSize == 0 {
		cfg.BatchSize = defaultBatchSize
	}

	return &Processor{
		consumer: &consumer{
			countWorkers:    cfg.CountWorkers,
			documentService: documentService,
			logger:          logger,
		},
		producer: &producer{
			interval:        cfg.ProduceInterval,
			delay:           cfg.CompletionDelay,
			batchSize:       cfg.BatchSize,
			documentService: documentService,
			logger:          logger,
		},
	}
}

// Process starts the producer and the workers
// Returned channel is closed when everything stopped after context cancellation
func (p *Processor) Process(ctx context.Context) <-chan struct{} {
	idleStopped := make(chan struct{})

	documentChan := make(chan models.Document)

	producerStopped := p.producer.produce(ctx, documentChan)
	consumerStopped := p.consumer.consume(ctx, documentChan)

	go func() {
		defer close(idleStopped)
		defer close(documentChan)
		<-producerStopped
		<-consumerStopped
		p.consumer.logger.Debug("Document processor stopped")
	}()

	return idleStopped
}
