package document

import (
	"context"
	"time"

	"walletd/internal/logger"
	"walletd/internal/models"
)

type producer struct {
	interval        time.Duration
	delay           time.Duration
	batchSize       int
	documentService documentService
	logger          logger.Logger
}

// produce scans for ripe pending documents and feeds them to the workers
func (p *producer) produce(ctx context.Context, out chan<- models.Document) <-chan struct{} {
	idleStopped := make(chan struct{})
	p.logger.Debug("Starting producer", "interval", p.interval, "delay", p.delay, "batch_size", p.batchSize)

	go func() {
		defer close(idleStopped)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				p.logger.Debug("Producer stopped by context")
				return

			case <-ticker.C:
				createdBefore := time.Now().Add(-p.delay)
				documents, err := p.documentService.ListPendingCreatedBefore(ctx, createdBefore, p.batchSize)
				if err != nil {
					p.logger.Error("Failed to list pending documents", "error", err)
					continue
				}

				for _, document := range documents {
					select {
					case <-ctx.Done():
						p.logger.Debug("Producer stopped by context while sending documents")
						return
					case out <- document:
						p.logger.Debug("Document sent to channel", "documentID", document.ID)
					}
				}
			}
		}
	}()

	return idleStopped
}
