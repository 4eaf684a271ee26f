package document

import (
	"context"
	"sync"

	"walletd/internal/logger"
	"walletd/internal/models"
)

type consumer struct {
	countWorkers    int
	documentService documentService
	logger          logger.Logger
}

func (c *consumer) consume(ctx context.Context, in <-chan models.Document) <-chan struct{} {
	idleStopped := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < c.countWorkers; i++ {
		wg.Add(1)
		go func() {
			c.worker(ctx, in)
			wg.Done()
		}()
	}

	go func() {
		defer close(idleStopped)
		wg.Wait()
		c.logger.Debug("Consumer stopped")
	}()

	return idleStopped
}

func (c *consumer) worker(ctx context.Context, in <-chan models.Document) {
	for {
		select {
		case <-ctx.Done():
			return

		case document, ok := <-in:
			if !ok {
				c.logger.Debug("Consumer worker stopped, input channel closed")
				return
			}

			// No real generation is modeled yet: pending documents simply complete.
			// A ripe document may be sent by two consecutive producer ticks,
			// completing it twice is harmless
			_, err := c.documentService.SetStatus(ctx, document.ID, models.DocumentStatusCompleted)
			if err != nil {
				c.logger.Error("Failed to complete document", "error", err, "document_id", document.ID)
				continue
			}

			c.logger.Info("Document completed", "document_id", document.ID, "name", document.Name)
		}
	}
}
