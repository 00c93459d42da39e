package eventbus

import (
	"context"

	"github.com/dmhouse/wallet-api/internal/domain"
	"github.com/dmhouse/wallet-api/pkg/logger"
)

// SnapshotSink receives serialized store state. The file-backed
// implementation lives in internal/storage.
type SnapshotSink interface {
	Save(data []byte) error
}

// SnapshotConsumer persists the full store snapshot whenever wallet
// state changes. It runs on a single worker: snapshots taken for
// consecutive events supersede each other, and a lone writer keeps the
// file from interleaving.
type SnapshotConsumer struct {
	repo   domain.Repository
	sink   SnapshotSink
	logger *logger.Logger
}

func NewSnapshotConsumer(repo domain.Repository, sink SnapshotSink, log *logger.Logger) *SnapshotConsumer {
	return &SnapshotConsumer{
		repo:   repo,
		sink:   sink,
		logger: log,
	}
}

func (c *SnapshotConsumer) Consume(ctx context.Context, event Event) error {
	data, err := c.repo.Snapshot(ctx)
	if err != nil {
		c.logger.Error(ctx, "Failed to serialize state",
			"event_id", event.ID,
			"error", err,
		)
		return err
	}

	if err := c.sink.Save(data); err != nil {
		c.logger.Error(ctx, "Failed to persist snapshot",
			"event_id", event.ID,
			"error", err,
		)
		return err
	}

	c.logger.Debug(ctx, "Snapshot persisted",
		"event_id", event.ID,
		"bytes", len(data),
	)

	return nil
}

func (c *SnapshotConsumer) WorkerCount() int {
	return 1
}
