package service

import (
	"context"

	"ei-coach-be/internal/pkg/logger"
	"ei-coach-be/pkg/blob"
	"ei-coach-be/pkg/vecindex"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IPersistConsumerService interface {
	Consume(ctx context.Context) error
}

// persistConsumerService writes the current index snapshot to the blob store
// whenever an ingest completes. A failed write is Nacked so the broker
// redelivers; the in-memory index keeps serving either way.
type persistConsumerService struct {
	pubSub    *gochannel.GoChannel
	topicName string
	handle    *vecindex.Handle
	store     blob.Store
	location  string
	logger    logger.ILogger
}

func NewPersistConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	handle *vecindex.Handle,
	store blob.Store,
	location string,
	log logger.ILogger,
) IPersistConsumerService {
	return &persistConsumerService{
		pubSub:    pubSub,
		topicName: topicName,
		handle:    handle,
		store:     store,
		location:  location,
		logger:    log,
	}
}

func (cs *persistConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(msg)
		}
	}()

	return nil
}

func (cs *persistConsumerService) processMessage(msg *message.Message) {
	ix := cs.handle.Snapshot()
	if ix == nil {
		cs.logger.Warn("persist", "No index to persist, acking", nil)
		msg.Ack()
		return
	}

	if err := vecindex.Persist(ix, cs.store, cs.location); err != nil {
		cs.logger.Error("persist", "Failed to persist index snapshot", map[string]interface{}{
			"error":    err.Error(),
			"location": cs.location,
		})
		msg.Nack() // Nack for retriable errors
		return
	}

	cs.logger.Info("persist", "Index snapshot persisted", map[string]interface{}{
		"location": cs.location,
		"chunks":   ix.Len(),
	})
	msg.Ack()
}
