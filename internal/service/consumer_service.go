package service

import (
	"context"
	"encoding/json"
	"log"

	"notekeeper-be/internal/dto"
	"notekeeper-be/internal/repository/memory"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains cache invalidation messages from the in-process bus
// and drops the affected user's cached read models.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	queryCache *memory.QueryCache
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	queryCache *memory.QueryCache,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		queryCache: queryCache,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
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

func (cs *consumerService) processMessage(msg *message.Message) {
	var payload dto.InvalidateCacheMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal invalidation message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	cs.queryCache.InvalidateUser(payload.UserId)
	msg.Ack()
}
