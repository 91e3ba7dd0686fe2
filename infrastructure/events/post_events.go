package events

import (
	"context"
	"encoding/json"

	"cloud.google.com/go/pubsub"

	"social-hub/domain/model"
	"social-hub/infrastructure/logger"
)

// IPostEvents publishes terminal post records for downstream consumers
// (analytics, notifications). Publishing is best effort and never affects
// the publish response.
type IPostEvents interface {
	PublishPostSettled(ctx context.Context, post *model.Post) error
}

type PostEvents struct {
	client *pubsub.Client
	topic  string
}

func NewPostEvents(client *pubsub.Client, topic string) IPostEvents {
	if topic == "" {
		topic = "post-events"
	}
	return &PostEvents{client: client, topic: topic}
}

func (e *PostEvents) PublishPostSettled(ctx context.Context, post *model.Post) error {
	if e.client == nil {
		return nil
	}
	payload, err := json.Marshal(post)
	if err != nil {
		return err
	}

	topic := e.client.Topic(e.topic)
	exists, err := topic.Exists(ctx)
	if err != nil {
		return err
	}
	if !exists {
		if _, err = e.client.CreateTopic(ctx, e.topic); err != nil {
			return err
		}
	}

	serverID, err := topic.Publish(ctx, &pubsub.Message{Data: payload}).Get(ctx)
	if err != nil {
		return err
	}
	logger.GetLogger().WithField("server_id", serverID).WithField("post_id", post.ID).Debug("post event published")
	return nil
}
