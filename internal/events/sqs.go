package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// sqsAPI is the subset of the SQS client the handler uses.
type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// envelope is the wire form of one delivered event.
type envelope struct {
	EventID string          `json:"event_id"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// SQSHandler delivers outbox entries to an SQS queue.
type SQSHandler struct {
	client   sqsAPI
	queueURL string
}

// NewSQSHandler creates the delivery handler.
func NewSQSHandler(client *sqs.Client, queueURL string) *SQSHandler {
	if client == nil {
		panic("events: SQS client cannot be nil")
	}
	if queueURL == "" {
		panic("events: SQS queueURL cannot be empty")
	}
	return &SQSHandler{client: client, queueURL: queueURL}
}

func newSQSHandlerWithAPI(client sqsAPI, queueURL string) *SQSHandler {
	return &SQSHandler{client: client, queueURL: queueURL}
}

// Handle implements DeliveryHandler.
func (h *SQSHandler) Handle(ctx context.Context, entry OutboxEntry) error {
	body, err := json.Marshal(envelope{
		EventID: entry.ID.String(),
		Type:    entry.Type,
		Payload: entry.Payload,
	})
	if err != nil {
		return fmt.Errorf("events: marshal envelope: %w", err)
	}
	_, err = h.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(h.queueURL),
		MessageBody: aws.String(string(body)),
	})
	if err != nil {
		return fmt.Errorf("events: send SQS message: %w", err)
	}
	return nil
}
