package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSQS struct {
	inputs []*sqs.SendMessageInput
}

func (f *fakeSQS) SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	f.inputs = append(f.inputs, params)
	return &sqs.SendMessageOutput{MessageId: aws.String("m-1")}, nil
}

func TestSQSHandlerEnvelope(t *testing.T) {
	fake := &fakeSQS{}
	handler := newSQSHandlerWithAPI(fake, "https://sqs.local/agenda-events")

	entry := OutboxEntry{
		ID:        uuid.New(),
		Type:      "appointment.booked.v1",
		Payload:   json.RawMessage(`{"cita_id":"cita-1"}`),
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, handler.Handle(context.Background(), entry))
	require.Len(t, fake.inputs, 1)
	assert.Equal(t, "https://sqs.local/agenda-events", aws.ToString(fake.inputs[0].QueueUrl))

	var env envelope
	require.NoError(t, json.Unmarshal([]byte(aws.ToString(fake.inputs[0].MessageBody)), &env))
	assert.Equal(t, entry.ID.String(), env.EventID)
	assert.Equal(t, "appointment.booked.v1", env.Type)
	assert.JSONEq(t, `{"cita_id":"cita-1"}`, string(env.Payload))
}

func TestNewSQSHandlerGuards(t *testing.T) {
	assert.Panics(t, func() { NewSQSHandler(nil, "url") })
	assert.Panics(t, func() { NewSQSHandler(sqs.New(sqs.Options{}), "") })
}
