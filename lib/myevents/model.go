package myevents

import (
	"encoding/json"
	"fmt"
	"io"
	"time"
)

type EventEnvelope struct {
	UID           string
	CreatedAt     time.Time
	Topic         string
	AggregateUID  string
	EventTypeName string
	EventPayload  string
}

func (e EventEnvelope) String() string {
	return e.Topic + "." + e.EventTypeName + "." + e.AggregateUID
}

type Event interface {
	GetEventTypeName() string
	GetAggregateName() string
}

// ParseEventEnvelope decodes an envelope as it travels over pubsub.
func ParseEventEnvelope(data []byte) (EventEnvelope, error) {
	envlp := EventEnvelope{}
	err := json.Unmarshal(data, &envlp)
	if err != nil {
		return EventEnvelope{}, fmt.Errorf("error parsing envelope:%s", err)
	}

	return envlp, nil
}

// PushRequest is the body pubsub posts to a push subscription endpoint.
type PushRequest struct {
	Message      PushMessage
	Subscription string
}

type PushMessage struct {
	Attributes map[string]string
	Data       []byte
	ID         string `json:"message_id"`
}

// ParsePushRequest decodes the envelope carried by a push request.
func ParsePushRequest(r io.Reader) (EventEnvelope, error) {
	msg := PushRequest{}
	err := json.NewDecoder(r).Decode(&msg)
	if err != nil {
		return EventEnvelope{}, fmt.Errorf("error parsing push-request:%s", err)
	}

	return ParseEventEnvelope(msg.Message.Data)
}
