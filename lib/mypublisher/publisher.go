package mypublisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/MarcGrol/printshop/lib/myevents"
	"github.com/MarcGrol/printshop/lib/mylog"
	"github.com/MarcGrol/printshop/lib/mypubsub"
	"github.com/MarcGrol/printshop/lib/mytime"
)

type publisher struct {
	pubsub    mypubsub.PubSub
	enveloper enveloper
	logger    mylog.Logger
}

func New(pubsub mypubsub.PubSub, nower mytime.Nower) *publisher {
	return &publisher{
		pubsub:    pubsub,
		enveloper: newEnveloper(nower),
		logger:    mylog.New("publisher"),
	}
}

func (p *publisher) CreateTopic(c context.Context, topicName string) error {
	return p.pubsub.CreateTopic(c, topicName)
}

func (p *publisher) Publish(c context.Context, topic string, event myevents.Event) error {
	envelope, err := p.enveloper.do(topic, event)
	if err != nil {
		return fmt.Errorf("error creating envelope: %s", err)
	}

	jsonBytes, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("error serializing envelope: %s", err)
	}

	err = p.pubsub.Publish(c, envelope.Topic, string(jsonBytes))
	if err != nil {
		return fmt.Errorf("error publishing event %s: %s", envelope.String(), err)
	}

	p.logger.Log(c, envelope.AggregateUID, mylog.SeverityInfo, "Published event %s.%s on topic %s", envelope.EventTypeName, envelope.AggregateUID, envelope.Topic)

	return nil
}
