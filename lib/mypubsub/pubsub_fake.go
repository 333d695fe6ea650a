package mypubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/MarcGrol/printshop/lib/myevents"
)

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") == "" {
		New = func(c context.Context) (PubSub, func(), error) {
			return NewFakePubSub(), func() {}, nil
		}
	}
}

type Message struct {
	Topic string
	Data  string
}

// FakePubSub keeps published messages in memory. Nothing is pushed: tests replay PushRequests themselves.
type FakePubSub struct {
	sync.Mutex
	topics        map[string]bool
	subscriptions map[string][]string
	messages      []Message
}

func NewFakePubSub() *FakePubSub {
	return &FakePubSub{
		topics:        map[string]bool{},
		subscriptions: map[string][]string{},
	}
}

func (ps *FakePubSub) Subscribe(c context.Context, topic string, urlToPostTo string) error {
	ps.Lock()
	defer ps.Unlock()

	ps.topics[topic] = true
	ps.subscriptions[topic] = append(ps.subscriptions[topic], urlToPostTo)
	return nil
}

func (ps *FakePubSub) CreateTopic(c context.Context, topic string) error {
	ps.Lock()
	defer ps.Unlock()

	ps.topics[topic] = true
	return nil
}

func (ps *FakePubSub) Publish(c context.Context, topic string, data string) error {
	ps.Lock()
	defer ps.Unlock()

	ps.messages = append(ps.messages, Message{Topic: topic, Data: data})
	return nil
}

func (ps *FakePubSub) Messages() []Message {
	ps.Lock()
	defer ps.Unlock()

	return append([]Message{}, ps.messages...)
}

func (ps *FakePubSub) HasTopic(topic string) bool {
	ps.Lock()
	defer ps.Unlock()

	return ps.topics[topic]
}

func (ps *FakePubSub) Subscriptions(topic string) []string {
	ps.Lock()
	defer ps.Unlock()

	return append([]string{}, ps.subscriptions[topic]...)
}

// PushRequests returns the bodies pubsub would have posted to the subscribers of topic.
func (ps *FakePubSub) PushRequests(topic string) ([][]byte, error) {
	ps.Lock()
	defer ps.Unlock()

	bodies := [][]byte{}
	for idx, msg := range ps.messages {
		if msg.Topic != topic {
			continue
		}
		body, err := json.Marshal(myevents.PushRequest{
			Message: myevents.PushMessage{
				Data: []byte(msg.Data),
				ID:   fmt.Sprintf("%d", idx+1),
			},
			Subscription: topic,
		})
		if err != nil {
			return nil, err
		}
		bodies = append(bodies, body)
	}
	return bodies, nil
}
