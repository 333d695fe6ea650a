package mypubsub

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"
	"time"

	"cloud.google.com/go/pubsub"
)

type gcloudPubSub struct {
	sync.Mutex
	client *pubsub.Client
	topics map[string]*pubsub.Topic
}

func init() {
	if os.Getenv("GOOGLE_CLOUD_PROJECT") != "" {
		New = newGcloudPubSub
	}
}

func newGcloudPubSub(c context.Context) (PubSub, func(), error) {
	client, err := pubsub.NewClient(c, os.Getenv("GOOGLE_CLOUD_PROJECT"))
	if err != nil {
		return nil, func() {}, err
	}
	return &gcloudPubSub{
			client: client,
			topics: map[string]*pubsub.Topic{},
		}, func() {
			client.Close()
		}, nil
}

func (ps *gcloudPubSub) CreateTopic(c context.Context, topicName string) error {
	topic := ps.client.Topic(topicName)
	exists, err := topic.Exists(c)
	if err != nil {
		return fmt.Errorf("error checking if topic %s exists: %s", topicName, err)
	}

	if !exists {
		topic, err = ps.client.CreateTopic(c, topicName)
		if err != nil {
			return fmt.Errorf("error creating topic %s: %s", topicName, err)
		}
	}

	ps.Lock()
	ps.topics[topicName] = topic
	ps.Unlock()

	return nil
}

func (ps *gcloudPubSub) Subscribe(c context.Context, topicName string, urlToPostTo string) error {
	err := ps.CreateTopic(c, topicName)
	if err != nil {
		return err
	}

	subscriptionID, err := subscriptionName(topicName, urlToPostTo)
	if err != nil {
		return err
	}

	subscription := ps.client.Subscription(subscriptionID)
	exists, err := subscription.Exists(c)
	if err != nil {
		return fmt.Errorf("error checking if subscription %s exists: %s", subscriptionID, err)
	}
	if exists {
		return nil
	}

	_, err = ps.client.CreateSubscription(c, subscriptionID, pubsub.SubscriptionConfig{
		Topic: ps.client.Topic(topicName),
		PushConfig: pubsub.PushConfig{
			Endpoint: urlToPostTo,
		},
		AckDeadline:       time.Second * 10,
		RetentionDuration: time.Hour * 24,
		ExpirationPolicy:  time.Duration(0),
	})
	if err != nil {
		return fmt.Errorf("error subscribing to topic %s: %s", topicName, err)
	}

	return nil
}

// subscriptionName gives every endpoint its own subscription on a topic.
func subscriptionName(topicName string, urlToPostTo string) (string, error) {
	u, err := url.Parse(urlToPostTo)
	if err != nil {
		return "", fmt.Errorf("error parsing push url %s: %s", urlToPostTo, err)
	}
	path := strings.ReplaceAll(strings.Trim(u.Path, "/"), "/", "-")
	if path == "" {
		return topicName, nil
	}
	return topicName + "-" + path, nil
}

func (ps *gcloudPubSub) Publish(c context.Context, topicName string, data string) error {
	ps.Lock()
	topic, found := ps.topics[topicName]
	if !found {
		topic = ps.client.Topic(topicName)
		ps.topics[topicName] = topic
	}
	ps.Unlock()

	_, err := topic.Publish(c, &pubsub.Message{Data: []byte(data)}).Get(c)
	if err != nil {
		return fmt.Errorf("error publishing event on topic %s: %s", topicName, err)
	}

	return nil
}
