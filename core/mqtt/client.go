package mqtt

import "context"

// Publisher sends preview results to an MQTT broker.
type Publisher interface {
	// Publish sends payload, encoded as JSON, to topic.
	Publish(ctx context.Context, topic string, payload any) error
	// Topic returns the full topic for a preview run.
	Topic(runID string) string
	Disconnect()
}
