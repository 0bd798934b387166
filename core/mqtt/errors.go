package mqtt

import "errors"

var (
	// ErrPublishFailed is returned when a message could not be delivered after all retries.
	ErrPublishFailed = errors.New("mqtt publish failed")
	// ErrNotConnected is returned when publishing without a broker connection.
	ErrNotConnected = errors.New("mqtt client not connected")
)
