package pushsender

import (
	"context"
)

// PushMessage describes one push notification addressed to a set of device
// tokens.
type PushMessage struct {
	Title    string
	Body     string
	Tokens   []string
	Data     map[string]string
	ImageURL *string
}

// SendResult reports how the provider handled each token in the batch.
type SendResult struct {
	SuccessCount int
	FailureCount int
	FailedTokens []string
}

// Sender delivers push notifications. A nil Sender in the dispatcher means
// push delivery is disabled.
type Sender interface {
	Send(ctx context.Context, msg PushMessage) (*SendResult, error)
	Ping(ctx context.Context) error
}
