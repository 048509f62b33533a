package outbox

import (
	"time"
)

// Message is an event waiting to be published to RabbitMQ. Rows are written
// in the same transaction as the state change they announce and removed once
// the broker accepts them.
type Message struct {
	ID           int64
	ExchangeName string
	RoutingKey   string
	Payload      []byte
	ContentType  string
	RetryCount   int
	MaxRetries   int
	LastError    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
	NextRetryAt  time.Time
}
