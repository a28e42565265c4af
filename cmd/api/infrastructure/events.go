package infrastructure

import (
	"fmt"

	"go.uber.org/zap"

	"user-auth-service/internal/adapter/events"
	"user-auth-service/internal/config"
)

// NewEventPublisher connects to the broker when events are enabled and
// returns a no-op publisher otherwise.
func NewEventPublisher(cfg *config.Config, l *zap.Logger) (events.Publisher, error) {
	if !cfg.Events.Enabled {
		l.Info("user events disabled")
		return events.NopPublisher{}, nil
	}

	p, err := events.NewAMQPPublisher(cfg.Events.AMQPURL, cfg.Events.Queue, l)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to AMQP broker: %w", err)
	}
	return p, nil
}
