package consumer

import (
	"context"
	"log/slog"
)

// Router dispatches messages to topic-specific handlers. Use this when a
// group consumes from multiple topics.
type Router struct {
	handlers map[string]Handler
	logger   *slog.Logger
}

func NewRouter(logger *slog.Logger) *Router {
	return &Router{
		handlers: make(map[string]Handler),
		logger:   logger,
	}
}

// Register adds a handler for a specific topic.
func (r *Router) Register(topic string, handler Handler) {
	r.handlers[topic] = handler
}

// Handle routes the message to the registered topic handler. Messages for
// unregistered topics are acknowledged and skipped so they do not block the
// partition.
func (r *Router) Handle(ctx context.Context, msg *Message) error {
	handler, ok := r.handlers[msg.Topic]
	if !ok {
		r.logger.Warn("no handler for topic, skipping message",
			"topic", msg.Topic,
			"key", string(msg.Key),
		)
		return nil
	}
	return handler.Handle(ctx, msg)
}

// Chain runs handlers in order; the first error stops the chain and leaves
// the message unacknowledged.
func Chain(handlers ...Handler) Handler {
	return HandlerFunc(func(ctx context.Context, msg *Message) error {
		for _, handler := range handlers {
			if err := handler.Handle(ctx, msg); err != nil {
				return err
			}
		}
		return nil
	})
}
