// Package dedupe marks processed messages so handlers with external side
// effects stay idempotent under at-least-once delivery.
//
// Handlers check Seen before acting and call Mark after the side effect
// succeeds. A crash between the two can still produce one duplicate effect;
// marking first would instead lose effects on handler failure, which is the
// worse trade for an at-least-once pipeline.
package dedupe

import "context"

// Store records which message ids have been fully processed.
type Store interface {
	Seen(ctx context.Context, id string) (bool, error)
	Mark(ctx context.Context, id string) error
}
