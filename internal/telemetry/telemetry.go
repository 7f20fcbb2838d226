// Package telemetry publishes the end-of-run stats report to external
// observers. Publishing is always best-effort: a sink failure is logged
// and never turns a clean scheduler run into a failed one.
package telemetry

import (
	"context"

	"github.com/vk/flowgrid/internal/stats"
)

// Sink is a destination the final stats report is published to.
type Sink interface {
	Publish(ctx context.Context, report stats.Report) error
}

// PublishAll publishes report to every sink, logging (via the caller's
// onError) any failure without stopping at the first one, so a
// misbehaving sink never hides a report from the others.
func PublishAll(ctx context.Context, sinks []Sink, report stats.Report, onError func(Sink, error)) {
	for _, s := range sinks {
		if err := s.Publish(ctx, report); err != nil && onError != nil {
			onError(s, err)
		}
	}
}
