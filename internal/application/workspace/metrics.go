package workspace

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "termdeck/workspace"

// Metrics holds the coordinator's instruments. A nil *Metrics records nothing.
type Metrics struct {
	TickDuration metric.Float64Histogram
	OpenPanes    metric.Int64UpDownCounter
	CwdFollows   metric.Int64Counter
	Commands     metric.Int64Counter
}

// NewMetrics creates the instruments on meter, or on the global provider when
// meter is nil. Without a registered provider the instruments are no-ops.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(meterName)
	}
	m := &Metrics{}
	var err error

	m.TickDuration, err = meter.Float64Histogram("workspace.tick.duration",
		metric.WithDescription("Time spent in one workspace tick"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}

	m.OpenPanes, err = meter.Int64UpDownCounter("workspace.panes.open",
		metric.WithDescription("Number of open panes partitioned by kind"),
		metric.WithUnit("{pane}"))
	if err != nil {
		return nil, err
	}

	m.CwdFollows, err = meter.Int64Counter("workspace.cwd_follow.total",
		metric.WithDescription("Number of times the browser root followed a terminal's directory"))
	if err != nil {
		return nil, err
	}

	m.Commands, err = meter.Int64Counter("workspace.commands.total",
		metric.WithDescription("Workspace commands applied, partitioned by action"))
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordTick records the duration of one tick.
func (m *Metrics) RecordTick(ctx context.Context, d time.Duration) {
	if m == nil {
		return
	}
	m.TickDuration.Record(ctx, float64(d)/float64(time.Millisecond))
}

// PaneOpened counts a pane of the given kind.
func (m *Metrics) PaneOpened(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.OpenPanes.Add(ctx, 1, metric.WithAttributes(attribute.String("pane.kind", kind)))
}

// PaneClosed uncounts a pane of the given kind.
func (m *Metrics) PaneClosed(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.OpenPanes.Add(ctx, -1, metric.WithAttributes(attribute.String("pane.kind", kind)))
}

// RecordCwdFollow counts one browser re-root.
func (m *Metrics) RecordCwdFollow(ctx context.Context) {
	if m == nil {
		return
	}
	m.CwdFollows.Add(ctx, 1)
}

// RecordCommand counts one applied command.
func (m *Metrics) RecordCommand(ctx context.Context, action string) {
	if m == nil {
		return
	}
	m.Commands.Add(ctx, 1, metric.WithAttributes(attribute.String("action", action)))
}
