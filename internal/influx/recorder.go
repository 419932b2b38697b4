package influx

import (
	"context"
	"strings"
	"time"

	influxdb2_write "github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/scorelect/drillboard/internal/export"
	"github.com/scorelect/drillboard/internal/queue"
	"github.com/scorelect/drillboard/pkg/core"
)

// Measurement names.
const (
	MeasurementPage   = "export_page"
	MeasurementExport = "export"
)

// MaxPending bounds the points held between flushes.
const MaxPending = 1000

// Recorder buffers export timings and writes them when an export finishes.
type Recorder struct {
	m       *Manager
	bucket  string
	pending *queue.Queue[*influxdb2_write.Point]
	now     func() time.Time
}

var _ export.Recorder = (*Recorder)(nil)

// NewRecorder writes to the manager's configured bucket.
func NewRecorder(m *Manager) *Recorder {
	return &Recorder{
		m:       m,
		bucket:  m.cfg.Bucket,
		pending: queue.NewBounded[*influxdb2_write.Point](MaxPending),
		now:     time.Now,
	}
}

// tags lower-cases sport and orientation so series don't split on spelling.
func tags(doc *core.Document) map[string]string {
	return map[string]string{
		"document":    doc.ID,
		"sport":       strings.ToLower(string(doc.Sport)),
		"orientation": strings.ToLower(string(doc.Orientation)),
	}
}

// RecordPage queues the timing of one captured page.
func (r *Recorder) RecordPage(_ context.Context, doc *core.Document, stat export.PageStat) {
	p := influxdb2_write.NewPoint(MeasurementPage, tags(doc), map[string]interface{}{
		"page":     stat.Index,
		"width":    stat.Width,
		"height":   stat.Height,
		"duration": stat.Duration.Seconds(),
	}, r.now())
	if n := r.pending.Push(p); n > 0 {
		r.m.Logger.Warn().Int("dropped", n).Msg("Export timing buffer full")
	}
}

// RecordExport queues the export summary and flushes everything pending.
func (r *Recorder) RecordExport(_ context.Context, doc *core.Document, pages int, took time.Duration, err error) {
	fields := map[string]interface{}{
		"pages":    pages,
		"duration": took.Seconds(),
		"ok":       err == nil,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	r.pending.Push(influxdb2_write.NewPoint(MeasurementExport, tags(doc), fields, r.now()))
	r.Flush()
}

// Flush writes pending points and returns how many were written.
func (r *Recorder) Flush() int {
	written := 0
	for _, p := range r.pending.Drain() {
		if err := r.m.WritePoint(r.bucket, p); err != nil {
			r.m.Logger.Error().Err(err).Str("measurement", p.Name()).Msg("Failed to write point")
			continue
		}
		written++
	}
	return written
}
