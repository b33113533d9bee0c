package app

import (
	"fmt"
	"time"
)

// Metrics tracks frame timing for one run of the loop.
type Metrics struct {
	frames         uint64
	suspended      uint64
	total          time.Duration
	min, max, last time.Duration
	updateFailures uint64
	renderFailures uint64
}

// RecordFrame records the duration of one loop iteration.
func (m *Metrics) RecordFrame(d time.Duration) {
	if m.frames == 0 || d < m.min {
		m.min = d
	}
	if d > m.max {
		m.max = d
	}
	m.frames++
	m.total += d
	m.last = d
}

// RecordSuspended counts a frame in which the game was not updated.
func (m *Metrics) RecordSuspended() {
	m.suspended++
}

// RecordFailure counts a failed update or render.
func (m *Metrics) RecordFailure(phase string) {
	switch phase {
	case "update":
		m.updateFailures++
	case "render":
		m.renderFailures++
	}
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	*m = Metrics{}
}

// Snapshot returns a point-in-time view of the metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	s := MetricsSnapshot{
		FrameCount:      m.frames,
		SuspendedFrames: m.suspended,
		MinFrameTime:    m.min,
		MaxFrameTime:    m.max,
		LastFrameTime:   m.last,
		UpdateFailures:  m.updateFailures,
		RenderFailures:  m.renderFailures,
	}
	if m.frames > 0 {
		s.AvgFrameTime = m.total / time.Duration(m.frames)
	}
	return s
}

// MetricsSnapshot is a point-in-time view of metrics.
type MetricsSnapshot struct {
	FrameCount      uint64
	SuspendedFrames uint64
	AvgFrameTime    time.Duration
	MinFrameTime    time.Duration
	MaxFrameTime    time.Duration
	LastFrameTime   time.Duration
	UpdateFailures  uint64
	RenderFailures  uint64
}

// AvgFPS returns the average frames per second.
func (s MetricsSnapshot) AvgFPS() float64 {
	if s.AvgFrameTime == 0 {
		return 0
	}
	return float64(time.Second) / float64(s.AvgFrameTime)
}

// String summarizes the snapshot on one line.
func (s MetricsSnapshot) String() string {
	return fmt.Sprintf("%d frames (%d suspended), frame time avg %s min %s max %s, %.1f fps",
		s.FrameCount, s.SuspendedFrames, s.AvgFrameTime, s.MinFrameTime, s.MaxFrameTime, s.AvgFPS())
}
