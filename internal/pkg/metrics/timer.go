package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// VecTimer times a single operation and observes the duration on a
// labeled Observer chosen when the timer is stopped.
type VecTimer struct {
	vec   prometheus.ObserverVec
	start time.Time
}

// NewVecTimer returns a new VecTimer, started now.
func NewVecTimer(vec prometheus.ObserverVec) *VecTimer {
	return &VecTimer{
		vec:   vec,
		start: time.Now(),
	}
}

// ObserveWith observes the elapsed duration with the given labels.
func (t *VecTimer) ObserveWith(labels prometheus.Labels) {
	t.vec.With(labels).Observe(time.Since(t.start).Seconds())
}

// ObserveErr observes the elapsed duration with the status label
// set from err.
//
//   timer := NewVecTimer(vec)
//   defer func() { timer.ObserveErr(err) }()
func (t *VecTimer) ObserveErr(err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	t.ObserveWith(prometheus.Labels{LabelStatus: status})
}
