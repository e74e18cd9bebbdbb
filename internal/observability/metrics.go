package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"

	"github.com/signalsfoundry/prepoint/model"
)

// PointingCollector bundles Prometheus metrics for a pointing session: text
// parses, lock transitions, and computed moves.
type PointingCollector struct {
	gatherer prometheus.Gatherer

	Parses          *prometheus.CounterVec
	LockTransitions *prometheus.CounterVec
	Moves           *prometheus.CounterVec
	ComputeDuration prometheus.Histogram
	Locked          *prometheus.GaugeVec
}

// NewPointingCollector registers pointing metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewPointingCollector(reg prometheus.Registerer) (*PointingCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	parses := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prepoint_parse_total",
		Help: "Angle and time texts parsed, labeled by role and result (ok or invalid).",
	}, []string{"role", "result"})
	parses, err := registerCounterVec(reg, parses, "prepoint_parse_total")
	if err != nil {
		return nil, err
	}

	locks := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prepoint_lock_transitions_total",
		Help: "Lock state changes, labeled by entity (site or target) and new state.",
	}, []string{"entity", "to"})
	locks, err = registerCounterVec(reg, locks, "prepoint_lock_transitions_total")
	if err != nil {
		return nil, err
	}

	moves := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "prepoint_moves_total",
		Help: "Computed scope moves, labeled by azimuth and altitude direction.",
	}, []string{"azimuth", "altitude"})
	moves, err = registerCounterVec(reg, moves, "prepoint_moves_total")
	if err != nil {
		return nil, err
	}

	duration, err := registerHistogram(reg, prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "prepoint_compute_duration_seconds",
		Help:    "Time spent computing both horizontal positions and the move between them.",
		Buckets: []float64{0.00001, 0.00005, 0.0001, 0.0005, 0.001, 0.005, 0.01},
	}), "prepoint_compute_duration_seconds")
	if err != nil {
		return nil, err
	}

	locked, err := registerGaugeVec(reg, prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "prepoint_locked",
		Help: "1 while the entity is locked, 0 otherwise.",
	}, []string{"entity"}), "prepoint_locked")
	if err != nil {
		return nil, err
	}

	return &PointingCollector{
		gatherer:        gatherer,
		Parses:          parses,
		LockTransitions: locks,
		Moves:           moves,
		ComputeDuration: duration,
		Locked:          locked,
	}, nil
}

// ObserveParse records one parse of role's text.
func (c *PointingCollector) ObserveParse(role string, ok bool) {
	if c == nil || c.Parses == nil {
		return
	}
	result := "ok"
	if !ok {
		result = "invalid"
	}
	c.Parses.WithLabelValues(role, result).Inc()
}

// ObserveLock records a lock or unlock of entity.
func (c *PointingCollector) ObserveLock(entity string, locked bool) {
	if c == nil {
		return
	}
	to, v := "unlocked", 0.0
	if locked {
		to, v = "locked", 1.0
	}
	if c.LockTransitions != nil {
		c.LockTransitions.WithLabelValues(entity, to).Inc()
	}
	if c.Locked != nil {
		c.Locked.WithLabelValues(entity).Set(v)
	}
}

// ObserveMove records a computed move and how long it took.
func (c *PointingCollector) ObserveMove(d model.MoveDelta, elapsed time.Duration) {
	if c == nil {
		return
	}
	if c.Moves != nil {
		c.Moves.WithLabelValues(directionLabel(d.Azimuth.String()), directionLabel(d.Altitude.String())).Inc()
	}
	if c.ComputeDuration != nil {
		c.ComputeDuration.Observe(elapsed.Seconds())
	}
}

// WriteText dumps every gathered metric family in the Prometheus text
// exposition format.
func (c *PointingCollector) WriteText(w io.Writer) error {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metric family %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func directionLabel(s string) string {
	if s == model.AzimuthNone.String() {
		return "none"
	}
	return strings.ToLower(s)
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogram(reg prometheus.Registerer, h prometheus.Histogram, name string) (prometheus.Histogram, error) {
	if err := reg.Register(h); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Histogram); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return h, nil
}

func registerGaugeVec(reg prometheus.Registerer, vec *prometheus.GaugeVec, name string) (*prometheus.GaugeVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.GaugeVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}
