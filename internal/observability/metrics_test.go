package observability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"

	"github.com/signalsfoundry/prepoint/model"
)

func TestObserveParseAndLock(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewPointingCollector(reg)
	if err != nil {
		t.Fatalf("NewPointingCollector: %v", err)
	}

	collector.ObserveParse("latitude", true)
	collector.ObserveParse("latitude", false)
	collector.ObserveParse("latitude", false)
	collector.ObserveLock("site", true)

	if got := testutil.ToFloat64(collector.Parses.WithLabelValues("latitude", "invalid")); got != 2 {
		t.Fatalf("prepoint_parse_total invalid = %v, want 2", got)
	}
	if got := testutil.ToFloat64(collector.Locked.WithLabelValues("site")); got != 1 {
		t.Fatalf("prepoint_locked{site} = %v, want 1", got)
	}

	collector.ObserveLock("site", false)
	if got := testutil.ToFloat64(collector.Locked.WithLabelValues("site")); got != 0 {
		t.Fatalf("prepoint_locked{site} = %v, want 0", got)
	}
	if got := testutil.ToFloat64(collector.LockTransitions.WithLabelValues("site", "unlocked")); got != 1 {
		t.Fatalf("prepoint_lock_transitions_total unlocked = %v, want 1", got)
	}
}

func TestObserveMoveRecordsDirectionAndDuration(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewPointingCollector(reg)
	if err != nil {
		t.Fatalf("NewPointingCollector: %v", err)
	}

	collector.ObserveMove(model.MoveDelta{Azimuth: model.AzimuthRight, Altitude: model.AltitudeNone}, 2*time.Millisecond)

	if got := testutil.ToFloat64(collector.Moves.WithLabelValues("right", "none")); got != 1 {
		t.Fatalf("prepoint_moves_total = %v, want 1", got)
	}
	if count := histogramSampleCount(t, reg, "prepoint_compute_duration_seconds", nil); count != 1 {
		t.Fatalf("prepoint_compute_duration_seconds sample_count = %d, want 1", count)
	}
}

func TestRegisteringTwiceReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewPointingCollector(reg)
	if err != nil {
		t.Fatalf("NewPointingCollector: %v", err)
	}
	second, err := NewPointingCollector(reg)
	if err != nil {
		t.Fatalf("second NewPointingCollector: %v", err)
	}
	first.ObserveParse("declination", true)
	if got := testutil.ToFloat64(second.Parses.WithLabelValues("declination", "ok")); got != 1 {
		t.Fatalf("shared counter = %v, want 1", got)
	}
}

func TestWriteTextExposesMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewPointingCollector(reg)
	if err != nil {
		t.Fatalf("NewPointingCollector: %v", err)
	}
	collector.ObserveParse("right_ascension", true)
	collector.ObserveLock("target", true)
	collector.ObserveMove(model.MoveDelta{Azimuth: model.AzimuthLeft, Altitude: model.AltitudeRaise}, time.Microsecond)

	var buf bytes.Buffer
	if err := collector.WriteText(&buf); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	body := buf.String()
	for _, metric := range []string{
		"prepoint_parse_total",
		"prepoint_lock_transitions_total",
		"prepoint_moves_total",
		"prepoint_compute_duration_seconds",
		"prepoint_locked",
	} {
		if !strings.Contains(body, metric) {
			t.Fatalf("expected %q in text output:\n%s", metric, body)
		}
	}
	if !strings.Contains(body, `prepoint_moves_total{altitude="raise",azimuth="left"} 1`) {
		t.Fatalf("move sample missing from text output:\n%s", body)
	}
}

func TestNilCollectorIsSafe(t *testing.T) {
	var c *PointingCollector
	c.ObserveParse("latitude", true)
	c.ObserveLock("site", true)
	c.ObserveMove(model.MoveDelta{}, time.Second)
}

func histogramSampleCount(t *testing.T, gatherer prometheus.Gatherer, name string, labels map[string]string) uint64 {
	t.Helper()

	metrics, err := gatherer.Gather()
	if err != nil {
		t.Fatalf("gather metrics: %v", err)
	}
	for _, mf := range metrics {
		if mf.GetName() != name {
			continue
		}
		for _, m := range mf.Metric {
			if matchLabels(m.GetLabel(), labels) && m.GetHistogram() != nil {
				return m.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func matchLabels(got []*dto.LabelPair, want map[string]string) bool {
	if len(got) < len(want) {
		return false
	}
	matched := 0
	for _, lp := range got {
		if val, ok := want[lp.GetName()]; ok && val == lp.GetValue() {
			matched++
		}
	}
	return matched == len(want)
}
