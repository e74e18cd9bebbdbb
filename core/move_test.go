package core

import (
	"testing"
	"time"

	"github.com/signalsfoundry/prepoint/model"
)

func TestMoveAzimuth(t *testing.T) {
	tests := []struct {
		name          string
		from, to      float64
		wantDelta     float64
		wantDir       model.AzimuthDirection
		wantMagnitude float64
	}{
		{"upper bound is not corrected", 10, 350, 340, model.AzimuthRight, 340},
		{"lower bound wraps", 350, 10, 20, model.AzimuthRight, 20},
		{"plain left", 100, 50, -50, model.AzimuthLeft, 50},
		{"plain right", 50, 100, 50, model.AzimuthRight, 50},
		{"exactly half turn right", 10, 190, 180, model.AzimuthRight, 180},
		{"exactly half turn left", 190, 10, -180, model.AzimuthLeft, 180},
		{"no move", 123.4, 123.4, 0, model.AzimuthNone, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Move(model.HorizontalPosition{AzimuthDeg: tt.from}, model.HorizontalPosition{AzimuthDeg: tt.to})
			if d.AzimuthDeg != tt.wantDelta {
				t.Fatalf("AzimuthDeg = %v, want %v", d.AzimuthDeg, tt.wantDelta)
			}
			if d.Azimuth != tt.wantDir {
				t.Fatalf("Azimuth = %v, want %v", d.Azimuth, tt.wantDir)
			}
			if d.AzimuthMagnitude() != tt.wantMagnitude {
				t.Fatalf("AzimuthMagnitude = %v, want %v", d.AzimuthMagnitude(), tt.wantMagnitude)
			}
		})
	}
}

func TestMoveAltitude(t *testing.T) {
	tests := []struct {
		from, to  float64
		wantDir   model.AltitudeDirection
		wantDelta float64
	}{
		{30, 20, model.AltitudeLower, -10},
		{20, 30, model.AltitudeRaise, 10},
		{45, 45, model.AltitudeNone, 0},
		{-5, 85, model.AltitudeRaise, 90},
	}
	for _, tt := range tests {
		d := Move(model.HorizontalPosition{AltitudeDeg: tt.from}, model.HorizontalPosition{AltitudeDeg: tt.to})
		if d.AltitudeDeg != tt.wantDelta || d.Altitude != tt.wantDir {
			t.Errorf("Move alt %v -> %v = %v %v, want %v %v", tt.from, tt.to, d.Altitude, d.AltitudeDeg, tt.wantDir, tt.wantDelta)
		}
	}
	d := Move(model.HorizontalPosition{AltitudeDeg: 30}, model.HorizontalPosition{AltitudeDeg: 20})
	if d.AltitudeMagnitude() != 10.0 {
		t.Fatalf("AltitudeMagnitude = %v, want 10", d.AltitudeMagnitude())
	}
}

func TestDirectionLabels(t *testing.T) {
	if model.AzimuthLeft.String() != "LEFT" || model.AzimuthRight.String() != "RIGHT" {
		t.Fatalf("azimuth labels wrong")
	}
	if model.AltitudeLower.String() != "LOWER" || model.AltitudeRaise.String() != "RAISE" {
		t.Fatalf("altitude labels wrong")
	}
	if model.AzimuthNone.String() != "(ok now)" || model.AltitudeNone.String() != "(ok now)" {
		t.Fatalf("no-move labels wrong")
	}
}

func TestCameraRotation(t *testing.T) {
	tests := []struct {
		rot  float64
		want model.RotationDirection
	}{
		{1.52, model.RotationCCW},
		{-1.52, model.RotationCW},
		{1.0, model.RotationNone},
		{-0.4, model.RotationNone},
		{0, model.RotationNone},
	}
	for _, tt := range tests {
		got := CameraRotation(tt.rot, DefaultRotationToleranceDeg)
		if got.Direction != tt.want {
			t.Errorf("CameraRotation(%v) = %v, want %v", tt.rot, got.Direction, tt.want)
		}
		if got.MagnitudeDeg < 0 {
			t.Errorf("CameraRotation(%v) magnitude %v is negative", tt.rot, got.MagnitudeDeg)
		}
	}
}

func TestPlan(t *testing.T) {
	site := model.ObserverSite{LongitudeDeg: -105.5, LatitudeDeg: 32.9}
	imageAt := time.Date(2026, time.October, 17, 3, 4, 5, 0, time.UTC)
	plate := model.PlateSolution{RADeg: 83.8, DecDeg: -5.4, ImageAt: imageAt}
	target := model.Target{RADeg: 88.8, DecDeg: 7.4, EventAt: imageAt.Add(40 * time.Minute)}

	report := Plan(site, target, plate, DefaultRotationToleranceDeg)

	wantNow := AzimuthAltitude(-105.5, 32.9, 83.8, -5.4, imageAt)
	wantAt := AzimuthAltitude(-105.5, 32.9, 88.8, 7.4, target.EventAt)
	if report.Now != wantNow || report.Target != wantAt {
		t.Fatalf("Plan positions = %+v / %+v, want %+v / %+v", report.Now, report.Target, wantNow, wantAt)
	}
	if report.Delta != Move(wantNow, wantAt) {
		t.Fatalf("Plan delta = %+v", report.Delta)
	}
	if report.Rotation != nil {
		t.Fatalf("Rotation = %+v, want nil for a manual plate", report.Rotation)
	}

	plate.RotationDeg, plate.HasRotation = -3, true
	report = Plan(site, target, plate, DefaultRotationToleranceDeg)
	if report.Rotation == nil || report.Rotation.Direction != model.RotationCW || report.Rotation.MagnitudeDeg != 3 {
		t.Fatalf("Rotation = %+v, want CW 3", report.Rotation)
	}
}
