package main

import (
	"fmt"
	"io"
	"time"

	"github.com/soniakeys/sexagesimal"
	"github.com/soniakeys/unit"

	"github.com/signalsfoundry/prepoint/angle"
	"github.com/signalsfoundry/prepoint/model"
	"github.com/signalsfoundry/prepoint/session"
)

const degreeSign = "°"

func lockLabel(locked bool) string {
	if locked {
		return "locked"
	}
	return "unlocked"
}

func field(r session.FieldReadback) string {
	if !r.Valid {
		return fmt.Sprintf("%-14s %s", session.NoData, session.NoData)
	}
	return fmt.Sprintf("%-14s %s%s", r.Sexagesimal, r.Decimal, degreeSign)
}

func writeReadbacks(w io.Writer, s *session.Session) {
	site := s.SiteReadback()
	fmt.Fprintf(w, "site      [%s]\n", lockLabel(site.Locked))
	fmt.Fprintf(w, "  lon     %s\n", field(site.Longitude))
	fmt.Fprintf(w, "  lat     %s\n", field(site.Latitude))

	target := s.TargetReadback()
	fmt.Fprintf(w, "target    [%s]\n", lockLabel(target.Locked))
	fmt.Fprintf(w, "  ra      %s\n", field(target.RA))
	fmt.Fprintf(w, "  dec     %s\n", field(target.Dec))
	event := session.NoData
	switch {
	case target.Target != nil:
		event = target.Target.EventAt.Format(time.RFC3339)
	case target.EventTime.Valid:
		event = target.EventTime.At.Format(time.RFC3339)
	}
	fmt.Fprintf(w, "  event   %s\n", event)
	if target.AtEvent != nil {
		fmt.Fprintf(w, "  at event  az %s%s  alt %s%s\n",
			angle.FormatHorizontal(target.AtEvent.AzimuthDeg), degreeSign,
			angle.FormatHorizontal(target.AtEvent.AltitudeDeg), degreeSign)
	}

	plate := s.PlateReadback()
	image := session.NoData
	if plate.ImageTaken {
		image = plate.ImageAt.Format(time.RFC3339)
	}
	fmt.Fprintf(w, "plate     [%s] image %s\n", plate.Source, image)
	fmt.Fprintf(w, "  ra      %s\n", field(plate.RA))
	fmt.Fprintf(w, "  dec     %s\n", field(plate.Dec))
	if plate.Rotation != nil {
		fmt.Fprintf(w, "  rot     %.2f%s\n", *plate.Rotation, degreeSign)
	}
	if p := plate.Plate; p != nil {
		fmt.Fprintf(w, "  sky     %v %v\n",
			sexa.FmtRA(unit.RA(unit.AngleFromDeg(p.RADeg).Rad())),
			sexa.FmtAngle(unit.AngleFromDeg(p.DecDeg)))
	}
}

func writeMove(w io.Writer, report model.MoveReport) {
	fmt.Fprintf(w, "scope now az %s%s  alt %s%s\n",
		angle.FormatHorizontal(report.Now.AzimuthDeg), degreeSign,
		angle.FormatHorizontal(report.Now.AltitudeDeg), degreeSign)
	fmt.Fprintf(w, "at event  az %s%s  alt %s%s\n",
		angle.FormatHorizontal(report.Target.AzimuthDeg), degreeSign,
		angle.FormatHorizontal(report.Target.AltitudeDeg), degreeSign)

	d := report.Delta
	fmt.Fprintf(w, "move      %s\n", axis(d.Azimuth.String(), d.Azimuth == model.AzimuthNone, d.AzimuthMagnitude()))
	fmt.Fprintf(w, "          %s\n", axis(d.Altitude.String(), d.Altitude == model.AltitudeNone, d.AltitudeMagnitude()))

	if report.Rotation != nil {
		fmt.Fprintf(w, "camera    %s\n", rotation(*report.Rotation))
	}
}

func axis(label string, none bool, magnitude float64) string {
	if none {
		return label
	}
	return fmt.Sprintf("%-6s %s%s", label, angle.FormatHorizontal(magnitude), degreeSign)
}

func rotation(r model.RotationAdvice) string {
	if r.Direction == model.RotationNone {
		return "(Do not turn camera.)"
	}
	return fmt.Sprintf("Turn camera %s by %.2f%s", r.Direction, r.MagnitudeDeg, degreeSign)
}
