package session

import (
	"time"

	"github.com/signalsfoundry/prepoint/angle"
	"github.com/signalsfoundry/prepoint/core"
	"github.com/signalsfoundry/prepoint/model"
)

// NoData is shown in place of a readback whose text does not parse.
const NoData = "---"

// FieldReadback is the validity and normalized renderings of one live
// angle text.
type FieldReadback struct {
	Text        string
	Valid       bool
	Degrees     float64
	Sexagesimal string
	Decimal     string
}

// TimeReadback is the validity and resolved instant of the event
// time-of-day text.
type TimeReadback struct {
	Text  string
	Valid bool
	At    time.Time
}

// SiteReadback describes the site area.
type SiteReadback struct {
	Longitude FieldReadback
	Latitude  FieldReadback
	Locked    bool
	// Site is the locked snapshot, nil while unlocked.
	Site *model.ObserverSite
}

// TargetReadback describes the target area.
type TargetReadback struct {
	RA        FieldReadback
	Dec       FieldReadback
	EventTime TimeReadback
	Locked    bool
	// Target is the locked snapshot, nil while unlocked.
	Target *model.Target
	// AtEvent is the target's horizontal position at the event instant.
	// It needs a locked site and a target that is locked or fully valid.
	AtEvent *model.HorizontalPosition
}

// PlateReadback describes the plate solution area.
type PlateReadback struct {
	RA         FieldReadback
	Dec        FieldReadback
	ImageTaken bool
	ImageAt    time.Time
	Source     model.PlateSource
	// Rotation is the field rotation of an imported SharpCap block.
	Rotation *float64
	// Plate is the solution Move would use, nil until it is complete.
	Plate *model.PlateSolution
}

func readField(text string, role angle.Role, places int) FieldReadback {
	r := FieldReadback{Text: text, Sexagesimal: NoData, Decimal: NoData}
	deg, err := angle.Parse(text, role)
	if err != nil {
		return r
	}
	sexa, err := angle.Format(deg, role, places)
	if err != nil {
		return r
	}
	r.Valid = true
	r.Degrees = deg
	r.Sexagesimal = sexa
	r.Decimal = angle.FormatDecimal(deg)
	return r
}

// SiteReadback renders the live site texts and the lock state.
func (s *Session) SiteReadback() SiteReadback {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r := SiteReadback{
		Longitude: readField(s.longitudeText, angle.Longitude, s.secondsPlaces),
		Latitude:  readField(s.latitudeText, angle.Latitude, s.secondsPlaces),
		Locked:    s.siteLocked,
	}
	if s.siteLocked {
		site := s.site
		r.Site = &site
	}
	return r
}

// TargetReadback renders the live target texts, the lock state and, once
// the site is locked, where the target will stand at the event instant.
// An unlocked event time is resolved against the clock's now.
func (s *Session) TargetReadback() TargetReadback {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r := TargetReadback{
		RA:        readField(s.raText, angle.RightAscension, s.secondsPlaces),
		Dec:       readField(s.decText, angle.Declination, s.secondsPlaces),
		EventTime: TimeReadback{Text: s.eventText},
		Locked:    s.targetLocked,
	}
	if at, err := angle.NextOccurrence(s.eventText, s.clock.Now()); err == nil {
		r.EventTime.Valid = true
		r.EventTime.At = at
	}

	var target model.Target
	switch {
	case s.targetLocked:
		target = s.target
		r.Target = &target
	case r.RA.Valid && r.Dec.Valid && r.EventTime.Valid:
		target = model.Target{RADeg: r.RA.Degrees, DecDeg: r.Dec.Degrees, EventAt: r.EventTime.At}
	default:
		return r
	}
	if s.siteLocked {
		pos := core.SiteAzimuthAltitude(s.site, target.RADeg, target.DecDeg, target.EventAt)
		r.AtEvent = &pos
	}
	return r
}

// PlateReadback renders the live plate texts, the captured image time and,
// when everything is present, the assembled plate solution.
func (s *Session) PlateReadback() PlateReadback {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r := PlateReadback{
		RA:         readField(s.plateRAText, angle.RightAscension, s.secondsPlaces),
		Dec:        readField(s.plateDecText, angle.Declination, s.secondsPlaces),
		ImageTaken: s.imageTaken,
		ImageAt:    s.imageAt,
		Source:     s.plateSource,
	}
	if s.hasRotation {
		rot := s.rotationDeg
		r.Rotation = &rot
	}
	if plate, missing := s.plateSolution(); missing == nil {
		r.Plate = &plate
	}
	return r
}
