// Package session holds one operator's pointing session: the live text for
// the observer site, the target and the plate solution, the lock state of
// site and target, and the move computed from them on request.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/signalsfoundry/prepoint/angle"
	"github.com/signalsfoundry/prepoint/core"
	"github.com/signalsfoundry/prepoint/internal/logging"
	"github.com/signalsfoundry/prepoint/internal/observability"
	"github.com/signalsfoundry/prepoint/model"
	"github.com/signalsfoundry/prepoint/platesolve"
	"github.com/signalsfoundry/prepoint/timectrl"
)

var (
	// ErrPrecondition is returned when an action is refused in the current
	// state: locking with invalid text, locking twice, or unlocking when not
	// locked.
	ErrPrecondition = errors.New("precondition not met")
	// ErrNotReady is returned by Move until the site and target are locked,
	// an image time has been captured and both plate texts parse.
	ErrNotReady = errors.New("move inputs incomplete")
)

// Entity names the two lockable parts of a session.
type Entity string

const (
	EntitySite   Entity = "site"
	EntityTarget Entity = "target"
)

// MetricsRecorder receives session activity. *observability.PointingCollector
// satisfies it.
type MetricsRecorder interface {
	ObserveParse(role string, ok bool)
	ObserveLock(entity string, locked bool)
	ObserveMove(d model.MoveDelta, elapsed time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) ObserveParse(string, bool)                  {}
func (noopMetrics) ObserveLock(string, bool)                   {}
func (noopMetrics) ObserveMove(model.MoveDelta, time.Duration) {}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the time source for target locking and plate capture.
func WithClock(c timectrl.Clock) Option {
	return func(s *Session) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(l logging.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.log = l
		}
	}
}

// WithMetricsRecorder wires a metrics sink into the session.
func WithMetricsRecorder(m MetricsRecorder) Option {
	return func(s *Session) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithRotationTolerance sets how much field rotation is accepted before the
// move report advises turning the camera.
func WithRotationTolerance(deg float64) Option {
	return func(s *Session) {
		if deg >= 0 {
			s.rotationTolerance = deg
		}
	}
}

// WithSecondsPlaces sets the seconds decimals of degree readbacks.
func WithSecondsPlaces(places int) Option {
	return func(s *Session) {
		if places >= 0 {
			s.secondsPlaces = places
		}
	}
}

// WithID overrides the generated session ID.
func WithID(id string) Option {
	return func(s *Session) {
		if id != "" {
			s.id = id
		}
	}
}

// Session is an in-memory, thread-safe pointing session.
type Session struct {
	mu sync.RWMutex

	id                string
	clock             timectrl.Clock
	log               logging.Logger
	metrics           MetricsRecorder
	rotationTolerance float64
	secondsPlaces     int

	longitudeText string
	latitudeText  string
	siteLocked    bool
	site          model.ObserverSite

	raText       string
	decText      string
	eventText    string
	eventAt      time.Time // last resolution of eventText, zero when invalid
	targetLocked bool
	target       model.Target

	plateRAText  string
	plateDecText string
	imageAt      time.Time
	imageTaken   bool
	plateSource  model.PlateSource
	rotationDeg  float64
	hasRotation  bool

	subs []func(Event)
}

// New constructs an empty, fully unlocked session.
func New(opts ...Option) *Session {
	s := &Session{
		id:                uuid.NewString(),
		clock:             timectrl.SystemClock{},
		log:               logging.Noop(),
		metrics:           noopMetrics{},
		rotationTolerance: core.DefaultRotationToleranceDeg,
		secondsPlaces:     angle.DefaultSecondsPlaces,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logging.String("session_id", s.id))
	if n, ok := s.clock.(timectrl.Notifier); ok {
		n.AddListener(s.clockMoved)
	}
	return s
}

// ID returns the session identifier attached to logs and spans.
func (s *Session) ID() string { return s.id }

// ---- Live text ----

// SetLongitudeText replaces the live longitude text and reports whether it
// parses. A locked site is not affected.
func (s *Session) SetLongitudeText(text string) error {
	return s.setText(&s.longitudeText, text, angle.Longitude)
}

// SetLatitudeText replaces the live latitude text.
func (s *Session) SetLatitudeText(text string) error {
	return s.setText(&s.latitudeText, text, angle.Latitude)
}

// SetTargetRAText replaces the live target right ascension text.
func (s *Session) SetTargetRAText(text string) error {
	return s.setText(&s.raText, text, angle.RightAscension)
}

// SetTargetDecText replaces the live target declination text.
func (s *Session) SetTargetDecText(text string) error {
	return s.setText(&s.decText, text, angle.Declination)
}

// SetEventTimeText replaces the live event time-of-day text ("HH:MM:SS",
// UTC). The text is resolved to an instant when the target is locked.
func (s *Session) SetEventTimeText(text string) error {
	s.mu.Lock()
	s.eventText = text
	at, err := angle.NextOccurrence(text, s.clock.Now())
	s.eventAt = at
	s.mu.Unlock()

	s.metrics.ObserveParse("event_time", err == nil)
	return err
}

// clockMoved re-resolves an unlocked event time against the clock's new
// now. Subscribers hear about it only when the resolved instant changes,
// which happens once the event time of day has passed.
func (s *Session) clockMoved(now time.Time) {
	s.mu.Lock()
	if s.targetLocked {
		s.mu.Unlock()
		return
	}
	at, _ := angle.NextOccurrence(s.eventText, now)
	if at.Equal(s.eventAt) {
		s.mu.Unlock()
		return
	}
	s.eventAt = at
	subs := s.subscribers()
	s.mu.Unlock()

	notify(subs, Event{Type: EventEventTimeChanged, SessionID: s.id})
}

func (s *Session) setText(field *string, text string, role angle.Role) error {
	s.mu.Lock()
	*field = text
	s.mu.Unlock()

	_, err := angle.Parse(text, role)
	s.metrics.ObserveParse(role.String(), err == nil)
	return err
}

// ---- Site lock cycle ----

// LockSite snapshots the live longitude and latitude. It is refused when
// the site is already locked or either text does not parse.
func (s *Session) LockSite(ctx context.Context) (model.ObserverSite, error) {
	s.mu.Lock()
	if s.siteLocked {
		s.mu.Unlock()
		return model.ObserverSite{}, fmt.Errorf("%w: site already locked", ErrPrecondition)
	}
	lon, lonErr := angle.Parse(s.longitudeText, angle.Longitude)
	lat, latErr := angle.Parse(s.latitudeText, angle.Latitude)
	if err := errors.Join(lonErr, latErr); err != nil {
		s.mu.Unlock()
		s.log.Debug(ctx, "site lock refused", logging.Err(err))
		return model.ObserverSite{}, fmt.Errorf("%w: %w", ErrPrecondition, err)
	}
	s.site = model.ObserverSite{LongitudeDeg: lon, LatitudeDeg: lat}
	s.siteLocked = true
	site := s.site
	subs := s.subscribers()
	s.mu.Unlock()

	s.metrics.ObserveLock(string(EntitySite), true)
	s.log.Info(ctx, "site locked",
		logging.Float("longitude_deg", site.LongitudeDeg),
		logging.Float("latitude_deg", site.LatitudeDeg),
	)
	notify(subs, Event{Type: EventSiteLocked, SessionID: s.id})
	return site, nil
}

// UnlockSite returns the site to the unlocked state. Live text is kept; any
// previously computed move is no longer valid.
func (s *Session) UnlockSite(ctx context.Context) error {
	return s.unlock(ctx, EntitySite)
}

// ---- Target lock cycle ----

// LockTarget snapshots the live target RA and Dec and resolves the event
// time-of-day to its next occurrence after the clock's now.
func (s *Session) LockTarget(ctx context.Context) (model.Target, error) {
	s.mu.Lock()
	if s.targetLocked {
		s.mu.Unlock()
		return model.Target{}, fmt.Errorf("%w: target already locked", ErrPrecondition)
	}
	ra, raErr := angle.Parse(s.raText, angle.RightAscension)
	dec, decErr := angle.Parse(s.decText, angle.Declination)
	at, atErr := angle.NextOccurrence(s.eventText, s.clock.Now())
	if err := errors.Join(raErr, decErr, atErr); err != nil {
		s.mu.Unlock()
		s.log.Debug(ctx, "target lock refused", logging.Err(err))
		return model.Target{}, fmt.Errorf("%w: %w", ErrPrecondition, err)
	}
	s.target = model.Target{RADeg: ra, DecDeg: dec, EventAt: at}
	s.targetLocked = true
	target := s.target
	subs := s.subscribers()
	s.mu.Unlock()

	s.metrics.ObserveLock(string(EntityTarget), true)
	s.log.Info(ctx, "target locked",
		logging.Float("ra_deg", target.RADeg),
		logging.Float("dec_deg", target.DecDeg),
		logging.String("event_at", target.EventAt.Format(time.RFC3339)),
	)
	notify(subs, Event{Type: EventTargetLocked, SessionID: s.id})
	return target, nil
}

// UnlockTarget returns the target to the unlocked state.
func (s *Session) UnlockTarget(ctx context.Context) error {
	return s.unlock(ctx, EntityTarget)
}

func (s *Session) unlock(ctx context.Context, entity Entity) error {
	s.mu.Lock()
	var locked *bool
	var ev EventType
	switch entity {
	case EntitySite:
		locked, ev = &s.siteLocked, EventSiteUnlocked
	case EntityTarget:
		locked, ev = &s.targetLocked, EventTargetUnlocked
	default:
		s.mu.Unlock()
		return fmt.Errorf("%w: unknown entity %q", ErrPrecondition, entity)
	}
	if !*locked {
		s.mu.Unlock()
		return fmt.Errorf("%w: %s not locked", ErrPrecondition, entity)
	}
	*locked = false
	subs := s.subscribers()
	s.mu.Unlock()

	s.metrics.ObserveLock(string(entity), false)
	s.log.Info(ctx, string(entity)+" unlocked")
	notify(subs,
		Event{Type: ev, SessionID: s.id},
		Event{Type: EventMoveInvalidated, SessionID: s.id},
	)
	return nil
}

// ---- Plate solution ----

// CaptureImageTime stamps the image instant with the clock's now. It is
// pressed when the reference image is taken; the plate RA and Dec arrive
// later, once the image has been solved.
func (s *Session) CaptureImageTime(ctx context.Context) time.Time {
	s.mu.Lock()
	s.imageAt = s.clock.Now()
	s.imageTaken = true
	s.dropImport()
	at := s.imageAt
	subs := s.subscribers()
	s.mu.Unlock()

	s.log.Info(ctx, "image time captured", logging.String("image_at", at.Format(time.RFC3339)))
	notify(subs,
		Event{Type: EventImageCaptured, SessionID: s.id},
		Event{Type: EventMoveInvalidated, SessionID: s.id},
	)
	return at
}

// SetPlateRAText replaces the live plate right ascension text.
func (s *Session) SetPlateRAText(text string) error {
	return s.setPlateText(&s.plateRAText, text, angle.RightAscension)
}

// SetPlateDecText replaces the live plate declination text.
func (s *Session) SetPlateDecText(text string) error {
	return s.setPlateText(&s.plateDecText, text, angle.Declination)
}

func (s *Session) setPlateText(field *string, text string, role angle.Role) error {
	s.mu.Lock()
	*field = text
	s.dropImport()
	subs := s.subscribers()
	s.mu.Unlock()

	_, err := angle.Parse(text, role)
	s.metrics.ObserveParse("plate_"+role.String(), err == nil)
	notify(subs, Event{Type: EventMoveInvalidated, SessionID: s.id})
	return err
}

// dropImport turns an imported plate into a manual one. The SharpCap
// rotation only describes the block it came with. Called with s.mu held.
func (s *Session) dropImport() {
	s.plateSource = model.PlateSourceManual
	s.rotationDeg, s.hasRotation = 0, false
}

// ImportSharpCap parses a SharpCap clipboard block and takes its image
// time, plate texts and rotation. The block is used whole or not at all.
func (s *Session) ImportSharpCap(ctx context.Context, text string) (model.PlateSolution, error) {
	extract, err := platesolve.Parse(text)
	if err == nil {
		var plate model.PlateSolution
		if plate, err = extract.Solution(); err == nil {
			s.metrics.ObserveParse("sharpcap", true)
			s.mu.Lock()
			s.plateRAText, s.plateDecText = extract.RAText, extract.DecText
			s.imageAt, s.imageTaken = plate.ImageAt, true
			s.plateSource = plate.Source
			s.rotationDeg, s.hasRotation = plate.RotationDeg, plate.HasRotation
			subs := s.subscribers()
			s.mu.Unlock()

			s.log.Info(ctx, "plate imported",
				logging.Float("ra_deg", plate.RADeg),
				logging.Float("dec_deg", plate.DecDeg),
				logging.Float("rotation_deg", plate.RotationDeg),
				logging.String("image_at", plate.ImageAt.Format(time.RFC3339)),
			)
			notify(subs,
				Event{Type: EventPlateCaptured, SessionID: s.id},
				Event{Type: EventMoveInvalidated, SessionID: s.id},
			)
			return plate, nil
		}
	}
	s.metrics.ObserveParse("sharpcap", false)
	s.log.Warn(ctx, "sharpcap import rejected", logging.Err(err))
	return model.PlateSolution{}, err
}

// plateSolution assembles the plate from the image time and the live
// plate texts, or lists what is missing. Called with s.mu held.
func (s *Session) plateSolution() (model.PlateSolution, []string) {
	var missing []string
	if !s.imageTaken {
		missing = append(missing, "no image time")
	}
	ra, raErr := angle.Parse(s.plateRAText, angle.RightAscension)
	if raErr != nil {
		missing = append(missing, "plate ra invalid")
	}
	dec, decErr := angle.Parse(s.plateDecText, angle.Declination)
	if decErr != nil {
		missing = append(missing, "plate dec invalid")
	}
	if len(missing) > 0 {
		return model.PlateSolution{}, missing
	}
	return model.PlateSolution{
		RADeg:       ra,
		DecDeg:      dec,
		ImageAt:     s.imageAt,
		RotationDeg: s.rotationDeg,
		HasRotation: s.hasRotation,
		Source:      s.plateSource,
	}, nil
}

// PlateSolution returns the plate solution once an image time has been
// captured and both plate texts parse.
func (s *Session) PlateSolution() (model.PlateSolution, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	plate, missing := s.plateSolution()
	return plate, missing == nil
}

// ---- Move ----

// Ready reports whether Move would compute.
func (s *Session) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, missing := s.plateSolution()
	return s.siteLocked && s.targetLocked && missing == nil
}

// Move computes where the scope points in the plate image, where the target
// will be at the event instant, and the move between the two. It is
// recomputed on every call.
func (s *Session) Move(ctx context.Context) (model.MoveReport, error) {
	s.mu.RLock()
	var missing []string
	if !s.siteLocked {
		missing = append(missing, "site not locked")
	}
	if !s.targetLocked {
		missing = append(missing, "target not locked")
	}
	plate, plateMissing := s.plateSolution()
	missing = append(missing, plateMissing...)
	if len(missing) > 0 {
		s.mu.RUnlock()
		return model.MoveReport{}, fmt.Errorf("%w: %s", ErrNotReady, strings.Join(missing, ", "))
	}
	site, target := s.site, s.target
	tolerance := s.rotationTolerance
	s.mu.RUnlock()

	log := s.log
	if l := logging.LoggerFromContext(ctx); l != nil {
		log = l.With(logging.String("session_id", s.id))
	}

	ctx, span := observability.StartSpan(ctx, "prepoint.Move", s.id,
		attribute.String("plate.source", plate.Source.String()),
	)
	defer span.End()

	start := time.Now()
	report := core.Plan(site, target, plate, tolerance)
	s.metrics.ObserveMove(report.Delta, time.Since(start))

	span.SetAttributes(
		attribute.String("move.azimuth", report.Delta.Azimuth.String()),
		attribute.Float64("move.azimuth_deg", report.Delta.AzimuthMagnitude()),
		attribute.String("move.altitude", report.Delta.Altitude.String()),
		attribute.Float64("move.altitude_deg", report.Delta.AltitudeMagnitude()),
	)
	log.Debug(ctx, "move computed",
		logging.Float("az_now", report.Now.AzimuthDeg),
		logging.Float("alt_now", report.Now.AltitudeDeg),
		logging.Float("az_target", report.Target.AzimuthDeg),
		logging.Float("alt_target", report.Target.AltitudeDeg),
		logging.String("azimuth", report.Delta.Azimuth.String()),
		logging.String("altitude", report.Delta.Altitude.String()),
	)
	return report, nil
}
