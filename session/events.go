package session

// EventType indicates what kind of change happened in the session.
type EventType int

const (
	EventSiteLocked EventType = iota
	EventSiteUnlocked
	EventTargetLocked
	EventTargetUnlocked
	EventImageCaptured
	EventPlateCaptured
	// EventEventTimeChanged is sent when a clock move re-resolves the
	// unlocked event time to a different instant.
	EventEventTimeChanged
	// EventMoveInvalidated follows every change that makes a previously
	// computed move stale.
	EventMoveInvalidated
)

func (t EventType) String() string {
	switch t {
	case EventSiteLocked:
		return "site_locked"
	case EventSiteUnlocked:
		return "site_unlocked"
	case EventTargetLocked:
		return "target_locked"
	case EventTargetUnlocked:
		return "target_unlocked"
	case EventImageCaptured:
		return "image_captured"
	case EventPlateCaptured:
		return "plate_captured"
	case EventEventTimeChanged:
		return "event_time_changed"
	case EventMoveInvalidated:
		return "move_invalidated"
	default:
		return "unknown"
	}
}

// Event is emitted to subscribers when the session changes state.
type Event struct {
	Type      EventType
	SessionID string
}

// Subscribe registers a callback for session events. It returns an
// unsubscribe function. Callbacks run on the caller's goroutine after the
// session lock has been released.
func (s *Session) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
	idx := len(s.subs) - 1

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < 0 || idx >= len(s.subs) {
			return
		}
		s.subs[idx] = nil
		idx = -1
	}
}

// subscribers must be called with s.mu held.
func (s *Session) subscribers() []func(Event) {
	subs := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		if fn != nil {
			subs = append(subs, fn)
		}
	}
	return subs
}

func notify(subs []func(Event), events ...Event) {
	for _, e := range events {
		for _, sub := range subs {
			sub(e)
		}
	}
}
