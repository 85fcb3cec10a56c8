package autoshop

import (
	"time"

	"autoshop/internal/domain/identity"

	"github.com/google/uuid"
)

type Session struct {
	id        uuid.UUID
	userKey   identity.UserKey
	state     State
	settings  Settings
	startedAt time.Time
	endsAt    time.Time
	updatedAt time.Time
}

// Start opens an active session ending after the configured duration.
func Start(key identity.UserKey, settings Settings, now time.Time) (*Session, error) {
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return &Session{
		id:        uuid.New(),
		userKey:   key,
		state:     StateActive,
		settings:  settings,
		startedAt: now,
		endsAt:    now.Add(settings.Duration.Std()),
		updatedAt: now,
	}, nil
}

func ReconstructSession(
	id uuid.UUID,
	key identity.UserKey,
	state State,
	settings Settings,
	startedAt, endsAt, updatedAt time.Time,
) *Session {
	return &Session{
		id:        id,
		userKey:   key,
		state:     state,
		settings:  settings,
		startedAt: startedAt,
		endsAt:    endsAt,
		updatedAt: updatedAt,
	}
}

func (s *Session) IsActive() bool {
	return s.state == StateActive
}

// IsDue reports whether an active session has run past its end time.
func (s *Session) IsDue(now time.Time) bool {
	return s.IsActive() && now.After(s.endsAt)
}

func (s *Session) Expire(now time.Time) bool {
	return s.finish(StateExpired, now)
}

func (s *Session) Stop(now time.Time) bool {
	return s.finish(StateStopped, now)
}

func (s *Session) finish(to State, now time.Time) bool {
	if !s.IsActive() {
		return false
	}
	s.state = to
	s.updatedAt = now
	return true
}

func (s *Session) ID() uuid.UUID             { return s.id }
func (s *Session) UserKey() identity.UserKey { return s.userKey }
func (s *Session) State() State              { return s.state }
func (s *Session) Settings() Settings        { return s.settings }
func (s *Session) StartedAt() time.Time      { return s.startedAt }
func (s *Session) EndsAt() time.Time         { return s.endsAt }
func (s *Session) UpdatedAt() time.Time      { return s.updatedAt }
