package services

import (
	"context"
	"errors"
	"time"

	"github.com/jkarani/campusgate/internal/app/models"
	"github.com/jkarani/campusgate/internal/pkg/apperrors"
	"github.com/jkarani/campusgate/internal/pkg/helpers"
	"github.com/jkarani/campusgate/internal/pkg/logger"
	"github.com/jkarani/campusgate/internal/pkg/metrics"
)

// SessionResolver answers "which session is running in this room right now".
// A lecturer-started session always wins; otherwise the timetable slot
// covering the instant is materialized into a session on first demand.
type SessionResolver interface {
	// Resolve returns the running session for a room code. Returns
	// apperrors.ErrClassroomNotFound for an unknown code and
	// apperrors.ErrSessionNotFound when no class is scheduled.
	Resolve(ctx context.Context, roomCode string, at time.Time) (*models.ClassSession, error)
}

// sessionResolverImpl implements the SessionResolver interface
type sessionResolverImpl struct {
	classrooms classroomStore
	slots      slotStore
	sessions   sessionStore
}

// NewSessionResolver creates a new session resolver
func NewSessionResolver(classrooms classroomStore, slots slotStore, sessions sessionStore) SessionResolver {
	return &sessionResolverImpl{
		classrooms: classrooms,
		slots:      slots,
		sessions:   sessions,
	}
}

// Resolve resolves the active session for a room at the given instant.
func (s *sessionResolverImpl) Resolve(ctx context.Context, roomCode string, at time.Time) (*models.ClassSession, error) {
	classroom, err := s.classrooms.GetByRoomCode(ctx, roomCode)
	if err != nil {
		return nil, err
	}

	// Explicitly started sessions take precedence over the timetable.
	session, err := s.sessions.GetActiveByRoomAt(ctx, classroom.ID, at)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, apperrors.ErrSessionNotFound) {
		return nil, err
	}

	slot, err := s.slots.FindSlotAt(ctx, classroom.ID, helpers.WeekdayIndex(at), at)
	if err != nil {
		if errors.Is(err, apperrors.ErrSlotNotFound) {
			return nil, apperrors.ErrSessionNotFound
		}
		return nil, err
	}

	session, created, err := s.sessions.GetOrCreateFromSlot(ctx, slot, at)
	if err != nil {
		return nil, err
	}
	if created {
		metrics.SessionsMaterialized.Inc()
		logger.Info().
			Str("session_id", session.ID.String()).
			Str("room_code", roomCode).
			Str("course_code", slot.CourseCode).
			Msg("Materialized session from timetable slot")
	}

	return session, nil
}
