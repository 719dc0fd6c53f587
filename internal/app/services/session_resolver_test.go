package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkarani/campusgate/internal/app/models"
	"github.com/jkarani/campusgate/internal/pkg/apperrors"
)

// Wednesday 10:30, a mid-morning lecture.
var wednesdayMorning = time.Date(2026, 3, 11, 10, 30, 0, 0, time.UTC)

func newResolverFixture() (*fakeClassroomStore, *fakeSlotStore, *fakeSessionStore, SessionResolver, *models.Classroom) {
	room := &models.Classroom{
		ID:       uuid.New(),
		RoomCode: "LAB-3",
		RoomName: "Physics Lab 3",
		Status:   models.ClassroomAvailable,
	}
	classrooms := &fakeClassroomStore{byCode: map[string]*models.Classroom{room.RoomCode: room}}
	slots := &fakeSlotStore{}
	sessions := newFakeSessionStore()
	resolver := NewSessionResolver(classrooms, slots, sessions)
	return classrooms, slots, sessions, resolver, room
}

func TestResolverUnknownRoom(t *testing.T) {
	_, _, _, resolver, _ := newResolverFixture()

	_, err := resolver.Resolve(context.Background(), "NOPE", wednesdayMorning)

	assert.ErrorIs(t, err, apperrors.ErrClassroomNotFound)
}

func TestResolverNoClassScheduled(t *testing.T) {
	_, _, _, resolver, _ := newResolverFixture()

	_, err := resolver.Resolve(context.Background(), "LAB-3", wednesdayMorning)

	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestResolverMaterializesSlotOnce(t *testing.T) {
	_, slots, sessions, resolver, room := newResolverFixture()

	courseID := uuid.New()
	slots.slots = append(slots.slots, models.TimetableSlot{
		ID:          uuid.New(),
		CourseID:    courseID,
		ClassroomID: room.ID,
		DayOfWeek:   2, // Wednesday, Monday-first
		StartTime:   time.Date(0, 1, 1, 10, 0, 0, 0, time.UTC),
		EndTime:     time.Date(0, 1, 1, 12, 0, 0, 0, time.UTC),
		IsActive:    true,
		RoomCode:    room.RoomCode,
	})

	first, err := resolver.Resolve(context.Background(), "LAB-3", wednesdayMorning)
	require.NoError(t, err)
	assert.Equal(t, courseID, first.CourseID)
	assert.True(t, first.Active)

	second, err := resolver.Resolve(context.Background(), "LAB-3", wednesdayMorning.Add(5*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, sessions.materialized)
}

func TestResolverSlotOutsideWindow(t *testing.T) {
	_, slots, _, resolver, room := newResolverFixture()

	slots.slots = append(slots.slots, models.TimetableSlot{
		ID:          uuid.New(),
		CourseID:    uuid.New(),
		ClassroomID: room.ID,
		DayOfWeek:   2,
		StartTime:   time.Date(0, 1, 1, 14, 0, 0, 0, time.UTC),
		EndTime:     time.Date(0, 1, 1, 16, 0, 0, 0, time.UTC),
		IsActive:    true,
	})

	_, err := resolver.Resolve(context.Background(), "LAB-3", wednesdayMorning)

	assert.ErrorIs(t, err, apperrors.ErrSessionNotFound)
}

func TestResolverPrefersLiveSession(t *testing.T) {
	_, slots, sessions, resolver, room := newResolverFixture()

	// A slot covers the instant, but a lecturer-started session is live.
	slots.slots = append(slots.slots, models.TimetableSlot{
		ID:          uuid.New(),
		CourseID:    uuid.New(),
		ClassroomID: room.ID,
		DayOfWeek:   2,
		StartTime:   time.Date(0, 1, 1, 10, 0, 0, 0, time.UTC),
		EndTime:     time.Date(0, 1, 1, 12, 0, 0, 0, time.UTC),
		IsActive:    true,
	})

	lecturerID := uuid.New()
	live := &models.ClassSession{
		ID:          uuid.New(),
		CourseID:    uuid.New(),
		SessionDate: time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC),
		StartTime:   time.Date(0, 1, 1, 10, 0, 0, 0, time.UTC),
		EndTime:     time.Date(0, 1, 1, 11, 0, 0, 0, time.UTC),
		ClassroomID: &room.ID,
		LecturerID:  &lecturerID,
		Status:      models.SessionOngoing,
		Active:      true,
	}
	sessions.sessions[live.ID] = live

	got, err := resolver.Resolve(context.Background(), "LAB-3", wednesdayMorning)
	require.NoError(t, err)
	assert.Equal(t, live.ID, got.ID)
	assert.Equal(t, 0, sessions.materialized)
}
