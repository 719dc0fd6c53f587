package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkarani/campusgate/internal/app/models"
	"github.com/jkarani/campusgate/internal/app/models/dto"
	"github.com/jkarani/campusgate/internal/pkg/apperrors"
)

func newTimetableFixture() (TimetableService, *fakeSlotStore, *models.Classroom, *models.Course) {
	room := &models.Classroom{ID: uuid.New(), RoomCode: "C-110", Status: models.ClassroomAvailable}
	classrooms := &fakeClassroomStore{byCode: map[string]*models.Classroom{room.RoomCode: room}}

	lecturerID := uuid.New()
	course := &models.Course{ID: uuid.New(), CourseCode: "PHY202", CourseName: "Electromagnetism", LecturerID: &lecturerID}
	courses := &fakeCourseStore{courses: map[uuid.UUID]*models.Course{course.ID: course}}

	slots := &fakeSlotStore{}
	return NewTimetableService(slots, courses, classrooms), slots, room, course
}

func TestCreateSlot(t *testing.T) {
	svc, slots, room, course := newTimetableFixture()

	slot, err := svc.CreateSlot(context.Background(), dto.CreateSlotRequest{
		CourseID:    course.ID,
		ClassroomID: room.ID,
		DayOfWeek:   0,
		StartTime:   "09:00",
		EndTime:     "11:00",
	})
	require.NoError(t, err)

	assert.Len(t, slots.slots, 1)
	assert.True(t, slot.IsActive)
	require.NotNil(t, slot.LecturerID)
	assert.Equal(t, *course.LecturerID, *slot.LecturerID)
	assert.Equal(t, 9, slot.StartTime.Hour())
}

func TestCreateSlotForCourseWithoutLecturer(t *testing.T) {
	svc, slots, room, course := newTimetableFixture()
	course.LecturerID = nil

	slot, err := svc.CreateSlot(context.Background(), dto.CreateSlotRequest{
		CourseID:    course.ID,
		ClassroomID: room.ID,
		DayOfWeek:   0,
		StartTime:   "09:00",
		EndTime:     "11:00",
	})
	require.NoError(t, err)

	assert.Len(t, slots.slots, 1)
	// Stays nil so the insert writes NULL rather than a zero UUID.
	assert.Nil(t, slot.LecturerID)
}

func TestCreateSlotRejectsOverlap(t *testing.T) {
	svc, _, room, course := newTimetableFixture()

	_, err := svc.CreateSlot(context.Background(), dto.CreateSlotRequest{
		CourseID: course.ID, ClassroomID: room.ID, DayOfWeek: 1,
		StartTime: "09:00", EndTime: "11:00",
	})
	require.NoError(t, err)

	// Same room, same day, overlapping window.
	_, err = svc.CreateSlot(context.Background(), dto.CreateSlotRequest{
		CourseID: course.ID, ClassroomID: room.ID, DayOfWeek: 1,
		StartTime: "10:00", EndTime: "12:00",
	})
	assert.ErrorIs(t, err, apperrors.ErrSlotConflict)

	// Adjacent window is fine.
	_, err = svc.CreateSlot(context.Background(), dto.CreateSlotRequest{
		CourseID: course.ID, ClassroomID: room.ID, DayOfWeek: 1,
		StartTime: "11:00", EndTime: "13:00",
	})
	assert.NoError(t, err)

	// Same window on another day is fine.
	_, err = svc.CreateSlot(context.Background(), dto.CreateSlotRequest{
		CourseID: course.ID, ClassroomID: room.ID, DayOfWeek: 2,
		StartTime: "10:00", EndTime: "12:00",
	})
	assert.NoError(t, err)
}

func TestCreateSlotRejectsInvertedWindow(t *testing.T) {
	svc, _, room, course := newTimetableFixture()

	_, err := svc.CreateSlot(context.Background(), dto.CreateSlotRequest{
		CourseID: course.ID, ClassroomID: room.ID, DayOfWeek: 0,
		StartTime: "14:00", EndTime: "12:00",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestUpdateSlotReChecksOverlap(t *testing.T) {
	svc, _, room, course := newTimetableFixture()

	first, err := svc.CreateSlot(context.Background(), dto.CreateSlotRequest{
		CourseID: course.ID, ClassroomID: room.ID, DayOfWeek: 3,
		StartTime: "08:00", EndTime: "10:00",
	})
	require.NoError(t, err)

	second, err := svc.CreateSlot(context.Background(), dto.CreateSlotRequest{
		CourseID: course.ID, ClassroomID: room.ID, DayOfWeek: 3,
		StartTime: "10:00", EndTime: "12:00",
	})
	require.NoError(t, err)

	// Moving the second slot onto the first collides.
	_, err = svc.UpdateSlot(context.Background(), second.ID, dto.UpdateSlotRequest{
		DayOfWeek: 3, StartTime: "09:00", EndTime: "11:00",
	})
	assert.ErrorIs(t, err, apperrors.ErrSlotConflict)

	// A slot never collides with itself.
	updated, err := svc.UpdateSlot(context.Background(), first.ID, dto.UpdateSlotRequest{
		DayOfWeek: 3, StartTime: "08:30", EndTime: "09:30",
	})
	require.NoError(t, err)
	assert.Equal(t, 30, updated.StartTime.Minute())
}

func TestWeeklyGroupsByDay(t *testing.T) {
	svc, _, room, course := newTimetableFixture()

	for day := 0; day < 2; day++ {
		_, err := svc.CreateSlot(context.Background(), dto.CreateSlotRequest{
			CourseID: course.ID, ClassroomID: room.ID, DayOfWeek: day,
			StartTime: "09:00", EndTime: "10:00",
		})
		require.NoError(t, err)
	}

	week, err := svc.Weekly(context.Background(), &course.ID, nil)
	require.NoError(t, err)

	assert.Len(t, week.Days[0], 1)
	assert.Len(t, week.Days[1], 1)
	assert.Empty(t, week.Days[5])
}
