package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jkarani/campusgate/internal/app/models"
	"github.com/jkarani/campusgate/internal/app/models/dto"
	"github.com/jkarani/campusgate/internal/pkg/apperrors"
	"github.com/jkarani/campusgate/internal/pkg/logger"
)

// TimetableService manages recurring weekly slots. Slot windows in the same
// room on the same weekday must not overlap; that invariant is what lets the
// session resolver treat "the slot covering now" as unique.
type TimetableService interface {
	CreateSlot(ctx context.Context, req dto.CreateSlotRequest) (*models.TimetableSlot, error)
	UpdateSlot(ctx context.Context, id uuid.UUID, req dto.UpdateSlotRequest) (*models.TimetableSlot, error)
	DeleteSlot(ctx context.Context, id uuid.UUID) error
	GetSlot(ctx context.Context, id uuid.UUID) (*models.TimetableSlot, error)
	Weekly(ctx context.Context, courseID, lecturerID *uuid.UUID) (*dto.WeeklyTimetableResponse, error)
}

// timetableServiceImpl implements the TimetableService interface
type timetableServiceImpl struct {
	slots      slotStore
	courses    courseStore
	classrooms classroomStore
}

// NewTimetableService creates a new timetable service
func NewTimetableService(slots slotStore, courses courseStore, classrooms classroomStore) TimetableService {
	return &timetableServiceImpl{
		slots:      slots,
		courses:    courses,
		classrooms: classrooms,
	}
}

// CreateSlot validates and creates a weekly slot.
func (s *timetableServiceImpl) CreateSlot(ctx context.Context, req dto.CreateSlotRequest) (*models.TimetableSlot, error) {
	start, end, err := parseWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	course, err := s.courses.GetByID(ctx, req.CourseID)
	if err != nil {
		return nil, err
	}
	classroom, err := s.classrooms.GetByID(ctx, req.ClassroomID)
	if err != nil {
		return nil, err
	}

	if err := s.checkOverlap(ctx, classroom.ID, req.DayOfWeek, start, end, uuid.Nil); err != nil {
		return nil, err
	}

	slot := &models.TimetableSlot{
		CourseID:    course.ID,
		ClassroomID: classroom.ID,
		LecturerID:  course.LecturerID,
		DayOfWeek:   req.DayOfWeek,
		StartTime:   start,
		EndTime:     end,
		IsActive:    true,
	}

	if req.EffectiveFrom != "" {
		from, err := time.Parse("2006-01-02", req.EffectiveFrom)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid effectiveFrom date", apperrors.ErrValidationFailed)
		}
		slot.EffectiveFrom = &from
	}
	if req.EffectiveUntil != "" {
		until, err := time.Parse("2006-01-02", req.EffectiveUntil)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid effectiveUntil date", apperrors.ErrValidationFailed)
		}
		slot.EffectiveUntil = &until
	}

	if err := s.slots.Create(ctx, slot); err != nil {
		return nil, err
	}

	slot.CourseCode = course.CourseCode
	slot.CourseName = course.CourseName
	slot.RoomCode = classroom.RoomCode
	slot.RoomName = classroom.RoomName

	logger.Info().
		Str("slot_id", slot.ID.String()).
		Str("course_code", course.CourseCode).
		Str("room_code", classroom.RoomCode).
		Int("day_of_week", slot.DayOfWeek).
		Msg("Timetable slot created")

	return slot, nil
}

// UpdateSlot moves or toggles an existing slot, re-checking overlaps.
func (s *timetableServiceImpl) UpdateSlot(ctx context.Context, id uuid.UUID, req dto.UpdateSlotRequest) (*models.TimetableSlot, error) {
	slot, err := s.slots.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	start, end, err := parseWindow(req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}

	if err := s.checkOverlap(ctx, slot.ClassroomID, req.DayOfWeek, start, end, slot.ID); err != nil {
		return nil, err
	}

	slot.DayOfWeek = req.DayOfWeek
	slot.StartTime = start
	slot.EndTime = end
	if req.IsActive != nil {
		slot.IsActive = *req.IsActive
	}

	if err := s.slots.Update(ctx, slot); err != nil {
		return nil, err
	}

	return slot, nil
}

// DeleteSlot removes a slot. Sessions already materialized from it remain.
func (s *timetableServiceImpl) DeleteSlot(ctx context.Context, id uuid.UUID) error {
	return s.slots.Delete(ctx, id)
}

// GetSlot retrieves a slot by ID.
func (s *timetableServiceImpl) GetSlot(ctx context.Context, id uuid.UUID) (*models.TimetableSlot, error) {
	return s.slots.GetByID(ctx, id)
}

// Weekly groups active slots into a Monday-first week view.
func (s *timetableServiceImpl) Weekly(ctx context.Context, courseID, lecturerID *uuid.UUID) (*dto.WeeklyTimetableResponse, error) {
	slots, err := s.slots.GetWeekly(ctx, courseID, lecturerID)
	if err != nil {
		return nil, err
	}

	var resp dto.WeeklyTimetableResponse
	for i := range slots {
		day := slots[i].DayOfWeek
		if day < 0 || day > 6 {
			continue
		}
		resp.Days[day] = append(resp.Days[day], dto.NewSlotResponse(&slots[i]))
	}

	return &resp, nil
}

func (s *timetableServiceImpl) checkOverlap(ctx context.Context, classroomID uuid.UUID, dayOfWeek int, start, end time.Time, exclude uuid.UUID) error {
	existing, err := s.slots.GetByClassroomAndDay(ctx, classroomID, dayOfWeek)
	if err != nil {
		return err
	}

	for i := range existing {
		if existing[i].ID == exclude {
			continue
		}
		if existing[i].Overlaps(start, end) {
			return apperrors.ErrSlotConflict
		}
	}

	return nil
}

func parseWindow(startStr, endStr string) (start, end time.Time, err error) {
	start, err = dto.ParseClock(startStr)
	if err != nil {
		return start, end, fmt.Errorf("%w: invalid startTime", apperrors.ErrValidationFailed)
	}
	end, err = dto.ParseClock(endStr)
	if err != nil {
		return start, end, fmt.Errorf("%w: invalid endTime", apperrors.ErrValidationFailed)
	}
	if !start.Before(end) {
		return start, end, fmt.Errorf("%w: startTime must be before endTime", apperrors.ErrValidationFailed)
	}
	return start, end, nil
}
