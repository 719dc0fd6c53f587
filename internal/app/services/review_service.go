package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jkarani/campusgate/internal/app/models"
	"github.com/jkarani/campusgate/internal/pkg/faceclient"
	"github.com/jkarani/campusgate/internal/pkg/filestorage"
	"github.com/jkarani/campusgate/internal/pkg/logger"
	"github.com/jkarani/campusgate/internal/pkg/metrics"
	"github.com/jkarani/campusgate/internal/pkg/queue"
)

// FaceMismatchReason is the flag reason attached on a failed face comparison.
const FaceMismatchReason = "Face mismatch on evidence photo"

type faceComparer interface {
	Compare(ctx context.Context, imagePath1, imagePath2 string) (*faceclient.CompareResult, error)
}

// ReviewService runs the deferred evidence review: comparing the submitted
// evidence photo against the student's enrolled reference photo and attaching
// a cheating flag on a mismatch. Flags are additive; the attendance record
// itself is never rewritten here.
type ReviewService interface {
	HandleMessage(ctx context.Context, msg queue.Message) error
	Run(ctx context.Context, q queue.Queue) error
}

// reviewServiceImpl implements the ReviewService interface
type reviewServiceImpl struct {
	attendance attendanceStore
	users      userStore
	faces      faceComparer
	storage    filestorage.FileStorage
	threshold  float64
}

// NewReviewService creates a new review service
func NewReviewService(attendance attendanceStore, users userStore, faces faceComparer, storage filestorage.FileStorage, threshold float64) ReviewService {
	return &reviewServiceImpl{
		attendance: attendance,
		users:      users,
		faces:      faces,
		storage:    storage,
		threshold:  threshold,
	}
}

// Run consumes review jobs until the context is cancelled. Individual job
// failures are logged and skipped; the worker keeps draining the queue.
func (s *reviewServiceImpl) Run(ctx context.Context, q queue.Queue) error {
	msgs, err := q.Consume(ctx)
	if err != nil {
		return fmt.Errorf("failed to consume review queue: %w", err)
	}

	for msg := range msgs {
		if err := s.HandleMessage(ctx, msg); err != nil {
			logger.Error().Err(err).Str("type", msg.Type).Msg("Evidence review failed")
		}
	}

	return ctx.Err()
}

// HandleMessage processes one review job.
func (s *reviewServiceImpl) HandleMessage(ctx context.Context, msg queue.Message) error {
	if msg.Type != ReviewJobType {
		return nil
	}

	var job ReviewJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		return fmt.Errorf("invalid review job payload: %w", err)
	}

	rec, err := s.attendance.GetByID(ctx, job.AttendanceID)
	if err != nil {
		return err
	}
	if rec.EvidencePath == nil {
		metrics.EvidenceReviews.WithLabelValues("no_evidence").Inc()
		return nil
	}

	student, err := s.users.GetByID(ctx, rec.StudentID)
	if err != nil {
		return err
	}
	if student.ReferencePhoto == nil {
		metrics.EvidenceReviews.WithLabelValues("no_reference").Inc()
		logger.Warn().
			Str("student_id", student.ID.String()).
			Msg("No reference photo enrolled, skipping face review")
		return nil
	}

	result, err := s.faces.Compare(ctx,
		s.storage.GetFullPath(*student.ReferencePhoto),
		s.storage.GetFullPath(*rec.EvidencePath),
	)
	if err != nil {
		metrics.EvidenceReviews.WithLabelValues("error").Inc()
		return err
	}

	if result.Similarity < s.threshold {
		flag := &models.CheatingFlag{
			AttendanceID:    rec.ID,
			Reason:          FaceMismatchReason,
			SimilarityScore: result.Similarity,
		}
		if err := s.attendance.AddCheatingFlag(ctx, flag); err != nil {
			return err
		}

		metrics.EvidenceReviews.WithLabelValues("flagged").Inc()
		logger.Warn().
			Str("attendance_id", rec.ID.String()).
			Float64("similarity", result.Similarity).
			Float64("threshold", s.threshold).
			Msg("Face mismatch flagged")
		return nil
	}

	metrics.EvidenceReviews.WithLabelValues("passed").Inc()
	return nil
}
