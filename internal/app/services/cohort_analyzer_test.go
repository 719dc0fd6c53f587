package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/jkarani/campusgate/internal/app/models"
	"github.com/jkarani/campusgate/internal/app/models/dto"
)

func rec(ip string, status models.AttendanceStatus) models.AttendanceRecord {
	r := models.AttendanceRecord{
		ID:        uuid.New(),
		SessionID: uuid.New(),
		StudentID: uuid.New(),
		Status:    status,
	}
	if ip != "" {
		r.IPAddress = &ip
	}
	return r
}

func TestCohortAnalyzerSmallCohortIsUnknown(t *testing.T) {
	a := NewCohortAnalyzer()

	result := a.Analyze([]models.AttendanceRecord{
		rec("10.0.0.1", models.AttendancePresent),
		rec("10.0.0.1", models.AttendancePresent),
	})

	assert.Equal(t, dto.CohortModeUnknown, result.Mode)
	assert.Empty(t, result.Downgraded)
}

func TestCohortAnalyzerPhysicalClassDowngradesOutliers(t *testing.T) {
	a := NewCohortAnalyzer()

	outlier := rec("203.0.113.9", models.AttendancePresent)
	records := []models.AttendanceRecord{
		rec("10.0.0.1", models.AttendancePresent),
		rec("10.0.0.1", models.AttendancePresent),
		rec("10.0.0.1", models.AttendancePresent),
		outlier,
	}

	result := a.Analyze(records)

	assert.Equal(t, dto.CohortModePhysical, result.Mode)
	assert.Equal(t, "10.0.0.1", result.DominantIP)
	assert.InDelta(t, 0.75, result.DominantRatio, 0.001)
	assert.True(t, result.Downgraded[outlier.ID])
	assert.Len(t, result.Downgraded, 1)
	assert.True(t, result.Outliers[outlier.ID])
	assert.Len(t, result.Outliers, 1)
}

func TestCohortAnalyzerNeverDowngradesUnknownIPs(t *testing.T) {
	a := NewCohortAnalyzer()

	noIP := rec("", models.AttendancePresent)
	records := []models.AttendanceRecord{
		rec("10.0.0.1", models.AttendancePresent),
		rec("10.0.0.1", models.AttendancePresent),
		rec("10.0.0.1", models.AttendancePresent),
		noIP,
	}

	result := a.Analyze(records)

	assert.Equal(t, dto.CohortModePhysical, result.Mode)
	assert.False(t, result.Downgraded[noIP.ID])
	assert.False(t, result.Outliers[noIP.ID])
}

func TestCohortAnalyzerKeepsEvidenceFlagsOverIPDowngrade(t *testing.T) {
	a := NewCohortAnalyzer()

	flagged := rec("203.0.113.9", models.AttendanceFlaggedNoLocation)
	records := []models.AttendanceRecord{
		rec("10.0.0.1", models.AttendancePresent),
		rec("10.0.0.1", models.AttendancePresent),
		rec("10.0.0.1", models.AttendancePresent),
		flagged,
	}

	result := a.Analyze(records)

	assert.Equal(t, dto.CohortModePhysical, result.Mode)
	assert.False(t, result.Downgraded[flagged.ID])
	assert.True(t, result.Outliers[flagged.ID])
}

func TestCohortAnalyzerDistributedWhenNoDominantIP(t *testing.T) {
	a := NewCohortAnalyzer()

	records := []models.AttendanceRecord{
		rec("10.0.0.1", models.AttendancePresent),
		rec("10.0.0.2", models.AttendancePresent),
		rec("10.0.0.3", models.AttendancePresent),
		rec("10.0.0.4", models.AttendancePresent),
	}

	result := a.Analyze(records)

	assert.Equal(t, dto.CohortModeOnline, result.Mode)
	assert.Empty(t, result.Downgraded)
}
