package services

import (
	"github.com/google/uuid"

	"github.com/jkarani/campusgate/internal/app/models"
	"github.com/jkarani/campusgate/internal/app/models/dto"
)

// SuspiciousIPMessage is shown on attendees downgraded by the cohort check.
const SuspiciousIPMessage = "Suspicious IP Limit (VPN/Data)"

// CohortResult is the verdict of the live cohort analysis.
type CohortResult struct {
	Mode          string
	DominantIP    string
	DominantRatio float64

	// Outliers lists attendance IDs whose known IP differs from the
	// dominant one; each gets the suspicious-IP flag in the live view.
	Outliers map[uuid.UUID]bool

	// Downgraded lists attendance IDs whose display status becomes an IP
	// mismatch. Display-only; stored records are never rewritten.
	Downgraded map[uuid.UUID]bool
}

// CohortAnalyzer infers the delivery mode of a running session from the IP
// distribution of its scans.
type CohortAnalyzer interface {
	Analyze(records []models.AttendanceRecord) CohortResult
}

// cohortAnalyzerImpl implements the CohortAnalyzer interface
type cohortAnalyzerImpl struct{}

// NewCohortAnalyzer creates a new cohort analyzer
func NewCohortAnalyzer() CohortAnalyzer {
	return &cohortAnalyzerImpl{}
}

// Analyze classifies the cohort. A physical class shows most scans arriving
// from one network; attendees off that network get a display downgrade.
// Small cohorts stay Unknown: with fewer than three scans the dominant-IP
// signal is noise. Scans with no recorded IP are never downgraded.
func (a *cohortAnalyzerImpl) Analyze(records []models.AttendanceRecord) CohortResult {
	result := CohortResult{
		Mode:       dto.CohortModeUnknown,
		Outliers:   map[uuid.UUID]bool{},
		Downgraded: map[uuid.UUID]bool{},
	}

	if len(records) < 3 {
		return result
	}

	counts := map[string]int{}
	known := 0
	for _, rec := range records {
		if rec.IPAddress == nil || *rec.IPAddress == "" {
			continue
		}
		counts[*rec.IPAddress]++
		known++
	}

	dominantIP := ""
	dominantCount := 0
	for ip, n := range counts {
		if n > dominantCount {
			dominantIP, dominantCount = ip, n
		}
	}

	if known > 2 {
		ratio := float64(dominantCount) / float64(known)
		if ratio > 0.5 {
			result.Mode = dto.CohortModePhysical
			result.DominantIP = dominantIP
			result.DominantRatio = ratio

			for _, rec := range records {
				if rec.IPAddress == nil || *rec.IPAddress == "" {
					continue
				}
				if *rec.IPAddress == dominantIP {
					continue
				}
				// Every off-network scan is flagged; only clean records
				// are downgraded, since evidence flags already tell a
				// stronger story.
				result.Outliers[rec.ID] = true
				if rec.Status == models.AttendancePresent {
					result.Downgraded[rec.ID] = true
				}
			}
			return result
		}
	}

	result.Mode = dto.CohortModeOnline
	return result
}
