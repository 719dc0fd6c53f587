package services

import (
	"bytes"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"

	"github.com/jkarani/campusgate/internal/app/models"
)

// EvidenceInput carries the evidence photo and the client-reported signals
// submitted with a scan.
type EvidenceInput struct {
	Image          []byte
	LocationStatus string // "granted" or "denied"
	Latitude       string
	Longitude      string
	ConnectionType string // "wifi", "cellular", ...
}

// EvidenceReport is the verdict of the evidence checks. Status is the first
// failing check in order; Signals retains every failure so a record is never
// whitewashed by reporting only one problem.
type EvidenceReport struct {
	Status   models.AttendanceStatus
	Signals  []string
	Metadata map[string]interface{}
}

// EvidenceAnalyzer runs the authenticity checks on scan evidence.
type EvidenceAnalyzer interface {
	Analyze(input EvidenceInput) EvidenceReport
}

// evidenceAnalyzerImpl implements the EvidenceAnalyzer interface
type evidenceAnalyzerImpl struct{}

// NewEvidenceAnalyzer creates a new evidence analyzer
func NewEvidenceAnalyzer() EvidenceAnalyzer {
	return &evidenceAnalyzerImpl{}
}

// Analyze checks capture metadata, image integrity, geolocation and network
// type, in that order. The first failure decides the stored status; later
// checks still run so every signal lands in the metadata document.
func (a *evidenceAnalyzerImpl) Analyze(input EvidenceInput) EvidenceReport {
	report := EvidenceReport{
		Status:   models.AttendancePresent,
		Metadata: map[string]interface{}{},
	}

	a.checkImage(input.Image, &report)
	a.checkLocation(input, &report)
	a.checkNetwork(input.ConnectionType, &report)

	return report
}

// checkImage verifies the photo decodes and carries camera capture metadata.
// The two checks are independent: EXIF parses from the APP1 segment alone, so
// a blob with an intact metadata header can still be undecodable as an image.
func (a *evidenceAnalyzerImpl) checkImage(image []byte, report *EvidenceReport) {
	if len(image) == 0 {
		report.fail(models.AttendanceFlaggedNoMetadata, "evidence_missing")
		return
	}

	if _, err := imaging.Decode(bytes.NewReader(image)); err != nil {
		report.fail(models.AttendanceFlaggedCorruptImage, "corrupt_image")
	}

	x, err := exif.Decode(bytes.NewReader(image))
	if err != nil {
		report.fail(models.AttendanceFlaggedNoMetadata, "no_capture_metadata")
		return
	}
	if dt, err := x.DateTime(); err == nil {
		report.Metadata["capture_time"] = dt.Format("2006-01-02 15:04:05")
	}
	if model, err := x.Get(exif.Model); err == nil {
		report.Metadata["camera_model"] = strings.Trim(model.String(), `"`)
	}
}

// checkLocation requires a granted geolocation with coordinates.
func (a *evidenceAnalyzerImpl) checkLocation(input EvidenceInput, report *EvidenceReport) {
	granted := strings.EqualFold(input.LocationStatus, "granted")
	if !granted || input.Latitude == "" || input.Longitude == "" {
		report.fail(models.AttendanceFlaggedNoLocation, "location_unavailable")
		return
	}
	report.Metadata["latitude"] = input.Latitude
	report.Metadata["longitude"] = input.Longitude
}

// checkNetwork flags scans arriving over a cellular connection; on-site scans
// are expected on the campus network.
func (a *evidenceAnalyzerImpl) checkNetwork(connectionType string, report *EvidenceReport) {
	ct := strings.ToLower(strings.TrimSpace(connectionType))
	if ct == "cellular" || ct == "mobile" {
		report.fail(models.AttendanceFlaggedMobileData, "mobile_data")
	}
}

// fail records a failed check. Only the first failure sets the status.
func (r *EvidenceReport) fail(status models.AttendanceStatus, signal string) {
	if r.Status == models.AttendancePresent {
		r.Status = status
	}
	r.Signals = append(r.Signals, signal)
}
