package services

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jkarani/campusgate/internal/app/models"
)

// pngBytes encodes a tiny valid image with no capture metadata.
func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// exifApp1 builds a JPEG APP1 segment holding a little-endian TIFF block with
// a single DateTime tag, the minimum a camera-captured photo carries.
func exifApp1() []byte {
	tiffData := []byte{
		'I', 'I', 0x2A, 0x00, 0x08, 0x00, 0x00, 0x00, // TIFF header, IFD0 at offset 8
		0x01, 0x00, // one IFD entry
		0x32, 0x01, // tag DateTime (0x0132)
		0x02, 0x00, // type ASCII
		0x14, 0x00, 0x00, 0x00, // 20 bytes
		0x1A, 0x00, 0x00, 0x00, // value stored at offset 26
		0x00, 0x00, 0x00, 0x00, // no next IFD
	}
	tiffData = append(tiffData, []byte("2026:03:11 10:30:00\x00")...)

	payload := append([]byte("Exif\x00\x00"), tiffData...)
	segLen := len(payload) + 2
	seg := []byte{0xFF, 0xE1, byte(segLen >> 8), byte(segLen)}
	return append(seg, payload...)
}

// exifJPEGBytes encodes a valid JPEG and splices the EXIF segment in after the
// SOI marker, the way cameras write it.
func exifJPEGBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, nil))
	encoded := buf.Bytes()

	out := append([]byte{}, encoded[:2]...)
	out = append(out, exifApp1()...)
	return append(out, encoded[2:]...)
}

// exifGarbageBytes carries an intact EXIF header followed by bytes that do not
// decode as any image.
func exifGarbageBytes() []byte {
	out := append([]byte{0xFF, 0xD8}, exifApp1()...)
	return append(out, []byte("this is not compressed image data")...)
}

func grantedInput(image []byte) EvidenceInput {
	return EvidenceInput{
		Image:          image,
		LocationStatus: "granted",
		Latitude:       "-1.2921",
		Longitude:      "36.8219",
		ConnectionType: "wifi",
	}
}

func TestEvidenceAnalyzerMissingImage(t *testing.T) {
	a := NewEvidenceAnalyzer()

	report := a.Analyze(grantedInput(nil))

	assert.Equal(t, models.AttendanceFlaggedNoMetadata, report.Status)
	assert.Contains(t, report.Signals, "evidence_missing")
}

func TestEvidenceAnalyzerCleanPhotoIsPresent(t *testing.T) {
	a := NewEvidenceAnalyzer()

	report := a.Analyze(grantedInput(exifJPEGBytes(t)))

	assert.Equal(t, models.AttendancePresent, report.Status)
	assert.Empty(t, report.Signals)
	assert.Equal(t, "2026-03-11 10:30:00", report.Metadata["capture_time"])
	assert.Equal(t, "-1.2921", report.Metadata["latitude"])
}

func TestEvidenceAnalyzerCorruptImage(t *testing.T) {
	a := NewEvidenceAnalyzer()

	report := a.Analyze(grantedInput([]byte("definitely not an image")))

	assert.Equal(t, models.AttendanceFlaggedCorruptImage, report.Status)
	assert.Contains(t, report.Signals, "corrupt_image")
}

func TestEvidenceAnalyzerCorruptImageWithIntactExif(t *testing.T) {
	a := NewEvidenceAnalyzer()

	// A readable EXIF header must not vouch for bytes that do not decode.
	report := a.Analyze(grantedInput(exifGarbageBytes()))

	assert.Equal(t, models.AttendanceFlaggedCorruptImage, report.Status)
	assert.Contains(t, report.Signals, "corrupt_image")
}

func TestEvidenceAnalyzerLocationDeniedOnCleanPhoto(t *testing.T) {
	a := NewEvidenceAnalyzer()

	input := grantedInput(exifJPEGBytes(t))
	input.LocationStatus = "denied"
	input.Latitude = ""
	input.Longitude = ""

	report := a.Analyze(input)

	assert.Equal(t, models.AttendanceFlaggedNoLocation, report.Status)
	assert.Equal(t, []string{"location_unavailable"}, report.Signals)
}

func TestEvidenceAnalyzerMobileDataOnCleanPhoto(t *testing.T) {
	a := NewEvidenceAnalyzer()

	input := grantedInput(exifJPEGBytes(t))
	input.ConnectionType = "cellular"

	report := a.Analyze(input)

	assert.Equal(t, models.AttendanceFlaggedMobileData, report.Status)
	assert.Equal(t, []string{"mobile_data"}, report.Signals)
}

func TestEvidenceAnalyzerStrippedMetadata(t *testing.T) {
	a := NewEvidenceAnalyzer()

	// Decodes fine as an image but carries no EXIF.
	report := a.Analyze(grantedInput(pngBytes(t)))

	assert.Equal(t, models.AttendanceFlaggedNoMetadata, report.Status)
	assert.Contains(t, report.Signals, "no_capture_metadata")
	assert.NotContains(t, report.Signals, "location_unavailable")
	assert.Equal(t, "-1.2921", report.Metadata["latitude"])
}

func TestEvidenceAnalyzerLocationDenied(t *testing.T) {
	a := NewEvidenceAnalyzer()

	input := grantedInput(pngBytes(t))
	input.LocationStatus = "denied"
	input.Latitude = ""
	input.Longitude = ""

	report := a.Analyze(input)

	// Metadata check fails first; the location failure is still recorded.
	assert.Equal(t, models.AttendanceFlaggedNoMetadata, report.Status)
	assert.Contains(t, report.Signals, "location_unavailable")
}

func TestEvidenceAnalyzerMobileData(t *testing.T) {
	a := NewEvidenceAnalyzer()

	input := grantedInput(pngBytes(t))
	input.ConnectionType = "cellular"

	report := a.Analyze(input)

	assert.Contains(t, report.Signals, "mobile_data")
	// First failing check still wins the status.
	assert.Equal(t, models.AttendanceFlaggedNoMetadata, report.Status)
}

func TestEvidenceAnalyzerRetainsAllSignals(t *testing.T) {
	a := NewEvidenceAnalyzer()

	report := a.Analyze(EvidenceInput{
		Image:          []byte("garbage"),
		LocationStatus: "denied",
		ConnectionType: "cellular",
	})

	assert.Equal(t, models.AttendanceFlaggedCorruptImage, report.Status)
	assert.ElementsMatch(t,
		[]string{"corrupt_image", "no_capture_metadata", "location_unavailable", "mobile_data"},
		report.Signals)
}
