package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dimchansky/utfbom"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/camsops/supportdesk-app/supportdesk/models"
)

// ErrInchargeNotFound is returned when a submission names an incharge id
// that does not exist.
var ErrInchargeNotFound = errors.New("incharge not found")

// CreatedLog describes one successfully persisted report. The JSON shape is
// what the frontend consumes; the key names are part of the contract.
type CreatedLog struct {
	Type        models.LogType `json:"type"`
	DisplayName string         `json:"displayName"`
	ID          uint           `json:"id"`
	BranchCode  string         `json:"branch"`
}

// SegmentError describes one segment that could not be persisted, or a
// non-fatal anomaly worth surfacing to the submitter.
type SegmentError struct {
	Type    string `json:"type"`
	Error   string `json:"message"`
	Preview string `json:"segment,omitempty"`
}

// SubmissionResult is the outcome of one submission: every segment either
// contributes a CreatedLog or a SegmentError. A submission with at least one
// created log succeeds even when other segments fail.
type SubmissionResult struct {
	Message string         `json:"message"`
	Results []CreatedLog   `json:"results"`
	Errors  []SegmentError `json:"errors,omitempty"`
}

// Importer runs raw submissions through the split / classify / extract /
// normalize pipeline and persists the resulting records.
type Importer struct {
	Logger     logrus.FieldLogger
	Repository models.Repository

	// Now is the clock used for time_log stamping and the daily-concern date
	// backfill. Defaults to time.Now.
	Now func() time.Time

	// Extractor overrides field tokenization settings; zero value uses
	// defaults.
	Extractor Extractor
}

func (im *Importer) now() time.Time {
	if im.Now != nil {
		return im.Now()
	}
	return time.Now()
}

// SubmitLogData ingests one raw submission on behalf of the incharge with
// the given id. Returns ErrInchargeNotFound when the id resolves to nobody;
// all other per-segment problems are reported inside the result rather than
// as an error.
func (im *Importer) SubmitLogData(ctx context.Context, inchargeID int, logData string) (*SubmissionResult, error) {
	incharge, err := im.Repository.GetInchargeByID(ctx, inchargeID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to look up incharge")
	}
	if incharge == nil {
		return nil, ErrInchargeNotFound
	}

	result := &SubmissionResult{}
	segments := SplitLogData(logData)
	im.Logger.WithFields(logrus.Fields{
		"incharge_id": inchargeID,
		"segments":    len(segments),
	}).Info("Processing support log submission")

	for _, segment := range segments {
		logType, ok := IdentifyLogType(segment)
		if !ok {
			result.Errors = append(result.Errors, SegmentError{
				Type:    "unknown",
				Error:   "Unable to identify log format.",
				Preview: segmentPreview(segment),
			})
			continue
		}

		fields, warnings := im.Extractor.ExtractFields(segment)
		for _, w := range warnings {
			result.Errors = append(result.Errors, SegmentError{
				Type:    string(logType),
				Error:   w,
				Preview: segmentPreview(segment),
			})
		}

		record, branchCode, err := BuildRecord(logType, fields, im.now())
		if err != nil {
			im.Logger.WithFields(logrus.Fields{
				"incharge_id": inchargeID,
				"log_type":    logType,
			}).Warn(err.Error())
			result.Errors = append(result.Errors, SegmentError{
				Type:    string(logType),
				Error:   err.Error(),
				Preview: segmentPreview(segment),
			})
			continue
		}

		record.InchargeID = inchargeID
		record.ResponsibleIncharge = incharge.FullName()

		// A branch without a mapped JD incharge is normal; a lookup failure
		// is logged but must not sink the segment.
		jdIncharge, err := im.Repository.GetJDInchargeForBranch(ctx, branchCode)
		if err != nil {
			im.Logger.WithFields(logrus.Fields{
				"branch_code": branchCode,
			}).Error(errors.Wrap(err, "failed to resolve JD incharge"))
			jdIncharge = ""
		}
		record.JDIncharge = jdIncharge

		id, err := im.Repository.CreateSupportLog(ctx, logType, *record)
		if err != nil {
			im.Logger.WithFields(logrus.Fields{
				"log_type":    logType,
				"branch_code": branchCode,
			}).Error(errors.Wrap(err, "failed to persist support log"))
			result.Errors = append(result.Errors, SegmentError{
				Type:    string(logType),
				Error:   fmt.Sprintf("Failed to save %s log.", logType.DisplayName()),
				Preview: segmentPreview(segment),
			})
			continue
		}

		result.Results = append(result.Results, CreatedLog{
			Type:        logType,
			DisplayName: logType.DisplayName(),
			ID:          id,
			BranchCode:  branchCode,
		})
	}

	result.Message = summaryMessage(result.Results)
	im.Logger.WithFields(logrus.Fields{
		"incharge_id": inchargeID,
		"created":     len(result.Results),
		"failed":      len(result.Errors),
	}).Info("Finished support log submission")

	return result, nil
}

// ImportLogFile reads a submission from a file (tolerating a BOM, which
// Windows-exported text frequently carries) and ingests it.
func (im *Importer) ImportLogFile(ctx context.Context, inchargeID int, path string) (*SubmissionResult, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "could not open log file %s", path)
	}
	defer f.Close()

	data, err := io.ReadAll(utfbom.SkipOnly(f))
	if err != nil {
		return nil, errors.Wrapf(err, "could not read log file %s", path)
	}

	return im.SubmitLogData(ctx, inchargeID, string(data))
}

// segmentPreview renders the first 50 characters of a segment on one line
// for error reporting.
func segmentPreview(segment string) string {
	preview := segment
	if len(preview) > 50 {
		preview = preview[:50]
	}
	return strings.ReplaceAll(preview, "\n", " ") + "..."
}

// summaryMessage counts created logs per type in order of first appearance,
// e.g. "Successfully updated 3 logs: Staff Access (2), CAMS Re-open (1)".
func summaryMessage(created []CreatedLog) string {
	if len(created) == 0 {
		return "No log entries were created."
	}

	counts := make(map[models.LogType]int)
	var order []models.LogType
	for _, c := range created {
		if counts[c.Type] == 0 {
			order = append(order, c.Type)
		}
		counts[c.Type]++
	}

	parts := make([]string, 0, len(order))
	for _, t := range order {
		parts = append(parts, fmt.Sprintf("%s (%d)", t.DisplayName(), counts[t]))
	}

	noun := "logs"
	if len(created) == 1 {
		noun = "log"
	}
	return fmt.Sprintf("Successfully updated %d %s: %s", len(created), noun, strings.Join(parts, ", "))
}
