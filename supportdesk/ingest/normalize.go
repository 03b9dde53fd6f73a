package ingest

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/camsops/supportdesk-app/supportdesk/constants"
	"github.com/camsops/supportdesk-app/supportdesk/models"
)

// ValidationError reports why a segment's field map cannot become a
// persistence-ready record.
type ValidationError struct {
	LogType models.LogType
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// requiredKeys are the extraction keys every report of a type must carry.
// Remarks must be present but may be empty.
var requiredKeys = map[models.LogType][]string{
	models.LogTypeStaffAccess: {"Date_of_Request", "Branch_Code", "Concern_Category", "Concern_Details",
		"Concerning_Staff", "Staff_Name", "ID_Number", "Corporate_Email", "Remarks"},
	models.LogTypeCamsAdjustment: {"Date_of_Request", "Branch_Code", "Concern_Category", "Concerning_Staff",
		"Client_Reference", "Client_Name", "Name_of_MFO", "MFO", "Group", "Remarks"},
	models.LogTypeCamsReopen: {"Date_of_Request", "Branch_Code", "Time_of_Request", "Adjustment_Point",
		"Requested_By", "Concern_Category", "Reason", "Recommended_By", "Remarks"},
	models.LogTypeDailyCamsConcern: {"Date", "Branch_Code", "Concern", "Concerning_Staff", "Designation", "Remarks"},
}

// hierarchyMarkerTarget flags the "OpnDivRegArea" context line pasted from
// the org chart; it is consumed without being mapped or preserved.
const hierarchyMarkerTarget = "opndivregarea_temp"

// fieldTarget translates a normalized extraction key to its canonical column
// name. Two keys are type-sensitive: "date" feeds the date column only on
// daily concerns, and "concern" feeds concern_issue there but
// concern_category everywhere else.
func fieldTarget(lowerKey string, logType models.LogType) (string, bool) {
	daily := logType == models.LogTypeDailyCamsConcern

	switch lowerKey {
	case "date":
		if daily {
			return "date", true
		}
		return "date_of_request", true
	case "concern", "concern_category":
		if daily {
			return "concern_issue", true
		}
		return "concern_category", true
	case "date_of_request":
		return "date_of_request", true
	case "branch_code":
		return "branch_code", true
	case "concern_details":
		return "concern_details", true
	case "concerning_staff":
		return "concerning_staff", true
	case "staff_name":
		return "staff_name", true
	case "id_number":
		return "id_number", true
	case "corporate_email", "email":
		return "corporate_email", true
	case "designation", "designate":
		return "designation", true
	case "client_ref", "client_reference":
		return "client_reference", true
	case "client_name":
		return "client_name", true
	case "name_of_mfo":
		return "name_of_mfo", true
	case "mfo":
		return "mfo", true
	case "group", "group_name":
		return "group_name", true
	case "reason":
		return "reason_for_reopening", true
	case "adjustment_point":
		return "adjustment_point", true
	case "time_of_request":
		return "time_of_request", true
	case "requested_by":
		return "requested_by", true
	case "recommended_by":
		return "recommended_by", true
	case "status":
		return "status", true
	case "remarks", "note", "notes", "comment", "comments":
		return "remarks", true
	case "opndivregarea":
		return hierarchyMarkerTarget, true
	}
	return "", false
}

// looseFieldExcluded filters keys that should not be preserved in the
// catch-all column: the subject/preamble, pasted hierarchy context, and a
// handful of known-redundant labels.
func looseFieldExcluded(lowerKey string) bool {
	if lowerKey == "subject" {
		return true
	}
	if strings.HasPrefix(lowerKey, "opndiv") || strings.Contains(lowerKey, "regarea") {
		return true
	}
	for _, noise := range []string{"branch_name", "birthdate", "contact_number", "assigned_as"} {
		if strings.Contains(lowerKey, noise) {
			return true
		}
	}
	return false
}

var (
	branchCodeRegexp = regexp.MustCompile(`(?i)B\d{4}`)
	isoDateRegexp    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	strictTimeRegexp = regexp.MustCompile(`^([01]\d|2[0-3]):([0-5]\d):([0-5]\d)$`)
	ampmTimeRegexp   = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{1,2})\s*(AM|PM)$`)
	plainTimeRegexp  = regexp.MustCompile(`^(\d{1,2}):(\d{1,2})(?::(\d{1,2}))?$`)
)

// dateFields are the canonical targets that hold calendar dates.
var dateFields = []string{"date_of_request", "date", "adjustment_point"}

// dateLayouts cover the formats encoders actually paste. Month-first for
// numeric forms, matching how the reports are written.
var dateLayouts = []string{
	"2006-1-2",
	"2006/1/2",
	"1/2/2006",
	"1-2-2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"January 2 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"2006-01-02T15:04:05Z07:00",
}

// FormatDate renders any recognizable calendar date as YYYY-MM-DD. An
// unparseable value passes through unchanged; the strict ISO check in
// BuildRecord decides whether that is fatal.
func FormatDate(dateStr string) string {
	if dateStr == "" {
		return ""
	}
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, dateStr); err == nil {
			return d.Format("2006-01-02")
		}
	}
	return dateStr
}

// FormatTime normalizes "H:MM AM/PM" and "H:MM[:SS]" inputs to zero-padded
// HH:MM:SS. Anything else passes through unchanged.
func FormatTime(timeStr string) string {
	if timeStr == "" {
		return ""
	}

	if m := ampmTimeRegexp.FindStringSubmatch(timeStr); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		ampm := strings.ToUpper(m[3])
		if ampm == "PM" && hours < 12 {
			hours += 12
		}
		if ampm == "AM" && hours == 12 {
			hours = 0
		}
		return fmt.Sprintf("%02d:%02d:00", hours, minutes)
	}

	if m := plainTimeRegexp.FindStringSubmatch(timeStr); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes, _ := strconv.Atoi(m[2])
		seconds := 0
		if m[3] != "" {
			seconds, _ = strconv.Atoi(m[3])
		}
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}

	return timeStr
}

// ExtractBranchCode pulls the first B#### token out of a raw branch value
// and uppercases it. The boolean is false when the value holds no such token.
func ExtractBranchCode(raw string) (string, bool) {
	match := branchCodeRegexp.FindString(raw)
	if match == "" {
		return "", false
	}
	return strings.ToUpper(match), true
}

// normalizeKey applies the same folding the extractor applies to labels so
// required-field and mapping lookups are case- and punctuation-insensitive.
func normalizeKey(key string) string {
	lower := strings.ToLower(key)
	lower = spaceRunRegexp.ReplaceAllString(lower, "_")
	return nonWordRegexp.ReplaceAllString(lower, "")
}

// findKey locates a field by case-insensitive key match.
func findKey(fields map[string]string, key string) (string, bool) {
	for k := range fields {
		if strings.EqualFold(k, key) {
			return k, true
		}
	}
	return "", false
}

// BuildRecord maps one segment's extracted fields onto the canonical record
// for the classified type. It backfills the daily-concern date, validates
// required fields, canonicalizes the branch code, normalizes dates, times
// and status, and preserves unmapped fields in the type's catch-all column.
// The returned string is the canonical branch code.
func BuildRecord(logType models.LogType, fields map[string]string, now time.Time) (*models.SupportLog, string, error) {
	// Daily concerns are frequently pasted without a date; default to today.
	if logType == models.LogTypeDailyCamsConcern {
		if _, ok := findKey(fields, "date"); !ok {
			fields["Date"] = now.Format("2006-01-02")
		}
	}

	var missing []string
	for _, required := range requiredKeys[logType] {
		actual, ok := findKey(fields, required)
		if !ok {
			missing = append(missing, required)
			continue
		}
		if strings.EqualFold(required, "remarks") {
			continue
		}
		if fields[actual] == "" {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return nil, "", &ValidationError{
			LogType: logType,
			Message: fmt.Sprintf("Missing required fields: %s", strings.Join(missing, ", ")),
		}
	}

	var branchCode string
	if branchKey, ok := findKey(fields, "branch_code"); ok {
		raw := fields[branchKey]
		code, found := ExtractBranchCode(raw)
		if !found {
			return nil, "", &ValidationError{
				LogType: logType,
				Message: fmt.Sprintf("Invalid Branch Code format: %q", raw),
			}
		}
		branchCode = code
	}

	log := &models.SupportLog{TimeLog: now}
	var looseFields []string

	// Deterministic iteration; map order would make multi-error segments
	// report a different first failure on every run.
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		value := fields[k]
		rawKey := strings.ReplaceAll(k, "_", " ")
		lowerKey := normalizeKey(k)

		target, ok := fieldTarget(lowerKey, logType)
		if !ok {
			if !looseFieldExcluded(lowerKey) {
				looseFields = append(looseFields, fmt.Sprintf("%s: %s", rawKey, value))
			}
			continue
		}

		// Pasted org-chart context; consume without mapping or preserving.
		if target == hierarchyMarkerTarget {
			continue
		}

		if target == "branch_code" && branchCode != "" {
			value = branchCode
		}

		if target == "status" {
			if value == "" || value == "NULL" {
				log.Status = constants.StatusNeedToUpdate
			} else {
				log.Status = value
			}
			continue
		}

		// A stray reason line must not leak into the other record shapes.
		if target == "reason_for_reopening" && logType != models.LogTypeCamsReopen {
			continue
		}

		if contains(dateFields, target) {
			formatted := FormatDate(value)
			if !isoDateRegexp.MatchString(formatted) && formatted != "" {
				return nil, "", &ValidationError{
					LogType: logType,
					Message: fmt.Sprintf("Invalid Date format: %q in %s", value, target),
				}
			}
			value = formatted
		}

		if target == "time_of_request" {
			formatted := FormatTime(value)
			if !strictTimeRegexp.MatchString(formatted) {
				return nil, "", &ValidationError{
					LogType: logType,
					Message: fmt.Sprintf("Invalid Time format: %q. Please use HH:MM AM/PM.", value),
				}
			}
			value = formatted
		}

		setField(log, target, value)
	}

	// Preserve everything the schema has no column for; nothing from the
	// original text may be lost.
	if len(looseFields) > 0 {
		preservation := strings.Join(looseFields, "\n")
		if logType == models.LogTypeDailyCamsConcern {
			log.ConcernIssue = prependPreservation(preservation, log.ConcernIssue)
		} else {
			log.Remarks = prependPreservation(preservation, log.Remarks)
		}
	}

	if log.Status == "" {
		log.Status = constants.StatusNeedToUpdate
	}

	return log, branchCode, nil
}

func prependPreservation(preservation, existing string) string {
	if existing != "" {
		return preservation + "\n\n" + existing
	}
	return preservation
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// setField assigns a canonical target to its SupportLog column.
func setField(log *models.SupportLog, target, value string) {
	switch target {
	case "date_of_request":
		log.DateOfRequest = value
	case "date":
		log.Date = value
	case "branch_code":
		log.BranchCode = value
	case "concern_category":
		log.ConcernCategory = value
	case "concern_details":
		log.ConcernDetails = value
	case "concern_issue":
		log.ConcernIssue = value
	case "concerning_staff":
		log.ConcerningStaff = value
	case "staff_name":
		log.StaffName = value
	case "id_number":
		log.IDNumber = value
	case "corporate_email":
		log.CorporateEmail = value
	case "client_reference":
		log.ClientReference = value
	case "client_name":
		log.ClientName = value
	case "name_of_mfo":
		log.NameOfMFO = value
	case "mfo":
		log.MFO = value
	case "group_name":
		log.GroupName = value
	case "time_of_request":
		log.TimeOfRequest = value
	case "adjustment_point":
		log.AdjustmentPoint = value
	case "requested_by":
		log.RequestedBy = value
	case "reason_for_reopening":
		log.ReasonForReopening = value
	case "recommended_by":
		log.RecommendedBy = value
	case "designation":
		log.Designation = value
	case "remarks":
		log.Remarks = value
	}
}
