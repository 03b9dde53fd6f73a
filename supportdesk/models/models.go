package models

import (
	"strings"
	"time"
)

// LogType identifies which of the four support-log tables a parsed report
// belongs to.
type LogType string

const (
	LogTypeStaffAccess      LogType = "staffAccess"
	LogTypeCamsAdjustment   LogType = "camsAdjustment"
	LogTypeCamsReopen       LogType = "camsReopen"
	LogTypeDailyCamsConcern LogType = "dailyCAMSConcerns"
)

var logTypeDisplayNames = map[LogType]string{
	LogTypeStaffAccess:      "Staff Access",
	LogTypeCamsAdjustment:   "CAMS Adjustment",
	LogTypeCamsReopen:       "CAMS Re-open",
	LogTypeDailyCamsConcern: "Daily CAMS Concern",
}

var logTypeTables = map[LogType]string{
	LogTypeStaffAccess:      "staff_access",
	LogTypeCamsAdjustment:   "cams_adjustment",
	LogTypeCamsReopen:       "cams_reopen",
	LogTypeDailyCamsConcern: "daily_cams_concern",
}

var logTypeSlugs = map[string]LogType{
	"staff-access":    LogTypeStaffAccess,
	"cams-adjustment": LogTypeCamsAdjustment,
	"cams-reopen":     LogTypeCamsReopen,
	"daily-concerns":  LogTypeDailyCamsConcern,
}

func (t LogType) DisplayName() string {
	return logTypeDisplayNames[t]
}

func (t LogType) TableName() string {
	return logTypeTables[t]
}

func (t LogType) Valid() bool {
	_, ok := logTypeTables[t]
	return ok
}

// LogTypeFromSlug resolves the URL form of a log type (e.g. "staff-access")
// used by the update and retrieval routes.
func LogTypeFromSlug(slug string) (LogType, bool) {
	t, ok := logTypeSlugs[strings.ToLower(slug)]
	return t, ok
}

// ResponsibleIncharge is a row of the responsible_incharge table; the person
// credited with submitting a log entry.
type ResponsibleIncharge struct {
	ID         int    `json:"id"`
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	DivisionID int    `json:"division_id"`
}

func (p ResponsibleIncharge) FullName() string {
	return strings.TrimSpace(p.FirstName + " " + p.LastName)
}

// SupportLog is the canonical persistence-ready record for any of the four
// log tables. The column sets overlap heavily; per-type inserts pick the
// relevant subset.
type SupportLog struct {
	ID      uint      `json:"id"`
	TimeLog time.Time `json:"time_log"`

	DateOfRequest string `json:"date_of_request,omitempty"`
	Date          string `json:"date,omitempty"`
	BranchCode    string `json:"branch_code"`

	ConcernCategory string `json:"concern_category,omitempty"`
	ConcernDetails  string `json:"concern_details,omitempty"`
	ConcernIssue    string `json:"concern_issue,omitempty"`
	ConcerningStaff string `json:"concerning_staff,omitempty"`

	StaffName      string `json:"staff_name,omitempty"`
	IDNumber       string `json:"id_number,omitempty"`
	CorporateEmail string `json:"corporate_email,omitempty"`

	ClientReference string `json:"client_reference,omitempty"`
	ClientName      string `json:"client_name,omitempty"`
	NameOfMFO       string `json:"name_of_mfo,omitempty"`
	MFO             string `json:"mfo,omitempty"`
	GroupName       string `json:"group_name,omitempty"`

	TimeOfRequest      string `json:"time_of_request,omitempty"`
	AdjustmentPoint    string `json:"adjustment_point,omitempty"`
	RequestedBy        string `json:"requested_by,omitempty"`
	ReasonForReopening string `json:"reason_for_reopening,omitempty"`
	RecommendedBy      string `json:"recommended_by,omitempty"`

	Designation string `json:"designation,omitempty"`

	Remarks             string `json:"remarks"`
	InchargeID          int    `json:"-"`
	ResponsibleIncharge string `json:"responsible_incharge"`
	JDIncharge          string `json:"jd_incharge,omitempty"`
	DelayCause          string `json:"delay_cause,omitempty"`
	Status              string `json:"status"`
}

// SupportLogView is a SupportLog flattened with the organizational hierarchy
// names for the retrieval endpoints. Missing hierarchy levels render as "---".
type SupportLogView struct {
	SupportLog
	BranchName string `json:"branch_name"`
	Area       string `json:"area"`
	Region     string `json:"region"`
	Division   string `json:"division"`
	Operation  string `json:"operation"`
}
