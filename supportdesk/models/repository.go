package models

import (
	"context"
)

// Repository contains the data access methods needed by the support-log
// pipeline and handlers.
type Repository interface {
	// GetIncharges returns all responsible incharges ordered by first name,
	// deduplicated by full name (case-insensitive).
	GetIncharges(ctx context.Context) ([]ResponsibleIncharge, error)

	// GetInchargeByID returns nil when no incharge exists with the given id.
	GetInchargeByID(ctx context.Context, id int) (*ResponsibleIncharge, error)

	// GetJDInchargeForBranch resolves the secondary (JD) incharge for a branch
	// by walking branches -> areas -> divisions -> jd_incharge via operation.
	// Returns the empty string when the branch has no assigned JD incharge.
	GetJDInchargeForBranch(ctx context.Context, branchNo string) (string, error)

	// CreateSupportLog inserts the record into the table for the given log
	// type and returns the assigned id.
	CreateSupportLog(ctx context.Context, logType LogType, log SupportLog) (uint, error)

	// GetSupportLogs returns up to limit rows of the given type, newest
	// first, flattened with the organizational hierarchy names.
	GetSupportLogs(ctx context.Context, logType LogType, limit int) ([]SupportLogView, error)

	// UpdateSupportLog applies the given column values to an existing row.
	UpdateSupportLog(ctx context.Context, logType LogType, id uint, fieldsAndValues map[string]interface{}) error
}
