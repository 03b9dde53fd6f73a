package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/huandu/go-sqlbuilder"

	"github.com/camsops/supportdesk-app/supportdesk/database"
	"github.com/camsops/supportdesk-app/supportdesk/models"
)

const (
	sqlFlavor = sqlbuilder.PostgreSQL

	// hierarchyPlaceholder is shown when a branch is not mapped in the
	// organizational tables.
	hierarchyPlaceholder = "---"
)

// Ensure Repository satisfies the interface
var _ models.Repository = &Repository{}

type Repository struct {
	database.Queryable
	database.Executable
}

func NewRepository(db *sql.DB) *Repository {
	wrapped := &database.DB{DB: db}
	return &Repository{wrapped, wrapped}
}

func NewRepositoryTx(tx *sql.Tx) *Repository {
	wrapped := &database.Tx{Tx: tx}
	return &Repository{wrapped, wrapped}
}

// commonColumns are shared by all four report tables, in insert order.
var commonColumns = []string{
	"time_log", "branch_code", "remarks", "incharge_id",
	"responsible_incharge", "jd_incharge", "status",
}

// typeColumns are the report-specific columns per table.
var typeColumns = map[models.LogType][]string{
	models.LogTypeStaffAccess: {
		"date_of_request", "concern_category", "concern_details",
		"concerning_staff", "staff_name", "id_number", "corporate_email",
	},
	models.LogTypeCamsAdjustment: {
		"date_of_request", "concern_category", "concerning_staff",
		"client_reference", "client_name", "name_of_mfo", "mfo", "group_name",
	},
	models.LogTypeCamsReopen: {
		"date_of_request", "time_of_request", "adjustment_point",
		"requested_by", "concern_category", "reason_for_reopening", "recommended_by",
	},
	models.LogTypeDailyCamsConcern: {
		"date", "concern_issue", "concerning_staff", "designation",
	},
}

func (r *Repository) GetIncharges(ctx context.Context) ([]models.ResponsibleIncharge, error) {
	sb := sqlFlavor.NewSelectBuilder()
	sb.Select("id", "first_name", "last_name", "division_id")
	sb.From("responsible_incharge")
	sb.OrderBy("first_name")

	query, args := sb.Build()
	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var incharges []models.ResponsibleIncharge
	seen := make(map[string]struct{})
	for rows.Next() {
		var incharge models.ResponsibleIncharge
		if err := rows.Scan(&incharge.ID, &incharge.FirstName, &incharge.LastName, &incharge.DivisionID); err != nil {
			return nil, err
		}
		// The table carries historical duplicates; keep the first of each name.
		key := strings.ToLower(incharge.FullName())
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		incharges = append(incharges, incharge)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return incharges, nil
}

func (r *Repository) GetInchargeByID(ctx context.Context, id int) (*models.ResponsibleIncharge, error) {
	sb := sqlFlavor.NewSelectBuilder()
	sb.Select("id", "first_name", "last_name", "division_id")
	sb.From("responsible_incharge")
	sb.Where(sb.Equal("id", id))

	incharge := models.ResponsibleIncharge{}
	query, args := sb.Build()
	row := r.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&incharge.ID, &incharge.FirstName, &incharge.LastName, &incharge.DivisionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &incharge, nil
}

func (r *Repository) GetJDInchargeForBranch(ctx context.Context, branchNo string) (string, error) {
	sb := sqlFlavor.NewSelectBuilder()
	sb.Select("TRIM(CONCAT(jd.first_name, ' ', jd.last_name))")
	sb.From("branches b")
	sb.Join("areas a", "b.area_id = a.id")
	sb.Join("divisions d", "a.division_id = d.id")
	sb.Join("jd_incharge jd", "jd.operation_id = d.operation_id")
	sb.Where(sb.Equal("b.branch_no", branchNo))
	sb.Limit(1)

	var name string
	query, args := sb.Build()
	row := r.QueryRowContext(ctx, query, args...)
	if err := row.Scan(&name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", nil
		}
		return "", err
	}

	return name, nil
}

func (r *Repository) CreateSupportLog(ctx context.Context, logType models.LogType, log models.SupportLog) (uint, error) {
	cols, ok := typeColumns[logType]
	if !ok {
		return 0, fmt.Errorf("unknown log type %s", logType)
	}

	columns := append(append([]string{}, commonColumns...), cols...)
	values := make([]interface{}, len(columns))
	for i, col := range columns {
		values[i] = columnValue(&log, col)
	}

	ib := sqlFlavor.NewInsertBuilder()
	ib.InsertInto(logType.TableName())
	ib.Cols(columns...)
	ib.Values(values...)

	query, args := ib.Build()
	query += " RETURNING id"

	var id uint
	if err := r.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, err
	}

	return id, nil
}

func (r *Repository) GetSupportLogs(ctx context.Context, logType models.LogType, limit int) ([]models.SupportLogView, error) {
	cols, ok := typeColumns[logType]
	if !ok {
		return nil, fmt.Errorf("unknown log type %s", logType)
	}

	columns := append([]string{"id"}, commonColumns...)
	columns = append(columns, cols...)
	columns = append(columns, "delay_cause")

	selectCols := make([]string, 0, len(columns)+5)
	for _, col := range columns {
		selectCols = append(selectCols, "l."+col)
	}
	for _, col := range []string{"b.branch_name", "a.area_name", "a.region", "d.division_name", "o.operation_name"} {
		selectCols = append(selectCols, fmt.Sprintf("COALESCE(%s, '%s')", col, hierarchyPlaceholder))
	}

	sb := sqlFlavor.NewSelectBuilder()
	sb.Select(selectCols...)
	sb.From(logType.TableName() + " l")
	sb.JoinWithOption(sqlbuilder.LeftJoin, "branches b", "l.branch_code = b.branch_no")
	sb.JoinWithOption(sqlbuilder.LeftJoin, "areas a", "b.area_id = a.id")
	sb.JoinWithOption(sqlbuilder.LeftJoin, "divisions d", "a.division_id = d.id")
	sb.JoinWithOption(sqlbuilder.LeftJoin, "operations o", "d.operation_id = o.id")
	sb.OrderBy("l.created_at").Desc()
	sb.Limit(limit)

	query, args := sb.Build()
	rows, err := r.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var views []models.SupportLogView
	for rows.Next() {
		var view models.SupportLogView
		dest := make([]interface{}, 0, len(columns)+5)
		for _, col := range columns {
			dest = append(dest, columnPtr(&view.SupportLog, col))
		}
		dest = append(dest, &view.BranchName, &view.Area, &view.Region, &view.Division, &view.Operation)

		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return views, nil
}

func (r *Repository) UpdateSupportLog(ctx context.Context, logType models.LogType, id uint, fieldsAndValues map[string]interface{}) error {
	if _, ok := typeColumns[logType]; !ok {
		return fmt.Errorf("unknown log type %s", logType)
	}

	ub := sqlFlavor.NewUpdateBuilder().Update(logType.TableName())
	for field, value := range fieldsAndValues {
		ub.SetMore(ub.Assign(field, value))
	}
	ub.SetMore("updated_at = NOW()")
	ub.Where(ub.Equal("id", id))

	query, args := ub.Build()
	result, err := r.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return fmt.Errorf("support log %d not updated, no row found", id)
	}

	return nil
}

// columnValue maps a column name onto the record's value for inserts.
func columnValue(log *models.SupportLog, col string) interface{} {
	if ptr := columnPtr(log, col); ptr != nil {
		switch v := ptr.(type) {
		case *string:
			return *v
		case *uint:
			return *v
		case *int:
			return *v
		case *time.Time:
			return *v
		default:
			return ptr
		}
	}
	return nil
}

// columnPtr maps a column name onto the record's field for scans.
func columnPtr(log *models.SupportLog, col string) interface{} {
	switch col {
	case "id":
		return &log.ID
	case "time_log":
		return &log.TimeLog
	case "branch_code":
		return &log.BranchCode
	case "remarks":
		return &log.Remarks
	case "incharge_id":
		return &log.InchargeID
	case "responsible_incharge":
		return &log.ResponsibleIncharge
	case "jd_incharge":
		return &log.JDIncharge
	case "delay_cause":
		return &log.DelayCause
	case "status":
		return &log.Status
	case "date_of_request":
		return &log.DateOfRequest
	case "date":
		return &log.Date
	case "concern_category":
		return &log.ConcernCategory
	case "concern_details":
		return &log.ConcernDetails
	case "concern_issue":
		return &log.ConcernIssue
	case "concerning_staff":
		return &log.ConcerningStaff
	case "staff_name":
		return &log.StaffName
	case "id_number":
		return &log.IDNumber
	case "corporate_email":
		return &log.CorporateEmail
	case "client_reference":
		return &log.ClientReference
	case "client_name":
		return &log.ClientName
	case "name_of_mfo":
		return &log.NameOfMFO
	case "mfo":
		return &log.MFO
	case "group_name":
		return &log.GroupName
	case "time_of_request":
		return &log.TimeOfRequest
	case "adjustment_point":
		return &log.AdjustmentPoint
	case "requested_by":
		return &log.RequestedBy
	case "reason_for_reopening":
		return &log.ReasonForReopening
	case "recommended_by":
		return &log.RecommendedBy
	case "designation":
		return &log.Designation
	}
	return nil
}
