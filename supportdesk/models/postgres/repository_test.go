package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/camsops/supportdesk-app/supportdesk/models"
)

type RepositoryTestSuite struct {
	suite.Suite
}

func TestRepositoryTestSuite(t *testing.T) {
	suite.Run(t, new(RepositoryTestSuite))
}

func (r *RepositoryTestSuite) newMock() (*Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	assert.NoError(r.T(), err)
	cleanup := func() {
		assert.NoError(r.T(), mock.ExpectationsWereMet())
		db.Close()
	}
	return NewRepository(db), mock, cleanup
}

func (r *RepositoryTestSuite) TestGetIncharges() {
	repository, mock, cleanup := r.newMock()
	defer cleanup()

	query := `SELECT id, first_name, last_name, division_id FROM responsible_incharge ORDER BY first_name`
	mock.ExpectQuery(fmt.Sprintf("^%s$", regexp.QuoteMeta(query))).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "division_id"}).
			AddRow(1, "Ana", "Reyes", 1).
			AddRow(2, "ANA", "REYES", 2).
			AddRow(3, "Ben", "Cruz", 1))

	incharges, err := repository.GetIncharges(context.Background())
	assert.NoError(r.T(), err)
	// Duplicate names are collapsed case-insensitively.
	assert.Len(r.T(), incharges, 2)
	assert.Equal(r.T(), "Ana Reyes", incharges[0].FullName())
	assert.Equal(r.T(), "Ben Cruz", incharges[1].FullName())
}

func (r *RepositoryTestSuite) TestGetInchargeByID() {
	repository, mock, cleanup := r.newMock()
	defer cleanup()

	query := `SELECT id, first_name, last_name, division_id FROM responsible_incharge WHERE id = $1`
	mock.ExpectQuery(fmt.Sprintf("^%s$", regexp.QuoteMeta(query))).
		WithArgs(42).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "last_name", "division_id"}).
			AddRow(42, "Ana", "Reyes", 1))

	incharge, err := repository.GetInchargeByID(context.Background(), 42)
	assert.NoError(r.T(), err)
	assert.Equal(r.T(), "Ana Reyes", incharge.FullName())
}

func (r *RepositoryTestSuite) TestGetInchargeByIDNotFound() {
	repository, mock, cleanup := r.newMock()
	defer cleanup()

	mock.ExpectQuery("SELECT id, first_name, last_name, division_id FROM responsible_incharge").
		WithArgs(99).
		WillReturnError(sql.ErrNoRows)

	incharge, err := repository.GetInchargeByID(context.Background(), 99)
	assert.NoError(r.T(), err)
	assert.Nil(r.T(), incharge)
}

func (r *RepositoryTestSuite) TestGetJDInchargeForBranch() {
	repository, mock, cleanup := r.newMock()
	defer cleanup()

	query := `SELECT TRIM(CONCAT(jd.first_name, ' ', jd.last_name)) FROM branches b JOIN areas a ON b.area_id = a.id JOIN divisions d ON a.division_id = d.id JOIN jd_incharge jd ON jd.operation_id = d.operation_id WHERE b.branch_no = $1 LIMIT 1`
	mock.ExpectQuery(fmt.Sprintf("^%s$", regexp.QuoteMeta(query))).
		WithArgs("B0772").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("Jun Dizon"))

	name, err := repository.GetJDInchargeForBranch(context.Background(), "B0772")
	assert.NoError(r.T(), err)
	assert.Equal(r.T(), "Jun Dizon", name)
}

func (r *RepositoryTestSuite) TestGetJDInchargeForBranchUnmapped() {
	repository, mock, cleanup := r.newMock()
	defer cleanup()

	mock.ExpectQuery(`SELECT TRIM\(CONCAT\(jd.first_name, ' ', jd.last_name\)\) FROM branches b`).
		WithArgs("B9999").
		WillReturnError(sql.ErrNoRows)

	name, err := repository.GetJDInchargeForBranch(context.Background(), "B9999")
	assert.NoError(r.T(), err)
	assert.Equal(r.T(), "", name)
}

func (r *RepositoryTestSuite) TestCreateSupportLog() {
	repository, mock, cleanup := r.newMock()
	defer cleanup()

	now := time.Now()
	log := models.SupportLog{
		TimeLog:             now,
		BranchCode:          "B0772",
		Remarks:             "",
		InchargeID:          42,
		ResponsibleIncharge: "Ana Reyes",
		JDIncharge:          "Jun Dizon",
		Status:              "Need to update",
		Date:                "2026-02-10",
		ConcernIssue:        "Slow posting",
		ConcerningStaff:     "Teller",
		Designation:         "Teller",
	}

	query := `INSERT INTO daily_cams_concern (time_log, branch_code, remarks, incharge_id, responsible_incharge, jd_incharge, status, date, concern_issue, concerning_staff, designation) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	mock.ExpectQuery(fmt.Sprintf("^%s$", regexp.QuoteMeta(query))).
		WithArgs(now, "B0772", "", 42, "Ana Reyes", "Jun Dizon", "Need to update",
			"2026-02-10", "Slow posting", "Teller", "Teller").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	id, err := repository.CreateSupportLog(context.Background(), models.LogTypeDailyCamsConcern, log)
	assert.NoError(r.T(), err)
	assert.Equal(r.T(), uint(7), id)
}

func (r *RepositoryTestSuite) TestCreateSupportLogUnknownType() {
	repository, _, cleanup := r.newMock()
	defer cleanup()

	_, err := repository.CreateSupportLog(context.Background(), models.LogType("bogus"), models.SupportLog{})
	assert.Error(r.T(), err)
}

func (r *RepositoryTestSuite) TestGetSupportLogs() {
	repository, mock, cleanup := r.newMock()
	defer cleanup()

	now := time.Now()
	columns := []string{
		"id", "time_log", "branch_code", "remarks", "incharge_id",
		"responsible_incharge", "jd_incharge", "status",
		"date", "concern_issue", "concerning_staff", "designation", "delay_cause",
		"branch_name", "area_name", "region", "division_name", "operation_name",
	}

	mock.ExpectQuery("SELECT .* FROM daily_cams_concern l LEFT JOIN branches b ON l.branch_code = b.branch_no .* ORDER BY l.created_at DESC").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow(8, now, "B0772", "", 42, "Ana Reyes", "Jun Dizon", "Need to update",
				"2026-02-10", "Slow posting", "Teller", "Teller", "",
				"Main Branch", "North", "Luzon", "Division 1", "Operations").
			AddRow(7, now, "B9999", "", 42, "Ana Reyes", "", "Done",
				"2026-02-09", "Printer issue", "Cashier", "Cashier", "",
				"---", "---", "---", "---", "---"))

	views, err := repository.GetSupportLogs(context.Background(), models.LogTypeDailyCamsConcern, 500)
	assert.NoError(r.T(), err)
	assert.Len(r.T(), views, 2)
	assert.Equal(r.T(), uint(8), views[0].ID)
	assert.Equal(r.T(), "Main Branch", views[0].BranchName)
	assert.Equal(r.T(), "Luzon", views[0].Region)
	assert.Equal(r.T(), "---", views[1].BranchName)
	assert.Equal(r.T(), "Done", views[1].Status)
}

func (r *RepositoryTestSuite) TestUpdateSupportLog() {
	repository, mock, cleanup := r.newMock()
	defer cleanup()

	query := `UPDATE staff_access SET status = $1, updated_at = NOW() WHERE id = $2`
	mock.ExpectExec(fmt.Sprintf("^%s$", regexp.QuoteMeta(query))).
		WithArgs("Done", uint(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repository.UpdateSupportLog(context.Background(), models.LogTypeStaffAccess,
		7, map[string]interface{}{"status": "Done"})
	assert.NoError(r.T(), err)
}

func (r *RepositoryTestSuite) TestUpdateSupportLogNoRow() {
	repository, mock, cleanup := r.newMock()
	defer cleanup()

	mock.ExpectExec("UPDATE cams_reopen SET").
		WithArgs("Done", uint(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repository.UpdateSupportLog(context.Background(), models.LogTypeCamsReopen,
		99, map[string]interface{}{"status": "Done"})
	assert.Error(r.T(), err)
	assert.Contains(r.T(), err.Error(), "no row found")
}
