package models

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockRepository is a testify mock of Repository for handler and pipeline
// tests.
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) GetIncharges(ctx context.Context) ([]ResponsibleIncharge, error) {
	args := m.Called(ctx)
	var incharges []ResponsibleIncharge
	if args.Get(0) != nil {
		incharges = args.Get(0).([]ResponsibleIncharge)
	}
	return incharges, args.Error(1)
}

func (m *MockRepository) GetInchargeByID(ctx context.Context, id int) (*ResponsibleIncharge, error) {
	args := m.Called(ctx, id)
	var incharge *ResponsibleIncharge
	if args.Get(0) != nil {
		incharge = args.Get(0).(*ResponsibleIncharge)
	}
	return incharge, args.Error(1)
}

func (m *MockRepository) GetJDInchargeForBranch(ctx context.Context, branchNo string) (string, error) {
	args := m.Called(ctx, branchNo)
	return args.String(0), args.Error(1)
}

func (m *MockRepository) CreateSupportLog(ctx context.Context, logType LogType, log SupportLog) (uint, error) {
	args := m.Called(ctx, logType, log)
	return args.Get(0).(uint), args.Error(1)
}

func (m *MockRepository) GetSupportLogs(ctx context.Context, logType LogType, limit int) ([]SupportLogView, error) {
	args := m.Called(ctx, logType, limit)
	var logs []SupportLogView
	if args.Get(0) != nil {
		logs = args.Get(0).([]SupportLogView)
	}
	return logs, args.Error(1)
}

func (m *MockRepository) UpdateSupportLog(ctx context.Context, logType LogType, id uint, fieldsAndValues map[string]interface{}) error {
	args := m.Called(ctx, logType, id, fieldsAndValues)
	return args.Error(0)
}
