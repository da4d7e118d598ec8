package contract

import (
	"context"
	"time"

	"github.com/huangsam/burndown/schema"
	"github.com/stretchr/testify/mock"
)

// MockIssueClient is a mock implementation of IssueClient for testing.
type MockIssueClient struct {
	mock.Mock
}

var _ IssueClient = &MockIssueClient{} // Compile-time check

// ListIssues implements the IssueClient interface.
func (m *MockIssueClient) ListIssues(ctx context.Context, owner, repo string) (schema.IssueListing, error) {
	ret := m.Called(ctx, owner, repo)
	listing, _ := ret.Get(0).(schema.IssueListing)
	return listing, ret.Error(1)
}

// MockHistoryManager is a mock implementation of HistoryManager for testing.
type MockHistoryManager struct {
	mock.Mock
}

var _ HistoryManager = &MockHistoryManager{} // Compile-time check

// GetHistoryStore implements the HistoryManager interface.
func (m *MockHistoryManager) GetHistoryStore() HistoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(HistoryStore)
	return store
}

// MockHistoryStore is a mock implementation of HistoryStore for testing.
type MockHistoryStore struct {
	mock.Mock
}

var _ HistoryStore = &MockHistoryStore{} // Compile-time check

// BeginRun implements the HistoryStore interface.
func (m *MockHistoryStore) BeginRun(owner, repo string, sprintDays int, startTime time.Time) (int64, error) {
	args := m.Called(owner, repo, sprintDays, startTime)
	return args.Get(0).(int64), args.Error(1)
}

// RecordPoints implements the HistoryStore interface.
func (m *MockHistoryStore) RecordPoints(runID int64, series schema.BurndownSeries) error {
	args := m.Called(runID, series)
	return args.Error(0)
}

// EndRun implements the HistoryStore interface.
func (m *MockHistoryStore) EndRun(runID int64, endTime time.Time, totalIssues, closedIssues int, chartFile string) error {
	args := m.Called(runID, endTime, totalIssues, closedIssues, chartFile)
	return args.Error(0)
}

// GetStatus implements the HistoryStore interface.
func (m *MockHistoryStore) GetStatus() (schema.HistoryStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.HistoryStatus), args.Error(1)
}

// GetAllRuns implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllPoints implements the HistoryStore interface.
func (m *MockHistoryStore) GetAllPoints() ([]schema.PointRecord, error) {
	args := m.Called()
	points, _ := args.Get(0).([]schema.PointRecord)
	return points, args.Error(1)
}

// Close implements the HistoryStore interface.
func (m *MockHistoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
