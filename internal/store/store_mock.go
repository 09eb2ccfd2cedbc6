package store

import (
	"context"
	"time"

	"github.com/huangsam/langtrends/internal/contract"
	"github.com/huangsam/langtrends/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetDataStore implements the StoreManager interface.
func (m *MockStoreManager) GetDataStore() contract.DataStore {
	ret := m.Called()
	s, _ := ret.Get(0).(contract.DataStore)
	return s
}

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	s, _ := ret.Get(0).(contract.RunStore)
	return s
}

// MockDataStore is a mock implementation of DataStore for testing.
type MockDataStore struct {
	mock.Mock
}

var _ contract.DataStore = &MockDataStore{} // Compile-time check

// ReplaceTable implements the DataStore interface.
func (m *MockDataStore) ReplaceTable(ctx context.Context, table schema.Table) error {
	args := m.Called(ctx, table)
	return args.Error(0)
}

// QueryLanguageSeries implements the DataStore interface.
func (m *MockDataStore) QueryLanguageSeries(ctx context.Context, filter schema.TrendFilter) ([]schema.LanguageSeriesRow, error) {
	args := m.Called(ctx, filter)
	rows, _ := args.Get(0).([]schema.LanguageSeriesRow)
	return rows, args.Error(1)
}

// QueryTotals implements the DataStore interface.
func (m *MockDataStore) QueryTotals(ctx context.Context, filter schema.TrendFilter) ([]schema.TotalRow, error) {
	args := m.Called(ctx, filter)
	rows, _ := args.Get(0).([]schema.TotalRow)
	return rows, args.Error(1)
}

// CountRows implements the DataStore interface.
func (m *MockDataStore) CountRows(ctx context.Context, table string) (int64, error) {
	args := m.Called(ctx, table)
	return args.Get(0).(int64), args.Error(1)
}

// GetStatus implements the DataStore interface.
func (m *MockDataStore) GetStatus(ctx context.Context, table string) (schema.StoreStatus, error) {
	args := m.Called(ctx, table)
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the DataStore interface.
func (m *MockDataStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(kind schema.RunKind, startTime time.Time, configParams map[string]any) (int64, error) {
	args := m.Called(kind, startTime, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, rowsProcessed int) error {
	args := m.Called(runID, endTime, rowsProcessed)
	return args.Error(0)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.RunsStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RunsStatus), args.Error(1)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	records, _ := args.Get(0).([]schema.RunRecord)
	return records, args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
