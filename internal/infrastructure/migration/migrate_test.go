package migration

import (
	"errors"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockMigrator is a mock for the Migrator interface
type MockMigrator struct {
	mock.Mock
}

func (m *MockMigrator) Up() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockMigrator) Close() (error, error) {
	args := m.Called()
	return args.Error(0), args.Error(1)
}

func TestMigration_Up_Success(t *testing.T) {
	mockM := new(MockMigrator)

	mockM.On("Up").Return(nil)
	mockM.On("Close").Return(nil, nil)

	engine := func(databasePath string) (Migrator, error) {
		return mockM, nil
	}

	mg := NewMigration("notes.db", engine)
	err := mg.Up()

	assert.NoError(t, err)
	mockM.AssertExpectations(t)
}

func TestMigration_Up_NoChange(t *testing.T) {
	mockM := new(MockMigrator)

	mockM.On("Up").Return(migrate.ErrNoChange)
	mockM.On("Close").Return(nil, nil)

	engine := func(databasePath string) (Migrator, error) {
		return mockM, nil
	}

	mg := NewMigration("notes.db", engine)
	err := mg.Up()

	assert.NoError(t, err)
	mockM.AssertExpectations(t)
}

func TestMigration_Up_Error(t *testing.T) {
	mockM := new(MockMigrator)

	upErr := errors.New("broken schema")
	mockM.On("Up").Return(upErr)
	mockM.On("Close").Return(nil, nil)

	engine := func(databasePath string) (Migrator, error) {
		return mockM, nil
	}

	mg := NewMigration("notes.db", engine)
	err := mg.Up()

	assert.Error(t, err)
	assert.ErrorIs(t, err, upErr)
	mockM.AssertExpectations(t)
}

func TestMigration_Up_EngineError(t *testing.T) {
	engineErr := errors.New("no such driver")
	engine := func(databasePath string) (Migrator, error) {
		return nil, engineErr
	}

	mg := NewMigration("notes.db", engine)
	err := mg.Up()

	assert.ErrorIs(t, err, engineErr)
}
