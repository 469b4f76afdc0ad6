package note

import (
	"context"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"golang.org/x/exp/slog"

	"clipvault/internal/domain/note"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Add(ctx context.Context, content, source, url string, capturedAt time.Time) (*note.Note, error) {
	args := m.Called(ctx, content, source, url, capturedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*note.Note), args.Error(1)
}

func (m *MockService) List(ctx context.Context, limit, offset int) (*note.ListResult, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*note.ListResult), args.Error(1)
}

func (m *MockService) Search(ctx context.Context, query string, limit, offset int) (*note.ListResult, error) {
	args := m.Called(ctx, query, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*note.ListResult), args.Error(1)
}

func (m *MockService) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockService) Update(ctx context.Context, id int64, content string) (*note.Note, error) {
	args := m.Called(ctx, id, content)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*note.Note), args.Error(1)
}

func (m *MockService) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockService) Purge(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockService) ToggleSensitive(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockService) History(ctx context.Context, id int64) ([]note.VersionEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]note.VersionEntry), args.Error(1)
}

func (m *MockService) Restore(ctx context.Context, id int64, version int) (*note.Note, error) {
	args := m.Called(ctx, id, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*note.Note), args.Error(1)
}

func (m *MockService) Status(ctx context.Context) (*note.Status, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*note.Status), args.Error(1)
}

func (m *MockService) Unlock(ctx context.Context, password string) (bool, error) {
	args := m.Called(ctx, password)
	return args.Bool(0), args.Error(1)
}

func (m *MockService) Lock() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockService) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	args := m.Called(ctx, oldPassword, newPassword)
	return args.Error(0)
}

func newTestHandler(service note.Servicer) *Handler {
	return NewHandler(service, slog.Default(), huma.Middlewares{})
}

func TestHandler_list(t *testing.T) {
	// Arrange
	mockService := new(MockService)
	handler := newTestHandler(mockService)

	result := &note.ListResult{
		Notes:      []note.Note{{ID: 1, Content: "hello"}},
		TotalCount: 1,
	}
	mockService.On("List", mock.Anything, 50, 0).Return(result, nil)

	// Act
	output, err := handler.list(context.Background(), &listInput{Limit: 50, Offset: 0})

	// Assert
	assert.NoError(t, err)
	assert.Equal(t, 1, output.Body.TotalCount)
	assert.Len(t, output.Body.Notes, 1)
	mockService.AssertExpectations(t)
}

func TestHandler_list_Locked(t *testing.T) {
	mockService := new(MockService)
	handler := newTestHandler(mockService)

	mockService.On("List", mock.Anything, 50, 0).Return((*note.ListResult)(nil), note.ErrNotInitialized)

	_, err := handler.list(context.Background(), &listInput{Limit: 50, Offset: 0})

	assert.Error(t, err)
	var statusErr huma.StatusError
	assert.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 423, statusErr.GetStatus())
}

func TestHandler_search(t *testing.T) {
	mockService := new(MockService)
	handler := newTestHandler(mockService)

	result := &note.ListResult{
		Notes:      []note.Note{{ID: 3, Content: "grocery list"}},
		TotalCount: 1,
	}
	mockService.On("Search", mock.Anything, "grocer", 20, 0).Return(result, nil)

	output, err := handler.search(context.Background(), &searchInput{Query: "grocer", Limit: 20})

	assert.NoError(t, err)
	assert.Equal(t, int64(3), output.Body.Notes[0].ID)
	mockService.AssertExpectations(t)
}

func TestHandler_update(t *testing.T) {
	mockService := new(MockService)
	handler := newTestHandler(mockService)

	updated := &note.Note{ID: 1, Content: "new", Version: 2}
	mockService.On("Update", mock.Anything, int64(1), "new").Return(updated, nil)

	output, err := handler.update(context.Background(), &updateInput{ID: 1, Body: updateRequest{Content: "new"}})

	assert.NoError(t, err)
	assert.Equal(t, "Ok", output.Body.Status)
	assert.Equal(t, 2, output.Body.Note.Version)
	mockService.AssertExpectations(t)
}

func TestHandler_update_NotFound(t *testing.T) {
	mockService := new(MockService)
	handler := newTestHandler(mockService)

	mockService.On("Update", mock.Anything, int64(9), "new").Return((*note.Note)(nil), note.ErrNotFound)

	_, err := handler.update(context.Background(), &updateInput{ID: 9, Body: updateRequest{Content: "new"}})

	var statusErr huma.StatusError
	assert.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 404, statusErr.GetStatus())
}

func TestHandler_delete(t *testing.T) {
	mockService := new(MockService)
	handler := newTestHandler(mockService)

	mockService.On("Delete", mock.Anything, int64(1)).Return(nil)

	output, err := handler.delete(context.Background(), &idInput{ID: 1})

	assert.NoError(t, err)
	assert.True(t, output.Body.Success)
	mockService.AssertExpectations(t)
}

func TestHandler_delete_AlreadyDeleted(t *testing.T) {
	mockService := new(MockService)
	handler := newTestHandler(mockService)

	mockService.On("Delete", mock.Anything, int64(1)).Return(note.ErrNoteDeleted)

	// repeat delete is a failed no-op, not an error status
	output, err := handler.delete(context.Background(), &idInput{ID: 1})

	assert.NoError(t, err)
	assert.False(t, output.Body.Success)
	assert.Equal(t, "already deleted", output.Body.Status)
}

func TestHandler_purge(t *testing.T) {
	mockService := new(MockService)
	handler := newTestHandler(mockService)

	mockService.On("Purge", mock.Anything, int64(1)).Return(nil)

	output, err := handler.purge(context.Background(), &idInput{ID: 1})

	assert.NoError(t, err)
	assert.True(t, output.Body.Success)
}

func TestHandler_sensitive(t *testing.T) {
	mockService := new(MockService)
	handler := newTestHandler(mockService)

	mockService.On("ToggleSensitive", mock.Anything, int64(1)).Return(true, nil)

	output, err := handler.sensitive(context.Background(), &idInput{ID: 1})

	assert.NoError(t, err)
	assert.True(t, output.Body.IsSensitive)
}

func TestHandler_history(t *testing.T) {
	mockService := new(MockService)
	handler := newTestHandler(mockService)

	versions := []note.VersionEntry{
		{NoteID: 1, Version: 2, ChangeType: note.ChangeUpdate},
		{NoteID: 1, Version: 1, ChangeType: note.ChangeCreate},
	}
	mockService.On("History", mock.Anything, int64(1)).Return(versions, nil)

	output, err := handler.history(context.Background(), &idInput{ID: 1})

	assert.NoError(t, err)
	assert.Len(t, output.Body.Versions, 2)
	assert.Equal(t, 2, output.Body.Versions[0].Version)
}

func TestHandler_restore(t *testing.T) {
	mockService := new(MockService)
	handler := newTestHandler(mockService)

	restored := &note.Note{ID: 1, Content: "original", Version: 4}
	mockService.On("Restore", mock.Anything, int64(1), 1).Return(restored, nil)

	output, err := handler.restore(context.Background(), &restoreInput{ID: 1, Body: restoreRequest{Version: 1}})

	assert.NoError(t, err)
	assert.Equal(t, "original", output.Body.Note.Content)
	mockService.AssertExpectations(t)
}

func TestHandler_restore_VersionNotFound(t *testing.T) {
	mockService := new(MockService)
	handler := newTestHandler(mockService)

	mockService.On("Restore", mock.Anything, int64(1), 9).Return((*note.Note)(nil), note.ErrVersionNotFound)

	_, err := handler.restore(context.Background(), &restoreInput{ID: 1, Body: restoreRequest{Version: 9}})

	var statusErr huma.StatusError
	assert.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 404, statusErr.GetStatus())
}
