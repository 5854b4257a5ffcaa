package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"letrario/internal/http-api/dto"
	"letrario/internal/http-api/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockReadingListService mocks the ReadingListService interface
type MockReadingListService struct {
	mock.Mock
}

func (m *MockReadingListService) SaveWork(ctx context.Context, userID, workSlug string) error {
	args := m.Called(userID, workSlug)
	return args.Error(0)
}

func (m *MockReadingListService) SaveChapter(ctx context.Context, userID, chapterSlug string) error {
	args := m.Called(userID, chapterSlug)
	return args.Error(0)
}

func (m *MockReadingListService) RemoveWork(ctx context.Context, userID, workSlug string) error {
	args := m.Called(userID, workSlug)
	return args.Error(0)
}

func (m *MockReadingListService) RemoveChapter(ctx context.Context, userID, chapterSlug string) error {
	args := m.Called(userID, chapterSlug)
	return args.Error(0)
}

func (m *MockReadingListService) WorkSaved(ctx context.Context, userID, workSlug string) (bool, error) {
	args := m.Called(userID, workSlug)
	return args.Bool(0), args.Error(1)
}

func (m *MockReadingListService) ChapterSaved(ctx context.Context, userID, chapterSlug string) (bool, error) {
	args := m.Called(userID, chapterSlug)
	return args.Bool(0), args.Error(1)
}

func postSave(router http.Handler, body dto.SaveReadingRequest) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req, _ := http.NewRequest("POST", "/reading-list", bytes.NewBuffer(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestSaveReadingList_Unauthorized(t *testing.T) {
	mockSvc := new(MockReadingListService)
	h := NewReadingListHandler(mockSvc)
	router := setupRouter()
	router.POST("/reading-list", h.Save)

	w := postSave(router, dto.SaveReadingRequest{WorkSlug: "la-sombra"})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	mockSvc.AssertNotCalled(t, "SaveWork")
}

func TestSaveReadingList_WorkSuccess(t *testing.T) {
	mockSvc := new(MockReadingListService)
	h := NewReadingListHandler(mockSvc)
	router := setupRouter()
	router.POST("/reading-list", asUser("u1"), h.Save)

	mockSvc.On("SaveWork", "u1", "la-sombra").Return(nil)

	w := postSave(router, dto.SaveReadingRequest{WorkSlug: "la-sombra"})

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestSaveReadingList_ChapterSuccess(t *testing.T) {
	mockSvc := new(MockReadingListService)
	h := NewReadingListHandler(mockSvc)
	router := setupRouter()
	router.POST("/reading-list", asUser("u1"), h.Save)

	mockSvc.On("SaveChapter", "u1", "cap-1").Return(nil)

	w := postSave(router, dto.SaveReadingRequest{ChapterSlug: "cap-1"})

	assert.Equal(t, http.StatusCreated, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestSaveReadingList_BothSlugs(t *testing.T) {
	mockSvc := new(MockReadingListService)
	h := NewReadingListHandler(mockSvc)
	router := setupRouter()
	router.POST("/reading-list", asUser("u1"), h.Save)

	w := postSave(router, dto.SaveReadingRequest{WorkSlug: "w", ChapterSlug: "c"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveReadingList_NeitherSlug(t *testing.T) {
	mockSvc := new(MockReadingListService)
	h := NewReadingListHandler(mockSvc)
	router := setupRouter()
	router.POST("/reading-list", asUser("u1"), h.Save)

	w := postSave(router, dto.SaveReadingRequest{})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSaveReadingList_Conflict(t *testing.T) {
	mockSvc := new(MockReadingListService)
	h := NewReadingListHandler(mockSvc)
	router := setupRouter()
	router.POST("/reading-list", asUser("u1"), h.Save)

	mockSvc.On("SaveWork", "u1", "la-sombra").Return(service.ErrAlreadySaved)

	w := postSave(router, dto.SaveReadingRequest{WorkSlug: "la-sombra"})

	assert.Equal(t, http.StatusConflict, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestSaveReadingList_NotFound(t *testing.T) {
	mockSvc := new(MockReadingListService)
	h := NewReadingListHandler(mockSvc)
	router := setupRouter()
	router.POST("/reading-list", asUser("u1"), h.Save)

	mockSvc.On("SaveWork", "u1", "no-existe").Return(service.ErrContentNotFound)

	w := postSave(router, dto.SaveReadingRequest{WorkSlug: "no-existe"})

	assert.Equal(t, http.StatusNotFound, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestRemoveReadingList_Work(t *testing.T) {
	mockSvc := new(MockReadingListService)
	h := NewReadingListHandler(mockSvc)
	router := setupRouter()
	router.DELETE("/reading-list", asUser("u1"), h.Remove)

	mockSvc.On("RemoveWork", "u1", "la-sombra").Return(nil)

	req, _ := http.NewRequest("DELETE", "/reading-list?workSlug=la-sombra", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestRemoveReadingList_Chapter(t *testing.T) {
	mockSvc := new(MockReadingListService)
	h := NewReadingListHandler(mockSvc)
	router := setupRouter()
	router.DELETE("/reading-list", asUser("u1"), h.Remove)

	mockSvc.On("RemoveChapter", "u1", "cap-1").Return(nil)

	req, _ := http.NewRequest("DELETE", "/reading-list?chapterSlug=cap-1", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	mockSvc.AssertExpectations(t)
}

func TestRemoveReadingList_NoSlug(t *testing.T) {
	mockSvc := new(MockReadingListService)
	h := NewReadingListHandler(mockSvc)
	router := setupRouter()
	router.DELETE("/reading-list", asUser("u1"), h.Remove)

	req, _ := http.NewRequest("DELETE", "/reading-list", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCheckReadingList_Saved(t *testing.T) {
	mockSvc := new(MockReadingListService)
	h := NewReadingListHandler(mockSvc)
	router := setupRouter()
	router.GET("/reading-list", asUser("u1"), h.Check)

	mockSvc.On("WorkSaved", "u1", "la-sombra").Return(true, nil)

	req, _ := http.NewRequest("GET", "/reading-list?workSlug=la-sombra", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"saved":true}`, w.Body.String())
	mockSvc.AssertExpectations(t)
}
