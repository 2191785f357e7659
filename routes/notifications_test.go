package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"rent-easy-server/models"
	"rent-easy-server/services"
)

type mockNotificationRepo struct{ mock.Mock }

func (m *mockNotificationRepo) Create(notification *models.Notification) error {
	args := m.Called(notification)
	return args.Error(0)
}

func (m *mockNotificationRepo) FindByID(id uint) (*models.Notification, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *mockNotificationRepo) ListByRecipient(recipientID uint, limit int) ([]models.Notification, error) {
	args := m.Called(recipientID, limit)
	return args.Get(0).([]models.Notification), args.Error(1)
}

func (m *mockNotificationRepo) MarkRead(id, recipientID uint) (*models.Notification, error) {
	args := m.Called(id, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Notification), args.Error(1)
}

func (m *mockNotificationRepo) MarkAllRead(recipientID uint) error {
	args := m.Called(recipientID)
	return args.Error(0)
}

func (m *mockNotificationRepo) CountUnread(recipientID uint) (int64, error) {
	args := m.Called(recipientID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockNotificationRepo) Resolve(notification *models.Notification) error {
	args := m.Called(notification)
	return args.Error(0)
}

// newNotificationRouter wires the notification routes behind a stub
// auth layer that injects the given user id.
func newNotificationRouter(repo *mockNotificationRepo, userID uint) *gin.Engine {
	gin.SetMode(gin.TestMode)
	Init(nil, services.NewNotificationService(repo), nil, nil)

	router := gin.New()
	group := router.Group("/api/v1/notifications")
	group.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	RegisterNotificationRoutes(group)
	return router
}

func TestGetUserNotificationsReturnsBareArray(t *testing.T) {
	repo := &mockNotificationRepo{}
	now := time.Now()
	repo.On("ListByRecipient", uint(7), 50).Return([]models.Notification{
		{ID: 2, RecipientID: 7, Message: "newer", CreatedAt: now},
		{ID: 1, RecipientID: 7, Message: "older", CreatedAt: now.Add(-time.Hour)},
	}, nil)

	router := newNotificationRouter(repo, 7)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var got []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	require.Len(t, got, 2)

	// Wire contract: _id, recipient, camelCase timestamps
	assert.Equal(t, float64(2), got[0]["_id"])
	assert.Equal(t, float64(7), got[0]["recipient"])
	assert.Contains(t, got[0], "createdAt")
	assert.Equal(t, "newer", got[0]["message"])
}

func TestGetUnreadCount(t *testing.T) {
	repo := &mockNotificationRepo{}
	repo.On("CountUnread", uint(7)).Return(int64(4), nil)

	router := newNotificationRouter(repo, 7)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications/unread-count", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, float64(4), got["unread"])
}

func TestMarkNotificationAsRead(t *testing.T) {
	repo := &mockNotificationRepo{}
	repo.On("MarkRead", uint(3), uint(7)).Return(&models.Notification{ID: 3, RecipientID: 7, Read: true}, nil)

	router := newNotificationRouter(repo, 7)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/notifications/3/read", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, true, got["read"])
}

func TestMarkNotificationAsReadNotMine(t *testing.T) {
	// Someone else's notification is indistinguishable from a missing one
	repo := &mockNotificationRepo{}
	repo.On("MarkRead", uint(3), uint(7)).Return(nil, gorm.ErrRecordNotFound)

	router := newNotificationRouter(repo, 7)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/notifications/3/read", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMarkNotificationAsReadBadID(t *testing.T) {
	router := newNotificationRouter(&mockNotificationRepo{}, 7)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/v1/notifications/abc/read", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMarkAllNotificationsAsRead(t *testing.T) {
	repo := &mockNotificationRepo{}
	repo.On("MarkAllRead", uint(7)).Return(nil)

	router := newNotificationRouter(repo, 7)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/notifications/mark-all-read", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertCalled(t, "MarkAllRead", uint(7))
}

func TestRespondServiceErrorMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	for _, tc := range []struct {
		err  error
		code int
	}{
		{services.ErrNotFound, http.StatusNotFound},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrDuplicateRequest, http.StatusConflict},
		{services.ErrInvalidOperation, http.StatusBadRequest},
		{services.ErrUnauthenticated, http.StatusUnauthorized},
		{gorm.ErrInvalidDB, http.StatusInternalServerError},
	} {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		respondServiceError(c, tc.err)
		assert.Equal(t, tc.code, w.Code, "error %v", tc.err)
	}
}
