package list

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/Houda-El-Bekkari/ContactAgency/internal/http/middlewarectx"
	"github.com/Houda-El-Bekkari/ContactAgency/internal/models"
)

// MockService реализует интерфейс list.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) ListContacts(ctx context.Context, userUID string, limit, offset int) (*models.ContactListing, error) {
	args := m.Called(ctx, userUID, limit, offset)
	if res := args.Get(0); res != nil {
		return res.(*models.ContactListing), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	listing := &models.ContactListing{
		Contacts: []*models.Contact{
			{ID: "c-1", FirstName: "Anna", LastName: "Smith"},
			{ID: "c-2", FirstName: "Boris", LastName: "Ivanov"},
		},
		ViewsToday: 3,
		Limit:      50,
	}

	tests := []struct {
		name           string
		url            string
		userUID        string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:    "успешное чтение списка",
			url:     "/contacts",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("ListContacts", mock.Anything, "uid-1", 30, 0).Return(listing, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"views_today":3`,
		},
		{
			name:    "пагинация из query",
			url:     "/contacts?limit=10&offset=20",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("ListContacts", mock.Anything, "uid-1", 10, 20).Return(listing, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"views_today":3`,
		},
		{
			name:    "limit выше максимума урезается",
			url:     "/contacts?limit=1000",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("ListContacts", mock.Anything, "uid-1", 100, 0).Return(listing, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"views_today":3`,
		},
		{
			name:           "некорректный limit",
			url:            "/contacts?limit=abc",
			userUID:        "uid-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid limit"`,
		},
		{
			name:           "пользователь не авторизован",
			url:            "/contacts",
			userUID:        "",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"unauthorized"`,
		},
		{
			name:    "ошибка сервиса",
			url:     "/contacts",
			userUID: "uid-1",
			setupMock: func(m *MockService) {
				m.On("ListContacts", mock.Anything, "uid-1", 30, 0).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not list contacts"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			if tt.userUID != "" {
				ctx := context.WithValue(req.Context(), middlewarectx.UserUID, tt.userUID)
				req = req.WithContext(ctx)
			}

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
