package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	appcatalog "github.com/labqueue/backend/internal/application/catalog"
	"github.com/labqueue/backend/internal/domain/catalog"
	"github.com/labqueue/backend/internal/domain/shared"
	"github.com/labqueue/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockServiceTypeRepo struct {
	mock.Mock
}

func (m *mockServiceTypeRepo) FindByID(ctx context.Context, id uuid.UUID) (*catalog.ServiceType, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ServiceType), args.Error(1)
}

func (m *mockServiceTypeRepo) FindByCode(ctx context.Context, code string) (*catalog.ServiceType, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ServiceType), args.Error(1)
}

func (m *mockServiceTypeRepo) FindByTicketPrefix(ctx context.Context, prefix string) (*catalog.ServiceType, error) {
	args := m.Called(ctx, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.ServiceType), args.Error(1)
}

func (m *mockServiceTypeRepo) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.ServiceType, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ServiceType), args.Error(1)
}

func (m *mockServiceTypeRepo) FindActive(ctx context.Context) ([]catalog.ServiceType, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.ServiceType), args.Error(1)
}

func (m *mockServiceTypeRepo) Save(ctx context.Context, serviceType *catalog.ServiceType) error {
	args := m.Called(ctx, serviceType)
	return args.Error(0)
}

func (m *mockServiceTypeRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockServiceTypeRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockServiceTypeRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockServiceTypeRepo) ExistsByTicketPrefix(ctx context.Context, prefix string) (bool, error) {
	args := m.Called(ctx, prefix)
	return args.Bool(0), args.Error(1)
}

func newServiceTypeRouter(repo *mockServiceTypeRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	// Ticket repo is only needed by Stats and Delete, which these tests
	// do not exercise.
	service := appcatalog.NewServiceTypeService(repo, nil)
	h := NewServiceTypeHandler(service)

	router := gin.New()
	router.POST("/services", h.Create)
	router.GET("/services/:id", h.GetByID)
	router.GET("/services", h.List)
	router.GET("/services/active", h.ListActive)
	return router
}

func TestServiceTypeHandler_Create(t *testing.T) {
	t.Run("creates service type", func(t *testing.T) {
		repo := new(mockServiceTypeRepo)
		repo.On("ExistsByCode", mock.Anything, "LAB").Return(false, nil)
		repo.On("ExistsByTicketPrefix", mock.Anything, "L").Return(false, nil)
		repo.On("Save", mock.Anything, mock.AnythingOfType("*catalog.ServiceType")).Return(nil)
		router := newServiceTypeRouter(repo)

		body, _ := json.Marshal(appcatalog.CreateServiceTypeRequest{
			Code:         "LAB",
			Name:         "Toma de muestras",
			TicketPrefix: "L",
			Priority:     2,
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/services", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		repo.AssertExpectations(t)
	})

	t.Run("duplicate code returns conflict", func(t *testing.T) {
		repo := new(mockServiceTypeRepo)
		repo.On("ExistsByCode", mock.Anything, "LAB").Return(true, nil)
		router := newServiceTypeRouter(repo)

		body, _ := json.Marshal(appcatalog.CreateServiceTypeRequest{
			Code: "LAB",
			Name: "Toma de muestras",
		})
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/services", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("missing body returns 400", func(t *testing.T) {
		repo := new(mockServiceTypeRepo)
		router := newServiceTypeRouter(repo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/services", bytes.NewReader([]byte(`{}`)))
		req.Header.Set("Content-Type", "application/json")
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestServiceTypeHandler_GetByID(t *testing.T) {
	t.Run("not found", func(t *testing.T) {
		repo := new(mockServiceTypeRepo)
		id := uuid.New()
		repo.On("FindByID", mock.Anything, id).Return(nil, shared.ErrNotFound)
		router := newServiceTypeRouter(repo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/services/"+id.String(), nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		assert.Equal(t, dto.ErrCodeNotFound, resp.Error.Code)
	})

	t.Run("invalid uuid returns 400", func(t *testing.T) {
		repo := new(mockServiceTypeRepo)
		router := newServiceTypeRouter(repo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/services/not-a-uuid", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestServiceTypeHandler_ListActive(t *testing.T) {
	repo := new(mockServiceTypeRepo)
	st, err := catalog.NewServiceType("LAB", "Toma de muestras", "", "L", 2, 10, "")
	require.NoError(t, err)
	repo.On("FindActive", mock.Anything).Return([]catalog.ServiceType{*st}, nil)
	router := newServiceTypeRouter(repo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/services/active", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"code":"LAB"`)
}
