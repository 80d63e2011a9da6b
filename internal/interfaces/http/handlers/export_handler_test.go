package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/rosverk/rosreg/internal/application/dto"
	"github.com/rosverk/rosreg/pkg/errors"
)

// MockExportAppService is a mock for the ExportAppService.
type MockExportAppService struct {
	mock.Mock
}

func (m *MockExportAppService) RegisterExport(ctx context.Context, req *dto.ExportRequest) (*dto.ExportRegisterResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ExportRegisterResponse), args.Error(1)
}

func (m *MockExportAppService) Download(ctx context.Context, token string) (*dto.ExportArtifact, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.ExportArtifact), args.Error(1)
}

func newExportRouter(svc *MockExportAppService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewExportHandler(svc)

	router := gin.New()
	router.POST("/export/register", handler.RegisterExport)
	router.GET("/export/download", handler.Download)
	return router
}

func TestExportHandlerRegisterExport(t *testing.T) {
	t.Run("token envelope is returned with 201", func(t *testing.T) {
		svc := new(MockExportAppService)
		router := newExportRouter(svc)

		jsonBody, _ := json.Marshal(&dto.ExportRequest{Format: "csv", Scope: "risks"})
		svc.On("RegisterExport", mock.Anything, mock.MatchedBy(func(r *dto.ExportRequest) bool {
			return r.Format == "csv" && r.Scope == "risks"
		})).Return(&dto.ExportRegisterResponse{Token: "signed-token", Format: "csv"}, nil).Once()

		req, _ := http.NewRequest(http.MethodPost, "/export/register", bytes.NewBuffer(jsonBody))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusCreated, rr.Code)

		var envelope struct {
			Success bool                        `json:"success"`
			Data    *dto.ExportRegisterResponse `json:"data"`
		}
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
		assert.Equal(t, "signed-token", envelope.Data.Token)
		svc.AssertExpectations(t)
	})
}

func TestExportHandlerDownload(t *testing.T) {
	t.Run("artifact streams as attachment", func(t *testing.T) {
		svc := new(MockExportAppService)
		router := newExportRouter(svc)

		artifact := &dto.ExportArtifact{
			Content:     []byte("id,title\n"),
			ContentType: "text/csv",
			Filename:    "risk_register.csv",
		}
		svc.On("Download", mock.Anything, "valid-token").Return(artifact, nil).Once()

		req, _ := http.NewRequest(http.MethodGet, "/export/download?token=valid-token", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/csv", rr.Header().Get("Content-Type"))
		assert.Equal(t, "attachment; filename=risk_register.csv", rr.Header().Get("Content-Disposition"))
		assert.Equal(t, artifact.Content, rr.Body.Bytes())
		svc.AssertExpectations(t)
	})

	t.Run("missing token is rejected before the service", func(t *testing.T) {
		svc := new(MockExportAppService)
		router := newExportRouter(svc)

		req, _ := http.NewRequest(http.MethodGet, "/export/download", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		svc.AssertNotCalled(t, "Download", mock.Anything, mock.Anything)
	})

	t.Run("expired token maps to the token error", func(t *testing.T) {
		svc := new(MockExportAppService)
		router := newExportRouter(svc)

		svc.On("Download", mock.Anything, "stale").Return(nil, errors.ErrExportToken).Once()

		req, _ := http.NewRequest(http.MethodGet, "/export/download?token=stale", nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, errors.ErrExportToken.HTTPStatus(), rr.Code)
		svc.AssertExpectations(t)
	})
}
