package service_test

import (
	"context"
	"encoding/json"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rosverk/rosreg/internal/application/dto"
	appservice "github.com/rosverk/rosreg/internal/application/service"
	"github.com/rosverk/rosreg/internal/domain/models"
	"github.com/rosverk/rosreg/internal/domain/repository"
	repoMocks "github.com/rosverk/rosreg/internal/domain/repository/mocks"
	domainservice "github.com/rosverk/rosreg/internal/domain/service"
	serviceMocks "github.com/rosverk/rosreg/internal/domain/service/mocks"
	"github.com/rosverk/rosreg/pkg/constants"
	"github.com/rosverk/rosreg/pkg/errors"
	"github.com/rosverk/rosreg/pkg/logger"
)

const exportTestSecret = "export-test-secret"

type exportMetricsRecorder struct {
	formats []string
}

func (m *exportMetricsRecorder) RecordExport(format string) {
	m.formats = append(m.formats, format)
}

type exportServiceFixture struct {
	riskRepo     *repoMocks.MockRiskRepository
	actionRepo   *repoMocks.MockActionRepository
	supplierRepo *repoMocks.MockSupplierRepository
	audit        *serviceMocks.MockAuditService
	cache        *serviceMocks.MockCacheService
	metrics      *exportMetricsRecorder
	sut          appservice.ExportAppService
}

func newExportServiceFixture() *exportServiceFixture {
	f := &exportServiceFixture{
		riskRepo:     new(repoMocks.MockRiskRepository),
		actionRepo:   new(repoMocks.MockActionRepository),
		supplierRepo: new(repoMocks.MockSupplierRepository),
		audit:        new(serviceMocks.MockAuditService),
		cache:        new(serviceMocks.MockCacheService),
		metrics:      &exportMetricsRecorder{},
	}
	f.sut = appservice.NewExportAppService(
		f.riskRepo, f.actionRepo, f.supplierRepo,
		domainservice.NewDefaultClassifier(),
		f.audit, f.cache, f.metrics,
		exportTestSecret, 0, 0,
		logger.NewNoopLogger(),
	)
	return f
}

func (f *exportServiceFixture) expectFullRegister(risk *models.Risk) {
	f.riskRepo.On("List", mock.Anything,
		mock.MatchedBy(func(filter repository.RiskFilter) bool { return filter.IncludeClosed }),
		constants.MaxExportRows, 0).Return([]*models.Risk{risk}, int64(1), nil)
	f.actionRepo.On("ListAll", mock.Anything).
		Return([]*models.Action{models.NewAction(risk.ID, "Dual-home the uplink", constants.ActionPriorityHigh, "transport team")}, nil)
	f.supplierRepo.On("ListAll", mock.Anything).
		Return([]*models.Supplier{models.NewSupplier("Kystkraft AS", "site power", 3)}, nil)
}

func TestExportAppServiceRegisterAndDownload(t *testing.T) {
	ctx := context.Background()

	t.Run("a CSV export round-trips through its download token", func(t *testing.T) {
		f := newExportServiceFixture()
		risk := liveRisk("Single-homed transit uplink", 4, 4)
		f.riskRepo.On("List", mock.Anything,
			mock.MatchedBy(func(filter repository.RiskFilter) bool { return filter.IncludeClosed }),
			constants.MaxExportRows, 0).Return([]*models.Risk{risk}, int64(1), nil)

		var storedKey string
		var blob []byte
		f.cache.On("Set", mock.Anything,
			mock.MatchedBy(func(key string) bool { return strings.HasPrefix(key, constants.CacheKeyExportPrefix) }),
			mock.Anything, constants.ExportBlobTTL).
			Run(func(args mock.Arguments) {
				storedKey = args.String(1)
				blob = args.Get(2).([]byte)
			}).Return(nil)
		f.audit.On("LogEvent", mock.Anything, mock.Anything).Return()

		resp, err := f.sut.RegisterExport(ctx, &dto.ExportRequest{Format: "csv", Scope: "risks"})
		require.NoError(t, err)

		assert.Equal(t, "csv", resp.Format)
		assert.Equal(t, "risks", resp.Scope)
		assert.Equal(t, len(blob), resp.SizeBytes)
		assert.NotEmpty(t, resp.Token)
		assert.Equal(t, "/api/v1/export/download?token="+url.QueryEscape(resp.Token), resp.DownloadURL)
		assert.WithinDuration(t, time.Now().Add(constants.ExportTokenTTL), resp.ExpiresAt, 10*time.Second)
		assert.Equal(t, []string{"csv"}, f.metrics.formats)

		content := string(blob)
		assert.Contains(t, content, "Risks")
		assert.Contains(t, content, risk.Title)
		assert.NotContains(t, content, "Suppliers")

		f.cache.On("Get", mock.Anything, storedKey).Return(blob, true, nil)

		artifact, err := f.sut.Download(ctx, resp.Token)
		require.NoError(t, err)
		assert.Equal(t, blob, artifact.Content)
		assert.Equal(t, "text/csv", artifact.ContentType)
		assert.True(t, strings.HasPrefix(artifact.Filename, "rosreg-export-risks-"))
		assert.True(t, strings.HasSuffix(artifact.Filename, ".csv"))

		f.audit.AssertNumberOfCalls(t, "LogEvent", 1)
	})

	t.Run("a JSON full export carries every section", func(t *testing.T) {
		f := newExportServiceFixture()
		f.expectFullRegister(liveRisk("Unlocked street cabinets", 3, 3))

		var blob []byte
		f.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { blob = args.Get(2).([]byte) }).Return(nil)
		f.audit.On("LogEvent", mock.Anything, mock.Anything).Return()

		resp, err := f.sut.RegisterExport(ctx, &dto.ExportRequest{Format: "json", Scope: "full"})
		require.NoError(t, err)
		assert.Equal(t, "full", resp.Scope)

		var doc map[string]interface{}
		require.NoError(t, json.Unmarshal(blob, &doc))
		assert.Equal(t, "full", doc["scope"])
		assert.Len(t, doc["risks"], 1)
		assert.Len(t, doc["actions"], 1)
		assert.Len(t, doc["suppliers"], 1)
	})

	t.Run("a PDF export emits a PDF document", func(t *testing.T) {
		f := newExportServiceFixture()
		f.expectFullRegister(liveRisk("Ubemannet basestasjon uten adgangskontroll", 3, 4))

		var blob []byte
		f.cache.On("Set", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Run(func(args mock.Arguments) { blob = args.Get(2).([]byte) }).Return(nil)
		f.audit.On("LogEvent", mock.Anything, mock.Anything).Return()

		resp, err := f.sut.RegisterExport(ctx, &dto.ExportRequest{Format: "pdf", Scope: "full"})
		require.NoError(t, err)
		assert.Positive(t, resp.SizeBytes)
		assert.True(t, strings.HasPrefix(string(blob), "%PDF"))
	})

	t.Run("rejects an unknown format before touching the register", func(t *testing.T) {
		f := newExportServiceFixture()

		_, err := f.sut.RegisterExport(ctx, &dto.ExportRequest{Format: "xlsx", Scope: "risks"})
		assertAppErrorCode(t, err, constants.ErrCodeValidation)
		f.riskRepo.AssertNotCalled(t, "List", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestExportAppServiceDownloadGuards(t *testing.T) {
	ctx := context.Background()

	signToken := func(t *testing.T, secret string, expiresAt time.Time) string {
		t.Helper()
		claims := jwt.RegisteredClaims{
			Subject:   uuid.New().String(),
			IssuedAt:  jwt.NewNumericDate(time.Now().UTC().Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
		require.NoError(t, err)
		return token
	}

	t.Run("missing token", func(t *testing.T) {
		f := newExportServiceFixture()
		_, err := f.sut.Download(ctx, "")
		assertAppErrorCode(t, err, constants.ErrCodeExportToken)
	})

	t.Run("malformed token", func(t *testing.T) {
		f := newExportServiceFixture()
		_, err := f.sut.Download(ctx, "not-a-token")
		assertAppErrorCode(t, err, constants.ErrCodeExportToken)
	})

	t.Run("token signed with another secret", func(t *testing.T) {
		f := newExportServiceFixture()
		token := signToken(t, "some-other-secret", time.Now().Add(time.Hour))

		_, err := f.sut.Download(ctx, token)
		assertAppErrorCode(t, err, constants.ErrCodeExportToken)
		f.cache.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("expired token", func(t *testing.T) {
		f := newExportServiceFixture()
		token := signToken(t, exportTestSecret, time.Now().Add(-time.Minute))

		_, err := f.sut.Download(ctx, token)
		assertAppErrorCode(t, err, constants.ErrCodeExportToken)
		appErr, ok := errors.AsAppError(err)
		require.True(t, ok)
		assert.Contains(t, appErr.Message, "expired")
	})

	t.Run("valid token whose blob was evicted", func(t *testing.T) {
		f := newExportServiceFixture()
		token := signToken(t, exportTestSecret, time.Now().Add(time.Hour))
		f.cache.On("Get", mock.Anything, mock.Anything).Return(nil, false, nil)

		_, err := f.sut.Download(ctx, token)
		assertAppErrorCode(t, err, constants.ErrCodeNotFound)
	})
}
