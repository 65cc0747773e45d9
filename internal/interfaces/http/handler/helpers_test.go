package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bizdesk/backend/internal/domain/shared"
	"github.com/bizdesk/backend/internal/interfaces/http/dto"
	"github.com/bizdesk/backend/tests/testutil"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func contextFor(t *testing.T, target string) *testutil.TestContext {
	t.Helper()
	tc := testutil.NewTestContext(t)
	tc.Context.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return tc
}

var testParams = listParams{
	{key: "client_type", alias: "clientType"},
	{key: "is_active", alias: "isActive", kind: filterBool},
	{key: "client_id", alias: "clientId", kind: filterUUID},
}

func TestListFilter(t *testing.T) {
	clientID := uuid.New()

	t.Run("defaults", func(t *testing.T) {
		tc := contextFor(t, "/clients")

		f, ok := listFilter(tc.Context, testParams)
		require.True(t, ok)
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, shared.DefaultPageSize, f.PageSize)
		assert.Empty(t, f.Filters)
		assert.Nil(t, f.From)
		assert.Nil(t, f.To)
	})

	t.Run("typed filters and aliases", func(t *testing.T) {
		tc := contextFor(t, "/clients?perPage=5&page=2&order_dir=DESC&clientType=supplier&isActive=false&client_id="+clientID.String())

		f, ok := listFilter(tc.Context, testParams)
		require.True(t, ok)
		assert.Equal(t, 2, f.Page)
		assert.Equal(t, 5, f.PageSize)
		assert.Equal(t, "desc", f.OrderDir)
		assert.Equal(t, "supplier", f.Filters["client_type"])
		assert.Equal(t, false, f.Filters["is_active"])
		assert.Equal(t, clientID, f.Filters["client_id"])
	})

	t.Run("date range covers the whole end day", func(t *testing.T) {
		tc := contextFor(t, "/sales?startDate=2024-01-01&endDate=2024-01-31")

		f, ok := listFilter(tc.Context, nil)
		require.True(t, ok)
		require.NotNil(t, f.From)
		require.NotNil(t, f.To)
		assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), f.From.UTC())
		assert.True(t, f.To.After(time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC)))
		assert.True(t, f.To.Before(time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)))
	})

	rejected := []struct {
		name  string
		query string
	}{
		{"bad bool", "/clients?is_active=maybe"},
		{"bad uuid", "/clients?clientId=123"},
		{"bad start date", "/clients?start_date=01/02/2024"},
		{"bad end date", "/clients?end_date=tomorrow"},
		{"page size above limit", "/clients?page_size=500"},
	}
	for _, tt := range rejected {
		t.Run(tt.name, func(t *testing.T) {
			tc := contextFor(t, tt.query)

			_, ok := listFilter(tc.Context, testParams)
			assert.False(t, ok)
			assert.Equal(t, http.StatusBadRequest, tc.ResponseCode())
			assert.Equal(t, dto.ErrCodeValidation, testutil.EnvelopeErrorCode(t, tc.ResponseBody()))
		})
	}
}

func TestPathID(t *testing.T) {
	id := uuid.New()

	tc := testutil.NewTestContext(t)
	tc.Context.Params = gin.Params{{Key: "id", Value: id.String()}}
	got, ok := pathID(tc.Context, "id", "client")
	assert.True(t, ok)
	assert.Equal(t, id, got)

	tc = testutil.NewTestContext(t)
	tc.Context.Params = gin.Params{{Key: "id", Value: "42"}}
	_, ok = pathID(tc.Context, "id", "client")
	assert.False(t, ok)
	assert.Equal(t, http.StatusBadRequest, tc.ResponseCode())
	assert.Equal(t, dto.ErrCodeInvalidInput, testutil.EnvelopeErrorCode(t, tc.ResponseBody()))
}

func TestOwnerID(t *testing.T) {
	tc := testutil.NewTestContext(t)
	_, ok := ownerID(tc.Context)
	assert.False(t, ok)
	assert.Equal(t, http.StatusUnauthorized, tc.ResponseCode())

	tc = testutil.NewTestContext(t)
	tc.SetUserID(testutil.TestUserID())
	id, ok := ownerID(tc.Context)
	assert.True(t, ok)
	assert.Equal(t, testutil.TestUserID(), id)
}

func TestBaseHandler_HandleError(t *testing.T) {
	tests := []struct {
		name       string
		expose     bool
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", false, shared.NotFound("Client"), http.StatusNotFound, dto.ErrCodeNotFound},
		{"invalid input", false, shared.ErrInvalidInput.WithMessage("bad"), http.StatusBadRequest, dto.ErrCodeInvalidInput},
		{"custom invalid code", false, shared.NewDomainError("INVALID_CURRENCY", "bad currency"), http.StatusBadRequest, "INVALID_CURRENCY"},
		{"unexpected error", false, errors.New("db exploded"), http.StatusInternalServerError, dto.ErrCodeInternal},
		{"unexpected error with details", true, errors.New("db exploded"), http.StatusInternalServerError, dto.ErrCodeInternal},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewBaseHandler(zap.NewNop(), tt.expose)
			tc := testutil.NewTestContext(t)

			h.HandleError(tc.Context, tt.err)

			assert.Equal(t, tt.wantStatus, tc.ResponseCode())
			assert.Equal(t, tt.wantCode, testutil.EnvelopeErrorCode(t, tc.ResponseBody()))
			if tt.wantStatus == http.StatusInternalServerError {
				assert.Equal(t, tt.expose, strings.Contains(string(tc.ResponseBody()), "db exploded"))
			}
		})
	}
}
