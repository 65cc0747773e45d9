// Package testutil holds helpers shared by the handler, router and
// integration tests: an in-memory database, gin test contexts and envelope
// decoding.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/bizdesk/backend/internal/infrastructure/config"
	"github.com/bizdesk/backend/internal/infrastructure/persistence"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewSQLiteDatabase opens a migrated in-memory SQLite database that is
// closed when the test ends.
func NewSQLiteDatabase(t *testing.T) *persistence.Database {
	t.Helper()

	db, err := persistence.NewDatabase(config.DatabaseConfig{Driver: "sqlite", SQLitePath: ":memory:"})
	require.NoError(t, err, "Failed to open sqlite database")
	require.NoError(t, db.AutoMigrate(), "Failed to migrate sqlite database")
	t.Cleanup(func() { _ = db.Close() })
	return db
}

// TestContext is a gin context with its response recorder
type TestContext struct {
	Context  *gin.Context
	Recorder *httptest.ResponseRecorder
}

// NewTestContext creates a gin context for a GET / request
func NewTestContext(t *testing.T) *TestContext {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return &TestContext{Context: c, Recorder: w}
}

// SetUserID marks the request as authenticated by id, the way the JWT
// middleware does
func (tc *TestContext) SetUserID(id uuid.UUID) {
	tc.Context.Set("user_id", id.String())
}

// ResponseBody returns the recorded body
func (tc *TestContext) ResponseBody() []byte {
	return tc.Recorder.Body.Bytes()
}

// ResponseCode returns the recorded status
func (tc *TestContext) ResponseCode() int {
	return tc.Recorder.Code
}

// NewTestUUID derives a stable UUID from seed
func NewTestUUID(seed string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(seed))
}

// TestUserID is the default owner in tests
func TestUserID() uuid.UUID {
	return NewTestUUID("test-user")
}

// OtherUserID is a second owner for isolation tests
func OtherUserID() uuid.UUID {
	return NewTestUUID("other-user")
}
