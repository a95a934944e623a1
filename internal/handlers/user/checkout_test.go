package user

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Set("email", "asha@example.com")
	return c
}

func TestSessionForReusesEntry(t *testing.T) {
	c := testContext()
	defer dropSession("u-reuse")

	first := sessionFor(c, "u-reuse")
	second := sessionFor(c, "u-reuse")

	// Même tentative entre deux requêtes : la garde de soumission est partagée
	assert.Same(t, first, second)
}

func TestSessionForEvictsAbandonedSessions(t *testing.T) {
	c := testContext()
	defer dropSession("u-active")

	sessionFor(c, "u-abandoned")

	checkoutMu.Lock()
	checkoutSessions["u-abandoned"].lastSeen = time.Now().Add(-2 * checkoutSessionTTL)
	checkoutMu.Unlock()

	sessionFor(c, "u-active")

	checkoutMu.Lock()
	_, stale := checkoutSessions["u-abandoned"]
	_, active := checkoutSessions["u-active"]
	checkoutMu.Unlock()

	require.False(t, stale, "la tentative abandonnée doit être purgée")
	assert.True(t, active)
}
