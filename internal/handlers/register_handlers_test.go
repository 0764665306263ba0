package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	portssvc "github.com/SscSPs/estate_management_app/internal/core/ports/services"
	"github.com/SscSPs/estate_management_app/internal/handlers"
	"github.com/SscSPs/estate_management_app/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func newFullRouter(isProduction bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := &config.Config{JWTSecret: testJWTSecret, IsProduction: isProduction}
	services := &portssvc.ServiceContainer{
		Account:   new(MockAccountService),
		Accrual:   new(MockAccrualService),
		Sweep:     new(MockSweepService),
		Payment:   new(MockPaymentService),
		Reporting: new(MockReportingService),
	}
	handlers.RegisterRoutes(r, cfg, services, nil)
	return r
}

func serve(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestRegisterRoutes_PublicEndpoints(t *testing.T) {
	r := newFullRouter(false)

	w := serve(r, "/health")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	w = serve(r, "/metrics")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestRegisterRoutes_APIRequiresToken(t *testing.T) {
	r := newFullRouter(false)
	w := serve(r, "/api/v1/reports/accrual")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegisterRoutes_SwaggerOnlyOutsideProduction(t *testing.T) {
	w := serve(newFullRouter(true), "/swagger/index.html")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(newFullRouter(false), "/swagger/index.html")
	assert.Equal(t, http.StatusOK, w.Code)
}
