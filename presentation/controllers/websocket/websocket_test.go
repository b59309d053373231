package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	authUseCase "github.com/vendora/realtime/application/usecases/auth"
	"github.com/vendora/realtime/domain/model"
	infraAuth "github.com/vendora/realtime/infrastructure/auth"
	"github.com/vendora/realtime/infrastructure/logger"
)

type fakeAuth struct {
	identity   model.Identity
	err        error
	credential string
}

func (f *fakeAuth) Authenticate(_ context.Context, credential string) (model.Identity, error) {
	f.credential = credential
	if f.err != nil {
		return model.Identity{}, f.err
	}
	return f.identity, nil
}

func performHandshake(t *testing.T, auth authUseCase.AuthUseCase, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.NewDevelopmentLogger()
	require.NoError(t, err)

	controller := NewWebSocketController(auth, nil, log)

	router := gin.New()
	router.GET("/ws", controller.HandleConnection)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	for key, values := range header {
		req.Header[key] = values
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestHandleConnection_MissingToken(t *testing.T) {
	auth := &fakeAuth{err: infraAuth.ErrTokenMissing}

	recorder := performHandshake(t, auth, "/ws", nil)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "authentication token is required")
	assert.Empty(t, auth.credential)
}

func TestHandleConnection_ExpiredToken(t *testing.T) {
	auth := &fakeAuth{err: infraAuth.ErrTokenExpired}

	recorder := performHandshake(t, auth, "/ws?token=stale", nil)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "token has expired")
	assert.Equal(t, "stale", auth.credential)
}

func TestHandleConnection_UnknownCustomer(t *testing.T) {
	auth := &fakeAuth{err: authUseCase.ErrCustomerNotFound}

	recorder := performHandshake(t, auth, "/ws?token=orphan", nil)

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "customer account not found")
}

func TestHandleConnection_BearerHeaderFallback(t *testing.T) {
	auth := &fakeAuth{err: infraAuth.ErrTokenInvalid}
	header := http.Header{"Authorization": []string{"Bearer from-header"}}

	performHandshake(t, auth, "/ws", header)

	assert.Equal(t, "from-header", auth.credential)
}

func TestHandleConnection_QueryTokenWinsOverHeader(t *testing.T) {
	auth := &fakeAuth{err: infraAuth.ErrTokenInvalid}
	header := http.Header{"Authorization": []string{"Bearer from-header"}}

	performHandshake(t, auth, "/ws?token=from-query", header)

	assert.Equal(t, "from-query", auth.credential)
}
