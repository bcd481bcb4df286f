package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mergington/internal/api"
	"mergington/internal/dto"
	"mergington/internal/repo"
	"mergington/internal/service"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zerolog.Nop()
	r, err := repo.NewRepository(filepath.Join(t.TempDir(), "test.db"), &logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	require.NoError(t, r.Seed(context.Background()))

	svc := service.NewService(r, &logger)
	return api.NewRouters(&api.Routers{Service: svc, StaticDir: t.TempDir()})
}

func doRequest(t *testing.T, app *gin.Engine, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	app.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}

func TestGetActivities(t *testing.T) {
	app := newTestServer(t)

	w := doRequest(t, app, http.MethodGet, "/activities")
	require.Equal(t, http.StatusOK, w.Code)

	activities := decode[[]dto.ActivityResponse](t, w)
	require.Len(t, activities, 9)
	for _, a := range activities {
		assert.NotNil(t, a.Participants)
		assert.Empty(t, a.Participants)
	}
}

func TestSignupScenario(t *testing.T) {
	app := newTestServer(t)

	w := doRequest(t, app, http.MethodPost, "/activities/Chess%20Club/signup?email=a@x.com")
	require.Equal(t, http.StatusOK, w.Code)
	msg := decode[dto.MessageResponse](t, w)
	assert.Equal(t, "Signed up a@x.com for Chess Club", msg.Message)

	w = doRequest(t, app, http.MethodGet, "/activities")
	require.Equal(t, http.StatusOK, w.Code)
	activities := decode[[]dto.ActivityResponse](t, w)

	var chess *dto.ActivityResponse
	for i := range activities {
		if activities[i].Name == "Chess Club" {
			chess = &activities[i]
		}
	}
	require.NotNil(t, chess)
	assert.Equal(t, []string{"a@x.com"}, chess.Participants)

	w = doRequest(t, app, http.MethodPost, "/activities/Chess%20Club/signup?email=a@x.com")
	require.Equal(t, http.StatusBadRequest, w.Code)
	errResp := decode[dto.ErrorResponse](t, w)
	assert.Equal(t, "Student is already signed up", errResp.Detail)
}

func TestSignupUnknownActivity(t *testing.T) {
	app := newTestServer(t)

	w := doRequest(t, app, http.MethodPost, "/activities/Knitting%20Circle/signup?email=a@x.com")
	require.Equal(t, http.StatusNotFound, w.Code)
	errResp := decode[dto.ErrorResponse](t, w)
	assert.Equal(t, "Activity not found", errResp.Detail)
}

func TestSignupMissingEmail(t *testing.T) {
	app := newTestServer(t)

	w := doRequest(t, app, http.MethodPost, "/activities/Chess%20Club/signup")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSignupActivityFull(t *testing.T) {
	app := newTestServer(t)

	for i := 0; i < 10; i++ {
		w := doRequest(t, app, http.MethodPost,
			fmt.Sprintf("/activities/Math%%20Club/signup?email=student%d@x.com", i))
		require.Equal(t, http.StatusOK, w.Code)
	}

	w := doRequest(t, app, http.MethodPost, "/activities/Math%20Club/signup?email=late@x.com")
	require.Equal(t, http.StatusBadRequest, w.Code)
	errResp := decode[dto.ErrorResponse](t, w)
	assert.Equal(t, "Activity is full", errResp.Detail)
}

func TestUnregisterFlow(t *testing.T) {
	app := newTestServer(t)

	w := doRequest(t, app, http.MethodPost, "/activities/Art%20Club/signup?email=a@x.com")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, app, http.MethodDelete, "/activities/Art%20Club/unregister?email=a@x.com")
	require.Equal(t, http.StatusOK, w.Code)
	msg := decode[dto.MessageResponse](t, w)
	assert.Equal(t, "Unregistered a@x.com from Art Club", msg.Message)

	w = doRequest(t, app, http.MethodDelete, "/activities/Art%20Club/unregister?email=a@x.com")
	require.Equal(t, http.StatusBadRequest, w.Code)
	errResp := decode[dto.ErrorResponse](t, w)
	assert.Equal(t, "Student is not signed up for this activity", errResp.Detail)
}

func TestUnregisterUnknownActivity(t *testing.T) {
	app := newTestServer(t)

	w := doRequest(t, app, http.MethodDelete, "/activities/Knitting%20Circle/unregister?email=a@x.com")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRootRedirect(t *testing.T) {
	app := newTestServer(t)

	w := doRequest(t, app, http.MethodGet, "/")
	require.Equal(t, http.StatusTemporaryRedirect, w.Code)
	assert.Equal(t, "/static/index.html", w.Header().Get("Location"))
}
