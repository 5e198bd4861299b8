package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wireworld/internal/core"
	"wireworld/levels"
)

func init() { gin.SetMode(gin.TestMode) }

func newServer(t *testing.T) http.Handler {
	t.Helper()
	catalog, err := levels.Catalog()
	require.NoError(t, err)
	return New(Options{Catalog: catalog, Load: levels.Load, Metrics: true}).Handler()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		req = httptest.NewRequest(method, path, bytes.NewReader(data))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

type statusView struct {
	ID       string `json:"id"`
	Exercise int    `json:"exercise"`
	Outcome  string `json:"outcome"`
	Locked   bool   `json:"locked"`
	Paused   bool   `json:"paused"`
	Complete bool   `json:"complete"`
	Outputs  []struct {
		Status string `json:"status"`
	} `json:"outputs"`
}

func create(t *testing.T, h http.Handler, body CreateRequest) statusView {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/sessions", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[statusView](t, rec)
}

func TestLevels(t *testing.T) {
	h := newServer(t)
	rec := do(t, h, http.MethodGet, "/levels", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"file":"wire.level"`)
}

func TestPlayWireLevelOverHTTP(t *testing.T) {
	h := newServer(t)
	rec := do(t, h, http.MethodPost, "/sessions", CreateRequest{File: "wire.level"})
	require.Equal(t, http.StatusCreated, rec.Code)
	st := decode[statusView](t, rec)
	require.NotEmpty(t, st.ID)
	assert.Equal(t, "inactive", st.Outputs[0].Status)

	rec = do(t, h, http.MethodPost, "/sessions/"+st.ID+"/play", map[string]float64{"interval_seconds": 0.5})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, decode[statusView](t, rec).Locked)

	rec = do(t, h, http.MethodPost, "/sessions/"+st.ID+"/edit", EditRequest{X: 2, Y: 1, Kind: "empty"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "LOCKED", decode[ErrorResponse](t, rec).Code)

	rec = do(t, h, http.MethodPost, "/sessions/"+st.ID+"/tick", TickRequest{Count: 100})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp struct {
		Reports []struct {
			Tick    int    `json:"tick"`
			Outcome string `json:"outcome"`
		} `json:"reports"`
		Status statusView `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Reports, 5, "ticking stops at level completion")
	assert.Equal(t, "complete", resp.Reports[4].Outcome)
	assert.True(t, resp.Status.Complete)
	assert.False(t, resp.Status.Locked)

	rec = do(t, h, http.MethodGet, "/sessions/"+st.ID+"/grid", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	grid := decode[GridResponse](t, rec)
	assert.Equal(t, 7, grid.Width)
	assert.Len(t, grid.Rows, 3)
}

func TestCreateFromText(t *testing.T) {
	h := newServer(t)
	st := create(t, h, CreateRequest{Level: "1 1\nfalse\na\n0\n"})

	rec := do(t, h, http.MethodPost, "/sessions/"+st.ID+"/tick", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/sessions/"+st.ID+"/grid", nil)
	assert.Equal(t, []string{"t"}, decode[GridResponse](t, rec).Rows)
}

func TestCreateErrors(t *testing.T) {
	h := newServer(t)

	rec := do(t, h, http.MethodPost, "/sessions", CreateRequest{Level: "1 1\nmaybe\n"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "MALFORMED_LEVEL", decode[ErrorResponse](t, rec).Code)

	rec = do(t, h, http.MethodPost, "/sessions", CreateRequest{File: "missing.level"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPost, "/sessions", CreateRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEditErrors(t *testing.T) {
	h := newServer(t)
	st := create(t, h, CreateRequest{File: "wire.level"})
	path := "/sessions/" + st.ID + "/edit"

	cases := []struct {
		req    EditRequest
		status int
		code   string
	}{
		{EditRequest{X: 1, Y: 1, Kind: "empty"}, http.StatusConflict, "FIXED_CELL"},
		{EditRequest{X: 2, Y: 1, Kind: "electron"}, http.StatusConflict, "ELECTRON_UNAVAILABLE"},
		{EditRequest{X: 7, Y: 0, Kind: "wire"}, http.StatusBadRequest, "OUT_OF_BOUNDS"},
		{EditRequest{X: 2, Y: 1, Kind: "tail"}, http.StatusBadRequest, "INVALID_KIND"},
	}
	for _, tc := range cases {
		rec := do(t, h, http.MethodPost, path, tc.req)
		assert.Equal(t, tc.status, rec.Code, tc.code)
		assert.Equal(t, tc.code, decode[ErrorResponse](t, rec).Code)
	}

	rec := do(t, h, http.MethodPost, path, EditRequest{X: 2, Y: 1, Kind: "empty"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, EditResponse{Pos: core.Point{X: 2, Y: 1}, Old: "wire", New: "empty"}, decode[EditResponse](t, rec))
}

func TestPauseRestartDelete(t *testing.T) {
	srv := New(Options{Load: levels.Load})
	h := srv.Handler()
	st := create(t, h, CreateRequest{Level: "1 1\nfalse\nw\n1\nd\n\n5\n0\n1\n0 9 0 0\n"})
	base := "/sessions/" + st.ID

	do(t, h, http.MethodPost, base+"/play", nil)
	rec := do(t, h, http.MethodPost, base+"/pause", nil)
	paused := decode[statusView](t, rec)
	assert.True(t, paused.Paused)
	assert.True(t, paused.Locked)

	rec = do(t, h, http.MethodPost, base+"/restart", nil)
	assert.False(t, decode[statusView](t, rec).Locked)

	rec = do(t, h, http.MethodPost, base+"/reload", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, 1, srv.Len())
	assert.Equal(t, http.StatusNoContent, do(t, h, http.MethodDelete, base, nil).Code)
	assert.Equal(t, 0, srv.Len())
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, base, nil).Code)
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodDelete, base, nil).Code)
}

func TestTickCountLimit(t *testing.T) {
	h := newServer(t)
	st := create(t, h, CreateRequest{File: "free.level"})
	rec := do(t, h, http.MethodPost, "/sessions/"+st.ID+"/tick", TickRequest{Count: MaxTicksPerRequest + 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	h := newServer(t)
	st := create(t, h, CreateRequest{File: "free.level"})
	do(t, h, http.MethodPost, "/sessions/"+st.ID+"/tick", nil)

	rec := do(t, h, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "wireworld_ticks_total"))
}

func TestSteppedExerciseRejectsEdits(t *testing.T) {
	h := newServer(t)
	st := create(t, h, CreateRequest{Level: "5 3\ntrue\n. . . . .\nw w w w w\n. . . . .\n1\nlamp\n\n9\n0\n1\n1 5 2 1\n"})
	assert.False(t, st.Locked)

	rec := do(t, h, http.MethodPost, "/sessions/"+st.ID+"/tick", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPost, "/sessions/"+st.ID+"/edit", EditRequest{X: 1, Y: 1, Kind: "electron"})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "LOCKED", decode[ErrorResponse](t, rec).Code)
}
