package ui

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"chartdesk/internal"
	"chartdesk/internal/config"
	"chartdesk/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testClient struct {
	t      *testing.T
	server *Server
	cookie *http.Cookie
}

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Port: "0", GinMode: gin.TestMode, ShutdownTimeout: time.Second},
		Log:     config.LogConfig{Level: "ERROR"},
		Upload:  config.UploadConfig{MaxBytes: 1 << 20},
		View:    config.ViewConfig{DefaultLang: "en", PreviewRows: 10},
		Charts:  config.ChartConfig{CategoryLimit: 30, PieLimit: 15},
		Session: config.SessionConfig{TTL: time.Hour},
	}
}

func newTestClient(t *testing.T) *testClient {
	t.Helper()
	logger := internal.NewLoggerTo(io.Discard, internal.LogLevelError)
	srv, err := NewServer(testConfig(), session.NewStore(time.Hour), logger)
	require.NoError(t, err)
	return &testClient{t: t, server: srv}
}

func (tc *testClient) do(req *http.Request) *httptest.ResponseRecorder {
	tc.t.Helper()
	if tc.cookie != nil {
		req.AddCookie(tc.cookie)
	}
	rec := httptest.NewRecorder()
	tc.server.Handler().ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		if c.Name == session.CookieName {
			tc.cookie = c
		}
	}
	return rec
}

func (tc *testClient) get(target string) *httptest.ResponseRecorder {
	return tc.do(httptest.NewRequest(http.MethodGet, target, nil))
}

func (tc *testClient) upload(filename, body string, asJSON bool) *httptest.ResponseRecorder {
	tc.t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("dataset", filename)
	require.NoError(tc.t, err)
	_, err = part.Write([]byte(body))
	require.NoError(tc.t, err)
	require.NoError(tc.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if asJSON {
		req.Header.Set("Accept", "application/json")
	}
	return tc.do(req)
}

func (tc *testClient) view(query url.Values) map[string]interface{} {
	tc.t.Helper()
	rec := tc.get("/api/view?" + query.Encode())
	require.Equal(tc.t, http.StatusOK, rec.Code, rec.Body.String())
	var out map[string]interface{}
	require.NoError(tc.t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func accountsCSV() string {
	var b strings.Builder
	b.WriteString("id,status,region,revenue\n")
	regions := []string{"north", "south", "east", "west"}
	for i := 0; i < 100; i++ {
		status := "paused"
		if i < 40 {
			status = "active"
		}
		fmt.Fprintf(&b, "%d,%s,%s,%d\n", i, status, regions[i%4], 10+i)
	}
	return b.String()
}

func TestIndexWithoutTable(t *testing.T) {
	tc := newTestClient(t)

	rec := tc.get("/")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Upload your Excel or CSV file:")
	assert.Contains(t, rec.Body.String(), `name="dataset"`)
	require.NotNil(t, tc.cookie, "session cookie is set")
}

func TestLocaleSelection(t *testing.T) {
	tc := newTestClient(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "fa-IR,fa;q=0.9")
	rec := tc.do(req)
	assert.Contains(t, rec.Body.String(), `dir="rtl"`)
	assert.Contains(t, rec.Body.String(), "فایل اکسل یا سی‌اِس‌وی خود را آپلود کنید")

	rec = tc.get("/?lang=en")
	assert.Contains(t, rec.Body.String(), `dir="ltr"`)

	rec = tc.get("/")
	assert.Contains(t, rec.Body.String(), `lang="en"`, "the choice sticks to the session")
}

func TestUploadAndView(t *testing.T) {
	tc := newTestClient(t)

	rec := tc.upload("accounts.csv", accountsCSV(), false)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	view := tc.view(url.Values{})
	assert.Equal(t, true, view["loaded"])
	assert.Equal(t, float64(100), view["row_count"])
	assert.Equal(t, float64(4), view["column_count"])

	suggestions := view["suggestions"].([]interface{})
	require.Len(t, suggestions, 4)
	first := suggestions[0].(map[string]interface{})["spec"].(map[string]interface{})
	assert.Equal(t, "Bar", first["kind"])
	assert.Equal(t, "status", first["x"])
	assert.Equal(t, "id", first["y"])

	page := tc.get("/")
	assert.Contains(t, page.Body.String(), "File uploaded successfully")
	assert.Contains(t, page.Body.String(), `data-option=`)
}

func TestFilterViaQuery(t *testing.T) {
	tc := newTestClient(t)
	tc.upload("accounts.csv", accountsCSV(), false)

	view := tc.view(url.Values{"cols": {"status"}, "v.status": {"active"}})
	assert.Equal(t, float64(40), view["row_count"])
	assert.Equal(t, float64(100), view["base_row_count"])

	view = tc.view(url.Values{"cols": {"status", "region"}, "v.status": {"active"}, "v.region": {"north"}})
	assert.Equal(t, float64(10), view["row_count"])

	view = tc.view(url.Values{"cols": {"status"}})
	assert.Equal(t, float64(100), view["row_count"], "a column without values does not filter")

	view = tc.view(url.Values{"cols": {"status"}, "v.status": {"gone"}})
	assert.Equal(t, float64(0), view["row_count"])
	assert.NotEmpty(t, view["suggestions"], "empty views still chart")

	view = tc.view(url.Values{"cols": {"nope"}, "v.nope": {"x"}})
	assert.Equal(t, float64(100), view["row_count"], "unknown columns are ignored")
}

func TestCustomChartPieWarning(t *testing.T) {
	tc := newTestClient(t)
	tc.upload("accounts.csv", accountsCSV(), false)

	view := tc.view(url.Values{"kind": {"Pie"}, "x": {"id"}, "y": {"revenue"}})
	custom := view["custom"].(map[string]interface{})
	assert.Contains(t, custom["warning"], "at most 15 unique values")
	assert.Nil(t, custom["chart"])

	view = tc.view(url.Values{"kind": {"Pie"}, "x": {"region"}, "y": {"revenue"}})
	custom = view["custom"].(map[string]interface{})
	assert.Nil(t, custom["warning"])
	chart := custom["chart"].(map[string]interface{})
	spec := chart["spec"].(map[string]interface{})
	assert.Equal(t, "Pie: revenue by region", spec["title"])

	view = tc.view(url.Values{"lang": {"fa"}, "kind": {"Line"}, "x": {"region"}, "y": {"revenue"}})
	custom = view["custom"].(map[string]interface{})
	spec = custom["chart"].(map[string]interface{})["spec"].(map[string]interface{})
	assert.Equal(t, "Line: revenue بر اساس region", spec["title"])
}

func TestUploadFailureClearsTable(t *testing.T) {
	tc := newTestClient(t)
	tc.upload("accounts.csv", accountsCSV(), false)

	rec := tc.upload("notes.txt", "hello", true)
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "UNSUPPORTED_FORMAT", body["code"])

	view := tc.view(url.Values{})
	assert.Equal(t, false, view["loaded"])
	assert.Contains(t, view["error"], "Error processing file")

	tc.upload("accounts.csv", accountsCSV(), false)
	rec = tc.upload("broken.csv", "a,b\n1,2,3\n", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "PARSE_FAILED", body["code"])
	assert.Equal(t, false, tc.view(url.Values{})["loaded"])
}

func TestUploadTooLarge(t *testing.T) {
	tc := newTestClient(t)
	tc.upload("accounts.csv", accountsCSV(), false)

	rec := tc.upload("big.csv", "a\n"+strings.Repeat("1\n", 1<<20), true)

	assert.NotEqual(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, tc.view(url.Values{})["loaded"])
}

func TestUploadMissingField(t *testing.T) {
	tc := newTestClient(t)

	req := httptest.NewRequest(http.MethodPost, "/upload", strings.NewReader(""))
	req.Header.Set("Accept", "application/json")
	rec := tc.do(req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "INVALID_INPUT")
}

func TestReset(t *testing.T) {
	tc := newTestClient(t)
	tc.get("/?lang=fa")
	tc.upload("accounts.csv", accountsCSV(), false)
	before := tc.cookie.Value

	rec := tc.do(httptest.NewRequest(http.MethodPost, "/reset", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.NotEqual(t, before, tc.cookie.Value, "reset starts a new session")
	_, ok := tc.server.store.Get(before)
	assert.False(t, ok, "the old session is dropped")

	view := tc.view(url.Values{})
	assert.Equal(t, false, view["loaded"])
	assert.Equal(t, "fa", view["lang"])
}

func TestUnknownRoute(t *testing.T) {
	tc := newTestClient(t)

	rec := tc.get("/api/missing")

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body["code"])
	assert.Contains(t, body["error"], "/api/missing")
}

func TestViewWithOverflowingTotals(t *testing.T) {
	tc := newTestClient(t)
	rec := tc.upload("big.csv", "region,sales\nA,1e308\nA,1e308\nB,1\n", true)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	view := tc.view(url.Values{})
	assert.Equal(t, true, view["loaded"])
	assert.NotEmpty(t, view["suggestions"])

	page := tc.get("/")
	assert.Equal(t, http.StatusOK, page.Code)
}

func TestHTMXRendersFragment(t *testing.T) {
	tc := newTestClient(t)
	tc.upload("accounts.csv", accountsCSV(), false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("HX-Request", "true")
	rec := tc.do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "<html")
	assert.Contains(t, rec.Body.String(), `id="view-form"`)
}

func TestAssets(t *testing.T) {
	tc := newTestClient(t)

	rec := tc.get("/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())

	rec = tc.get("/static/js/app.js")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "echarts.init")

	rec = tc.get("/static/css/missing.css")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
