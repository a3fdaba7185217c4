package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pawpatrol/config"
	"github.com/oksasatya/pawpatrol/internal/container"
	"github.com/oksasatya/pawpatrol/internal/infrastructure/memory"
	"github.com/oksasatya/pawpatrol/pkg/helpers"
)

func newTestServer(t *testing.T) *gin.Engine {
	t.Helper()
	container.Reset()
	t.Cleanup(container.Reset)

	cfg := &config.Config{
		GinMode:             gin.TestMode,
		JWTSecret:           "test-secret",
		TokenTTL:            168 * time.Hour,
		CORSAllowedOrigins:  "*",
		MediaMaxUploadBytes: 1 << 20,
	}
	container.SetConfig(cfg)
	container.SetLogger(helpers.DiscardLogger())
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL))
	container.SetMemoryStore(memory.NewStore())
	return NewEngine(cfg, helpers.DiscardLogger())
}

func call(t *testing.T, r http.Handler, method, path, token string, body any) (int, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	out := map[string]any{}
	if w.Body.Len() > 0 && w.Body.Bytes()[0] == '{' {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s %s: decode %q: %v", method, path, w.Body.String(), err)
		}
	}
	return w.Code, out
}

func callList(t *testing.T, r http.Handler, path, token string) (int, []map[string]any) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out []map[string]any
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
			t.Fatalf("GET %s: decode %q: %v", path, w.Body.String(), err)
		}
	}
	return w.Code, out
}

func register(t *testing.T, r http.Handler, name string) (id, token string) {
	t.Helper()
	code, body := call(t, r, http.MethodPost, "/auth/register", "", map[string]any{"name": name, "password": "secret1"})
	if code != http.StatusCreated {
		t.Fatalf("register %s: %d %v", name, code, body)
	}
	user := body["user"].(map[string]any)
	return user["id"].(string), body["token"].(string)
}

func TestAliceReportsADog(t *testing.T) {
	r := newTestServer(t)

	aliceID, _ := register(t, r, "Alice")
	code, body := call(t, r, http.MethodPost, "/auth/login", "", map[string]any{"name": "Alice", "password": "secret1"})
	if code != http.StatusOK {
		t.Fatalf("login: %d %v", code, body)
	}
	tokenA := body["token"].(string)

	code, body = call(t, r, http.MethodPost, "/dog-reports", tokenA, map[string]any{
		"location": map[string]any{"x": -122.4, "y": 37.7},
	})
	if code != http.StatusCreated {
		t.Fatalf("create report: %d %v", code, body)
	}
	if body["status"] != "reported" || body["count"] != 1.0 || body["aggressiveness"] != 0.0 || body["reporterId"] != aliceID {
		t.Fatalf("report = %v", body)
	}
	if body["acknowledgedOn"] != nil {
		t.Fatalf("acknowledgedOn = %v, want null", body["acknowledgedOn"])
	}
	loc := body["location"].(map[string]any)
	if loc["x"] != -122.4 || loc["y"] != 37.7 {
		t.Fatalf("location = %v", loc)
	}

	code, mine := callList(t, r, "/dog-reports/my-reports", tokenA)
	if code != http.StatusOK || len(mine) != 1 || mine[0]["id"] != body["id"] {
		t.Fatalf("my-reports: %d %v", code, mine)
	}
}

func TestLoginFailures(t *testing.T) {
	r := newTestServer(t)
	register(t, r, "Alice")

	code, body := call(t, r, http.MethodPost, "/auth/login", "", map[string]any{"name": "Alice", "password": "wrong-pass"})
	if code != http.StatusUnauthorized || body["error"] != "invalid credentials" {
		t.Fatalf("wrong password: %d %v", code, body)
	}
	code, body = call(t, r, http.MethodPost, "/auth/register", "", map[string]any{"name": "Alice", "password": "secret1"})
	if code != http.StatusBadRequest {
		t.Fatalf("duplicate register: %d %v", code, body)
	}
	code, body = call(t, r, http.MethodPost, "/auth/register", "", map[string]any{"name": "Bob", "password": "123"})
	if code != http.StatusBadRequest {
		t.Fatalf("short password: %d %v", code, body)
	}
	details := body["details"].(map[string]any)
	if details["password"] != "min length 6" {
		t.Fatalf("details = %v", details)
	}
}

func TestAuthGateOnRoutes(t *testing.T) {
	r := newTestServer(t)

	code, body := call(t, r, http.MethodGet, "/dog-reports", "", nil)
	if code != http.StatusUnauthorized || body["error"] != "no token provided" {
		t.Fatalf("no token: %d %v", code, body)
	}
	code, body = call(t, r, http.MethodGet, "/dog-reports", "garbage", nil)
	if code != http.StatusUnauthorized || body["error"] != "invalid token" {
		t.Fatalf("bad token: %d %v", code, body)
	}
	if code, _ := call(t, r, http.MethodGet, "/shelters", "", nil); code != http.StatusOK {
		t.Fatalf("public shelters: %d", code)
	}
	if code, _ := call(t, r, http.MethodGet, "/healthz", "", nil); code != http.StatusOK {
		t.Fatalf("healthz: %d", code)
	}
}

func TestCreateReportWithoutLocationIsRejected(t *testing.T) {
	r := newTestServer(t)
	_, tok := register(t, r, "Alice")

	code, body := call(t, r, http.MethodPost, "/dog-reports", tok, map[string]any{"count": 2})
	if code != http.StatusBadRequest {
		t.Fatalf("create: %d %v", code, body)
	}
	code, list := callList(t, r, "/dog-reports", tok)
	if code != http.StatusOK || len(list) != 0 {
		t.Fatalf("list: %d %v", code, list)
	}
}

func TestNonOwnerCannotEditReport(t *testing.T) {
	r := newTestServer(t)
	_, alice := register(t, r, "Alice")
	_, bob := register(t, r, "Bob")

	_, rep := call(t, r, http.MethodPost, "/dog-reports", alice, map[string]any{
		"location": map[string]any{"x": 1, "y": 2}, "count": 2,
	})
	id := rep["id"].(string)

	code, body := call(t, r, http.MethodPut, "/dog-reports/"+id, bob, map[string]any{"count": 7})
	if code != http.StatusForbidden || body["error"] != "forbidden" {
		t.Fatalf("bob update: %d %v", code, body)
	}
	if code, _ := call(t, r, http.MethodDelete, "/dog-reports/"+id, bob, nil); code != http.StatusForbidden {
		t.Fatalf("bob delete: %d", code)
	}
	code, body = call(t, r, http.MethodGet, "/dog-reports/"+id, bob, nil)
	if code != http.StatusOK || body["count"] != 2.0 {
		t.Fatalf("get: %d %v", code, body)
	}
	code, body = call(t, r, http.MethodPatch, "/dog-reports/"+id+"/status", bob, map[string]any{"status": "acknowledged"})
	if code != http.StatusForbidden {
		t.Fatalf("civilian status: %d %v", code, body)
	}

	code, body = call(t, r, http.MethodPut, "/dog-reports/"+id, alice, map[string]any{"count": 3})
	if code != http.StatusOK || body["count"] != 3.0 {
		t.Fatalf("alice update: %d %v", code, body)
	}
	if code, _ := call(t, r, http.MethodGet, "/dog-reports/00000000-0000-0000-0000-000000000000", bob, nil); code != http.StatusNotFound {
		t.Fatalf("missing report: %d", code)
	}
}

func TestShelterCreationPromotesAndAcknowledges(t *testing.T) {
	r := newTestServer(t)
	aliceID, alice := register(t, r, "Alice")
	_, staffOld := register(t, r, "Sam")

	_, rep := call(t, r, http.MethodPost, "/dog-reports", alice, map[string]any{"location": map[string]any{"x": 106.8, "y": -6.2}})
	id := rep["id"].(string)

	code, body := call(t, r, http.MethodPost, "/shelters", staffOld, map[string]any{
		"name": "Happy Tails", "location": map[string]any{"x": 106.82, "y": -6.21},
	})
	if code != http.StatusCreated {
		t.Fatalf("create shelter: %d %v", code, body)
	}
	shelterID := body["id"].(string)
	staff := body["token"].(string)

	// the stored profile reflects the promotion even for the old token
	code, me := call(t, r, http.MethodGet, "/users/me", staffOld, nil)
	if code != http.StatusOK || me["type"] != "shelter" || me["shelterId"] != shelterID {
		t.Fatalf("users/me: %d %v", code, me)
	}
	// the old token still carries the civilian role
	if code, _ := call(t, r, http.MethodPatch, "/dog-reports/"+id+"/status", staffOld, map[string]any{"status": "acknowledged"}); code != http.StatusForbidden {
		t.Fatalf("stale token status: %d", code)
	}

	code, body = call(t, r, http.MethodPatch, "/dog-reports/"+id+"/status", staff, map[string]any{"status": "acknowledged"})
	if code != http.StatusOK || body["status"] != "acknowledged" || body["acknowledgedOn"] == nil {
		t.Fatalf("acknowledge: %d %v", code, body)
	}
	if body["reporterId"] != aliceID {
		t.Fatalf("reporterId = %v", body["reporterId"])
	}
	code, body = call(t, r, http.MethodPatch, "/dog-reports/"+id+"/status", staff, map[string]any{"status": "lost"})
	if code != http.StatusBadRequest {
		t.Fatalf("invalid status: %d %v", code, body)
	}

	// staff may edit any report; civilians may not manage shelters
	if code, _ := call(t, r, http.MethodPut, "/dog-reports/"+id, staff, map[string]any{"aggressiveness": 2}); code != http.StatusOK {
		t.Fatalf("staff update: %d", code)
	}
	if code, _ := call(t, r, http.MethodDelete, "/shelters/"+shelterID, alice, nil); code != http.StatusForbidden {
		t.Fatalf("civilian shelter delete: %d", code)
	}
	if code, _ := call(t, r, http.MethodPut, "/shelters/"+shelterID, staff, map[string]any{"name": "Happier Tails"}); code != http.StatusOK {
		t.Fatalf("staff shelter update: %d", code)
	}
}

func TestNearbyAndMedia(t *testing.T) {
	r := newTestServer(t)
	_, alice := register(t, r, "Alice")
	_, bob := register(t, r, "Bob")

	_, rep := call(t, r, http.MethodPost, "/dog-reports", alice, map[string]any{"location": map[string]any{"x": 106.8456, "y": -6.2088}})
	id := rep["id"].(string)
	call(t, r, http.MethodPost, "/dog-reports", alice, map[string]any{"location": map[string]any{"x": 110.4, "y": -7.0}})

	code, near := callList(t, r, "/dog-reports/nearby?x=106.8456&y=-6.2090&radius=1000", alice)
	if code != http.StatusOK || len(near) != 1 || near[0]["id"] != id {
		t.Fatalf("nearby: %d %v", code, near)
	}
	if code, _ := call(t, r, http.MethodGet, "/dog-reports/nearby?x=500&y=0", alice, nil); code != http.StatusBadRequest {
		t.Fatalf("nearby bad x: %d", code)
	}

	media := map[string]any{"dogReportId": id, "url": "https://cdn.example.com/dog.jpg", "mime": "image/jpeg"}
	if code, _ := call(t, r, http.MethodPost, "/dog-report-media", bob, media); code != http.StatusForbidden {
		t.Fatalf("bob media: %d", code)
	}
	code, m := call(t, r, http.MethodPost, "/dog-report-media", alice, media)
	if code != http.StatusCreated || m["dogReportId"] != id {
		t.Fatalf("alice media: %d %v", code, m)
	}
	code, list := callList(t, r, "/dog-report-media/report/"+id, bob)
	if code != http.StatusOK || len(list) != 1 {
		t.Fatalf("list media: %d %v", code, list)
	}

	// no object storage is configured in tests
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	_ = mw.WriteField("dogReportId", id)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="file"; filename="dog.png"`)
	h.Set("Content-Type", "image/png")
	part, _ := mw.CreatePart(h)
	_, _ = part.Write([]byte("png"))
	_ = mw.Close()
	req := httptest.NewRequest(http.MethodPost, "/dog-report-media/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+alice)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("upload without storage: %d %s", w.Code, w.Body.String())
	}

	if code, _ := call(t, r, http.MethodDelete, "/dog-reports/"+id, alice, nil); code != http.StatusNoContent {
		t.Fatalf("delete report: %d", code)
	}
	if code, _ := call(t, r, http.MethodGet, "/dog-report-media/"+m["id"].(string), alice, nil); code != http.StatusNotFound {
		t.Fatalf("media after report delete: %d", code)
	}
}

func TestDeleteMeKeepsReports(t *testing.T) {
	r := newTestServer(t)
	_, alice := register(t, r, "Alice")
	_, bob := register(t, r, "Bob")
	_, rep := call(t, r, http.MethodPost, "/dog-reports", alice, map[string]any{"location": map[string]any{"x": 1, "y": 1}})

	if code, _ := call(t, r, http.MethodDelete, "/users/me", alice, nil); code != http.StatusNoContent {
		t.Fatalf("delete me: %d", code)
	}
	code, body := call(t, r, http.MethodGet, "/dog-reports/"+rep["id"].(string), bob, nil)
	if code != http.StatusOK || body["reporterId"] != nil {
		t.Fatalf("orphaned report: %d %v", code, body)
	}
	if code, _ := call(t, r, http.MethodGet, "/users/me", alice, nil); code != http.StatusNotFound {
		t.Fatalf("me after delete: %d", code)
	}
	if code, _ := call(t, r, http.MethodPost, "/dog-reports", alice, map[string]any{"location": map[string]any{"x": 1, "y": 1}}); code != http.StatusNotFound {
		t.Fatalf("report by deleted user: %d", code)
	}
}
