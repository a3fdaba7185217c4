package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pawpatrol/pkg/helpers"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(jwt *helpers.JWTManager, extra ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(RequestID())
	chain := append([]gin.HandlerFunc{Auth(jwt)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": ClaimsFrom(c).UserID, "uid": c.GetString(CtxUserIDKey)})
	})
	r.GET("/private", chain...)
	return r
}

func do(r http.Handler, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func errorOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal %s: %v", w.Body.String(), err)
	}
	return body.Error
}

func TestAuthGate(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := newEngine(jwt)
	tok, _, err := jwt.Generate(helpers.TokenPayload{UserID: "u-1", Name: "alice", Role: "civilian"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	cases := []struct {
		name   string
		header string
		code   int
		msg    string
	}{
		{"missing header", "", http.StatusUnauthorized, "no token provided"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "no token provided"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "no token provided"},
		{"garbage", "Bearer nope", http.StatusUnauthorized, "invalid token"},
		{"foreign secret", "Bearer " + mustToken(t, "other"), http.StatusUnauthorized, "invalid token"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			w := do(r, c.header)
			if w.Code != c.code || errorOf(t, w) != c.msg {
				t.Fatalf("code = %d body = %s", w.Code, w.Body.String())
			}
		})
	}

	w := do(r, "Bearer "+tok)
	if w.Code != http.StatusOK {
		t.Fatalf("valid token code = %d body = %s", w.Code, w.Body.String())
	}
	if w.Body.String() != `{"id":"u-1","uid":"u-1"}` {
		t.Fatalf("body = %s", w.Body.String())
	}
	if w.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID header")
	}
}

func mustToken(t *testing.T, secret string) string {
	t.Helper()
	tok, _, err := helpers.NewJWTManager(secret, time.Hour).Generate(helpers.TokenPayload{UserID: "u-1"})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	return tok
}

func TestRequireRole(t *testing.T) {
	jwt := helpers.NewJWTManager("secret", time.Hour)
	r := newEngine(jwt, RequireRole("shelter"))
	civ, _, _ := jwt.Generate(helpers.TokenPayload{UserID: "u-1", Role: "civilian"})
	staff, _, _ := jwt.Generate(helpers.TokenPayload{UserID: "u-2", Role: "shelter", ShelterID: "s-1"})

	w := do(r, "Bearer "+civ)
	if w.Code != http.StatusForbidden || errorOf(t, w) != "forbidden" {
		t.Fatalf("civilian code = %d body = %s", w.Code, w.Body.String())
	}
	if w := do(r, "Bearer "+staff); w.Code != http.StatusOK {
		t.Fatalf("shelter code = %d", w.Code)
	}
}

func TestRequestIDEchoesCallerValue(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(CtxRequestIDKey)) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != "abc-123" || w.Header().Get("X-Request-ID") != "abc-123" {
		t.Fatalf("body = %q header = %q", w.Body.String(), w.Header().Get("X-Request-ID"))
	}
}

func TestRealIPAndPrivateAllow(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	allow := AllowPrivateIP()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ip": c.GetString(CtxRealIPKey), "private": allow(c)})
	})

	cases := []struct {
		headers map[string]string
		want    string
	}{
		{map[string]string{"CF-Connecting-IP": "203.0.113.9"}, `{"ip":"203.0.113.9","private":false}`},
		{map[string]string{"X-Forwarded-For": "10.1.2.3, 203.0.113.9"}, `{"ip":"10.1.2.3","private":true}`},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		for k, v := range c.headers {
			req.Header.Set(k, v)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Body.String() != c.want {
			t.Fatalf("body = %s, want %s", w.Body.String(), c.want)
		}
	}
}

func TestRateLimitWithoutRedisIsPassThrough(t *testing.T) {
	r := gin.New()
	r.GET("/", RateLimit(nil, 1, time.Minute, KeyByIP(), nil), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("request %d code = %d", i, w.Code)
		}
	}
}
