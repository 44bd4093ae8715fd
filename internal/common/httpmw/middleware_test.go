package httpmw

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taskdeck/taskdeck/internal/auth/token"
	"github.com/taskdeck/taskdeck/internal/common/logger"
)

func authTestRouter(t *testing.T, tokens *token.Manager) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log, err := logger.NewLogger(logger.LoggingConfig{Level: "error", Format: "json", OutputPath: "stdout"})
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	router := gin.New()
	router.GET("/whoami", RequireAuth(tokens, log), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"userId": UserID(c)})
	})
	return router
}

func doAuthRequest(router *gin.Engine, header string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequireAuth_ValidToken(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)
	router := authTestRouter(t, tokens)

	signed, err := tokens.Issue("u1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	w := doAuthRequest(router, "Bearer "+signed)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp["userId"] != "u1" {
		t.Errorf("expected user u1, got %q", resp["userId"])
	}
}

func TestRequireAuth_Rejections(t *testing.T) {
	tokens := token.NewManager("test-secret", time.Hour)
	router := authTestRouter(t, tokens)

	otherSigned, err := token.NewManager("other-secret", time.Hour).Issue("u1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	expiredSigned, err := token.NewManager("test-secret", -time.Minute).Issue("u1")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	cases := map[string]struct {
		header  string
		message string
	}{
		"missing header":   {"", "missing authorization header"},
		"wrong scheme":     {"Token abc", "invalid authorization header"},
		"no scheme":        {"just-a-token", "invalid authorization header"},
		"garbage token":    {"Bearer not.a.jwt", "invalid or expired token"},
		"wrong secret":     {"Bearer " + otherSigned, "invalid or expired token"},
		"expired token":    {"Bearer " + expiredSigned, "invalid or expired token"},
		"lowercase bearer": {"bearer ", "invalid or expired token"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			w := doAuthRequest(router, tc.header)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
			}

			var resp ErrorResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if resp.Message != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, resp.Message)
			}
		})
	}
}
