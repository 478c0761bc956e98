package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/draftforge/draftforge-backend/internal/logger"
	"github.com/draftforge/draftforge-backend/internal/requestdata"
)

type fakeVerifier struct {
	expect string
	rd     *requestdata.RequestData
}

func (fv *fakeVerifier) Verify(_ context.Context, tokenString string) (*requestdata.RequestData, error) {
	if tokenString != fv.expect {
		return nil, errors.New("Invalid token")
	}
	return fv.rd, nil
}

func newAuthRouter(verifier *fakeVerifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	am := NewAuthMiddleware(logger.NewNop(), verifier)
	r.GET("/protected", am.RequireAuth(), func(c *gin.Context) {
		rd := requestdata.GetRequestData(c.Request.Context())
		if rd == nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no request data"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user_id": rd.UserID})
	})
	return r
}

func TestRequireAuthBearerHeader(t *testing.T) {
	userID := uuid.New()
	r := newAuthRouter(&fakeVerifier{expect: "good-token", rd: &requestdata.RequestData{UserID: userID}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
}

func TestRequireAuthQueryToken(t *testing.T) {
	r := newAuthRouter(&fakeVerifier{expect: "qtoken", rd: &requestdata.RequestData{UserID: uuid.New()}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected?token=qtoken", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("query token should authenticate, status=%d", w.Code)
	}
}

func TestRequireAuthHeaderWinsOverQuery(t *testing.T) {
	r := newAuthRouter(&fakeVerifier{expect: "header-token", rd: &requestdata.RequestData{UserID: uuid.New()}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected?token=header-token", nil)
	req.Header.Set("Authorization", "Bearer wrong-token")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("a present header must be used even when wrong, status=%d", w.Code)
	}
}

func TestRequireAuthMissingToken(t *testing.T) {
	r := newAuthRouter(&fakeVerifier{expect: "x"})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", w.Code)
	}
}

func TestRequireAuthBadToken(t *testing.T) {
	r := newAuthRouter(&fakeVerifier{expect: "right"})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer forged")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status=%d, want 401", w.Code)
	}
}

func TestRequireAuthNilIdentity(t *testing.T) {
	r := newAuthRouter(&fakeVerifier{expect: "tok", rd: &requestdata.RequestData{}})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer tok")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("a nil user id must be forbidden, status=%d", w.Code)
	}
}
