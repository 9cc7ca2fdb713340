package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/aiclub-backend/internal/platform/apierr"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) ErrorEnvelope {
	t.Helper()
	var env ErrorEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v body=%s", err, rec.Body.String())
	}
	return env
}

func TestRespondAPIErrorUsesTypedStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	RespondAPIError(c, apierr.Conflict("email_taken", "email is already registered"))

	if rec.Code != http.StatusConflict {
		t.Fatalf("status: want=%d got=%d", http.StatusConflict, rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error.Code != "email_taken" || env.Error.Message != "email is already registered" {
		t.Fatalf("envelope: got=%+v", env.Error)
	}
}

func TestRespondAPIErrorHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)

	RespondAPIError(c, errors.New("pq: connection refused on 10.0.0.3"))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status: want=500 got=%d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Error.Code != "internal_error" || env.Error.Message != "internal server error" {
		t.Fatalf("envelope leaked internals: %+v", env.Error)
	}
	if len(c.Errors) != 1 {
		t.Fatalf("cause should be kept on the context: got=%d", len(c.Errors))
	}
}
