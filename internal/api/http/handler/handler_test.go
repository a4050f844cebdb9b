package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	ctxmanager "github.com/dtroode/taskhub-server/internal/api/http/context"
	"github.com/dtroode/taskhub-server/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
	RegisterValidators()
}

type envelope struct {
	Status  int               `json:"status"`
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Details map[string]string `json:"details"`
	Result  json.RawMessage   `json:"result"`
}

// withPayload stands in for the authentication middleware.
func withPayload(cm model.ContextManager, kind model.TokenKind, subject uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := cm.SetPayloadToContext(c.Request.Context(), kind, model.TokenPayload{SubjectID: subject, Kind: kind})
		c.Request = c.Request.WithContext(ctx)
	}
}

func newContextManager() model.ContextManager {
	return ctxmanager.NewManager()
}

func do(t *testing.T, r http.Handler, method, target, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}
