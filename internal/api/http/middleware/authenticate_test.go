package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	ctxmanager "github.com/dtroode/taskhub-server/internal/api/http/context"
	"github.com/dtroode/taskhub-server/internal/api/http/response"
	"github.com/dtroode/taskhub-server/internal/apierror"
	"github.com/dtroode/taskhub-server/internal/mocks"
	"github.com/dtroode/taskhub-server/internal/model"
	"github.com/dtroode/taskhub-server/internal/testutil"
	"github.com/dtroode/taskhub-server/internal/token"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// echoPayload writes the payload stored for kind, or 418 when none is set.
func echoPayload(cm model.ContextManager, kind model.TokenKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := cm.GetPayloadFromContext(c.Request.Context(), kind)
		if !ok {
			c.Status(http.StatusTeapot)
			return
		}
		c.JSON(http.StatusOK, gin.H{"subject_id": p.SubjectID.String()})
	}
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var body response.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestAuthenticate_AccessToken(t *testing.T) {
	t.Parallel()

	subject := uuid.New()

	tests := []struct {
		name        string
		header      string
		verifyToken string
		verifyErr   error
		wantStatus  int
		wantKind    apierror.Kind
		wantMessage string
	}{
		{
			name:        "missing authorization header",
			wantStatus:  http.StatusUnauthorized,
			wantKind:    apierror.KindMissingToken,
			wantMessage: "Access token is required",
		},
		{
			name:       "wrong scheme",
			header:     "Token abc",
			wantStatus: http.StatusUnauthorized,
			wantKind:   apierror.KindTokenInvalid,
		},
		{
			name:       "scheme without token",
			header:     "Bearer ",
			wantStatus: http.StatusUnauthorized,
			wantKind:   apierror.KindTokenInvalid,
		},
		{
			name:        "expired token",
			header:      "Bearer expired",
			verifyToken: "expired",
			verifyErr:   fmt.Errorf("%w: exp passed", token.ErrTokenExpired),
			wantStatus:  http.StatusUnauthorized,
			wantKind:    apierror.KindTokenExpired,
			wantMessage: "Access token is expired",
		},
		{
			name:        "invalid token",
			header:      "Bearer invalid",
			verifyToken: "invalid",
			verifyErr:   fmt.Errorf("%w: kind mismatch", token.ErrTokenInvalid),
			wantStatus:  http.StatusUnauthorized,
			wantKind:    apierror.KindTokenInvalid,
			wantMessage: "Access token is invalid",
		},
		{
			name:        "unexpected verifier error",
			header:      "Bearer tok",
			verifyToken: "tok",
			verifyErr:   assert.AnError,
			wantStatus:  http.StatusInternalServerError,
			wantKind:    apierror.KindInternal,
			wantMessage: "Internal server error",
		},
		{
			name:        "valid token",
			header:      "bearer tok",
			verifyToken: "tok",
			wantStatus:  http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewTokenService(t)
			if tt.verifyToken != "" {
				svc.On("VerifyToken", tt.verifyToken, model.TokenKindAccess).
					Return(model.TokenPayload{SubjectID: subject, Kind: model.TokenKindAccess}, tt.verifyErr).Once()
			}

			cm := ctxmanager.NewManager()
			mw := NewAuthenticate(svc, mocks.NewForgotPasswordChecker(t), cm, testutil.MakeNoopLogger())

			r := gin.New()
			r.GET("/", mw.AccessToken(), echoPayload(cm, model.TokenKindAccess))

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, rec.Body.String(), subject.String())
				return
			}

			body := decodeError(t, rec)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantKind, body.Error)
			if tt.wantMessage != "" {
				assert.Equal(t, tt.wantMessage, body.Message)
			}
			assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
		})
	}
}

func TestAuthenticate_RefreshToken(t *testing.T) {
	t.Parallel()

	subject := uuid.New()
	payload := model.TokenPayload{SubjectID: subject, Kind: model.TokenKindRefresh}

	tests := []struct {
		name          string
		body          string
		accessSubject uuid.UUID
		setup         func(svc *mocks.TokenService)
		wantStatus    int
		wantKind      apierror.Kind
	}{
		{
			name:       "empty body",
			wantStatus: http.StatusUnauthorized,
			wantKind:   apierror.KindMissingToken,
		},
		{
			name:       "malformed body",
			body:       `{"refresh_token":`,
			wantStatus: http.StatusUnprocessableEntity,
			wantKind:   apierror.KindValidation,
		},
		{
			name:       "wrong kind",
			body:       `{"refresh_token":"access"}`,
			wantStatus: http.StatusUnauthorized,
			wantKind:   apierror.KindTokenInvalid,
			setup: func(svc *mocks.TokenService) {
				svc.On("VerifyToken", "access", model.TokenKindRefresh).
					Return(model.TokenPayload{}, token.ErrTokenInvalid).Once()
			},
		},
		{
			name:       "revoked session",
			body:       `{"refresh_token":"rt"}`,
			wantStatus: http.StatusUnauthorized,
			wantKind:   apierror.KindRefreshTokenRevoked,
			setup: func(svc *mocks.TokenService) {
				svc.On("VerifyToken", "rt", model.TokenKindRefresh).Return(payload, nil).Once()
				svc.On("SessionExists", mock.Anything, subject, "rt").Return(false, nil).Once()
			},
		},
		{
			name:       "session lookup failure",
			body:       `{"refresh_token":"rt"}`,
			wantStatus: http.StatusInternalServerError,
			wantKind:   apierror.KindInternal,
			setup: func(svc *mocks.TokenService) {
				svc.On("VerifyToken", "rt", model.TokenKindRefresh).Return(payload, nil).Once()
				svc.On("SessionExists", mock.Anything, subject, "rt").Return(false, assert.AnError).Once()
			},
		},
		{
			name:          "subject differs from access token",
			body:          `{"refresh_token":"rt"}`,
			accessSubject: uuid.New(),
			wantStatus:    http.StatusUnauthorized,
			wantKind:      apierror.KindTokenInvalid,
			setup: func(svc *mocks.TokenService) {
				svc.On("VerifyToken", "rt", model.TokenKindRefresh).Return(payload, nil).Once()
			},
		},
		{
			name:          "live session",
			body:          `{"refresh_token":"rt"}`,
			accessSubject: subject,
			wantStatus:    http.StatusOK,
			setup: func(svc *mocks.TokenService) {
				svc.On("VerifyToken", "rt", model.TokenKindRefresh).Return(payload, nil).Once()
				svc.On("SessionExists", mock.Anything, subject, "rt").Return(true, nil).Once()
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewTokenService(t)
			if tt.setup != nil {
				tt.setup(svc)
			}

			cm := ctxmanager.NewManager()
			mw := NewAuthenticate(svc, mocks.NewForgotPasswordChecker(t), cm, testutil.MakeNoopLogger())

			withAccess := func(c *gin.Context) {
				if tt.accessSubject != uuid.Nil {
					ctx := cm.SetPayloadToContext(c.Request.Context(), model.TokenKindAccess, model.TokenPayload{SubjectID: tt.accessSubject})
					c.Request = c.Request.WithContext(ctx)
				}
			}

			var rebound refreshTokenBody
			r := gin.New()
			r.POST("/", withAccess, mw.RefreshToken(), func(c *gin.Context) {
				require.NoError(t, c.ShouldBindBodyWith(&rebound, binding.JSON))
				echoPayload(cm, model.TokenKindRefresh)(c)
			})

			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, rec.Body.String(), subject.String())
				assert.Equal(t, "rt", rebound.RefreshToken)
				return
			}
			assert.Equal(t, tt.wantKind, decodeError(t, rec).Error)
		})
	}
}

func TestAuthenticate_RefreshToken_RevokedMessage(t *testing.T) {
	subject := uuid.New()
	svc := mocks.NewTokenService(t)
	svc.On("VerifyToken", "rt", model.TokenKindRefresh).Return(model.TokenPayload{SubjectID: subject}, nil).Once()
	svc.On("SessionExists", mock.Anything, subject, "rt").Return(false, nil).Once()

	mw := NewAuthenticate(svc, mocks.NewForgotPasswordChecker(t), ctxmanager.NewManager(), testutil.MakeNoopLogger())
	r := gin.New()
	r.POST("/", mw.RefreshToken(), func(c *gin.Context) { t.Fatal("handler must not run") })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"refresh_token":"rt"}`)))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "This refresh token does not exist", decodeError(t, rec).Message)
}

func TestAuthenticate_ForgotPasswordToken(t *testing.T) {
	t.Parallel()

	subject := uuid.New()
	payload := model.TokenPayload{SubjectID: subject, Kind: model.TokenKindForgotPassword}

	tests := []struct {
		name       string
		body       string
		setup      func(svc *mocks.TokenService, checker *mocks.ForgotPasswordChecker)
		wantStatus int
		wantKind   apierror.Kind
	}{
		{
			name:       "missing token",
			body:       `{"password":"x"}`,
			wantStatus: http.StatusUnauthorized,
			wantKind:   apierror.KindMissingToken,
		},
		{
			name:       "expired token",
			body:       `{"forgot_password_token":"ft"}`,
			wantStatus: http.StatusUnauthorized,
			wantKind:   apierror.KindTokenExpired,
			setup: func(svc *mocks.TokenService, _ *mocks.ForgotPasswordChecker) {
				svc.On("VerifyToken", "ft", model.TokenKindForgotPassword).Return(model.TokenPayload{}, token.ErrTokenExpired).Once()
			},
		},
		{
			name:       "user deleted",
			body:       `{"forgot_password_token":"ft"}`,
			wantStatus: http.StatusNotFound,
			wantKind:   apierror.KindUserNotFound,
			setup: func(svc *mocks.TokenService, checker *mocks.ForgotPasswordChecker) {
				svc.On("VerifyToken", "ft", model.TokenKindForgotPassword).Return(payload, nil).Once()
				checker.On("CheckForgotPasswordToken", mock.Anything, subject, "ft").Return(apierror.NewErrUserNotFound()).Once()
			},
		},
		{
			name:       "superseded token",
			body:       `{"forgot_password_token":"ft"}`,
			wantStatus: http.StatusUnauthorized,
			wantKind:   apierror.KindTokenInvalid,
			setup: func(svc *mocks.TokenService, checker *mocks.ForgotPasswordChecker) {
				svc.On("VerifyToken", "ft", model.TokenKindForgotPassword).Return(payload, nil).Once()
				checker.On("CheckForgotPasswordToken", mock.Anything, subject, "ft").
					Return(apierror.NewErrTokenInvalid("forgot password token")).Once()
			},
		},
		{
			name:       "outstanding token",
			body:       `{"forgot_password_token":"ft"}`,
			wantStatus: http.StatusOK,
			setup: func(svc *mocks.TokenService, checker *mocks.ForgotPasswordChecker) {
				svc.On("VerifyToken", "ft", model.TokenKindForgotPassword).Return(payload, nil).Once()
				checker.On("CheckForgotPasswordToken", mock.Anything, subject, "ft").Return(nil).Once()
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			svc := mocks.NewTokenService(t)
			checker := mocks.NewForgotPasswordChecker(t)
			if tt.setup != nil {
				tt.setup(svc, checker)
			}

			cm := ctxmanager.NewManager()
			mw := NewAuthenticate(svc, checker, cm, testutil.MakeNoopLogger())

			r := gin.New()
			r.POST("/", mw.ForgotPasswordToken(), echoPayload(cm, model.TokenKindForgotPassword))

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)))

			require.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus == http.StatusOK {
				assert.Contains(t, rec.Body.String(), subject.String())
				return
			}
			assert.Equal(t, tt.wantKind, decodeError(t, rec).Error)
		})
	}
}
