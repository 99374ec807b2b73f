package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/MichelleArumemi/EmployeeMS/internal/identity"
	"github.com/MichelleArumemi/EmployeeMS/internal/middleware"
	"github.com/MichelleArumemi/EmployeeMS/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func signToken(t *testing.T, userID, role string, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		UserID: userID,
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	})
	s, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return s
}

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware(testSecret), func(c *gin.Context) {
		p, _ := identity.FromGin(c)
		c.JSON(http.StatusOK, gin.H{"id": p.SubjectID.String(), "role": p.Role})
	})
	return r
}

func TestAuthMiddleware(t *testing.T) {
	subject := uuid.New()

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, subject.String(), "admin", time.Now().Add(time.Hour)))
		w := httptest.NewRecorder()

		newAuthRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"id":"`+subject.String()+`","role":"admin"}`, w.Body.String())
	})

	t.Run("query token for websocket handshake", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me?token="+signToken(t, subject.String(), "employee", time.Now().Add(time.Hour)), nil)
		w := httptest.NewRecorder()

		newAuthRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/me", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: signToken(t, subject.String(), "employee", time.Now().Add(time.Hour))})
		w := httptest.NewRecorder()

		newAuthRouter().ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	cases := []struct {
		name    string
		token   string
		message string
	}{
		{"missing token", "", "token not found"},
		{"expired", signToken(t, subject.String(), "admin", time.Now().Add(-time.Minute)), "token expired"},
		{"bad subject", signToken(t, "not-a-uuid", "admin", time.Now().Add(time.Hour)), "invalid token"},
		{"unknown role", signToken(t, subject.String(), "contractor", time.Now().Add(time.Hour)), "invalid token"},
		{"garbage", "abc.def.ghi", "invalid token"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			w := httptest.NewRecorder()

			newAuthRouter().ServeHTTP(w, req)

			env := decodeEnvelope(t, w)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.False(t, env.Ok)
			assert.Equal(t, "UNAUTHORIZED", env.Error.Code)
			assert.Equal(t, tc.message, env.Error.Message)
		})
	}
}

type fakeEnforcer struct {
	allowed bool
	got     rbac.EnforceRequest
}

func (f *fakeEnforcer) Enforce(req rbac.EnforceRequest) (bool, error) {
	f.got = req
	return f.allowed, nil
}

func TestRBACAuthorize(t *testing.T) {
	gin.SetMode(gin.TestMode)

	run := func(enf *fakeEnforcer, p *identity.Principal) *httptest.ResponseRecorder {
		r := gin.New()
		r.GET("/pending", func(c *gin.Context) {
			if p != nil {
				identity.Set(c, *p)
			}
		}, middleware.RBACAuthorize(enf, rbac.ResourceLeave, rbac.ActionReview), func(c *gin.Context) {
			c.Status(http.StatusNoContent)
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/pending", nil))
		return w
	}

	employee := identity.Principal{SubjectID: uuid.New(), Role: identity.RoleEmployee}

	t.Run("forbidden", func(t *testing.T) {
		enf := &fakeEnforcer{allowed: false}
		w := run(enf, &employee)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, "FORBIDDEN", decodeEnvelope(t, w).Error.Code)
		assert.Equal(t, identity.RoleEmployee, enf.got.Role)
		assert.Equal(t, "review", enf.got.Action)
	})

	t.Run("allowed", func(t *testing.T) {
		w := run(&fakeEnforcer{allowed: true}, &employee)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("no principal", func(t *testing.T) {
		w := run(&fakeEnforcer{allowed: true}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New().String()
	cacheKey := "idemp:/leave:" + userID + ":key-1"
	lockKey := cacheKey + ":lock"

	build := func() (*gin.Engine, redismock.ClientMock, *bool) {
		db, mock := redismock.NewClientMock()
		called := false
		r := gin.New()
		r.POST("/leave", func(c *gin.Context) {
			c.Set("user_id_validated", userID)
		}, middleware.Idempotency(db), func(c *gin.Context) {
			called = true
			assert.Equal(t, cacheKey, c.GetString(middleware.CtxIdempotencyCacheKey))
			assert.Equal(t, lockKey, c.GetString(middleware.CtxIdempotencyLockKey))
			c.Status(http.StatusCreated)
		})
		return r, mock, &called
	}

	request := func() *http.Request {
		req := httptest.NewRequest(http.MethodPost, "/leave", nil)
		req.Header.Set(middleware.HeaderIdempotencyKey, "key-1")
		return req
	}

	t.Run("first request acquires lock", func(t *testing.T) {
		r, mock, called := build()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, request())

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, *called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("replays cached response with its original status", func(t *testing.T) {
		r, mock, called := build()
		mock.ExpectGet(cacheKey).SetVal(`{"status":201,"data":{"id":"abc"}}`)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, request())

		env := decodeEnvelope(t, w)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "true", w.Header().Get(middleware.HeaderIdempotentHit))
		assert.JSONEq(t, `{"id":"abc"}`, string(env.Data))
		assert.False(t, *called)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unreadable cache entry runs the handler", func(t *testing.T) {
		r, mock, called := build()
		mock.ExpectGet(cacheKey).SetVal(`{"id":"abc"}`)
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, request())

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
		assert.Empty(t, w.Header().Get(middleware.HeaderIdempotentHit))
		assert.True(t, *called)
	})

	t.Run("completion stores status with result", func(t *testing.T) {
		db, mock := redismock.NewClientMock()
		r := gin.New()
		r.POST("/leave", func(c *gin.Context) {
			c.Set(middleware.CtxIdempotencyCacheKey, cacheKey)
			middleware.CompleteIdempotent(c.Request.Context(), c, db, http.StatusCreated, map[string]string{"id": "abc"})
			c.Status(http.StatusCreated)
		})
		mock.ExpectSet(cacheKey, []byte(`{"status":201,"data":{"id":"abc"}}`), 24*time.Hour).SetVal("OK")

		w := httptest.NewRecorder()
		r.ServeHTTP(w, request())

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("concurrent duplicate is rejected", func(t *testing.T) {
		r, mock, called := build()
		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		w := httptest.NewRecorder()
		r.ServeHTTP(w, request())

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "CONFLICT", decodeEnvelope(t, w).Error.Code)
		assert.False(t, *called)
	})
}

func TestRateLimitByUser(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		c.Set("user_id", c.Query("u"))
	}, middleware.RateLimitByUser(0, 1), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	hit := func(u string) int {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x?u="+u, nil))
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("alice"))
	assert.Equal(t, http.StatusTooManyRequests, hit("alice"))
	assert.Equal(t, http.StatusOK, hit("bob"))
	assert.Equal(t, http.StatusOK, hit(""))
	assert.Equal(t, http.StatusOK, hit(""))
}
