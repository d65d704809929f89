package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghozali/disaster-incident-api/internal/application"
	"github.com/ghozali/disaster-incident-api/internal/domain/entity"
	"github.com/ghozali/disaster-incident-api/internal/domain/repository"
	handlers "github.com/ghozali/disaster-incident-api/internal/interface/http"
	"github.com/ghozali/disaster-incident-api/internal/router/modules"
	"github.com/ghozali/disaster-incident-api/pkg/helpers"
	"github.com/ghozali/disaster-incident-api/pkg/validation"
)

type fakeUserRepo struct {
	users  map[int64]*entity.User
	nextID int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[int64]*entity.User{}}
}

func (r *fakeUserRepo) Create(u *entity.User) error {
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	cp := *u
	r.users[u.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(id int64) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

// faultyUserRepo fails every operation, standing in for an unreachable store.
type faultyUserRepo struct{ err error }

func (r *faultyUserRepo) Create(*entity.User) error               { return r.err }
func (r *faultyUserRepo) GetByID(int64) (*entity.User, error)     { return nil, r.err }
func (r *faultyUserRepo) GetByEmail(string) (*entity.User, error) { return nil, r.err }

func setupAuthRouter(t *testing.T, jwtTTL time.Duration) (*gin.Engine, *fakeUserRepo, *helpers.JWTManager) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validation.Init()

	repo := newFakeUserRepo()
	jwt := helpers.NewJWTManager("test-secret", jwtTTL)
	svc := application.NewAuthService(repo, jwt, logrus.New())
	h := handlers.NewAuthHandler(svc, logrus.New())

	r := gin.New()
	api := r.Group("/api")
	modules.NewAuthModule(h, jwt).Register(api)
	return r, repo, jwt
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestRegisterThenLogin(t *testing.T) {
	r, repo, jwt := setupAuthRouter(t, 24*time.Hour)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name": "Budi", "email": "budi@example.com", "password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	env := decodeEnvelope(t, w)
	assert.Equal(t, true, env["success"])
	assert.Equal(t, "User registered successfully", env["message"])
	data := env["data"].(map[string]any)
	user := data["user"].(map[string]any)
	assert.Equal(t, "budi@example.com", user["email"])
	assert.NotContains(t, user, "password")
	require.NotEmpty(t, data["token"])
	assert.Len(t, repo.users, 1)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "budi@example.com", "password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	env = decodeEnvelope(t, w)
	data = env["data"].(map[string]any)
	token := data["token"].(string)

	// Token identity matches the registered account
	claims, err := jwt.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, int64(1), claims.UserID)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	r, repo, _ := setupAuthRouter(t, 24*time.Hour)

	body := gin.H{"name": "Budi", "email": "budi@example.com", "password": "secret123"}
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", body, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", body, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decodeEnvelope(t, w)
	assert.Equal(t, false, env["success"])
	assert.Equal(t, "User already exists", env["message"])
	assert.Len(t, repo.users, 1)
}

func TestLoginInvalidCredentialsShape(t *testing.T) {
	r, _, _ := setupAuthRouter(t, 24*time.Hour)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name": "Budi", "email": "budi@example.com", "password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)

	wrongPwd := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "budi@example.com", "password": "incorrect",
	}, "")
	unknownEmail := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "nobody@example.com", "password": "secret123",
	}, "")

	assert.Equal(t, http.StatusBadRequest, wrongPwd.Code)
	assert.Equal(t, http.StatusBadRequest, unknownEmail.Code)
	// Identical body for both failure modes, nothing leaks which check failed
	assert.JSONEq(t, wrongPwd.Body.String(), unknownEmail.Body.String())
}

func TestMe(t *testing.T) {
	r, repo, _ := setupAuthRouter(t, 24*time.Hour)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name": "Budi", "email": "budi@example.com", "password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, w.Code)
	token := decodeEnvelope(t, w)["data"].(map[string]any)["token"].(string)

	w = doJSON(t, r, http.MethodGet, "/api/auth/me", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w)
	data := env["data"].(map[string]any)
	assert.Equal(t, "budi@example.com", data["email"])
	assert.NotContains(t, data, "password")

	// Missing token
	w = doJSON(t, r, http.MethodGet, "/api/auth/me", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Account no longer resolves
	delete(repo.users, 1)
	w = doJSON(t, r, http.MethodGet, "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestMeExpiredToken(t *testing.T) {
	r, _, jwt := setupAuthRouter(t, -time.Hour)

	token, _, err := jwt.Generate(1)
	require.NoError(t, err)

	w := doJSON(t, r, http.MethodGet, "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthStoreFaultIsServerError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	validation.Init()

	repo := &faultyUserRepo{err: errors.New("connection refused")}
	jwt := helpers.NewJWTManager("test-secret", 24*time.Hour)
	svc := application.NewAuthService(repo, jwt, logrus.New())
	h := handlers.NewAuthHandler(svc, logrus.New())

	r := gin.New()
	api := r.Group("/api")
	modules.NewAuthModule(h, jwt).Register(api)

	// A store outage must never masquerade as bad credentials or a missing user
	w := doJSON(t, r, http.MethodPost, "/api/auth/login", gin.H{
		"email": "budi@example.com", "password": "secret123",
	}, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, decodeEnvelope(t, w)["success"])

	token, _, err := jwt.Generate(1)
	require.NoError(t, err)
	w = doJSON(t, r, http.MethodGet, "/api/auth/me", nil, token)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name": "Budi", "email": "budi@example.com", "password": "secret123",
	}, "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRegisterValidation(t *testing.T) {
	r, repo, _ := setupAuthRouter(t, 24*time.Hour)

	w := doJSON(t, r, http.MethodPost, "/api/auth/register", gin.H{
		"name": "Budi", "email": "not-an-email", "password": "secret123",
	}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, repo.users)
}
