package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ebatarlar/personal-finance/internal/config"
	"github.com/ebatarlar/personal-finance/internal/domain"
	httptransport "github.com/ebatarlar/personal-finance/internal/http"
	"github.com/ebatarlar/personal-finance/internal/http/handler"
	httpmiddleware "github.com/ebatarlar/personal-finance/internal/http/middleware"
	"github.com/ebatarlar/personal-finance/internal/middleware"
	"github.com/ebatarlar/personal-finance/internal/revocation"
	"github.com/ebatarlar/personal-finance/internal/service"
	"github.com/ebatarlar/personal-finance/internal/token"

	"github.com/bwmarrin/snowflake"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := config.Config{
		ServiceName:        "personal-finance-test",
		CORSAllowedOrigins: []string{"http://localhost:3000"},
		CORSAllowedMethods: []string{"GET", "POST", "DELETE", "OPTIONS"},
		CORSAllowedHeaders: []string{"Authorization", "Content-Type"},
	}

	users := &fakeUserRepo{byID: make(map[string]domain.User)}
	codec := token.NewCodec([]byte("router-test-secret-padded-to-32!"), 30*time.Minute, 7*24*time.Hour)
	auth := service.NewAuthService(users, codec, revocation.NewMemoryRegistry(), uuid.NewString, zap.NewNop())

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	transactions := service.NewTransactionService(&fakeTransactionRepo{}, node, zap.NewNop())
	categories := service.NewCategoryService(&fakeCategoryRepo{custom: make(map[string][]domain.Category)}, zap.NewNop())
	profiles := service.NewUserService(users)

	return httptransport.NewRouter(
		cfg,
		handler.NewAuthHandler(auth),
		handler.NewUserHandler(profiles),
		handler.NewTransactionHandler(transactions),
		handler.NewCategoryHandler(categories),
		httpmiddleware.NewAuth(auth),
		middleware.NewTiers(1000, 1000, 1000),
	)
}

func doJSON(t *testing.T, r *gin.Engine, method, path, bearer string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	register := gin.H{"email": "ada@x.com", "name": "Ada", "surname": "Lovelace", "password": "longenough1"}
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", register)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotContains(t, w.Body.String(), "longenough1")

	// Second attempt is a 200 with a message, not an error.
	w = doJSON(t, r, http.MethodPost, "/api/auth/register", "", register)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "already exists")

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ada@x.com", "password": "wrong"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ada@x.com", "password": "longenough1"})
	require.Equal(t, http.StatusOK, w.Code)

	var pair struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))
	require.NotEmpty(t, pair.AccessToken)
	require.NotEmpty(t, pair.RefreshToken)

	w = doJSON(t, r, http.MethodGet, "/api/users/me", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "ada@x.com")
	require.NotContains(t, w.Body.String(), "hashed_password")

	w = doJSON(t, r, http.MethodGet, "/api/users/me", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/refresh-token", "", gin.H{"refresh_token": pair.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/logout", "", gin.H{"refresh_token": pair.RefreshToken})
	require.Equal(t, http.StatusOK, w.Code)

	// Logged-out refresh tokens stop working.
	w = doJSON(t, r, http.MethodPost, "/api/auth/refresh-token", "", gin.H{"refresh_token": pair.RefreshToken})
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTransactionsOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	register := gin.H{"email": "ada@x.com", "name": "Ada", "surname": "Lovelace", "password": "longenough1"}
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", register)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ada@x.com", "password": "longenough1"})
	require.Equal(t, http.StatusOK, w.Code)
	var pair struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))

	w = doJSON(t, r, http.MethodPost, "/api/transactions", "", gin.H{"type": "expense", "amount": 10, "date": "2025-03-01T00:00:00Z"})
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/transactions", pair.AccessToken, gin.H{
		"type": "expense", "amount": 10.5, "date": "2025-03-01T00:00:00Z", "categories": []string{"Groceries"},
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/transactions", pair.AccessToken, gin.H{"type": "transfer", "amount": 10, "date": "2025-03-01T00:00:00Z"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/transactions", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var listed []domain.Transaction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	require.Len(t, listed, 1)
	require.Equal(t, domain.TransactionExpense, listed[0].Type)
}

func TestCategoriesOverHTTP(t *testing.T) {
	r := newTestRouter(t)

	register := gin.H{"email": "ada@x.com", "name": "Ada", "surname": "Lovelace", "password": "longenough1"}
	w := doJSON(t, r, http.MethodPost, "/api/auth/register", "", register)
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/auth/login", "", gin.H{"email": "ada@x.com", "password": "longenough1"})
	require.Equal(t, http.StatusOK, w.Code)
	var pair struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pair))

	// Defaults are public, the rest needs a bearer.
	w = doJSON(t, r, http.MethodGet, "/api/categories/default", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, r, http.MethodGet, "/api/categories", "", nil)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(t, r, http.MethodPost, "/api/categories/custom", pair.AccessToken, gin.H{"type": "expense", "name": "Hobbies"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodGet, "/api/categories", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Hobbies")

	w = doJSON(t, r, http.MethodDelete, "/api/categories/custom/Hobbies", pair.AccessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, r, http.MethodDelete, "/api/categories/custom/Hobbies", pair.AccessToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

type fakeUserRepo struct {
	byID map[string]domain.User
}

func (m *fakeUserRepo) FindByEmail(_ context.Context, email string) (domain.User, error) {
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (m *fakeUserRepo) FindByOAuth(_ context.Context, provider domain.OAuthProvider, providerUserID string) (domain.User, error) {
	for _, u := range m.byID {
		if u.OAuthInfo != nil && u.OAuthInfo.Provider == provider && u.OAuthInfo.ProviderUserID == providerUserID {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (m *fakeUserRepo) FindByID(_ context.Context, userID string) (domain.User, error) {
	u, ok := m.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *fakeUserRepo) Insert(_ context.Context, user domain.User) (domain.User, error) {
	m.byID[user.ID] = user
	return user, nil
}

func (m *fakeUserRepo) UpdateFields(_ context.Context, userID string, fields map[string]any) (domain.User, error) {
	u, ok := m.byID[userID]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	for k, v := range fields {
		switch k {
		case "oauth_info":
			info := v.(domain.OAuthInfo)
			u.OAuthInfo = &info
		case "hashed_password":
			u.PasswordHash = v.(string)
		case "email_verified":
			u.EmailVerified = v.(bool)
		}
	}
	m.byID[userID] = u
	return u, nil
}

type fakeTransactionRepo struct {
	items []domain.Transaction
}

func (m *fakeTransactionRepo) Insert(_ context.Context, tx domain.Transaction) (domain.Transaction, error) {
	m.items = append(m.items, tx)
	return tx, nil
}

func (m *fakeTransactionRepo) ListByUser(_ context.Context, userID string) ([]domain.Transaction, error) {
	var out []domain.Transaction
	for _, tx := range m.items {
		if tx.UserID == userID {
			out = append(out, tx)
		}
	}
	return out, nil
}

type fakeCategoryRepo struct {
	defaults []domain.Category
	custom   map[string][]domain.Category
}

func (m *fakeCategoryRepo) ListDefaults(_ context.Context) ([]domain.Category, error) {
	return m.defaults, nil
}

func (m *fakeCategoryRepo) ListCustom(_ context.Context, userID string) ([]domain.Category, error) {
	return m.custom[userID], nil
}

func (m *fakeCategoryRepo) AddCustom(_ context.Context, userID string, category domain.Category) error {
	m.custom[userID] = append(m.custom[userID], category)
	return nil
}

func (m *fakeCategoryRepo) RemoveCustom(_ context.Context, userID, name string) error {
	list := m.custom[userID]
	for i, c := range list {
		if c.Name == name {
			m.custom[userID] = append(list[:i], list[i+1:]...)
			return nil
		}
	}
	return domain.ErrCategoryNotFound
}

func (m *fakeCategoryRepo) SeedDefaults(_ context.Context, categories []domain.Category) (int, error) {
	if len(m.defaults) > 0 {
		return 0, nil
	}
	m.defaults = categories
	return len(categories), nil
}
