package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/georgemunganga/seedhouse-backend/internal/config"
	"github.com/georgemunganga/seedhouse-backend/internal/modules/operator"
)

type stubOperators struct{ ops map[string]*operator.Operator }

func (s *stubOperators) Create(_ context.Context, op *operator.Operator) error {
	s.ops[op.Email] = op
	return nil
}

func (s *stubOperators) GetByEmail(_ context.Context, email string) (*operator.Operator, error) {
	return s.ops[email], nil
}

func newTestAuth(t *testing.T, secret string) (Service, *operator.Operator) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	op := &operator.Operator{ID: uuid.New(), Email: "packer@farm.example", PasswordHash: string(hash)}
	repo := &stubOperators{ops: map[string]*operator.Operator{op.Email: op}}
	return NewService(repo, config.AuthConfig{JWTSecret: secret, TokenTTL: time.Hour}), op
}

func TestService_LoginAndVerify(t *testing.T) {
	svc, op := newTestAuth(t, "test-secret")
	ctx := context.Background()

	token, err := svc.Login(ctx, " Packer@Farm.example", "correct-horse")
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, op.ID.String(), claims.Subject)
	assert.Equal(t, "packer@farm.example", claims.Email)

	_, err = svc.Login(ctx, "packer@farm.example", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "stranger@farm.example", "correct-horse")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	other, _ := newTestAuth(t, "other-secret")
	_, err = other.Verify(token)
	assert.Error(t, err)
}

func TestService_ExpiredToken(t *testing.T) {
	svc, _ := newTestAuth(t, "test-secret")
	s := svc.(*service)
	s.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	token, err := svc.Login(context.Background(), "packer@farm.example", "correct-horse")
	require.NoError(t, err)
	_, err = svc.Verify(token)
	assert.Error(t, err)
}

func TestService_Disabled(t *testing.T) {
	svc, _ := newTestAuth(t, "")
	assert.False(t, svc.Enabled())
	_, err := svc.Login(context.Background(), "packer@farm.example", "correct-horse")
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestMiddleware(t *testing.T) {
	svc, _ := newTestAuth(t, "test-secret")
	token, err := svc.Login(context.Background(), "packer@farm.example", "correct-horse")
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := OperatorFromContext(r.Context())
		require.True(t, ok)
		w.Write([]byte(claims.Email))
	})
	h := Middleware(svc)(next)

	tests := []struct {
		name     string
		header   string
		wantCode int
	}{
		{name: "valid", header: "Bearer " + token, wantCode: http.StatusOK},
		{name: "missing", header: "", wantCode: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", wantCode: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer abc.def.ghi", wantCode: http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/batches", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestMiddleware_Disabled(t *testing.T) {
	svc, _ := newTestAuth(t, "")
	called := false
	h := Middleware(svc)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { called = true }))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.True(t, called)
}
