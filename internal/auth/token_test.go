package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGerarEValidarToken(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "segredo-de-teste")

	token, err := GerarToken(42, true)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAndValidate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, "api-drogaria", claims.Issuer)
}

func TestParseAndValidate_RejeitaTokenAdulterado(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "segredo-de-teste")

	token, err := GerarToken(1, false)
	require.NoError(t, err)

	_, err = ParseAndValidate(token + "x")
	assert.Error(t, err)
}

func TestGerarToken_SemSecretFalha(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")

	_, err := GerarToken(1, false)
	assert.Error(t, err)
}

func TestMiddlewareAutenticacao(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "segredo-de-teste")

	var gotUserID uint
	var gotIsAdmin bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = r.Context().Value(CtxUserID).(uint)
		gotIsAdmin, _ = r.Context().Value(CtxIsAdmin).(bool)
		w.WriteHeader(http.StatusOK)
	})
	protegido := MiddlewareAutenticacao(next)

	// sem token
	rec := httptest.NewRecorder()
	protegido.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pessoas", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// token válido propaga as claims no contexto
	token, err := GerarToken(7, true)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/pessoas", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	protegido.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint(7), gotUserID)
	assert.True(t, gotIsAdmin)
}

func TestRequireAdmin(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "segredo-de-teste")

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	protegido := MiddlewareAutenticacao(RequireAdmin(next))

	naoAdmin, err := GerarToken(7, false)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodDelete, "/pessoas/1", nil)
	req.Header.Set("Authorization", "Bearer "+naoAdmin)
	rec := httptest.NewRecorder()
	protegido.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	admin, err := GerarToken(1, true)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodDelete, "/pessoas/1", nil)
	req.Header.Set("Authorization", "Bearer "+admin)
	rec = httptest.NewRecorder()
	protegido.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
