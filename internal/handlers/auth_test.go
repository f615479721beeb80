package handlers

import (
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterSetsCookieAndHidesPassword(t *testing.T) {
	h := NewAuthHandler(newMemUserRepo(), "test-secret", false)

	c, rec := newTestContext(http.MethodPost, "/api/register",
		`{"name":"Ana","alias":"ana","email":"ana@example.com","password":"longenough","confirmPassword":"longenough"}`, "")
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "usertoken", cookies[0].Name)
	assert.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	assert.NotContains(t, rec.Body.String(), "longenough")
	assert.NotContains(t, rec.Body.String(), `"password"`)
}

func TestRegisterRejectsMismatchedPasswords(t *testing.T) {
	h := NewAuthHandler(newMemUserRepo(), "test-secret", false)

	c, _ := newTestContext(http.MethodPost, "/api/register",
		`{"name":"Ana","email":"ana@example.com","password":"longenough","confirmPassword":"different1"}`, "")
	err := h.Register(c)

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newMemUserRepo()
	h := NewAuthHandler(repo, "test-secret", false)

	c, _ := newTestContext(http.MethodPost, "/api/register",
		`{"name":"Ana","email":"ana@example.com","password":"longenough","confirmPassword":"longenough"}`, "")
	require.NoError(t, h.Register(c))

	c, _ = newTestContext(http.MethodPost, "/api/register",
		`{"name":"Ana Again","email":"ana@example.com","password":"longenough","confirmPassword":"longenough"}`, "")
	err := h.Register(c)

	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, err.(*echo.HTTPError).Code)
}

func TestLoginVerifiesPassword(t *testing.T) {
	repo := newMemUserRepo()
	h := NewAuthHandler(repo, "test-secret", false)

	c, _ := newTestContext(http.MethodPost, "/api/register",
		`{"name":"Ana","email":"ana@example.com","password":"longenough","confirmPassword":"longenough"}`, "")
	require.NoError(t, h.Register(c))

	// Wrong password: same message as unknown email.
	c, _ = newTestContext(http.MethodPost, "/api/login",
		`{"email":"ana@example.com","password":"wrongpassword"}`, "")
	err := h.Login(c)
	require.Error(t, err)
	he := err.(*echo.HTTPError)
	assert.Equal(t, http.StatusBadRequest, he.Code)
	assert.Equal(t, "Invalid email or password", he.Message)

	c, rec := newTestContext(http.MethodPost, "/api/login",
		`{"email":"ana@example.com","password":"longenough"}`, "")
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, rec.Result().Cookies(), 1)
}
