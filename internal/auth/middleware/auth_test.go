package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/roomfit/roomfit/internal/db"
	"github.com/roomfit/roomfit/internal/rbac"
)

func post(h http.Handler, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	return rec
}

func decodeToken(t *testing.T, rec *httptest.ResponseRecorder) TokenResponse {
	t.Helper()
	var tr TokenResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&tr))
	return tr
}

func TestIssueAndParse(t *testing.T) {
	a := NewAuthService("s3cret", time.Hour)
	tok, err := a.IssueJWT("u-1", rbac.RoleMember)
	require.NoError(t, err)

	c, err := a.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", c.Subject)
	assert.Equal(t, rbac.RoleMember, c.Role)

	_, err = NewAuthService("other", time.Hour).Parse(tok)
	assert.Error(t, err)

	expired, err := NewAuthService("s3cret", time.Nanosecond).IssueJWT("u-1", rbac.RoleMember)
	require.NoError(t, err)
	time.Sleep(time.Second)
	_, err = a.Parse(expired)
	assert.Error(t, err)
}

func TestJWTMiddleware(t *testing.T) {
	a := NewAuthService("s3cret", time.Hour)
	var gotSub, gotRole string
	h := JWTMiddleware(a)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSub = SubjectFromContext(r.Context())
		gotRole = rbac.RoleFromContext(r.Context())
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	tok, err := a.IssueJWT("u-9", rbac.RoleAdmin)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u-9", gotSub)
	assert.Equal(t, rbac.RoleAdmin, gotRole)
}

func TestRegisterThenLogin(t *testing.T) {
	a := NewAuthService("s3cret", time.Hour)
	users := NewMemoryUsers()
	reg := RegisterHandler(a, users, bcrypt.MinCost)
	login := LoginHandler(a, users, Admin{})

	assert.Equal(t, http.StatusBadRequest, post(reg, `{"username":"minji","password":"short"}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(reg, `not json`).Code)

	rec := post(reg, `{"username":" minji ","password":"long-enough"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	created := decodeToken(t, rec)
	assert.Equal(t, rbac.RoleMember, created.Role)
	assert.Equal(t, "Bearer", created.TokenType)

	assert.Equal(t, http.StatusConflict, post(reg, `{"username":"minji","password":"long-enough"}`).Code)

	assert.Equal(t, http.StatusUnauthorized, post(login, `{"username":"minji","password":"wrong-password"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, post(login, `{"username":"nobody","password":"long-enough"}`).Code)

	rec = post(login, `{"username":"minji","password":"long-enough"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	tr := decodeToken(t, rec)
	assert.Equal(t, created.UserID, tr.UserID)
	c, err := a.Parse(tr.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, created.UserID, c.Subject)
}

func TestAdminLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("admin-pass"), bcrypt.MinCost)
	require.NoError(t, err)
	a := NewAuthService("s3cret", time.Hour)
	login := LoginHandler(a, NewMemoryUsers(), Admin{Username: "admin", PasswordHash: string(hash)})

	assert.Equal(t, http.StatusUnauthorized, post(login, `{"username":"admin","password":"nope"}`).Code)
	rec := post(login, `{"username":"admin","password":"admin-pass"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, rbac.RoleAdmin, decodeToken(t, rec).Role)
}

func TestSQLUsers(t *testing.T) {
	ctx := context.Background()
	d, err := db.Open(ctx, db.DriverSQLite, "file:auth_users?mode=memory&cache=shared")
	require.NoError(t, err)
	defer d.Close()

	users := NewSQLUsers(d)
	u, err := users.Create(ctx, "jisoo", "hash", rbac.RoleMember)
	require.NoError(t, err)

	_, err = users.Create(ctx, "jisoo", "hash2", rbac.RoleMember)
	assert.ErrorIs(t, err, ErrUserExists)

	got, err := users.ByUsername(ctx, "jisoo")
	require.NoError(t, err)
	assert.Equal(t, u, got)

	_, err = users.ByUsername(ctx, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)

	byID, err := users.ByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, byID)

	require.NoError(t, users.SetPasswordHash(ctx, u.ID, "hash3"))
	got, err = users.ByUsername(ctx, "jisoo")
	require.NoError(t, err)
	assert.Equal(t, "hash3", got.PasswordHash)
	assert.ErrorIs(t, users.SetPasswordHash(ctx, "ghost", "x"), ErrUserNotFound)

	_, err = users.Create(ctx, "admin2", "h", rbac.RoleAdmin)
	require.NoError(t, err)
	members, err := users.List(ctx, rbac.RoleMember)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "jisoo", members[0].Username)
	all, err := users.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUsers()
	hash, err := bcrypt.GenerateFromPassword([]byte("old-password"), bcrypt.MinCost)
	require.NoError(t, err)
	u, err := users.Create(ctx, "minji", string(hash), rbac.RoleMember)
	require.NoError(t, err)

	h := ChangePasswordHandler(users, bcrypt.MinCost)
	change := func(sub, body string) int {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		if sub != "" {
			req = req.WithContext(WithSubject(req.Context(), sub))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusUnauthorized, change("", `{}`))
	assert.Equal(t, http.StatusBadRequest, change(u.ID, `{"old_password":"old-password","new_password":"short"}`))
	assert.Equal(t, http.StatusForbidden, change(u.ID, `{"old_password":"nope","new_password":"new-password"}`))
	assert.Equal(t, http.StatusNotFound, change("ghost", `{"old_password":"x","new_password":"new-password"}`))
	assert.Equal(t, http.StatusNoContent, change(u.ID, `{"old_password":"old-password","new_password":"new-password"}`))

	got, err := users.ByID(ctx, u.ID)
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(got.PasswordHash), []byte("new-password")))
}

func TestListUsers(t *testing.T) {
	ctx := context.Background()
	users := NewMemoryUsers()
	for _, name := range []string{"seojun", "ahyoung"} {
		_, err := users.Create(ctx, name, "h", rbac.RoleMember)
		require.NoError(t, err)
	}
	_, err := users.Create(ctx, "ops", "h", rbac.RoleAdmin)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	ListUsersHandler(users).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?role=member", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	var out []map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	require.Len(t, out, 2)
	assert.Equal(t, "ahyoung", out[0]["username"])
	assert.NotContains(t, out[0], "password_hash")
}
