package rbac

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPolicy(t *testing.T) {
	c := NewChecker(nil)
	cases := []struct {
		role, perm string
		want       bool
	}{
		{RoleMember, PermQuestionsView, true},
		{RoleMember, PermAnswersSubmit, true},
		{RoleMember, PermAnswersViewOwn, true},
		{RoleMember, PermMatchesView, true},
		{RoleMember, PermCatalogEdit, false},
		{RoleMember, PermEventsView, false},
		{RoleMember, PermUsersList, false},
		{RoleMember, PermPasswordChange, true},
		{RoleAdmin, PermCatalogEdit, true},
		{"guest", PermQuestionsView, false},
		{"", PermQuestionsView, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, c.Has(tc.role, tc.perm), "%s %s", tc.role, tc.perm)
	}
	assert.True(t, c.Any(RoleMember, PermCatalogEdit, PermMatchesView))
	assert.True(t, c.KnownRole(RoleAdmin))
	assert.False(t, c.KnownRole("guest"))
}

func TestRequire(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := Require(PermCatalogEdit)(ok)

	serve := func(role string) int {
		req := httptest.NewRequest(http.MethodPut, "/", nil)
		if role != "" {
			req = req.WithContext(WithRole(context.Background(), role))
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusForbidden, serve(""))
	assert.Equal(t, http.StatusForbidden, serve(RoleMember))
	assert.Equal(t, http.StatusNoContent, serve(RoleAdmin))
}
