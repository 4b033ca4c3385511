package rbac

const (
	RoleMember = "member"
	RoleAdmin  = "admin"
)

const (
	PermQuestionsView  = "questions:view"
	PermAnswersSubmit  = "answers:submit"
	PermAnswersViewOwn = "answers:view-own"
	PermMatchesView    = "matches:view"
	PermCatalogEdit    = "catalog:edit"
	PermEventsView     = "events:view"
	PermUsersList      = "users:list"
	PermPasswordChange = "account:password"
)

// RolePermissions is the default policy.
var RolePermissions = map[string][]string{
	RoleMember: {
		PermQuestionsView,
		"answers:*",
		PermMatchesView,
		PermPasswordChange,
	},
	RoleAdmin: {
		"*",
	},
}
