package authz

// Permission names an atomic capability.
type Permission string

// Platform permissions.
const (
	PermCommentCreate Permission = "comment.create"
	PermCommentDelete Permission = "comment.delete"

	PermReportCreate Permission = "report.create"
	PermReportSolve  Permission = "report.solve"

	PermArticleCreate  Permission = "article.create"
	PermArticleUpdate  Permission = "article.update"
	PermArticleApprove Permission = "article.approve"
	PermArticleDelete  Permission = "article.delete"

	PermAnnouncementCreate Permission = "announcement.create"
	PermAnnouncementDelete Permission = "announcement.delete"

	PermTeamUserUpdate Permission = "team.user.update"
	PermTeamRoleUpdate Permission = "team.role.update"
	PermTeamRoleCreate Permission = "team.role.create"
	PermTeamRoleDelete Permission = "team.role.delete"

	PermBadgeCreate Permission = "badge.create"
	PermBadgeUpdate Permission = "badge.update"
	PermBadgeDelete Permission = "badge.delete"

	PermSiteConfigure Permission = "site.configure"
)

// Set is an immutable-by-convention collection of permissions.
type Set map[Permission]struct{}

// Has reports membership of a single permission.
func (s Set) Has(perm Permission) bool {
	_, ok := s[perm]
	return ok
}

// HasAny reports whether at least one of the given permissions is present.
// An empty requirement list is vacuously satisfied.
func (s Set) HasAny(perms ...Permission) bool {
	if len(perms) == 0 {
		return true
	}
	for _, perm := range perms {
		if s.Has(perm) {
			return true
		}
	}
	return false
}

// HasAll reports whether every given permission is present.
func (s Set) HasAll(perms ...Permission) bool {
	for _, perm := range perms {
		if !s.Has(perm) {
			return false
		}
	}
	return true
}

// grants lists what each role adds on top of the role below it. The
// effective set for a role is the union of every line up to and including
// its own.
var grants = map[Role][]Permission{
	RoleUser: {
		PermCommentCreate,
		PermReportCreate,
	},
	RoleWriter: {
		PermArticleCreate,
		PermArticleUpdate,
	},
	RoleEditor: {
		PermArticleApprove,
		PermArticleDelete,
		PermCommentDelete,
	},
	RoleCoord: {
		PermAnnouncementCreate,
		PermTeamUserUpdate,
		PermTeamRoleUpdate,
	},
	RoleAdmin: {
		PermAnnouncementDelete,
		PermBadgeCreate,
		PermBadgeUpdate,
		PermBadgeDelete,
		PermReportSolve,
	},
	RolePrincipal: {
		PermTeamRoleCreate,
		PermTeamRoleDelete,
		PermSiteConfigure,
	},
	// RoleCeo intentionally grants nothing beyond RolePrincipal: the top
	// two roles share an identical permission set. Keep it that way.
	RoleCeo: nil,
}

// PermissionsFor returns the effective permission set of a role. The
// result is computed from the grant table alone, identically at every
// call site. Invalid roles get an empty set.
func PermissionsFor(role Role) Set {
	set := make(Set)
	if !role.Valid() {
		return set
	}
	for _, step := range roleOrder {
		if step.Rank() > role.Rank() {
			break
		}
		for _, perm := range grants[step] {
			set[perm] = struct{}{}
		}
	}
	return set
}

// HasPermission reports whether the role's effective set contains perm.
func HasPermission(role Role, perm Permission) bool {
	return PermissionsFor(role).Has(perm)
}
