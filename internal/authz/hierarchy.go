package authz

// CanManage decides whether an acting staff role may administer (edit the
// nickname, password or role of) a user currently holding the target role.
//
// The rule is rank(actor) > rank(target) with two exceptions: a RoleUser
// target is manageable by any valid actor, and a RoleCeo target is
// manageable only by another RoleCeo. This predicate belongs to the
// user-update use case; route-level gates never call it.
func CanManage(target, actor Role) bool {
	if !target.Valid() || !actor.Valid() {
		return false
	}
	if target == RoleUser {
		return true
	}
	if target == RoleCeo {
		return actor == RoleCeo
	}
	return actor.Rank() > target.Rank()
}
