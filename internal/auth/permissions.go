package auth

// Permission checks are pure functions over an Actor and, where it
// matters, the owner of the resource. No HTTP types in here.

// CanWriteCatalog: products and categories are admin-write, public-read.
func CanWriteCatalog(a Actor) bool { return a.IsStaff }

// CanViewOrder: orders are owner-scoped; staff may read any.
func CanViewOrder(a Actor, ownerID string) bool { return a.IsStaff || a.ID == ownerID }

// CanListAllOrders: only staff see orders across users.
func CanListAllOrders(a Actor) bool { return a.IsStaff }

// CanManageUsers: user listing, updates and deletes are staff-only.
func CanManageUsers(a Actor) bool { return a.IsStaff }

// CanViewUser: staff may read anyone, a user may read themselves.
func CanViewUser(a Actor, targetID string) bool { return a.IsStaff || a.ID == targetID }
