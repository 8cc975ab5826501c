package auth

// Actor is the authenticated identity a request acts as. It is all the
// permission layer ever needs to know about a user.
type Actor struct {
	ID      string
	IsStaff bool
}
