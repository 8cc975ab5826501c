package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogWritesAreStaffOnly(t *testing.T) {
	assert.True(t, CanWriteCatalog(Actor{ID: "a", IsStaff: true}))
	assert.False(t, CanWriteCatalog(Actor{ID: "a"}))
}

func TestOrderVisibility(t *testing.T) {
	owner := Actor{ID: "u1"}
	stranger := Actor{ID: "u2"}
	staff := Actor{ID: "admin", IsStaff: true}

	assert.True(t, CanViewOrder(owner, "u1"))
	assert.False(t, CanViewOrder(stranger, "u1"))
	assert.True(t, CanViewOrder(staff, "u1"))

	assert.False(t, CanListAllOrders(owner))
	assert.True(t, CanListAllOrders(staff))
}

func TestUserVisibility(t *testing.T) {
	assert.True(t, CanViewUser(Actor{ID: "u1"}, "u1"))
	assert.False(t, CanViewUser(Actor{ID: "u1"}, "u2"))
	assert.True(t, CanViewUser(Actor{ID: "admin", IsStaff: true}, "u2"))

	assert.False(t, CanManageUsers(Actor{ID: "u1"}))
	assert.True(t, CanManageUsers(Actor{ID: "admin", IsStaff: true}))
}
