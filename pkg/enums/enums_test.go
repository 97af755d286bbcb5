package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusClosedSet(t *testing.T) {
	for _, raw := range []string{"pending", "processing", "delivered", "returned", "cancelled"} {
		status, err := ParseOrderStatus(raw)
		require.NoError(t, err)
		assert.True(t, status.IsValid())
		assert.Equal(t, raw, status.String())
	}

	for _, raw := range []string{"", "shipped", "Pending", "canceled"} {
		_, err := ParseOrderStatus(raw)
		assert.Error(t, err, raw)
		assert.False(t, OrderStatus(raw).IsValid(), raw)
	}
}

func TestUserRoleParse(t *testing.T) {
	role, err := ParseUserRole("admin")
	require.NoError(t, err)
	assert.Equal(t, UserRoleAdmin, role)

	_, err = ParseUserRole("owner")
	assert.Error(t, err)
	assert.False(t, UserRole("").IsValid())
}
