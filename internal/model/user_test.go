package model

import (
    "testing"

    "github.com/stretchr/testify/assert"
)

func TestDeriveRole(t *testing.T) {
    // Role follows the owned-facility count for non-admin users.
    assert.Equal(t, RoleOwner, DeriveRole(RoleNormal, 1))
    assert.Equal(t, RoleOwner, DeriveRole(RoleOwner, 2))
    assert.Equal(t, RoleNormal, DeriveRole(RoleOwner, 0))
    assert.Equal(t, RoleNormal, DeriveRole(RoleNormal, 0))
}

func TestDeriveRoleAdminSticky(t *testing.T) {
    // ADMIN is orthogonal to ownership and never toggles.
    assert.Equal(t, RoleAdmin, DeriveRole(RoleAdmin, 0))
    assert.Equal(t, RoleAdmin, DeriveRole(RoleAdmin, 3))
}

func TestDeriveRoleRevokeSequence(t *testing.T) {
    // A user owning two facilities stays OWNER after losing one and
    // drops to NORMAL only after the last revoke.
    role := DeriveRole(RoleNormal, 2)
    assert.Equal(t, RoleOwner, role)
    role = DeriveRole(role, 1)
    assert.Equal(t, RoleOwner, role)
    role = DeriveRole(role, 0)
    assert.Equal(t, RoleNormal, role)
}
