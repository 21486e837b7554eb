package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avelarde/gymcore/internal/model"
)

func TestCanEdit(t *testing.T) {
	t.Parallel()

	staffID := uint64(20)
	own := &model.Reservation{UserID: 10}
	foreign := &model.Reservation{UserID: 11}
	bookedByStaff := &model.Reservation{UserID: 11, StaffID: &staffID}

	t.Run("member edits only their own", func(t *testing.T) {
		t.Parallel()
		assert.True(t, canEdit(model.RoleMember, 10, own))
		assert.False(t, canEdit(model.RoleMember, 10, foreign))
		assert.False(t, canEdit(model.RoleMember, 10, bookedByStaff))
	})

	t.Run("staff edits their own and the ones they booked", func(t *testing.T) {
		t.Parallel()
		assert.True(t, canEdit(model.RoleStaff, 20, bookedByStaff))
		assert.False(t, canEdit(model.RoleStaff, 20, foreign))
		ownBooking := &model.Reservation{UserID: 20}
		assert.True(t, canEdit(model.RoleStaff, 20, ownBooking))
	})

	t.Run("owners and admins edit anything in the center", func(t *testing.T) {
		t.Parallel()
		assert.True(t, canEdit(model.RoleOwner, 99, foreign))
		assert.True(t, canEdit(model.RoleAdmin, 99, bookedByStaff))
	})
}
