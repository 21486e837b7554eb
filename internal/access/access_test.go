package access

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avelarde/gymcore/internal/model"
	"github.com/avelarde/gymcore/internal/repository"
)

// fakeDirectory is an in-memory Directory for exercising the gate logic
// without a database.
type fakeDirectory struct {
	superadmins map[uint64]bool
	// roles is keyed by (userID, centerID).
	roles   map[[2]uint64]model.Role
	centers map[uint64]*model.Center
}

func (d *fakeDirectory) IsSuperadmin(_ context.Context, userID uint64) (bool, error) {
	return d.superadmins[userID], nil
}

func (d *fakeDirectory) CenterRole(_ context.Context, userID, centerID uint64) (model.Role, bool, error) {
	role, ok := d.roles[[2]uint64{userID, centerID}]
	return role, ok, nil
}

func (d *fakeDirectory) CenterByID(_ context.Context, centerID uint64) (*model.Center, error) {
	c, ok := d.centers[centerID]
	if !ok {
		return nil, repository.ErrCenterNotFound
	}
	return c, nil
}

func newFakeDirectory() *fakeDirectory {
	return &fakeDirectory{
		superadmins: map[uint64]bool{},
		roles:       map[[2]uint64]model.Role{},
		centers:     map[uint64]*model.Center{},
	}
}

const (
	activeCenter    = uint64(1)
	suspendedCenter = uint64(2)
	fleetCenter     = uint64(9)
)

func seeded() *fakeDirectory {
	d := newFakeDirectory()
	d.centers[activeCenter] = &model.Center{ID: activeCenter, ServiceStatus: model.ServiceActive}
	d.centers[suspendedCenter] = &model.Center{ID: suspendedCenter, ServiceStatus: model.ServiceSuspended}
	d.centers[fleetCenter] = &model.Center{ID: fleetCenter, ServiceStatus: model.ServiceActive}
	return d
}

func TestResolveRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("superadmin resolves to owner everywhere", func(t *testing.T) {
		t.Parallel()
		d := seeded()
		d.superadmins[7] = true
		svc := New(d, 0)

		role, ok, err := svc.ResolveRole(ctx, 7, activeCenter)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, model.RoleOwner, role)
	})

	t.Run("superadmin wins over an existing lower membership", func(t *testing.T) {
		t.Parallel()
		d := seeded()
		d.superadmins[7] = true
		d.roles[[2]uint64{7, activeCenter}] = model.RoleMember
		svc := New(d, 0)

		role, ok, err := svc.ResolveRole(ctx, 7, activeCenter)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, model.RoleOwner, role)
	})

	t.Run("membership role is returned verbatim", func(t *testing.T) {
		t.Parallel()
		d := seeded()
		d.roles[[2]uint64{3, activeCenter}] = model.RoleStaff
		svc := New(d, 0)

		role, ok, err := svc.ResolveRole(ctx, 3, activeCenter)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, model.RoleStaff, role)
	})

	t.Run("no membership means not ok", func(t *testing.T) {
		t.Parallel()
		svc := New(seeded(), 0)

		_, ok, err := svc.ResolveRole(ctx, 3, activeCenter)
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestRequireMemberSuspensionGate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("member of active center passes", func(t *testing.T) {
		t.Parallel()
		d := seeded()
		d.roles[[2]uint64{3, activeCenter}] = model.RoleMember
		svc := New(d, 0)

		role, err := svc.RequireMember(ctx, 3, activeCenter, false)
		require.NoError(t, err)
		assert.Equal(t, model.RoleMember, role)
	})

	t.Run("non-member is rejected with ErrNoAccess", func(t *testing.T) {
		t.Parallel()
		svc := New(seeded(), 0)

		_, err := svc.RequireMember(ctx, 3, activeCenter, false)
		assert.ErrorIs(t, err, ErrNoAccess)
	})

	t.Run("suspension blocks even the owner", func(t *testing.T) {
		t.Parallel()
		d := seeded()
		d.roles[[2]uint64{4, suspendedCenter}] = model.RoleOwner
		svc := New(d, 0)

		_, err := svc.RequireMember(ctx, 4, suspendedCenter, false)
		assert.ErrorIs(t, err, ErrSuspended)
	})

	t.Run("allowSuspended lets the owner read their own suspension state", func(t *testing.T) {
		t.Parallel()
		d := seeded()
		d.roles[[2]uint64{4, suspendedCenter}] = model.RoleOwner
		svc := New(d, 0)

		role, err := svc.RequireMember(ctx, 4, suspendedCenter, true)
		require.NoError(t, err)
		assert.Equal(t, model.RoleOwner, role)
	})

	t.Run("superadmin is exempt from the gate", func(t *testing.T) {
		t.Parallel()
		d := seeded()
		d.superadmins[7] = true
		svc := New(d, 0)

		role, err := svc.RequireMember(ctx, 7, suspendedCenter, false)
		require.NoError(t, err)
		assert.Equal(t, model.RoleOwner, role)
	})

	t.Run("fleet manager member is exempt from the gate", func(t *testing.T) {
		t.Parallel()
		d := seeded()
		d.roles[[2]uint64{5, fleetCenter}] = model.RoleAdmin
		d.roles[[2]uint64{5, suspendedCenter}] = model.RoleMember
		svc := New(d, fleetCenter)

		role, err := svc.RequireMember(ctx, 5, suspendedCenter, false)
		require.NoError(t, err)
		assert.Equal(t, model.RoleMember, role)
	})

	t.Run("fleet exemption is off when no fleet center is configured", func(t *testing.T) {
		t.Parallel()
		d := seeded()
		d.roles[[2]uint64{5, fleetCenter}] = model.RoleAdmin
		d.roles[[2]uint64{5, suspendedCenter}] = model.RoleMember
		svc := New(d, 0)

		_, err := svc.RequireMember(ctx, 5, suspendedCenter, false)
		assert.ErrorIs(t, err, ErrSuspended)
	})
}

func TestRequireRole(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("allowed role passes", func(t *testing.T) {
		t.Parallel()
		d := seeded()
		d.roles[[2]uint64{3, activeCenter}] = model.RoleAdmin
		svc := New(d, 0)

		role, err := svc.RequireRole(ctx, 3, activeCenter, CanManageBlackouts)
		require.NoError(t, err)
		assert.Equal(t, model.RoleAdmin, role)
	})

	t.Run("role outside the set is rejected", func(t *testing.T) {
		t.Parallel()
		d := seeded()
		d.roles[[2]uint64{3, activeCenter}] = model.RoleStaff
		svc := New(d, 0)

		_, err := svc.RequireRole(ctx, 3, activeCenter, CanManageBlackouts)
		assert.ErrorIs(t, err, ErrInsufficientRole)
	})

	t.Run("slot deletion is owner only", func(t *testing.T) {
		t.Parallel()
		d := seeded()
		d.roles[[2]uint64{3, activeCenter}] = model.RoleAdmin
		svc := New(d, 0)

		_, err := svc.RequireRole(ctx, 3, activeCenter, CanDeleteSlots)
		assert.ErrorIs(t, err, ErrInsufficientRole)
	})

	t.Run("suspension gate runs before the role check", func(t *testing.T) {
		t.Parallel()
		d := seeded()
		d.roles[[2]uint64{4, suspendedCenter}] = model.RoleOwner
		svc := New(d, 0)

		_, err := svc.RequireRole(ctx, 4, suspendedCenter, CanManageBlackouts)
		assert.ErrorIs(t, err, ErrSuspended)
	})
}

func TestIsFleetManager(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	d := seeded()
	d.roles[[2]uint64{5, fleetCenter}] = model.RoleStaff
	svc := New(d, fleetCenter)

	ok, err := svc.IsFleetManager(ctx, 5)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.IsFleetManager(ctx, 6)
	require.NoError(t, err)
	assert.False(t, ok)

	none := New(d, 0)
	ok, err = none.IsFleetManager(ctx, 5)
	require.NoError(t, err)
	assert.False(t, ok)
}
