package access

import (
	"context"

	"github.com/avelarde/gymcore/internal/model"
	"github.com/avelarde/gymcore/internal/repository"
)

// SQLDirectory adapts the user, membership and center repositories to the
// Directory interface.
type SQLDirectory struct {
	Users       *repository.UserRepo
	Memberships *repository.MembershipRepo
	Centers     *repository.CenterRepo
}

func (d SQLDirectory) IsSuperadmin(ctx context.Context, userID uint64) (bool, error) {
	return d.Users.IsSuperadmin(ctx, userID)
}

func (d SQLDirectory) CenterRole(ctx context.Context, userID, centerID uint64) (model.Role, bool, error) {
	return d.Memberships.RoleOf(ctx, userID, centerID)
}

func (d SQLDirectory) CenterByID(ctx context.Context, centerID uint64) (*model.Center, error) {
	return d.Centers.GetByID(ctx, centerID)
}
