package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/logging"
	"github.com/Mykyta-Harashchenko/PhotoShare-Project/internal/models"
)

// UserService covers the admin-invoked account operations: promotion and
// blocking.
type UserService struct {
	Store UserStore
}

func (s *UserService) Get(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.Store.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

// Promote raises a plain user to moderator. That is the only role
// transition exposed, there is no demotion and no way to mint additional
// admins beyond the first-signup bootstrap.
func (s *UserService) Promote(ctx context.Context, targetID uint) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.promote", "target_id", targetID)

	target, err := s.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}
	if target.Role != models.RoleUser {
		l.Warn("promote_denied", "role", target.Role)
		return nil, ErrNotPromotable
	}

	if err := s.Store.SetRole(ctx, targetID, models.RoleModerator); err != nil {
		l.Error("promote_failed", "error", err)
		return nil, err
	}
	target.Role = models.RoleModerator

	l.Info("promote_success")
	return target, nil
}

// Block denies the target access to every gated route until unblocked.
// An admin may not block themself.
func (s *UserService) Block(ctx context.Context, actor *models.User, targetID uint) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.block", "target_id", targetID)

	if actor.ID == targetID {
		l.Warn("block_denied", "reason", "self_action")
		return nil, ErrSelfActionDenied
	}

	target, err := s.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.Store.SetBlocked(ctx, targetID, true); err != nil {
		l.Error("block_failed", "error", err)
		return nil, err
	}
	target.IsBlocked = true

	l.Info("block_success")
	return target, nil
}

func (s *UserService) Unblock(ctx context.Context, targetID uint) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "users.unblock", "target_id", targetID)

	target, err := s.Get(ctx, targetID)
	if err != nil {
		return nil, err
	}

	if err := s.Store.SetBlocked(ctx, targetID, false); err != nil {
		l.Error("unblock_failed", "error", err)
		return nil, err
	}
	target.IsBlocked = false

	l.Info("unblock_success")
	return target, nil
}
