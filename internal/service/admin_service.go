package service

import (
	"context"
	"log/slog"

	"gorm.io/gorm"

	"gather/internal/models"
	"gather/internal/repository"
	"gather/internal/storage"
)

// AdminService covers the admin surface: pending-user lifecycle and the
// moderation queue.
type AdminService struct {
	db     *gorm.DB
	store  storage.FileStore
	policy Policy
}

func NewAdminService(db *gorm.DB, store storage.FileStore) *AdminService {
	return &AdminService{db: db, store: store}
}

// PendingUsers pages the accounts awaiting approval, oldest id first.
func (s *AdminService) PendingUsers(ctx context.Context, admin *models.User, page, perPage int) ([]models.User, models.PageInfo, error) {
	if err := s.policy.RequireAdmin(admin); err != nil {
		return nil, models.PageInfo{}, err
	}
	p := models.NewPageInfo(page, perPage, 0)
	users, total, err := repository.NewUserRepository(s.db).ListPending(ctx, p.PerPage, p.Offset())
	if err != nil {
		return nil, models.PageInfo{}, err
	}
	return users, models.NewPageInfo(p.Page, p.PerPage, total), nil
}

// ApproveUser activates a pending account and announces it to every user.
func (s *AdminService) ApproveUser(ctx context.Context, admin *models.User, userID uint) (*models.User, error) {
	if err := s.policy.RequireAdmin(admin); err != nil {
		return nil, err
	}
	var user *models.User
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := repository.NewUserRepository(tx)
		var err error
		user, err = users.GetByID(ctx, userID)
		if err != nil {
			return err
		}
		if user.IsActive && user.IsApproved {
			return models.NewConflictError("user is already approved")
		}
		user.IsActive = true
		user.IsApproved = true
		if err := users.Update(ctx, user); err != nil {
			return err
		}
		return newRecorder(tx).broadcast(ctx, admin.ID,
			models.NotificationUserApproved,
			models.TargetRef{Type: models.TargetUser, ID: user.ID})
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RejectUser hard-deletes a still-pending account with everything it owns.
// Admins and already-activated accounts cannot be rejected.
func (s *AdminService) RejectUser(ctx context.Context, admin *models.User, userID uint) error {
	if err := s.policy.RequireAdmin(admin); err != nil {
		return err
	}
	user, err := repository.NewUserRepository(s.db).GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user.IsAdmin {
		return models.NewConflictError("admin accounts cannot be rejected")
	}
	if user.IsActive || user.IsApproved {
		return models.NewConflictError("user is no longer pending")
	}

	var fileRefs []string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		fileRefs, err = repository.DeleteUserCascade(tx, userID)
		return err
	})
	if err != nil {
		return err
	}
	for _, ref := range fileRefs {
		if delErr := s.store.Delete(ctx, ref); delErr != nil {
			slog.ErrorContext(ctx, "file release failed",
				slog.String("ref", ref), slog.String("err", delErr.Error()))
		}
	}
	return nil
}

// OpenFlags pages the unresolved flags with comment and flagger loaded for
// the moderation queue.
func (s *AdminService) OpenFlags(ctx context.Context, admin *models.User, page, perPage int) ([]*models.CommentFlag, models.PageInfo, error) {
	if err := s.policy.RequireAdmin(admin); err != nil {
		return nil, models.PageInfo{}, err
	}
	p := models.NewPageInfo(page, perPage, 0)
	flags, total, err := repository.NewFlagRepository(s.db).ListOpen(ctx, p.PerPage, p.Offset())
	if err != nil {
		return nil, models.PageInfo{}, err
	}
	return flags, models.NewPageInfo(p.Page, p.PerPage, total), nil
}
