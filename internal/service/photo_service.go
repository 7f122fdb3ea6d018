package service

import (
	"context"
	"io"
	"log/slog"

	"gorm.io/gorm"

	"gather/internal/models"
	"gather/internal/repository"
	"gather/internal/storage"
)

// PhotoService covers gallery uploads and their lifecycle. Files live behind
// the FileStore; the database keeps only refs.
type PhotoService struct {
	db     *gorm.DB
	store  storage.FileStore
	policy Policy
}

type UploadPhotoInput struct {
	OwnerID      uint
	File         io.Reader
	OriginalName string
	Caption      string
}

func NewPhotoService(db *gorm.DB, store storage.FileStore) *PhotoService {
	return &PhotoService{db: db, store: store}
}

// UploadPhoto saves the file, records the photo, and notifies every follower
// of the owner. The stored file is removed again if the transaction fails.
func (s *PhotoService) UploadPhoto(ctx context.Context, in UploadPhotoInput) (*models.Photo, error) {
	ref, err := s.store.Save(ctx, in.File, storage.KindGallery, in.OriginalName, in.OwnerID)
	if err != nil {
		return nil, err
	}

	photo := &models.Photo{
		UserID:  in.OwnerID,
		FileRef: ref,
		Caption: in.Caption,
	}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := repository.NewPhotoRepository(tx).Create(ctx, photo); err != nil {
			return err
		}
		followerIDs, err := repository.NewFollowRepository(tx).FollowerIDs(ctx, in.OwnerID)
		if err != nil {
			return err
		}
		rec := newRecorder(tx)
		target := models.TargetRef{Type: models.TargetPhoto, ID: photo.ID}
		for _, id := range followerIDs {
			if err := rec.notify(ctx, id, in.OwnerID, models.NotificationNewPhoto, target, nil); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if delErr := s.store.Delete(ctx, ref); delErr != nil {
			slog.ErrorContext(ctx, "orphaned upload after rollback",
				slog.String("ref", ref), slog.String("err", delErr.Error()))
		}
		return nil, err
	}
	return photo, nil
}

// SetAvatar stores a new profile photo for the user and releases the old one
// once the record points at the new ref.
func (s *PhotoService) SetAvatar(ctx context.Context, userID uint, file io.Reader, originalName string) (*models.User, error) {
	users := repository.NewUserRepository(s.db)
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	ref, err := s.store.Save(ctx, file, storage.KindProfile, originalName, userID)
	if err != nil {
		return nil, err
	}

	oldRef := user.ProfilePhoto
	user.ProfilePhoto = ref
	if err := users.Update(ctx, user); err != nil {
		if delErr := s.store.Delete(ctx, ref); delErr != nil {
			slog.ErrorContext(ctx, "orphaned upload after failed update",
				slog.String("ref", ref), slog.String("err", delErr.Error()))
		}
		return nil, err
	}
	if oldRef != "" {
		if delErr := s.store.Delete(ctx, oldRef); delErr != nil {
			slog.ErrorContext(ctx, "file release failed",
				slog.String("ref", oldRef), slog.String("err", delErr.Error()))
		}
	}
	return user, nil
}

// DeletePhoto cascades through comments and likes and releases the file
// after the transaction commits.
func (s *PhotoService) DeletePhoto(ctx context.Context, actor *models.User, photoID uint) error {
	photo, err := repository.NewPhotoRepository(s.db).GetByID(ctx, photoID)
	if err != nil {
		return err
	}
	if !s.policy.CanEditContent(actor, photo.UserID) {
		return models.NewForbiddenError("you can only delete your own photos")
	}

	var ref string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ref, err = repository.DeletePhotoCascade(tx, photoID)
		return err
	})
	if err != nil {
		return err
	}
	if delErr := s.store.Delete(ctx, ref); delErr != nil {
		slog.ErrorContext(ctx, "file release failed",
			slog.String("ref", ref), slog.String("err", delErr.Error()))
	}
	return nil
}

// GetPhoto returns the photo when the owner's gallery is visible to the
// viewer.
func (s *PhotoService) GetPhoto(ctx context.Context, viewer *models.User, photoID uint) (*models.Photo, error) {
	photo, err := repository.NewPhotoRepository(s.db).GetByID(ctx, photoID)
	if err != nil {
		return nil, err
	}
	owner, err := repository.NewUserRepository(s.db).GetByID(ctx, photo.UserID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanViewPhoto(viewer, owner) {
		return nil, models.NewNotFoundError("photo", photoID)
	}
	return photo, nil
}

// ListByUser pages a user's gallery, gated on profile visibility.
func (s *PhotoService) ListByUser(ctx context.Context, viewer *models.User, userID uint, page, perPage int) ([]*models.Photo, models.PageInfo, error) {
	owner, err := repository.NewUserRepository(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, models.PageInfo{}, err
	}
	if !s.policy.CanViewPhoto(viewer, owner) {
		return nil, models.PageInfo{}, models.NewForbiddenError("this gallery is private")
	}
	p := models.NewPageInfo(page, perPage, 0)
	photos, total, err := repository.NewPhotoRepository(s.db).ListByUser(ctx, userID, p.PerPage, p.Offset())
	if err != nil {
		return nil, models.PageInfo{}, err
	}
	return photos, models.NewPageInfo(p.Page, p.PerPage, total), nil
}
