package service

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gather/internal/mailer"
	"gather/internal/markdown"
	"gather/internal/models"
	"gather/internal/repository"
	"gather/internal/token"
	"gather/internal/validation"
)

// dummyDigest is a real bcrypt digest of a throwaway value, compared against
// when the email is unknown so the failure path costs a full comparison.
var dummyDigest, _ = bcrypt.GenerateFromPassword([]byte("timing equalizer"), bcrypt.DefaultCost)

// AccountService covers registration, login, password management, and
// profile reads/edits.
type AccountService struct {
	db       *gorm.DB
	settings *SettingsService
	tokens   *token.Maker
	mail     mailer.Mailer
	policy   Policy

	sessionTTL time.Duration
	resetTTL   time.Duration
}

type RegisterInput struct {
	Email       string
	DisplayName string
	Password    string
}

type UpdateProfileInput struct {
	DisplayName     *string
	Bio             *string
	Website         *string
	Street          *string
	City            *string
	PostalCode      *string
	Country         *string
	Phone           *string
	Birthdate       *time.Time
	IsProfilePublic *bool
	Theme           *string
	Accent          *string
}

func NewAccountService(db *gorm.DB, settings *SettingsService, tokens *token.Maker, mail mailer.Mailer, sessionTTL, resetTTL time.Duration) *AccountService {
	return &AccountService{
		db:         db,
		settings:   settings,
		tokens:     tokens,
		mail:       mail,
		sessionTTL: sessionTTL,
		resetTTL:   resetTTL,
	}
}

// Register creates a pending user. New accounts are inactive and unapproved
// until an admin lets them in.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if !s.settings.AllowRegistrations(ctx) {
		return nil, models.NewRegistrationsDisabledError()
	}

	fields := map[string][]string{}
	if err := validation.Email(in.Email); err != nil {
		fields["email"] = append(fields["email"], err.Error())
	}
	if err := validation.DisplayName(in.DisplayName); err != nil {
		fields["display_name"] = append(fields["display_name"], err.Error())
	}
	if err := validation.Password(in.Password); err != nil {
		fields["password"] = append(fields["password"], err.Error())
	}
	if len(fields) > 0 {
		return nil, models.NewFieldValidationError(fields)
	}

	digest, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewStorageFailureError("hash password", err)
	}

	user := &models.User{
		Email:           in.Email,
		Password:        string(digest),
		DisplayName:     in.DisplayName,
		IsProfilePublic: true,
	}
	if err := repository.NewUserRepository(s.db).Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks credentials and account state. The outcome priority is
// bad credentials first, then inactive, then unapproved.
func (s *AccountService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := repository.NewUserRepository(s.db).GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Burn a comparison so missing accounts cost the same as wrong
		// passwords.
		_ = bcrypt.CompareHashAndPassword(dummyDigest, []byte(password))
		return nil, models.NewBadCredentialsError()
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewBadCredentialsError()
	}
	if !user.IsActive {
		return nil, models.NewNotActiveError()
	}
	if !user.IsApproved {
		return nil, models.NewNotApprovedError()
	}
	return user, nil
}

// IssueSession returns a signed session token for a user who already
// authenticated.
func (s *AccountService) IssueSession(user *models.User) (string, error) {
	return s.tokens.SignSession(user.ID, s.sessionTTL)
}

// ChangePassword verifies the old password before storing the new digest.
func (s *AccountService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	users := repository.NewUserRepository(s.db)
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return models.NewBadCredentialsError()
	}
	if err := validation.Password(newPassword); err != nil {
		return models.NewFieldValidationError(map[string][]string{"password": {err.Error()}})
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewStorageFailureError("hash password", err)
	}
	user.Password = string(digest)
	return users.Update(ctx, user)
}

// IssueResetToken signs a reset token for the user. Zero ttl uses the
// configured default.
func (s *AccountService) IssueResetToken(user *models.User, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = s.resetTTL
	}
	return s.tokens.SignReset(user.ID, ttl)
}

// RequestPasswordReset mails a reset token to the address when an account
// exists. Unknown addresses are a silent success so the endpoint does not
// leak membership.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := repository.NewUserRepository(s.db).GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return nil
	}
	tok, err := s.IssueResetToken(user, 0)
	if err != nil {
		return models.NewStorageFailureError("sign reset token", err)
	}
	body := fmt.Sprintf("Hello %s,\n\nUse this token to reset your password: %s\n\nIt expires in %d minutes.",
		user.DisplayName, tok, int(s.resetTTL.Minutes()))
	return s.mail.Send(ctx, user.Email, "Password reset", body)
}

// ConsumeResetToken verifies the token and returns the embedded user if they
// still exist.
func (s *AccountService) ConsumeResetToken(ctx context.Context, tok string) (*models.User, error) {
	userID, err := s.tokens.VerifyReset(tok)
	if err != nil {
		return nil, models.NewInvalidTokenError()
	}
	user, err := repository.NewUserRepository(s.db).GetByID(ctx, userID)
	if err != nil {
		if models.IsCode(err, models.CodeNotFound) {
			return nil, models.NewInvalidTokenError()
		}
		return nil, err
	}
	return user, nil
}

// ResetPassword consumes the token and stores the new password.
func (s *AccountService) ResetPassword(ctx context.Context, tok, newPassword string) error {
	user, err := s.ConsumeResetToken(ctx, tok)
	if err != nil {
		return err
	}
	if err := validation.Password(newPassword); err != nil {
		return models.NewFieldValidationError(map[string][]string{"password": {err.Error()}})
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return models.NewStorageFailureError("hash password", err)
	}
	user.Password = string(digest)
	return repository.NewUserRepository(s.db).Update(ctx, user)
}

// GetUser loads a user by id with no visibility gate; callers that serve
// profiles should use GetProfile.
func (s *AccountService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return repository.NewUserRepository(s.db).GetByID(ctx, id)
}

// GetProfile returns the user when visible to the viewer.
func (s *AccountService) GetProfile(ctx context.Context, viewer *models.User, userID uint) (*models.User, error) {
	user, err := repository.NewUserRepository(s.db).GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !s.policy.CanViewProfile(viewer, user) {
		return nil, models.NewForbiddenError("this profile is private")
	}
	return user, nil
}

// UpdateProfile applies the set fields. Bio is sanitized before storage.
func (s *AccountService) UpdateProfile(ctx context.Context, userID uint, in UpdateProfileInput) (*models.User, error) {
	users := repository.NewUserRepository(s.db)
	user, err := users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.DisplayName != nil {
		if err := validation.DisplayName(*in.DisplayName); err != nil {
			return nil, models.NewFieldValidationError(map[string][]string{"display_name": {err.Error()}})
		}
		user.DisplayName = *in.DisplayName
	}
	if in.Bio != nil {
		user.Bio = markdown.Sanitize(*in.Bio)
	}
	if in.Website != nil {
		user.Website = *in.Website
	}
	if in.Street != nil {
		user.Street = *in.Street
	}
	if in.City != nil {
		user.City = *in.City
	}
	if in.PostalCode != nil {
		user.PostalCode = *in.PostalCode
	}
	if in.Country != nil {
		user.Country = *in.Country
	}
	if in.Phone != nil {
		user.Phone = *in.Phone
	}
	if in.Birthdate != nil {
		user.Birthdate = in.Birthdate
	}
	if in.IsProfilePublic != nil {
		user.IsProfilePublic = *in.IsProfilePublic
	}
	if in.Theme != nil {
		user.Theme = *in.Theme
	}
	if in.Accent != nil {
		user.Accent = *in.Accent
	}

	if err := users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
