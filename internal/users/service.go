package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/shophub-io/shophub-backend/pkg/config"
	"github.com/shophub-io/shophub-backend/pkg/db"
	"github.com/shophub-io/shophub-backend/pkg/db/models"
	pkgerrors "github.com/shophub-io/shophub-backend/pkg/errors"
	"github.com/shophub-io/shophub-backend/pkg/security"
)

type userRepo interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	Create(ctx context.Context, user *models.User) (*models.User, error)
	Save(ctx context.Context, user *models.User) (*models.User, error)
	FirstAddress(ctx context.Context, userID int64) (*models.Address, error)
	SaveAddress(ctx context.Context, address *models.Address) (*models.Address, error)
}

// RegisterInput creates a new account.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// ProfileUpdate carries optional account changes; nil fields keep current
// values. Address fields, when any are present, update the default address.
type ProfileUpdate struct {
	Email     *string
	FirstName *string
	LastName  *string
	Phone     *string

	FullName   *string
	Line1      *string
	Line2      *string
	City       *string
	State      *string
	PostalCode *string
	Country    *string
}

// Profile is the account view returned to its owner.
type Profile struct {
	User    *models.User
	Address *models.Address
}

// Service exposes account registration, authentication and profile access.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Authenticate(ctx context.Context, username, password string) (*models.User, error)
	GetProfile(ctx context.Context, userID int64) (*Profile, error)
	UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*Profile, error)
}

type service struct {
	repo     userRepo
	password config.PasswordConfig
}

// NewService builds a user service.
func NewService(repo userRepo, password config.PasswordConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("user repository required")
	}
	return &service{repo: repo, password: password}, nil
}

// Register creates an account with an argon2id password hash.
func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "username is required")
	}
	if input.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "password is required")
	}

	hash, err := security.HashPassword(input.Password, s.password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user, err := s.repo.Create(ctx, &models.User{
		Username:     username,
		Email:        strings.TrimSpace(input.Email),
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "username already taken")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return user, nil
}

// Authenticate verifies the username/password pair. Unknown usernames and
// wrong passwords return the same error.
func (s *service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.repo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil || !ok {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")
	}
	return user, nil
}

// GetProfile returns the user with their default address, if any.
func (s *service) GetProfile(ctx context.Context, userID int64) (*Profile, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	address, err := s.repo.FirstAddress(ctx, userID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load address")
	}
	return &Profile{User: user, Address: address}, nil
}

// UpdateProfile applies the provided field changes to the user and their
// default address, creating the address when fields arrive and none exists.
func (s *service) UpdateProfile(ctx context.Context, userID int64, update ProfileUpdate) (*Profile, error) {
	profile, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	user := profile.User

	if update.Email != nil {
		user.Email = strings.TrimSpace(*update.Email)
	}
	if update.FirstName != nil {
		user.FirstName = *update.FirstName
	}
	if update.LastName != nil {
		user.LastName = *update.LastName
	}
	if update.Phone != nil {
		user.Phone = update.Phone
	}
	if _, err := s.repo.Save(ctx, user); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save user")
	}

	if hasAddressFields(update) {
		address := profile.Address
		if address == nil {
			address = &models.Address{UserID: userID}
		}
		applyAddressFields(address, update)
		saved, err := s.repo.SaveAddress(ctx, address)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save address")
		}
		profile.Address = saved
	}
	profile.User = user
	return profile, nil
}

func hasAddressFields(update ProfileUpdate) bool {
	return update.FullName != nil || update.Line1 != nil || update.Line2 != nil ||
		update.City != nil || update.State != nil || update.PostalCode != nil || update.Country != nil
}

func applyAddressFields(address *models.Address, update ProfileUpdate) {
	if update.FullName != nil {
		address.FullName = *update.FullName
	}
	if update.Line1 != nil {
		address.Line1 = *update.Line1
	}
	if update.Line2 != nil {
		address.Line2 = *update.Line2
	}
	if update.City != nil {
		address.City = *update.City
	}
	if update.State != nil {
		address.State = *update.State
	}
	if update.PostalCode != nil {
		address.PostalCode = *update.PostalCode
	}
	if update.Country != nil {
		address.Country = *update.Country
	}
}
