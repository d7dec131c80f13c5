// Package accounts registers users, checks their credentials and keeps their
// public profiles.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"coderr/config"
	"coderr/models"
	"coderr/services/access"
	"coderr/services/errs"
	"coderr/services/validation"
	"coderr/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const badCredentials = "Unable to log in with provided credentials."

// RegisterInput is a sign-up request
type RegisterInput struct {
	Username         string `json:"username" validate:"required,max=150"`
	Email            string `json:"email" validate:"required,email,max=254"`
	Password         string `json:"password" validate:"required,min=6,max=72"`
	RepeatedPassword string `json:"repeated_password" validate:"required"`
	Type             string `json:"type" validate:"required,oneof=customer business"`
}

// ProfilePatch changes the editable profile fields. Nil fields keep their value.
type ProfilePatch struct {
	FirstName    *string `json:"first_name" validate:"omitempty,max=150"`
	LastName     *string `json:"last_name" validate:"omitempty,max=150"`
	Email        *string `json:"email" validate:"omitempty,email,max=254"`
	Location     *string `json:"location" validate:"omitempty,max=255"`
	Tel          *string `json:"tel" validate:"omitempty,max=20"`
	Description  *string `json:"description"`
	WorkingHours *string `json:"working_hours" validate:"omitempty,max=255"`
	File         *string `json:"-"`
}

// Profile is the public view of a user
type Profile struct {
	User         uint      `json:"user"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	File         string    `json:"file"`
	Location     string    `json:"location"`
	Tel          string    `json:"tel"`
	Description  string    `json:"description"`
	WorkingHours string    `json:"working_hours"`
	Type         string    `json:"type"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewProfile builds the public view of u
func NewProfile(u models.User) Profile {
	return Profile{
		User:         u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		File:         u.File,
		Location:     u.Location,
		Tel:          u.Tel,
		Description:  u.Description,
		WorkingHours: u.WorkingHours,
		Type:         u.Type,
		Email:        u.Email,
		CreatedAt:    u.CreatedAt,
	}
}

type Service struct {
	db   *gorm.DB
	cost int
}

// NewService hashes passwords with the configured bcrypt cost
func NewService(db *gorm.DB) *Service {
	cost := config.AppConfig.SaltRound
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{db: db, cost: cost}
}

// WithCost returns a copy that hashes with the given bcrypt cost
func (s *Service) WithCost(cost int) *Service {
	c := *s
	c.cost = cost
	return &c
}

// Register creates a customer or business account
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	fields := validation.Struct(in, "")
	if in.Password != "" && in.Password != in.RepeatedPassword {
		fields = validation.Merge(fields, map[string]string{"password": "Passwords must match."})
	}
	if fields != nil {
		return nil, errs.Validation("Invalid registration.", fields)
	}

	db := s.db.WithContext(ctx)
	var taken models.User
	err := db.Unscoped().
		Where("username = ? OR email = ?", in.Username, in.Email).
		First(&taken).Error
	switch {
	case err == nil && taken.Username == in.Username:
		return nil, errs.Conflict("A user with that username already exists.", nil)
	case err == nil:
		return nil, errs.Conflict("A user with that email already exists.", nil)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: string(hash),
		Type:     in.Type,
	}
	if err := db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errs.Conflict("A user with that username or email already exists.", err)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	utils.GetLogger().Info("user registered", zap.Uint("user_id", user.ID), zap.String("type", user.Type))
	return &user, nil
}

// Login checks a username or email against the stored password hash
func (s *Service) Login(ctx context.Context, identifier, password string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, errs.Unauthorized(badCredentials)
	}

	var user models.User
	err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.Unauthorized(badCredentials)
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, errs.Unauthorized(badCredentials)
	}
	return &user, nil
}

// GetUser loads an active user, for token checks
func (s *Service) GetUser(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("User not found.")
		}
		return nil, fmt.Errorf("load user %d: %w", id, err)
	}
	return &user, nil
}

// GetProfile returns any user's profile to an authenticated caller
func (s *Service) GetProfile(ctx context.Context, p access.Principal, id uint) (*Profile, error) {
	if err := access.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	profile := NewProfile(*user)
	return &profile, nil
}

// UpdateProfile changes the caller's own profile
func (s *Service) UpdateProfile(ctx context.Context, p access.Principal, id uint, patch ProfilePatch) (*Profile, error) {
	user, err := s.editableUser(ctx, p, id)
	if err != nil {
		return nil, err
	}
	if fields := validation.Struct(patch, ""); fields != nil {
		return nil, errs.Validation("Invalid profile.", fields)
	}

	updates := map[string]any{}
	set := func(column string, v *string) {
		if v != nil {
			updates[column] = *v
		}
	}
	set("first_name", patch.FirstName)
	set("last_name", patch.LastName)
	set("location", patch.Location)
	set("tel", patch.Tel)
	set("description", patch.Description)
	set("working_hours", patch.WorkingHours)
	set("file", patch.File)
	if patch.Email != nil {
		updates["email"] = strings.ToLower(strings.TrimSpace(*patch.Email))
	}

	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, errs.Conflict("A user with that email already exists.", err)
			}
			return nil, fmt.Errorf("update profile %d: %w", id, err)
		}
	}
	return s.GetProfile(ctx, p, id)
}

// AuthorizeProfileEdit fails unless p may edit the profile. Upload handlers
// call it before anything is written to disk.
func (s *Service) AuthorizeProfileEdit(ctx context.Context, p access.Principal, id uint) error {
	_, err := s.editableUser(ctx, p, id)
	return err
}

func (s *Service) editableUser(ctx context.Context, p access.Principal, id uint) (*models.User, error) {
	if err := access.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	user, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.ID != p.UserID {
		return nil, errs.Forbidden("You do not have permission to edit this profile.")
	}
	return user, nil
}

// SetProfileFile points the caller's profile at a stored picture
func (s *Service) SetProfileFile(ctx context.Context, p access.Principal, id uint, path string) (*Profile, error) {
	return s.UpdateProfile(ctx, p, id, ProfilePatch{File: &path})
}

// ListProfiles returns every profile of one account type
func (s *Service) ListProfiles(ctx context.Context, p access.Principal, userType string) ([]Profile, error) {
	if err := access.RequireAuthenticated(p); err != nil {
		return nil, err
	}
	if userType != models.UserTypeBusiness && userType != models.UserTypeCustomer {
		return nil, errs.Field("type", fmt.Sprintf("%q is not a valid choice.", userType))
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Where("type = ?", userType).Order("id").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list %s profiles: %w", userType, err)
	}
	profiles := make([]Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, NewProfile(u))
	}
	return profiles, nil
}
