package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/nuricanozturk01/setupshowroom-public/internal/models"
	"github.com/nuricanozturk01/setupshowroom-public/internal/repository"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// UserService handles account registration, authentication and profile updates.
type UserService struct {
	repo *repository.UserRepository
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo *repository.UserRepository) *UserService {
	return &UserService{repo: repo}
}

// RegisterUser creates a new account with a bcrypt-hashed password. Email and
// username must both be unused.
func (s *UserService) RegisterUser(ctx context.Context, form *models.RegisterForm) (*models.User, error) {
	if form.Email == "" || form.Username == "" || form.Password == "" {
		return nil, fmt.Errorf("email, username and password are required")
	}

	if _, err := s.repo.GetUserByEmail(ctx, form.Email); err == nil {
		return nil, fmt.Errorf("email %s is already registered", form.Email)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	if _, err := s.repo.GetUserByUsername(ctx, form.Username); err == nil {
		return nil, fmt.Errorf("username %s is already taken", form.Username)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(form.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %v", err)
	}

	user := &models.User{
		FullName:       form.FullName,
		Username:       form.Username,
		Email:          form.Email,
		HashedPassword: string(hashed),
		Profession:     form.Profession,
		Role:           "user",
		Enabled:        true,
	}

	return s.repo.CreateUser(ctx, user)
}

// AuthenticateUser verifies the credentials and returns the matching user.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		return nil, fmt.Errorf("invalid credentials")
	}

	if !user.Enabled {
		return nil, fmt.Errorf("account is disabled")
	}

	return user, nil
}

// GetUser fetches a user by ID.
func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// UpdateProfile applies profile changes to the user's own account.
func (s *UserService) UpdateProfile(ctx context.Context, id primitive.ObjectID, form *models.ProfileForm) (*models.User, error) {
	updates := bson.M{}
	if form.FullName != "" {
		updates["full_name"] = form.FullName
	}
	if form.Profession != "" {
		updates["profession"] = form.Profession
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateUser(ctx, id, updates); err != nil {
			return nil, err
		}
	}
	return s.repo.GetUserByID(ctx, id)
}
