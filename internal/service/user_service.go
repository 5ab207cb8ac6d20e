package service

import (
	"context"
	"errors"
	"exam_portal_backend/internal/model"
	"exam_portal_backend/internal/repository"
	"exam_portal_backend/internal/util"
	"exam_portal_backend/pkg/logger"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserInput creates or updates an account. An empty Password keeps the
// stored one on update.
// swagger:model UserInput
type UserInput struct {
	Username string         `json:"username" binding:"required"`
	Password string         `json:"password"`
	Role     model.UserRole `json:"role" binding:"required"`
	Name     string         `json:"name"`
	Email    string         `json:"email"`
	Phone    string         `json:"phone"`
	Batch    string         `json:"batch"`
	CourseID string         `json:"courseId"`
}

type UserService struct {
	UserRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{UserRepo: userRepo}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func applyUserInput(u *model.User, in *UserInput) {
	u.Username = in.Username
	u.Role = in.Role
	u.Name = in.Name
	u.Email = in.Email
	u.Phone = in.Phone
	u.Batch = in.Batch
	u.CourseID = in.CourseID
}

func (s *UserService) Create(ctx context.Context, in *UserInput) (*model.User, error) {
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", util.ErrInvalidInput, in.Role)
	}
	if in.Password == "" {
		return nil, fmt.Errorf("%w: password is required", util.ErrInvalidInput)
	}
	taken, err := s.UserRepo.ExistsByUsername(ctx, in.Username, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, util.ErrUsernameTaken
	}

	user := &model.User{}
	applyUserInput(user, in)
	if user.Password, err = hashPassword(in.Password); err != nil {
		return nil, err
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.UserRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrUserNotFound
	}
	return user, err
}

func (s *UserService) List(ctx context.Context, role model.UserRole, page, limit int) ([]model.User, int64, error) {
	return s.UserRepo.List(ctx, role, page, limit)
}

func (s *UserService) Update(ctx context.Context, id string, in *UserInput) (*model.User, error) {
	if !in.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", util.ErrInvalidInput, in.Role)
	}
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	taken, err := s.UserRepo.ExistsByUsername(ctx, in.Username, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, util.ErrUsernameTaken
	}

	applyUserInput(user, in)
	if in.Password != "" {
		if user.Password, err = hashPassword(in.Password); err != nil {
			return nil, err
		}
	}
	if err := s.UserRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.UserRepo.Delete(ctx, id); errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrUserNotFound
	} else if err != nil {
		return err
	}
	return nil
}

// EnsureAdmin seeds an admin account on an empty install.
func (s *UserService) EnsureAdmin(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return nil
	}
	count, err := s.UserRepo.CountByRole(ctx, model.Admin)
	if err != nil || count > 0 {
		return err
	}
	if _, err := s.Create(ctx, &UserInput{
		Username: username,
		Password: password,
		Role:     model.Admin,
		Name:     "Administrator",
	}); err != nil {
		return err
	}
	logger.Log.Info("Seeded admin account", zap.String("username", username))
	return nil
}
