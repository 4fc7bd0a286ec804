package service

import (
	"errors"

	"quizhub_backend/internal/model"
	"quizhub_backend/internal/repository"
	"quizhub_backend/internal/util"
	"quizhub_backend/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UpdateProfileInput struct {
	Name     string `json:"name"`
	Password string `json:"password" binding:"omitempty,min=6"`
}

type UpdateUserInput struct {
	Name     string          `json:"name"`
	Role     *model.UserRole `json:"role"`
	Disabled *bool           `json:"disabled"`
}

type UserService struct {
	userRepo *repository.UserRepository
}

func NewUserService(userRepo *repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUser(id uint) (*model.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *UserService) ListUsers(page, limit int, keyword string) ([]model.User, int64, error) {
	return s.userRepo.List(page, limit, keyword)
}

// UpdateProfile 用户更新自己的资料，密码留空表示不修改
func (s *UserService) UpdateProfile(userID uint, input *UpdateProfileInput) (*model.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Password != "" {
		hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.Password = string(hashed)
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}

// UpdateUser 管理员更新用户角色或禁用状态
func (s *UserService) UpdateUser(userID uint, input *UpdateUserInput) (*model.User, error) {
	user, err := s.GetUser(userID)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		user.Name = input.Name
	}
	if input.Role != nil {
		user.Role = *input.Role
	}
	if input.Disabled != nil {
		user.Disabled = *input.Disabled
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}

	logger.Log.Info("User updated by admin",
		zap.Uint("userId", user.ID),
		zap.String("role", string(user.Role)),
		zap.Bool("disabled", user.Disabled))
	return user, nil
}

func (s *UserService) DeleteUser(userID uint) error {
	if _, err := s.GetUser(userID); err != nil {
		return err
	}
	return s.userRepo.Delete(userID)
}

func (s *UserService) TouchLastSeen(userID uint) {
	if err := s.userRepo.UpdateLastSeen(userID); err != nil {
		logger.Log.Warn("Failed to update last seen", zap.Uint("userId", userID), zap.Error(err))
	}
}
