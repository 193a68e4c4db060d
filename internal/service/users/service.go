package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m04kA/SMC-SlotBoard/internal/domain"
	"github.com/m04kA/SMC-SlotBoard/internal/infra/storage"
	"github.com/m04kA/SMC-SlotBoard/internal/service/users/models"
)

// Service управление заранее заведенными пользователями (политика fixed)
type Service struct {
	userRepo     UserRepository
	txManager    TransactionManager
	provisioning domain.UserProvisioning
	logger       Logger
}

// NewService создает новый экземпляр сервиса пользователей
func NewService(userRepo UserRepository, txManager TransactionManager, provisioning domain.UserProvisioning, logger Logger) *Service {
	return &Service{
		userRepo:     userRepo,
		txManager:    txManager,
		provisioning: provisioning,
		logger:       logger,
	}
}

// Add заводит пользователя с заданным номером и кодом доступа
func (s *Service) Add(ctx context.Context, req *models.AddUserRequest) (*models.UserResponse, error) {
	if s.provisioning != domain.ProvisioningFixed {
		return nil, ErrProvisioningDisabled
	}

	user, err := validateUser(req.UserID, req.Password)
	if err != nil {
		s.logger.Warn("Add: validation failed: %v", err)
		return nil, err
	}

	err = s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		return s.userRepo.Create(txCtx, user)
	})
	if err != nil {
		if errors.Is(err, storage.ErrUserAlreadyExists) {
			s.logger.Warn("Add: user #%d already exists", user.Number)
			return nil, fmt.Errorf("%w: %v", ErrUserAlreadyExists, err)
		}
		s.logger.Error("Add: failed to create user #%d: %v", user.Number, err)
		return nil, fmt.Errorf("%w: Add - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Add: user #%d created", user.Number)
	return models.FromDomainUser(user), nil
}

// Seed заводит пользователей из конфигурации; уже существующие номера и коды пропускаются
func (s *Service) Seed(ctx context.Context, users []*domain.User) (int, error) {
	created := 0

	err := s.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		for _, u := range users {
			user, err := validateUser(u.Number, u.Username)
			if err != nil {
				return err
			}

			if _, err := s.userRepo.GetByNumber(txCtx, user.Number); err == nil {
				continue
			} else if !errors.Is(err, storage.ErrUserNotFound) {
				return fmt.Errorf("%w: Seed - get user #%d: %v", ErrInternal, user.Number, err)
			}
			if _, err := s.userRepo.GetByUsername(txCtx, user.Username); err == nil {
				s.logger.Warn("Seed: credential of user #%d is already used by another user, skipped", user.Number)
				continue
			} else if !errors.Is(err, storage.ErrUserNotFound) {
				return fmt.Errorf("%w: Seed - get user by credential: %v", ErrInternal, err)
			}

			if err := s.userRepo.Create(txCtx, user); err != nil {
				return fmt.Errorf("%w: Seed - create user #%d: %v", ErrInternal, user.Number, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		s.logger.Error("Seed: %v", err)
		return 0, err
	}

	s.logger.Info("Seed: %d of %d users created", created, len(users))
	return created, nil
}

func validateUser(number int64, username string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if number <= 0 {
		return nil, fmt.Errorf("%w: userId must be positive", ErrInvalidInput)
	}
	if username == "" {
		return nil, fmt.Errorf("%w: password is required", ErrInvalidInput)
	}
	if len(username) > domain.MaxUsernameLength {
		return nil, fmt.Errorf("%w: password is too long", ErrInvalidInput)
	}
	return &domain.User{Number: number, Username: username}, nil
}
