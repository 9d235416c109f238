package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"drive-assistant-be/internal/config"
	"drive-assistant-be/internal/dto"
	"drive-assistant-be/internal/entity"
	"drive-assistant-be/internal/pkg/logger"
	"drive-assistant-be/internal/pkg/mailer"
	"drive-assistant-be/internal/repository/specification"
	"drive-assistant-be/internal/repository/unitofwork"

	"drive-assistant-be/pkg/events"
	pktNats "drive-assistant-be/pkg/nats"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type IAuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
	GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error)
	UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error)
}

type authService struct {
	uowFactory     unitofwork.RepositoryFactory
	jwtConfig      config.JwtConfig
	emailService   mailer.IEmailService
	eventPublisher *pktNats.Publisher
	log            logger.ILogger
}

func NewAuthService(uowFactory unitofwork.RepositoryFactory, jwtConfig config.JwtConfig, emailService mailer.IEmailService, eventPublisher *pktNats.Publisher, log logger.ILogger) IAuthService {
	return &authService{
		uowFactory:     uowFactory,
		jwtConfig:      jwtConfig,
		emailService:   emailService,
		eventPublisher: eventPublisher,
		log:            log,
	}
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, _ := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if existing != nil {
		return nil, errors.New("email already registered")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	user := &entity.User{
		Id:           uuid.New(),
		Email:        req.Email,
		FullName:     req.FullName,
		PasswordHash: &hashStr,
		Role:         entity.UserRoleUser,
		Status:       entity.UserStatusActive,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, err
	}

	go func() {
		if emailErr := s.emailService.SendWelcome(user.Email, user.FullName); emailErr != nil {
			s.log.Warn("auth", "failed to send welcome mail", map[string]interface{}{"error": emailErr.Error()})
		}
	}()

	if s.eventPublisher != nil {
		event := events.NewUserRegistered(user.Id.String(), user.Email, user.FullName)
		if pubErr := s.eventPublisher.Publish(ctx, event); pubErr != nil {
			s.log.Warn("auth", "failed to publish USER_REGISTERED event", map[string]interface{}{"error": pubErr.Error()})
		}
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{Token: token, User: toProfileResponse(user)}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
	if err != nil || user == nil {
		return nil, errors.New("invalid credentials")
	}

	if user.PasswordHash == nil {
		return nil, errors.New("account uses Microsoft sign-in")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid credentials")
	}

	if user.Status == entity.UserStatusBlocked {
		return nil, errors.New("user account is blocked")
	}

	token, err := s.signToken(user)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{Token: token, User: toProfileResponse(user)}, nil
}

func (s *authService) GetProfile(ctx context.Context, userId uuid.UUID) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	resp := toProfileResponse(user)
	return &resp, nil
}

func (s *authService) UpdateProfile(ctx context.Context, userId uuid.UUID, req *dto.UpdateProfileRequest) (*dto.UserProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errors.New("user not found")
	}

	user.FullName = req.FullName
	if req.Email != "" && req.Email != user.Email {
		taken, _ := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: req.Email})
		if taken != nil {
			return nil, errors.New("email already in use")
		}
		user.Email = req.Email
	}
	user.UpdatedAt = time.Now()

	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}

	resp := toProfileResponse(user)
	return &resp, nil
}

func (s *authService) signToken(user *entity.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"role":    string(user.Role),
		"exp":     time.Now().Add(time.Duration(s.jwtConfig.ExpiryHrs) * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtConfig.Secret))
}

func toProfileResponse(user *entity.User) dto.UserProfileResponse {
	resp := dto.UserProfileResponse{
		Id:        user.Id,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		Status:    string(user.Status),
		CreatedAt: user.CreatedAt,
	}
	if user.AvatarURL != nil {
		resp.AvatarURL = *user.AvatarURL
	}
	return resp
}
