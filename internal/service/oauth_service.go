package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"drive-assistant-be/internal/config"
	"drive-assistant-be/internal/dto"
	"drive-assistant-be/internal/entity"
	"drive-assistant-be/internal/pkg/logger"
	"drive-assistant-be/internal/repository/specification"
	"drive-assistant-be/internal/repository/unitofwork"
	"drive-assistant-be/pkg/msauth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const providerMicrosoft = "microsoft"

type IOAuthService interface {
	GetLoginURL(provider string) (string, error)
	HandleCallback(ctx context.Context, provider string, code string) (*dto.AuthResponse, error)
	TokenProviderFor(ctx context.Context, userId uuid.UUID) (msauth.TokenProvider, error)
}

type oauthService struct {
	uowFactory  unitofwork.RepositoryFactory
	graphConfig config.GraphConfig
	jwtConfig   config.JwtConfig
	msConf      *oauth2.Config
	log         logger.ILogger
}

func NewOAuthService(uowFactory unitofwork.RepositoryFactory, graphConfig config.GraphConfig, jwtConfig config.JwtConfig, log logger.ILogger) IOAuthService {
	base := "https://login.microsoftonline.com/" + graphConfig.TenantId
	conf := &oauth2.Config{
		ClientID:     graphConfig.ClientId,
		ClientSecret: graphConfig.ClientSecret,
		RedirectURL:  graphConfig.RedirectURL,
		Scopes:       append([]string{"openid", "profile", "email", "User.Read"}, strings.Fields(graphConfig.Scopes)...),
		Endpoint: oauth2.Endpoint{
			AuthURL:  base + "/oauth2/v2.0/authorize",
			TokenURL: base + "/oauth2/v2.0/token",
		},
	}

	return &oauthService{
		uowFactory:  uowFactory,
		graphConfig: graphConfig,
		jwtConfig:   jwtConfig,
		msConf:      conf,
		log:         log,
	}
}

func (s *oauthService) GetLoginURL(provider string) (string, error) {
	if provider != providerMicrosoft {
		return "", errors.New("unsupported provider")
	}

	b := make([]byte, 16)
	rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)

	return s.msConf.AuthCodeURL(state, oauth2.AccessTypeOffline), nil
}

func (s *oauthService) HandleCallback(ctx context.Context, provider string, code string) (*dto.AuthResponse, error) {
	if provider != providerMicrosoft {
		return nil, errors.New("unsupported provider")
	}

	token, err := s.msConf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("code exchange failed: %w", err)
	}

	msUser, err := s.fetchGraphProfile(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByEmail{Email: msUser.Email})
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &entity.User{
			Id:           uuid.New(),
			Email:        msUser.Email,
			FullName:     msUser.DisplayName,
			PasswordHash: nil,
			Role:         entity.UserRoleUser,
			Status:       entity.UserStatusActive,
			CreatedAt:    time.Now(),
			UpdatedAt:    time.Now(),
		}
		if err := uow.UserRepository().Create(ctx, user); err != nil {
			return nil, err
		}
		s.log.Info("oauth", "created user from microsoft sign-in", map[string]interface{}{"user_id": user.Id.String()})
	}

	userProvider := &entity.UserProvider{
		Id:             uuid.New(),
		UserId:         user.Id,
		ProviderName:   providerMicrosoft,
		ProviderUserId: msUser.Id,
		RefreshToken:   token.RefreshToken,
		CreatedAt:      time.Now(),
	}
	if err := uow.UserRepository().SaveUserProvider(ctx, userProvider); err != nil {
		return nil, fmt.Errorf("failed to save provider info: %w", err)
	}

	claims := jwt.MapClaims{
		"user_id": user.Id.String(),
		"role":    string(user.Role),
		"exp":     time.Now().Add(time.Duration(s.jwtConfig.ExpiryHrs) * time.Hour).Unix(),
	}
	jwtToken := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := jwtToken.SignedString([]byte(s.jwtConfig.Secret))
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{Token: signedToken, User: toProfileResponse(user)}, nil
}

// TokenProviderFor builds a Graph token provider backed by the user's
// stored Microsoft refresh token. Users without a linked provider get
// one with no refresh token, so drive calls surface the re-consent
// instruction instead of failing hard.
func (s *oauthService) TokenProviderFor(ctx context.Context, userId uuid.UUID) (msauth.TokenProvider, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	provider, err := uow.UserRepository().FindProviderByUserId(ctx, userId, providerMicrosoft)
	if err != nil {
		return nil, err
	}

	refreshToken := ""
	if provider != nil {
		refreshToken = provider.RefreshToken
	}

	return msauth.New(
		s.graphConfig.ClientId,
		s.graphConfig.ClientSecret,
		s.graphConfig.TenantId,
		s.graphConfig.RedirectURL,
		refreshToken,
	), nil
}

type graphProfile struct {
	Id          string
	DisplayName string
	Email       string
}

func (s *oauthService) fetchGraphProfile(ctx context.Context, accessToken string) (*graphProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.graphConfig.BaseURL+"/me", nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed getting user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("graph profile request returned %d", resp.StatusCode)
	}

	var payload struct {
		Id                string `json:"id"`
		DisplayName       string `json:"displayName"`
		Mail              string `json:"mail"`
		UserPrincipalName string `json:"userPrincipalName"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	email := payload.Mail
	if email == "" {
		email = payload.UserPrincipalName
	}
	if email == "" {
		return nil, errors.New("microsoft profile has no email")
	}

	return &graphProfile{Id: payload.Id, DisplayName: payload.DisplayName, Email: email}, nil
}
