package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	authdomain "mailmind-backend/internal/auth/domain"
	authdto "mailmind-backend/internal/auth/dto"
	"mailmind-backend/internal/auth/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	accessExpiry  = 15 * time.Minute
	refreshExpiry = 7 * 24 * time.Hour
)

// AuthUsecase issues and validates the JWTs that protect the API. Tokens
// are stateless; logout is the client dropping them.
type AuthUsecase interface {
	Register(ctx context.Context, req *authdto.RegisterRequest) (*authdto.TokenResponse, error)
	Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*authdto.TokenResponse, error)
	GetUser(ctx context.Context, userID string) (*authdomain.User, error)
}

type authUsecase struct {
	users  repository.UserRepository
	secret string
}

func NewAuthUsecase(users repository.UserRepository, secret string) AuthUsecase {
	return &authUsecase{users: users, secret: secret}
}

func (u *authUsecase) Register(ctx context.Context, req *authdto.RegisterRequest) (*authdto.TokenResponse, error) {
	if _, err := u.users.FindByEmail(ctx, req.Email); err == nil {
		return nil, errors.New("email already registered")
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	hash, err := repository.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &authdomain.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
	}
	if err := u.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return u.issueTokens(user)
}

func (u *authUsecase) Login(ctx context.Context, req *authdto.LoginRequest) (*authdto.TokenResponse, error) {
	user, err := u.users.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, errors.New("invalid email or password")
		}
		return nil, err
	}
	if !repository.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, errors.New("invalid email or password")
	}
	return u.issueTokens(user)
}

func (u *authUsecase) RefreshToken(ctx context.Context, refreshToken string) (*authdto.TokenResponse, error) {
	token, err := jwt.Parse(refreshToken, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(u.secret), nil
	})
	if err != nil || !token.Valid {
		return nil, errors.New("invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}
	if claims["use"] != "refresh" {
		return nil, errors.New("not a refresh token")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	user, err := u.users.FindByID(ctx, sub)
	if err != nil {
		return nil, err
	}
	return u.issueTokens(user)
}

func (u *authUsecase) GetUser(ctx context.Context, userID string) (*authdomain.User, error) {
	return u.users.FindByID(ctx, userID)
}

func (u *authUsecase) issueTokens(user *authdomain.User) (*authdto.TokenResponse, error) {
	now := time.Now()

	access := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID,
		"email": user.Email,
		"exp":   now.Add(accessExpiry).Unix(),
		"iat":   now.Unix(),
	})
	accessToken, err := access.SignedString([]byte(u.secret))
	if err != nil {
		return nil, err
	}

	refresh := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID,
		"use": "refresh",
		"jti": uuid.New().String(),
		"exp": now.Add(refreshExpiry).Unix(),
		"iat": now.Unix(),
	})
	refreshToken, err := refresh.SignedString([]byte(u.secret))
	if err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}
