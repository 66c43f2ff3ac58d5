package usecase

import (
	"errors"
	"fmt"

	authdomain "disposal-backend/internal/auth/domain"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// AuthUsecase validates access tokens issued by the account service
type AuthUsecase interface {
	ValidateToken(tokenString string) (*authdomain.Principal, error)
}

type authUsecase struct {
	secret []byte
}

// NewAuthUsecase creates a validator for HS256 tokens signed with secret
func NewAuthUsecase(secret string) AuthUsecase {
	return &authUsecase{secret: []byte(secret)}
}

func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.Principal, error) {
	if len(u.secret) == 0 {
		return nil, fmt.Errorf("%w: JWT secret not configured", ErrInvalidToken)
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return u.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return nil, errors.New("invalid token claims")
	}
	email, _ := claims["email"].(string)

	return &authdomain.Principal{UserID: userID, Email: email}, nil
}
