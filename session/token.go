package session

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of the signed session cookie. It has no expiry: the
// session lasts until logout.
type Claims struct {
	UserID   string            `json:"userId"`
	Upstream map[string]string `json:"upstream,omitempty"`
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies session records with HMAC-SHA256.
type TokenCodec struct {
	secret []byte
}

func NewTokenCodec(secret string) (*TokenCodec, error) {
	if secret == "" {
		return nil, errors.New("session secret must not be empty")
	}
	return &TokenCodec{secret: []byte(secret)}, nil
}

func (tc *TokenCodec) Sign(r Record) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{UserID: r.UserID, Upstream: r.Upstream})
	signed, err := token.SignedString(tc.secret)
	if err != nil {
		return "", fmt.Errorf("error signing session: %w", err)
	}
	return signed, nil
}

func (tc *TokenCodec) Parse(tokenString string) (Record, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return tc.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return Record{}, fmt.Errorf("invalid session token: %w", err)
	}
	if !token.Valid {
		return Record{}, errors.New("invalid session token")
	}
	return Record{UserID: claims.UserID, Upstream: claims.Upstream}, nil
}
