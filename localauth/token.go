package localauth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	errTokenExpired      = errors.New("token expired")
	errTokenInvalid      = errors.New("token invalid")
	errUnrecognizedToken = errors.New("unrecognized token")
)

// TokenOptions configures locally issued credentials.
type TokenOptions struct {
	Secret []byte
	Exp    time.Duration
}

type accountClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func mintToken(username string, opts TokenOptions) (string, error) {
	claims := &accountClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(opts.Exp)),
			Issuer:    "schooldesk",
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(opts.Secret)
}

func verifyToken(token string, secret []byte) (*accountClaims, error) {
	claims := &accountClaims{}
	_token, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}))

	switch {
	case _token != nil && _token.Valid:
		return claims, nil
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, errTokenInvalid
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return nil, errTokenInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, errTokenExpired
	default:
		return nil, errUnrecognizedToken
	}
}
