package model

import (
	"time"

	"github.com/golang-jwt/jwt"
)

// User is the locally stored identity the auth middleware resolves bearer
// tokens against.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	UserName  string    `json:"user_name"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserClaims is the JWT payload issued on login. Issuer carries the stable
// user id that the rest of the system keys on.
type UserClaims struct {
	UserName string `json:"user_name"`
	jwt.StandardClaims
}

type ReqLogin struct {
	UserName string `json:"user_name"`
	Password string `json:"password"`
}

type ReqRegister struct {
	Name     string `json:"name"`
	UserName string `json:"user_name"`
	Password string `json:"password"`
}
