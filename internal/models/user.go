package models

import "time"

// User is a registered identity. The username is the login key and is
// matched case-sensitively.
type User struct {
	ID        string    `json:"id"        bson:"-"`
	FirstName string    `json:"firstName" bson:"firstName"`
	LastName  string    `json:"lastName"  bson:"lastName"`
	UserName  string    `json:"userName"  bson:"userName"`
	Password  string    `json:"-"         bson:"password"` // bcrypt digest, never serialized
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// RegisterRequest is the JSON body for POST /register.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	UserName  string `json:"userName"`
	Password  string `json:"password"`
}

// LoginRequest is the JSON body for POST /login.
type LoginRequest struct {
	UserName string `json:"userName"`
	Password string `json:"password"`
}

// LoginResponse is returned by a successful POST /login.
type LoginResponse struct {
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}
