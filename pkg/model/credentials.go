package model

import "time"

// Credentials is the access/refresh token pair handed to every gateway call.
// There is no ambient session; callers supply credentials explicitly. OwnerID
// identifies the stored binding the pair came from so refreshed tokens can be
// written back.
type Credentials struct {
	OwnerID      string `json:"owner_id,omitempty" bson:"owner_id,omitempty"`
	AccessToken  string `json:"access_token" bson:"access_token"`
	RefreshToken string `json:"refresh_token" bson:"refresh_token"`
}

// UserCredentials is the stored binding between an owner and their calendar
// account, maintained by an external authorization flow.
type UserCredentials struct {
	OwnerID      string    `json:"owner_id" bson:"_id" validate:"required"`
	Email        string    `json:"email" bson:"email" validate:"required,email"`
	AccessToken  string    `json:"-" bson:"access_token" validate:"required"`
	RefreshToken string    `json:"-" bson:"refresh_token"`
	UpdatedAt    time.Time `json:"updated_at,omitempty" bson:"updated_at"`
}

// Credentials returns the token pair for gateway calls.
func (u *UserCredentials) Credentials() Credentials {
	return Credentials{OwnerID: u.OwnerID, AccessToken: u.AccessToken, RefreshToken: u.RefreshToken}
}
