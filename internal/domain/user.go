package domain

import "time"

// OAuthProvider identifies a supported identity provider.
type OAuthProvider string

const (
	ProviderGitHub OAuthProvider = "github"
	ProviderGoogle OAuthProvider = "google"
)

// Valid reports whether the provider is one we accept bindings for.
func (p OAuthProvider) Valid() bool {
	return p == ProviderGitHub || p == ProviderGoogle
}

// OAuthInfo links a local user to a third-party identity provider account.
type OAuthInfo struct {
	Provider       OAuthProvider `bson:"provider" json:"provider"`
	ProviderUserID string        `bson:"provider_user_id" json:"provider_user_id"`
}

// User is a registered account. A user holds a password hash, an OAuth
// binding, or both; registration rejects candidates with neither.
type User struct {
	ID               string     `bson:"id" json:"id"`
	Email            string     `bson:"email" json:"email"`
	Name             string     `bson:"name" json:"name"`
	Surname          string     `bson:"surname" json:"surname"`
	PasswordHash     string     `bson:"hashed_password,omitempty" json:"-"`
	OAuthInfo        *OAuthInfo `bson:"oauth_info,omitempty" json:"oauth_info,omitempty"`
	EmailVerified    bool       `bson:"email_verified" json:"email_verified"`
	CustomCategories []Category `bson:"customCategories,omitempty" json:"-"`
	CreatedAt        time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `bson:"updated_at" json:"updated_at"`
}

// NewUser carries registration input before hashing and persistence.
type NewUser struct {
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Surname   string     `json:"surname"`
	Password  string     `json:"password,omitempty"`
	OAuthInfo *OAuthInfo `json:"oauth_info,omitempty"`
}
