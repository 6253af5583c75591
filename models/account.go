package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"gorm.io/gorm"
)

const ProviderGoogle = "google"

// Account links a user to an OAuth provider and keeps the provider tokens.
type Account struct {
	ID                string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID            string     `json:"user_id" gorm:"type:varchar(36);index;not null"`
	Type              string     `json:"type"`
	Provider          string     `json:"provider" gorm:"uniqueIndex:idx_provider_account;not null"`
	ProviderAccountID string     `json:"provider_account_id" gorm:"uniqueIndex:idx_provider_account;not null"`
	RefreshToken      *string    `json:"-"`
	AccessToken       *string    `json:"-"`
	ExpiresAt         *time.Time `json:"expires_at"`
	TokenType         *string    `json:"token_type"`
	Scope             *string    `json:"scope"`
	IDToken           *string    `json:"-"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

func (a *Account) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// HasScope reports whether the granted scope list contains scope.
func (a *Account) HasScope(scope string) bool {
	if a.Scope == nil {
		return false
	}
	for _, s := range strings.Fields(*a.Scope) {
		if s == scope {
			return true
		}
	}
	return false
}

// Token rebuilds the oauth2 token stored on the account.
func (a *Account) Token() *oauth2.Token {
	tok := &oauth2.Token{}
	if a.AccessToken != nil {
		tok.AccessToken = *a.AccessToken
	}
	if a.RefreshToken != nil {
		tok.RefreshToken = *a.RefreshToken
	}
	if a.TokenType != nil {
		tok.TokenType = *a.TokenType
	}
	if a.ExpiresAt != nil {
		tok.Expiry = *a.ExpiresAt
	}
	return tok
}

// SetToken copies a refreshed token back onto the account. An empty refresh
// token keeps the stored one, Google only sends it on the first consent.
func (a *Account) SetToken(tok *oauth2.Token) {
	access := tok.AccessToken
	a.AccessToken = &access
	if tok.RefreshToken != "" {
		refresh := tok.RefreshToken
		a.RefreshToken = &refresh
	}
	if tok.TokenType != "" {
		tokenType := tok.TokenType
		a.TokenType = &tokenType
	}
	if !tok.Expiry.IsZero() {
		expiry := tok.Expiry
		a.ExpiresAt = &expiry
	}
}
