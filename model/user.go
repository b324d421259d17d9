package model

import "fmt"

// UserID identifies a user within the directory.
type UserID string

// CredentialRef points at an encrypted mail credential. URL addresses the
// cipher text (file, gs://, s3:// ...), Key names the decryption key, e.g.
// "blowfish://default".
type CredentialRef struct {
	URL string `json:"url" yaml:"url"`
	Key string `json:"key,omitempty" yaml:"key,omitempty"`
}

// User is a read-only snapshot of a directory record. The engine only ever
// reads the snapshot; counter updates go back through the directory service
// after a confirmed send.
type User struct {
	ID                 UserID         `json:"id" yaml:"id"`
	Name               string         `json:"name,omitempty" yaml:"name,omitempty"`
	Category           string         `json:"category" yaml:"category"`
	Email              string         `json:"email" yaml:"email"`
	Credential         *CredentialRef `json:"credential,omitempty" yaml:"credential,omitempty"`
	ResumeURL          string         `json:"resumeURL,omitempty" yaml:"resumeURL,omitempty"`
	Active             bool           `json:"active" yaml:"active"`
	SubscriptionActive bool           `json:"subscriptionActive" yaml:"subscriptionActive"`
	DisabledByAdmin    bool           `json:"disabledByAdmin,omitempty" yaml:"disabledByAdmin,omitempty"`
	SentToday          int            `json:"sentToday,omitempty" yaml:"sentToday,omitempty"`
	SentTotal          int            `json:"sentTotal,omitempty" yaml:"sentTotal,omitempty"`
}

// Eligible reports whether the user may receive assignments.
func (u *User) Eligible() bool {
	return u.Active && u.SubscriptionActive && !u.DisabledByAdmin
}

// Validate checks the fields the allocator and scheduler depend on.
func (u *User) Validate() error {
	if u == nil {
		return fmt.Errorf("user was nil")
	}
	if u.ID == "" {
		return fmt.Errorf("user id was empty")
	}
	if u.Category == "" {
		return fmt.Errorf("user %v category was empty", u.ID)
	}
	return nil
}
