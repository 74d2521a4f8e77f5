package apikeys

import "time"

type Key struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Prefix     string     `json:"prefix"`
	CreatedBy  string     `json:"createdBy,omitempty"`
	LastUsedAt *time.Time `json:"lastUsedAt,omitempty"`
	RevokedAt  *time.Time `json:"revokedAt,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
}

func (k Key) Revoked() bool {
	return k.RevokedAt != nil
}

// Issued carries the plaintext token, which is only available at creation time.
type Issued struct {
	Key
	Token string `json:"token"`
}
