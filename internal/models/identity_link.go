package models

import (
	"strings"
	"time"
)

// IdentityLink is one row of the identity table. DestID is the row's
// primary key; SourceID is nil once the link has been cleared.
type IdentityLink struct {
	SourceID    *string   `json:"source_id"`
	DestID      int64     `json:"dest_id"`
	DisplayName string    `json:"display_name"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (l *IdentityLink) Linked() bool {
	return l != nil && l.SourceID != nil
}

type LinkCode struct {
	Code      string    `json:"code"`
	OwnerID   string    `json:"owner_id"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// DestUser is the destination-platform account submitting a link code.
type DestUser struct {
	ID        int64
	Username  string
	FirstName string
	LastName  string
}

func (u DestUser) DisplayName() string {
	if u.Username != "" {
		return "@" + u.Username
	}
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
