// Package models defines the records persisted by the marketplace.
package models

import "time"

// User is a registered account. Users are created at registration and
// never updated or deleted.
type User struct {
	ID             int64
	Username       string
	Email          string
	HashedPassword string
	Whatsapp       string
	CreatedAt      time.Time
}
