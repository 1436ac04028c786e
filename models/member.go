package models

import (
	"time"
)

// MemberStatus represents a member's lifecycle status
type MemberStatus string

const (
	MemberStatusPending  MemberStatus = "pending"
	MemberStatusActive   MemberStatus = "active"
	MemberStatusInactive MemberStatus = "inactive"
	MemberStatusRejected MemberStatus = "rejected"
)

// Member represents a fund member. Identity and status are owned by an
// external identity collaborator; the engine only reads id, join date and
// status.
type Member struct {
	ID        int64        `db:"id"`
	Name      string       `db:"name"`
	JoinDate  time.Time    `db:"join_date"`
	Status    MemberStatus `db:"status"`
	CreatedAt time.Time    `db:"created_at"`
	UpdatedAt time.Time    `db:"updated_at"`
}

// IsActive checks whether the member can transact
func (m *Member) IsActive() bool {
	return m.Status == MemberStatusActive
}
