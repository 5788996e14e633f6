package models

import (
	"errors"
	"time"
)

// RequestStatus is the lifecycle state of a FriendRequest row.
type RequestStatus string

const (
	RequestPending  RequestStatus = "PENDING"
	RequestAccepted RequestStatus = "ACCEPTED"
)

// ErrSamePair is returned by CanonicalPair when both sides are the same user.
// It signals a caller bug, not a user-facing condition.
var ErrSamePair = errors.New("canonical pair requires two distinct users")

// FriendRequest is the directed edge: an expression of intent from requester
// to receiver. At most one row exists per ordered (requester, receiver) pair.
// Rows are never deleted; an accepted row stays around as history.
type FriendRequest struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	RequesterID uint          `json:"requester_id" gorm:"index;uniqueIndex:idx_requester_receiver"`
	ReceiverID  uint          `json:"receiver_id" gorm:"index;uniqueIndex:idx_requester_receiver"`
	Status      RequestStatus `json:"status" gorm:"type:varchar(20);default:'PENDING'"`
	CreatedAt   time.Time     `json:"created_at"`
	RespondedAt *time.Time    `json:"responded_at,omitempty"`
}

// Friendship is the undirected edge created by accepting a request.
// User1ID < User2ID always; the unique index on the ordered pair is what
// keeps one row per unordered pair.
type Friendship struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	User1ID   uint      `json:"user1_id" gorm:"not null;uniqueIndex:idx_friendship_pair"`
	User2ID   uint      `json:"user2_id" gorm:"not null;uniqueIndex:idx_friendship_pair"`
	CreatedAt time.Time `json:"created_at"`
}

// CanonicalPair maps an unordered pair of user ids to its single stored
// ordering, so CanonicalPair(a, b) == CanonicalPair(b, a) for all a != b.
func CanonicalPair(a, b uint) (lo, hi uint, err error) {
	if a == b {
		return 0, 0, ErrSamePair
	}
	if a < b {
		return a, b, nil
	}
	return b, a, nil
}

// Other returns the side of the friendship that is not userID.
func (f *Friendship) Other(userID uint) uint {
	if f.User1ID == userID {
		return f.User2ID
	}
	return f.User1ID
}
