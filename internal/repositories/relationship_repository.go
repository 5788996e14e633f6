package repositories

import (
	"errors"
	"time"

	"github.com/rahat09/peerly/backend/internal/models"
	"gorm.io/gorm"
)

// Store-level error kinds. Services translate these into user-facing ones.
var (
	ErrDuplicateRequest = errors.New("a friend request already exists for this pair")
	ErrAlreadyFriends   = errors.New("friendship already exists")
	ErrNotFriends       = errors.New("friendship does not exist")
	ErrNoPendingRequest = errors.New("no pending friend request for this pair")
)

// RelationshipRepository is the persistence boundary for the two relations:
// directed FriendRequest rows and canonical Friendship rows. AcceptRequest is
// the only compound write and runs as a single transaction.
type RelationshipRepository interface {
	CreateRequest(requesterID, receiverID uint) (*models.FriendRequest, error)
	FindRequest(requesterID, receiverID uint) (*models.FriendRequest, error)
	MarkAccepted(requestID uint) error
	ResetRequestPending(requestID uint) (*models.FriendRequest, error)
	PendingRequestsFor(receiverID uint) ([]models.FriendRequest, error)
	FriendshipExists(idA, idB uint) (bool, error)
	CreateFriendship(idA, idB uint) (*models.Friendship, error)
	DeleteFriendship(idA, idB uint) error
	AcceptRequest(requesterID, accepterID uint) (*models.Friendship, error)
	FriendIDs(userID uint) ([]uint, error)
	FriendsOf(userID uint) ([]models.User, error)
	UnknownTo(userID uint) ([]models.User, error)
}

// PostgresRelationshipRepository implements RelationshipRepository for PostgreSQL
type PostgresRelationshipRepository struct {
	db *gorm.DB
}

// NewPostgresRelationshipRepository creates a new PostgresRelationshipRepository
func NewPostgresRelationshipRepository(db *gorm.DB) *PostgresRelationshipRepository {
	return &PostgresRelationshipRepository{db: db}
}

// CreateRequest inserts a PENDING request for the ordered pair. The unique
// index on (requester_id, receiver_id) rejects a second row regardless of its
// status.
func (r *PostgresRelationshipRepository) CreateRequest(requesterID, receiverID uint) (*models.FriendRequest, error) {
	req := &models.FriendRequest{
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      models.RequestPending,
	}
	if err := r.db.Create(req).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrDuplicateRequest
		}
		return nil, err
	}
	return req, nil
}

// FindRequest looks up the exact ordered pair. A missing row is not an error;
// it returns (nil, nil) so callers can branch on presence.
func (r *PostgresRelationshipRepository) FindRequest(requesterID, receiverID uint) (*models.FriendRequest, error) {
	var req models.FriendRequest
	err := r.db.Where("requester_id = ? AND receiver_id = ?", requesterID, receiverID).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// MarkAccepted sets status=ACCEPTED and stamps responded_at. The caller must
// have verified the row is PENDING inside the same transaction; prefer
// AcceptRequest, which does both writes atomically.
func (r *PostgresRelationshipRepository) MarkAccepted(requestID uint) error {
	now := time.Now()
	return r.db.Model(&models.FriendRequest{}).Where("id = ?", requestID).
		Updates(map[string]interface{}{"status": models.RequestAccepted, "responded_at": &now}).Error
}

// ResetRequestPending returns a historical ACCEPTED row to PENDING with a
// fresh CreatedAt. Used when the same direction is re-requested after an
// unfriend, so the ordered-pair uniqueness never needs a second row.
func (r *PostgresRelationshipRepository) ResetRequestPending(requestID uint) (*models.FriendRequest, error) {
	err := r.db.Model(&models.FriendRequest{}).Where("id = ?", requestID).
		Updates(map[string]interface{}{
			"status":       models.RequestPending,
			"created_at":   time.Now(),
			"responded_at": nil,
		}).Error
	if err != nil {
		return nil, err
	}
	var req models.FriendRequest
	if err := r.db.First(&req, requestID).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

// PendingRequestsFor retrieves all pending requests addressed to a user
func (r *PostgresRelationshipRepository) PendingRequestsFor(receiverID uint) ([]models.FriendRequest, error) {
	var requests []models.FriendRequest
	if err := r.db.Where("receiver_id = ? AND status = ?", receiverID, models.RequestPending).
		Order("created_at").Find(&requests).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

// FriendshipExists canonicalizes the pair and checks for the single row.
func (r *PostgresRelationshipRepository) FriendshipExists(idA, idB uint) (bool, error) {
	lo, hi, err := models.CanonicalPair(idA, idB)
	if err != nil {
		return false, err
	}
	var count int64
	if err := r.db.Model(&models.Friendship{}).
		Where("user1_id = ? AND user2_id = ?", lo, hi).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CreateFriendship canonicalizes and inserts the pair row.
func (r *PostgresRelationshipRepository) CreateFriendship(idA, idB uint) (*models.Friendship, error) {
	lo, hi, err := models.CanonicalPair(idA, idB)
	if err != nil {
		return nil, err
	}
	friendship := &models.Friendship{User1ID: lo, User2ID: hi}
	if err := r.db.Create(friendship).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrAlreadyFriends
		}
		return nil, err
	}
	return friendship, nil
}

// DeleteFriendship canonicalizes and removes the pair row.
func (r *PostgresRelationshipRepository) DeleteFriendship(idA, idB uint) error {
	lo, hi, err := models.CanonicalPair(idA, idB)
	if err != nil {
		return err
	}
	res := r.db.Where("user1_id = ? AND user2_id = ?", lo, hi).Delete(&models.Friendship{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFriends
	}
	return nil
}

// AcceptRequest marks the PENDING request from requester to accepter as
// ACCEPTED and inserts the canonical Friendship in one transaction. The
// update carries a status guard so a request that was already accepted (or
// never existed) flips nothing; the unique index on the friendship pair
// stops the second of two racing accepts, and the rollback leaves its
// request row untouched.
func (r *PostgresRelationshipRepository) AcceptRequest(requesterID, accepterID uint) (*models.Friendship, error) {
	lo, hi, err := models.CanonicalPair(requesterID, accepterID)
	if err != nil {
		return nil, err
	}

	friendship := &models.Friendship{User1ID: lo, User2ID: hi}
	err = r.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		res := tx.Model(&models.FriendRequest{}).
			Where("requester_id = ? AND receiver_id = ? AND status = ?", requesterID, accepterID, models.RequestPending).
			Updates(map[string]interface{}{"status": models.RequestAccepted, "responded_at": &now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNoPendingRequest
		}

		if err := tx.Create(friendship).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyFriends
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return friendship, nil
}

// FriendIDs returns the opposite side of every friendship touching the user.
func (r *PostgresRelationshipRepository) FriendIDs(userID uint) ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&models.Friendship{}).Where("user1_id = ?", userID).
		Pluck("user2_id", &ids).Error; err != nil {
		return nil, err
	}
	var asUser2 []uint
	if err := r.db.Model(&models.Friendship{}).Where("user2_id = ?", userID).
		Pluck("user1_id", &asUser2).Error; err != nil {
		return nil, err
	}
	return append(ids, asUser2...), nil
}

// FriendsOf resolves both sides of the friendship table to user rows.
func (r *PostgresRelationshipRepository) FriendsOf(userID uint) ([]models.User, error) {
	var friends []models.User
	subQuery1 := r.db.Table("friendships").Select("user2_id").Where("user1_id = ?", userID)
	subQuery2 := r.db.Table("friendships").Select("user1_id").Where("user2_id = ?", userID)

	if err := r.db.Where("id IN (?) OR id IN (?)", subQuery1, subQuery2).
		Order("id").Find(&friends).Error; err != nil {
		return nil, err
	}
	return friends, nil
}

// UnknownTo returns every user with no friendship to userID, excluding the
// user themselves.
func (r *PostgresRelationshipRepository) UnknownTo(userID uint) ([]models.User, error) {
	var users []models.User
	subQuery1 := r.db.Table("friendships").Select("user2_id").Where("user1_id = ?", userID)
	subQuery2 := r.db.Table("friendships").Select("user1_id").Where("user2_id = ?", userID)

	if err := r.db.Where("id <> ?", userID).
		Where("id NOT IN (?)", subQuery1).
		Where("id NOT IN (?)", subQuery2).
		Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}
