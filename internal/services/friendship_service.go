package services

import (
	"errors"

	"github.com/rahat09/peerly/backend/internal/models"
	"github.com/rahat09/peerly/backend/internal/repositories"
	"github.com/rahat09/peerly/backend/pkg/gravatar"
	"github.com/sirupsen/logrus"
)

// User-facing error kinds. Handlers map these onto HTTP statuses: not-found
// to 404, the state conflicts to 400. Anything else escaping a service is a
// defect and surfaces as an opaque 500.
var (
	ErrTargetNotFound         = errors.New("user not found")
	ErrAlreadyFriends         = errors.New("already friends with this user")
	ErrRequestAlreadyPending  = errors.New("a pending friend request already exists")
	ErrRequestAlreadyAccepted = errors.New("friend request was already accepted")
	ErrNoPendingRequest       = errors.New("no pending friend request from this user")
	ErrNotFriends             = errors.New("you are not friends with this user")
	ErrSelfRelation           = errors.New("cannot create a relation with yourself")
)

// AcceptResult carries both outputs of a successful accept: the new
// friendship and the final status of the consumed request.
type AcceptResult struct {
	Friendship    *models.Friendship   `json:"friendship"`
	RequestStatus models.RequestStatus `json:"request_status"`
}

// FriendshipService governs the request state machine (send, accept,
// unfriend) and answers the graph queries (friends, unknown users, incoming
// requests).
type FriendshipService interface {
	SendRequest(requesterID, receiverID uint) (*models.FriendRequest, error)
	AcceptRequest(requesterID, accepterID uint) (*AcceptResult, error)
	Unfriend(userID, otherID uint) error
	Friends(userID uint) ([]models.UserSummary, error)
	UnknownUsers(userID uint) ([]models.UserSummary, error)
	IncomingRequests(userID uint) ([]models.UserSummary, error)
}

type friendshipService struct {
	relationships repositories.RelationshipRepository
	users         repositories.UserRepository
}

// NewFriendshipService creates a FriendshipService over the given stores
func NewFriendshipService(relationshipRepo repositories.RelationshipRepository, userRepo repositories.UserRepository) FriendshipService {
	return &friendshipService{
		relationships: relationshipRepo,
		users:         userRepo,
	}
}

// SendRequest creates (or revives) the PENDING request from requester to
// receiver. A row left ACCEPTED by a friendship that has since been
// unfriended is reset to PENDING rather than duplicated, keeping one row per
// ordered pair.
func (s *friendshipService) SendRequest(requesterID, receiverID uint) (*models.FriendRequest, error) {
	if requesterID == receiverID {
		return nil, ErrSelfRelation
	}

	exists, err := s.users.UserExists(receiverID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, ErrTargetNotFound
	}

	friends, err := s.relationships.FriendshipExists(requesterID, receiverID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, ErrAlreadyFriends
	}

	existing, err := s.relationships.FindRequest(requesterID, receiverID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		switch existing.Status {
		case models.RequestPending:
			return nil, ErrRequestAlreadyPending
		case models.RequestAccepted:
			// Stale history from before an unfriend: revive it.
			return s.relationships.ResetRequestPending(existing.ID)
		}
	}

	req, err := s.relationships.CreateRequest(requesterID, receiverID)
	if err != nil {
		// A racing insert or accept slipped in between the checks above;
		// re-read the row to report the state it ended up in.
		if errors.Is(err, repositories.ErrDuplicateRequest) {
			if again, ferr := s.relationships.FindRequest(requesterID, receiverID); ferr == nil &&
				again != nil && again.Status == models.RequestAccepted {
				return nil, ErrRequestAlreadyAccepted
			}
			return nil, ErrRequestAlreadyPending
		}
		return nil, err
	}
	return req, nil
}

// AcceptRequest atomically marks the PENDING request from requesterID to
// accepterID as ACCEPTED and creates the friendship. Every failure mode of
// the transaction (no row, wrong direction, already accepted, a racing
// accept losing the friendship uniqueness check) collapses into
// ErrNoPendingRequest so the caller cannot tell which one applied.
func (s *friendshipService) AcceptRequest(requesterID, accepterID uint) (*AcceptResult, error) {
	if requesterID == accepterID {
		return nil, ErrSelfRelation
	}

	friendship, err := s.relationships.AcceptRequest(requesterID, accepterID)
	if err != nil {
		if errors.Is(err, repositories.ErrNoPendingRequest) || errors.Is(err, repositories.ErrAlreadyFriends) {
			return nil, ErrNoPendingRequest
		}
		if errors.Is(err, models.ErrSamePair) {
			logrus.WithFields(logrus.Fields{
				"requester_id": requesterID,
				"accepter_id":  accepterID,
			}).Error("canonical pair invariant violated in accept")
			return nil, ErrSelfRelation
		}
		return nil, err
	}

	return &AcceptResult{
		Friendship:    friendship,
		RequestStatus: models.RequestAccepted,
	}, nil
}

// Unfriend removes the friendship between userID and otherID. The historical
// request row is left ACCEPTED; SendRequest knows how to revive it.
func (s *friendshipService) Unfriend(userID, otherID uint) error {
	if userID == otherID {
		return ErrSelfRelation
	}

	exists, err := s.users.UserExists(otherID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTargetNotFound
	}

	if err := s.relationships.DeleteFriendship(userID, otherID); err != nil {
		if errors.Is(err, repositories.ErrNotFriends) {
			return ErrNotFriends
		}
		return err
	}
	return nil
}

// Friends returns the other side of every friendship touching the user,
// as summaries with derived avatars, in id order.
func (s *friendshipService) Friends(userID uint) ([]models.UserSummary, error) {
	friends, err := s.relationships.FriendsOf(userID)
	if err != nil {
		return nil, err
	}
	return summarize(friends), nil
}

// UnknownUsers returns everyone with no friendship to the user, excluding
// the user themselves.
func (s *friendshipService) UnknownUsers(userID uint) ([]models.UserSummary, error) {
	users, err := s.relationships.UnknownTo(userID)
	if err != nil {
		return nil, err
	}
	return summarize(users), nil
}

// IncomingRequests lists the requesters of all pending requests addressed to
// the user.
func (s *friendshipService) IncomingRequests(userID uint) ([]models.UserSummary, error) {
	requests, err := s.relationships.PendingRequestsFor(userID)
	if err != nil {
		return nil, err
	}

	requesterIDs := make([]uint, len(requests))
	for i, req := range requests {
		requesterIDs[i] = req.RequesterID
	}

	requesters, err := s.users.GetUsersByIDs(requesterIDs)
	if err != nil {
		return nil, err
	}
	return summarize(requesters), nil
}

func summarize(users []models.User) []models.UserSummary {
	summaries := make([]models.UserSummary, len(users))
	for i, u := range users {
		summaries[i] = u.ToSummary(gravatar.URL(u.Email))
	}
	return summaries
}
