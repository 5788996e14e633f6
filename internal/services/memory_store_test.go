package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rahat09/peerly/backend/internal/models"
	"github.com/rahat09/peerly/backend/internal/repositories"
	"gorm.io/gorm"
)

// memoryRelationshipRepo is an in-memory RelationshipRepository with the
// same conflict semantics as the Postgres implementation: one request row
// per ordered pair, one friendship row per canonical pair, and an accept
// that either applies both writes or neither.
type memoryRelationshipRepo struct {
	mu          sync.Mutex
	nextID      uint
	requests    map[[2]uint]*models.FriendRequest
	friendships map[[2]uint]*models.Friendship
	users       *memoryUserRepo
}

func newMemoryRelationshipRepo(users *memoryUserRepo) *memoryRelationshipRepo {
	return &memoryRelationshipRepo{
		requests:    make(map[[2]uint]*models.FriendRequest),
		friendships: make(map[[2]uint]*models.Friendship),
		users:       users,
	}
}

func (m *memoryRelationshipRepo) CreateRequest(requesterID, receiverID uint) (*models.FriendRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]uint{requesterID, receiverID}
	if _, ok := m.requests[key]; ok {
		return nil, repositories.ErrDuplicateRequest
	}
	m.nextID++
	req := &models.FriendRequest{
		ID:          m.nextID,
		RequesterID: requesterID,
		ReceiverID:  receiverID,
		Status:      models.RequestPending,
		CreatedAt:   time.Now(),
	}
	m.requests[key] = req
	cp := *req
	return &cp, nil
}

func (m *memoryRelationshipRepo) FindRequest(requesterID, receiverID uint) (*models.FriendRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[[2]uint{requesterID, receiverID}]
	if !ok {
		return nil, nil
	}
	cp := *req
	return &cp, nil
}

func (m *memoryRelationshipRepo) MarkAccepted(requestID uint) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, req := range m.requests {
		if req.ID == requestID {
			now := time.Now()
			req.Status = models.RequestAccepted
			req.RespondedAt = &now
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func (m *memoryRelationshipRepo) ResetRequestPending(requestID uint) (*models.FriendRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, req := range m.requests {
		if req.ID == requestID {
			req.Status = models.RequestPending
			req.CreatedAt = time.Now()
			req.RespondedAt = nil
			cp := *req
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryRelationshipRepo) PendingRequestsFor(receiverID uint) ([]models.FriendRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.FriendRequest
	for _, req := range m.requests {
		if req.ReceiverID == receiverID && req.Status == models.RequestPending {
			out = append(out, *req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memoryRelationshipRepo) FriendshipExists(idA, idB uint) (bool, error) {
	lo, hi, err := models.CanonicalPair(idA, idB)
	if err != nil {
		return false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.friendships[[2]uint{lo, hi}]
	return ok, nil
}

func (m *memoryRelationshipRepo) CreateFriendship(idA, idB uint) (*models.Friendship, error) {
	lo, hi, err := models.CanonicalPair(idA, idB)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]uint{lo, hi}
	if _, ok := m.friendships[key]; ok {
		return nil, repositories.ErrAlreadyFriends
	}
	m.nextID++
	f := &models.Friendship{ID: m.nextID, User1ID: lo, User2ID: hi, CreatedAt: time.Now()}
	m.friendships[key] = f
	cp := *f
	return &cp, nil
}

func (m *memoryRelationshipRepo) DeleteFriendship(idA, idB uint) error {
	lo, hi, err := models.CanonicalPair(idA, idB)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	key := [2]uint{lo, hi}
	if _, ok := m.friendships[key]; !ok {
		return repositories.ErrNotFriends
	}
	delete(m.friendships, key)
	return nil
}

func (m *memoryRelationshipRepo) AcceptRequest(requesterID, accepterID uint) (*models.Friendship, error) {
	lo, hi, err := models.CanonicalPair(requesterID, accepterID)
	if err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	req, ok := m.requests[[2]uint{requesterID, accepterID}]
	if !ok || req.Status != models.RequestPending {
		return nil, repositories.ErrNoPendingRequest
	}
	// Check the uniqueness constraint before mutating anything, mirroring
	// the transactional rollback of the real store.
	key := [2]uint{lo, hi}
	if _, ok := m.friendships[key]; ok {
		return nil, repositories.ErrAlreadyFriends
	}

	now := time.Now()
	req.Status = models.RequestAccepted
	req.RespondedAt = &now

	m.nextID++
	f := &models.Friendship{ID: m.nextID, User1ID: lo, User2ID: hi, CreatedAt: now}
	m.friendships[key] = f
	cp := *f
	return &cp, nil
}

func (m *memoryRelationshipRepo) FriendIDs(userID uint) ([]uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var ids []uint
	for _, f := range m.friendships {
		if f.User1ID == userID {
			ids = append(ids, f.User2ID)
		} else if f.User2ID == userID {
			ids = append(ids, f.User1ID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

func (m *memoryRelationshipRepo) FriendsOf(userID uint) ([]models.User, error) {
	ids, err := m.FriendIDs(userID)
	if err != nil {
		return nil, err
	}
	return m.users.GetUsersByIDs(ids)
}

func (m *memoryRelationshipRepo) UnknownTo(userID uint) ([]models.User, error) {
	friendIDs, err := m.FriendIDs(userID)
	if err != nil {
		return nil, err
	}
	related := map[uint]bool{userID: true}
	for _, id := range friendIDs {
		related[id] = true
	}

	var out []models.User
	for _, u := range m.users.sorted() {
		if !related[u.ID] {
			out = append(out, u)
		}
	}
	return out, nil
}

// memoryUserRepo is an in-memory UserRepository.
type memoryUserRepo struct {
	users map[uint]models.User
}

func newMemoryUserRepo(users ...models.User) *memoryUserRepo {
	m := &memoryUserRepo{users: make(map[uint]models.User)}
	for _, u := range users {
		m.users[u.ID] = u
	}
	return m
}

func (m *memoryUserRepo) sorted() []models.User {
	out := make([]models.User, 0, len(m.users))
	for _, u := range m.users {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memoryUserRepo) GetUserByID(id uint) (*models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (m *memoryUserRepo) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	for _, u := range m.users {
		if u.FirebaseUID == firebaseUID {
			return &u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memoryUserRepo) GetUsersByIDs(ids []uint) ([]models.User, error) {
	var out []models.User
	for _, u := range m.sorted() {
		for _, id := range ids {
			if u.ID == id {
				out = append(out, u)
				break
			}
		}
	}
	return out, nil
}

func (m *memoryUserRepo) UserExists(id uint) (bool, error) {
	_, ok := m.users[id]
	return ok, nil
}

func (m *memoryUserRepo) SearchUsers(query string) ([]models.User, error) {
	q := strings.ToLower(query)
	var out []models.User
	for _, u := range m.sorted() {
		if strings.Contains(strings.ToLower(u.Username), q) || strings.Contains(strings.ToLower(u.Email), q) {
			out = append(out, u)
		}
	}
	return out, nil
}

// memoryPostRepo is an in-memory content-store adapter, sorted newest first
// like the Mongo query.
type memoryPostRepo struct {
	posts []models.Post
}

func (m *memoryPostRepo) GetPostsByAuthors(_ context.Context, authorIDs []uint) ([]models.Post, error) {
	wanted := make(map[uint]bool, len(authorIDs))
	for _, id := range authorIDs {
		wanted[id] = true
	}
	var out []models.Post
	for _, p := range m.posts {
		if wanted[p.AuthorID] {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
