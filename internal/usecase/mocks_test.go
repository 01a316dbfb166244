package usecase

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/soclink/account-service/internal/core/domain"
	"github.com/soclink/account-service/internal/core/port"
	"github.com/soclink/account-service/internal/repository"
)

type mockUserRepository struct {
	mu    sync.Mutex
	users map[string]domain.User

	createErr         error
	createCalls       int
	updateStatusCalls int
	lastStatus        domain.UserStatus

	friends map[string][]domain.Friend
}

func newMockUserRepository() *mockUserRepository {
	return &mockUserRepository{
		users:   make(map[string]domain.User),
		friends: make(map[string][]domain.Friend),
	}
}

func (m *mockUserRepository) Create(_ context.Context, user domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.createCalls++
	if m.createErr != nil {
		return m.createErr
	}
	for _, existing := range m.users {
		if existing.Username == user.Username || strings.EqualFold(existing.Email, user.Email) {
			return repository.ErrDuplicate
		}
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := user
	return &copied, nil
}

func (m *mockUserRepository) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, user := range m.users {
		if strings.EqualFold(user.Email, email) {
			copied := user
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockUserRepository) UpdateProfile(_ context.Context, id string, update port.ProfileUpdate) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if update.FullName != nil {
		if *update.FullName == "" {
			user.FullName = nil
		} else {
			value := *update.FullName
			user.FullName = &value
		}
	}
	if update.Bio != nil {
		user.Bio = *update.Bio
	}
	user.UpdatedAt = time.Now().UTC()
	m.users[id] = user
	copied := user
	return &copied, nil
}

func (m *mockUserRepository) UpdateStatus(_ context.Context, id string, status domain.UserStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.updateStatusCalls++
	m.lastStatus = status
	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.Status = status
	m.users[id] = user
	return nil
}

func (m *mockUserRepository) UpdatePassword(_ context.Context, id, passwordHash string, changedAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = changedAt
	m.users[id] = user
	return nil
}

func (m *mockUserRepository) SetVerified(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.users[id]
	if !ok {
		return repository.ErrNotFound
	}
	user.IsVerified = true
	m.users[id] = user
	return nil
}

func (m *mockUserRepository) AddFriend(_ context.Context, userID, friendID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, friend := range m.friends[userID] {
		if friend.FriendID == friendID {
			return nil
		}
	}
	m.friends[userID] = append(m.friends[userID], domain.Friend{
		UserID:   userID,
		FriendID: friendID,
		AddedAt:  time.Now().UTC(),
	})
	return nil
}

func (m *mockUserRepository) RemoveFriend(_ context.Context, userID, friendID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	friends := m.friends[userID]
	for i, friend := range friends {
		if friend.FriendID == friendID {
			m.friends[userID] = append(friends[:i], friends[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (m *mockUserRepository) ListFriends(_ context.Context, userID string) ([]domain.Friend, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]domain.Friend, len(m.friends[userID]))
	copy(out, m.friends[userID])
	return out, nil
}

func (m *mockUserRepository) CountFriends(_ context.Context, userID string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.friends[userID]), nil
}

var _ port.UserRepository = (*mockUserRepository)(nil)

type mockTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]domain.AccountToken

	createErr error
}

func newMockTokenRepository() *mockTokenRepository {
	return &mockTokenRepository{tokens: make(map[string]domain.AccountToken)}
}

func (m *mockTokenRepository) Create(_ context.Context, token domain.AccountToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.createErr != nil {
		return m.createErr
	}
	m.tokens[token.ID] = token
	return nil
}

func (m *mockTokenRepository) GetByHash(_ context.Context, hash, purpose string) (*domain.AccountToken, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, token := range m.tokens {
		if token.TokenHash == hash && token.Purpose == purpose {
			copied := token
			return &copied, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *mockTokenRepository) Consume(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, ok := m.tokens[id]
	if !ok || token.UsedAt != nil {
		return repository.ErrNotFound
	}
	now := time.Now().UTC()
	token.UsedAt = &now
	m.tokens[id] = token
	return nil
}

func (m *mockTokenRepository) InvalidateActive(_ context.Context, userID, purpose string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	for id, token := range m.tokens {
		if token.UserID == userID && token.Purpose == purpose && token.UsedAt == nil {
			token.UsedAt = &now
			m.tokens[id] = token
		}
	}
	return nil
}

var _ port.TokenRepository = (*mockTokenRepository)(nil)

type capturingPublisher struct {
	mu sync.Mutex

	registered      []domain.UserRegisteredEvent
	loggedIn        []domain.UserLoggedInEvent
	loggedOut       []domain.UserLoggedOutEvent
	profileUpdated  []domain.ProfileUpdatedEvent
	resetRequested  []domain.PasswordResetRequestedEvent
	passwordChanged []domain.PasswordChangedEvent
}

func (p *capturingPublisher) PublishUserRegistered(_ context.Context, event domain.UserRegisteredEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.registered = append(p.registered, event)
	return nil
}

func (p *capturingPublisher) PublishUserLoggedIn(_ context.Context, event domain.UserLoggedInEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loggedIn = append(p.loggedIn, event)
	return nil
}

func (p *capturingPublisher) PublishUserLoggedOut(_ context.Context, event domain.UserLoggedOutEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loggedOut = append(p.loggedOut, event)
	return nil
}

func (p *capturingPublisher) PublishProfileUpdated(_ context.Context, event domain.ProfileUpdatedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.profileUpdated = append(p.profileUpdated, event)
	return nil
}

func (p *capturingPublisher) PublishPasswordResetRequested(_ context.Context, event domain.PasswordResetRequestedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.resetRequested = append(p.resetRequested, event)
	return nil
}

func (p *capturingPublisher) PublishPasswordChanged(_ context.Context, event domain.PasswordChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.passwordChanged = append(p.passwordChanged, event)
	return nil
}

var _ port.EventPublisher = (*capturingPublisher)(nil)
