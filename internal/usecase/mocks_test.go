package usecase

import (
	"context"
	"sync"

	"github.com/St1cky1/user-service/internal/entity"
	"github.com/St1cky1/user-service/internal/repository"
)

// MockUserRepository - мок для IUserRepository
type MockUserRepository struct {
	CreateFunc        func(ctx context.Context, user *entity.User) (*entity.User, error)
	GetByIdFunc       func(ctx context.Context, id int) (*entity.User, error)
	GetByEmailFunc    func(ctx context.Context, email string) (*entity.User, error)
	UpdateProfileFunc func(ctx context.Context, id int, update *entity.ProfileUpdate) (*entity.User, error)
	DeleteFunc        func(ctx context.Context, id int) (*entity.User, error)
	AddTokenFunc      func(ctx context.Context, id int, tokenHash string) error
	RemoveTokenFunc   func(ctx context.Context, id int, tokenHash string) error
	ClearTokensFunc   func(ctx context.Context, id int) error
}

var _ repository.IUserRepository = (*MockUserRepository)(nil)

func (m *MockUserRepository) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, user)
	}
	return nil, nil
}

func (m *MockUserRepository) GetById(ctx context.Context, id int) (*entity.User, error) {
	if m.GetByIdFunc != nil {
		return m.GetByIdFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	if m.GetByEmailFunc != nil {
		return m.GetByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *MockUserRepository) UpdateProfile(ctx context.Context, id int, update *entity.ProfileUpdate) (*entity.User, error) {
	if m.UpdateProfileFunc != nil {
		return m.UpdateProfileFunc(ctx, id, update)
	}
	return nil, nil
}

func (m *MockUserRepository) Delete(ctx context.Context, id int) (*entity.User, error) {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) AddToken(ctx context.Context, id int, tokenHash string) error {
	if m.AddTokenFunc != nil {
		return m.AddTokenFunc(ctx, id, tokenHash)
	}
	return nil
}

func (m *MockUserRepository) RemoveToken(ctx context.Context, id int, tokenHash string) error {
	if m.RemoveTokenFunc != nil {
		return m.RemoveTokenFunc(ctx, id, tokenHash)
	}
	return nil
}

func (m *MockUserRepository) ClearTokens(ctx context.Context, id int) error {
	if m.ClearTokensFunc != nil {
		return m.ClearTokensFunc(ctx, id)
	}
	return nil
}

// InMemoryAvatarRepository - IAvatarRepository поверх map, удобнее мока для сценариев
type InMemoryAvatarRepository struct {
	mu      sync.Mutex
	users   map[int][]byte
	SetErr  error
	GetErr  error
	SetCall int
	// AfterGet вызывается после чтения, когда блокировка уже снята
	AfterGet func()
}

var _ repository.IAvatarRepository = (*InMemoryAvatarRepository)(nil)

func NewInMemoryAvatarRepository(userIDs ...int) *InMemoryAvatarRepository {
	r := &InMemoryAvatarRepository{users: make(map[int][]byte)}
	for _, id := range userIDs {
		r.users[id] = nil
	}
	return r
}

func (r *InMemoryAvatarRepository) SetAvatar(ctx context.Context, userID int, data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.SetCall++
	if r.SetErr != nil {
		return r.SetErr
	}
	if _, ok := r.users[userID]; !ok {
		return entity.ErrUserNotFound
	}
	r.users[userID] = append([]byte(nil), data...)
	return nil
}

func (r *InMemoryAvatarRepository) ClearAvatar(ctx context.Context, userID int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[userID]; !ok {
		return entity.ErrUserNotFound
	}
	r.users[userID] = nil
	return nil
}

func (r *InMemoryAvatarRepository) GetAvatar(ctx context.Context, userID int) ([]byte, error) {
	r.mu.Lock()
	if r.GetErr != nil {
		r.mu.Unlock()
		return nil, r.GetErr
	}
	data := r.users[userID]
	hook := r.AfterGet
	r.mu.Unlock()

	if hook != nil {
		hook()
	}
	return data, nil
}

func (r *InMemoryAvatarRepository) ListWithoutAvatar(ctx context.Context) ([]int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []int
	for id, data := range r.users {
		if data == nil {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// MockNormalizer считает вызовы
type MockNormalizer struct {
	mu            sync.Mutex
	Calls         int
	NormalizeFunc func(data []byte) ([]byte, error)
}

func (m *MockNormalizer) Normalize(data []byte) ([]byte, error) {
	m.mu.Lock()
	m.Calls++
	m.mu.Unlock()
	if m.NormalizeFunc != nil {
		return m.NormalizeFunc(data)
	}
	return append([]byte("png:"), data...), nil
}

// MockAvatarCache - мок для AvatarCache
type MockAvatarCache struct {
	GetFunc        func(ctx context.Context, userID int) ([]byte, bool, error)
	VersionFunc    func(ctx context.Context, userID int) (int64, error)
	FillFunc       func(ctx context.Context, userID int, version int64, data []byte) (bool, error)
	InvalidateFunc func(ctx context.Context, userID int) error
}

var _ AvatarCache = (*MockAvatarCache)(nil)

func (m *MockAvatarCache) Get(ctx context.Context, userID int) ([]byte, bool, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID)
	}
	return nil, false, nil
}

func (m *MockAvatarCache) Version(ctx context.Context, userID int) (int64, error) {
	if m.VersionFunc != nil {
		return m.VersionFunc(ctx, userID)
	}
	return 0, nil
}

func (m *MockAvatarCache) Fill(ctx context.Context, userID int, version int64, data []byte) (bool, error) {
	if m.FillFunc != nil {
		return m.FillFunc(ctx, userID, version, data)
	}
	return true, nil
}

func (m *MockAvatarCache) Invalidate(ctx context.Context, userID int) error {
	if m.InvalidateFunc != nil {
		return m.InvalidateFunc(ctx, userID)
	}
	return nil
}

// InMemoryAvatarCache повторяет версионную семантику Redis-кеша
type InMemoryAvatarCache struct {
	mu       sync.Mutex
	data     map[int][]byte
	versions map[int]int64
}

var _ AvatarCache = (*InMemoryAvatarCache)(nil)

func NewInMemoryAvatarCache() *InMemoryAvatarCache {
	return &InMemoryAvatarCache{data: make(map[int][]byte), versions: make(map[int]int64)}
}

func (c *InMemoryAvatarCache) Get(ctx context.Context, userID int) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.data[userID]
	return data, ok, nil
}

func (c *InMemoryAvatarCache) Version(ctx context.Context, userID int) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[userID], nil
}

func (c *InMemoryAvatarCache) Fill(ctx context.Context, userID int, version int64, data []byte) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[userID] != version {
		return false, nil
	}
	c.data[userID] = append([]byte(nil), data...)
	return true, nil
}

func (c *InMemoryAvatarCache) Invalidate(ctx context.Context, userID int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[userID]++
	delete(c.data, userID)
	return nil
}

func (c *InMemoryAvatarCache) cached(userID int) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.data[userID]
	return data, ok
}

// MockAuditPublisher складывает сообщения в канал, публикация идет в горутине
type MockAuditPublisher struct {
	Messages chan *entity.AuditMessage
	Err      error
}

func NewMockAuditPublisher() *MockAuditPublisher {
	return &MockAuditPublisher{Messages: make(chan *entity.AuditMessage, 16)}
}

func (m *MockAuditPublisher) PublishAuditMessage(ctx context.Context, message *entity.AuditMessage) error {
	m.Messages <- message
	return m.Err
}
