package inmemory

import (
	"context"
	"sync"
	"time"

	"tareasSync/internal/models/user"
	repo "tareasSync/internal/repository"
)

type UserStorage struct {
	byEmail map[string]*user.User
	mtx     *sync.RWMutex
	nextID  int64
}

func NewUserStorage() *UserStorage {
	return &UserStorage{
		byEmail: make(map[string]*user.User),
		mtx:     &sync.RWMutex{},
	}
}

func (s *UserStorage) Create(ctx context.Context, u *user.User) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.byEmail[u.Email]; ok {
		return repo.ErrDuplicateEmail
	}

	s.nextID++
	u.ID = s.nextID
	u.CreatedAt = time.Now().UTC()

	stored := *u
	s.byEmail[u.Email] = &stored
	return nil
}

func (s *UserStorage) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	u, ok := s.byEmail[email]
	if !ok {
		return nil, repo.ErrNotFound
	}
	found := *u
	return &found, nil
}
