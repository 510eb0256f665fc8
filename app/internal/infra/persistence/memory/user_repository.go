package memory

import (
	"context"

	domuser "example.com/localspark/app/internal/domain/user"
)

type UserRepository struct {
	s *Store
}

func cloneUser(u *domuser.User) *domuser.User {
	c := *u
	c.Latitude = copyFloat(u.Latitude)
	c.Longitude = copyFloat(u.Longitude)
	return &c
}

func (r *UserRepository) Create(ctx context.Context, u *domuser.User) (*domuser.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, existing := range r.s.users {
		if existing.Username == u.Username {
			return nil, domuser.ErrUsernameTaken
		}
	}
	c := cloneUser(u)
	if c.ID == "" {
		c.ID = newID()
	}
	c.CreatedAt = r.s.now()
	r.s.users[c.ID] = c
	return cloneUser(c), nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domuser.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, domuser.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domuser.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, u := range r.s.users {
		if u.Username == username {
			return cloneUser(u), nil
		}
	}
	return nil, domuser.ErrUserNotFound
}

func (r *UserRepository) Update(ctx context.Context, u *domuser.User) (*domuser.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	existing, ok := r.s.users[u.ID]
	if !ok {
		return nil, domuser.ErrUserNotFound
	}
	for _, other := range r.s.users {
		if other.ID != u.ID && other.Username == u.Username {
			return nil, domuser.ErrUsernameTaken
		}
	}
	c := cloneUser(u)
	c.CreatedAt = existing.CreatedAt
	r.s.users[c.ID] = c
	return cloneUser(c), nil
}
