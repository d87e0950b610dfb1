package memory

import (
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync"

	"github.com/rawen554/userdir/internal/models"
)

var ErrDuplicateID = errors.New("duplicate user id")

// MemoryStorage owns the user list. Every mutation builds a new slice and swaps
// it in, so a slice handed out by a reader is never changed afterwards.
type MemoryStorage struct {
	mux     *sync.RWMutex
	users   []models.User
	version uint64
	highest int
}

// View is the read-only state an id allocator sees while an append is in progress.
type View struct {
	users   []models.User
	highest int
}

func (v View) Len() int {
	return len(v.users)
}

func (v View) Has(id int) bool {
	return slices.ContainsFunc(v.users, func(u models.User) bool { return u.ID == id })
}

// Highest is the largest id the storage has ever held, removed records included.
func (v View) Highest() int {
	return v.highest
}

func NewMemoryStorage(users []models.User) (*MemoryStorage, error) {
	s := &MemoryStorage{mux: &sync.RWMutex{}}
	if err := s.Replace(users); err != nil {
		return nil, err
	}
	return s, nil
}

// Replace swaps the whole list, keeping the given order.
func (s *MemoryStorage) Replace(users []models.User) error {
	seen := make(map[int]struct{}, len(users))
	highest := 0
	for _, u := range users {
		if _, ok := seen[u.ID]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateID, u.ID)
		}
		seen[u.ID] = struct{}{}
		highest = max(highest, u.ID)
	}

	s.mux.Lock()
	defer s.mux.Unlock()
	s.users = slices.Clone(users)
	s.highest = max(s.highest, highest)
	s.version++
	return nil
}

// All iterates over the list as it is when iteration starts.
func (s *MemoryStorage) All() iter.Seq[models.User] {
	return func(yield func(models.User) bool) {
		s.mux.RLock()
		users := s.users
		s.mux.RUnlock()

		for _, u := range users {
			if !yield(u) {
				return
			}
		}
	}
}

func (s *MemoryStorage) Get(id int) (models.User, bool) {
	s.mux.RLock()
	defer s.mux.RUnlock()
	idx := slices.IndexFunc(s.users, func(u models.User) bool { return u.ID == id })
	if idx < 0 {
		return models.User{}, false
	}
	return s.users[idx], true
}

// Append stores u at the end of the list under the id chosen by alloc.
func (s *MemoryStorage) Append(u models.User, alloc func(View) int) models.User {
	s.mux.Lock()
	defer s.mux.Unlock()

	u.ID = alloc(View{users: s.users, highest: s.highest})
	next := make([]models.User, len(s.users), len(s.users)+1)
	copy(next, s.users)
	s.users = append(next, u)
	s.highest = max(s.highest, u.ID)
	s.version++
	return u
}

// Update replaces the first record with u.ID. It never inserts.
func (s *MemoryStorage) Update(u models.User) bool {
	s.mux.Lock()
	defer s.mux.Unlock()

	idx := slices.IndexFunc(s.users, func(r models.User) bool { return r.ID == u.ID })
	if idx < 0 {
		return false
	}
	next := slices.Clone(s.users)
	next[idx] = u
	s.users = next
	s.version++
	return true
}

// Delete removes the first record with the given id.
func (s *MemoryStorage) Delete(id int) bool {
	s.mux.Lock()
	defer s.mux.Unlock()

	idx := slices.IndexFunc(s.users, func(u models.User) bool { return u.ID == id })
	if idx < 0 {
		return false
	}
	next := make([]models.User, 0, len(s.users)-1)
	next = append(next, s.users[:idx]...)
	s.users = append(next, s.users[idx+1:]...)
	s.version++
	return true
}

func (s *MemoryStorage) Len() int {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return len(s.users)
}

func (s *MemoryStorage) Version() uint64 {
	s.mux.RLock()
	defer s.mux.RUnlock()
	return s.version
}
