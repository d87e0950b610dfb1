// Package directory owns the in-memory user list and the rules for loading,
// searching, adding, editing and removing its records.
package directory

import (
	"context"
	"fmt"
	"iter"
	"strings"
	"sync"

	"github.com/rawen554/userdir/internal/models"
	"github.com/rawen554/userdir/internal/store/memory"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
)

type State int

const (
	StateIdle State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Source provides the initial user list.
type Source interface {
	Fetch(ctx context.Context) ([]models.User, error)
}

// Confirmer answers a blocking yes/no question.
type Confirmer interface {
	Confirm(message string) bool
}

type UserDirectory struct {
	source  Source
	store   *memory.MemoryStorage
	logger  *zap.SugaredLogger
	alloc   func(memory.View) int
	loadErr error
	ready   chan struct{}
	mux     *sync.RWMutex
	state   State
}

func NewUserDirectory(source Source, strategy IDStrategy, logger *zap.SugaredLogger) (*UserDirectory, error) {
	store, err := memory.NewMemoryStorage(nil)
	if err != nil {
		return nil, fmt.Errorf("error initialising memory storage: %w", err)
	}

	return &UserDirectory{
		source: source,
		store:  store,
		logger: logger,
		alloc:  strategy.allocator(),
		ready:  make(chan struct{}),
		mux:    &sync.RWMutex{},
	}, nil
}

// Load fetches the user list once. A failed fetch leaves the directory ready
// and empty; the failure is only logged and kept for Status.
func (d *UserDirectory) Load(ctx context.Context) error {
	d.mux.Lock()
	if d.state != StateIdle {
		d.mux.Unlock()
		return ErrAlreadyLoaded
	}
	d.state = StateLoading
	d.mux.Unlock()

	d.logger.Debug("loading users")
	users, err := d.source.Fetch(ctx)
	if err == nil {
		err = d.store.Replace(users)
	}

	d.mux.Lock()
	defer d.mux.Unlock()
	if err != nil {
		d.loadErr = &FetchError{Err: err}
		d.logger.Error(d.loadErr)
	} else {
		d.logger.Infof("loaded %d users", len(users))
	}
	d.state = StateReady
	close(d.ready)

	return nil
}

// Ready is closed once the load has finished, successfully or not.
func (d *UserDirectory) Ready() <-chan struct{} {
	return d.ready
}

func (d *UserDirectory) State() State {
	d.mux.RLock()
	defer d.mux.RUnlock()
	return d.state
}

func (d *UserDirectory) Status() models.Status {
	d.mux.RLock()
	defer d.mux.RUnlock()

	status := models.Status{State: d.state.String()}
	if d.state == StateReady {
		status.Users = d.store.Len()
		status.Version = d.store.Version()
	}
	if d.loadErr != nil {
		status.LastError = d.loadErr.Error()
	}
	return status
}

func (d *UserDirectory) checkReady() error {
	if d.State() != StateReady {
		return ErrNotReady
	}
	return nil
}

// Search returns the records whose name or username contains keyword, ignoring
// case. Each iteration reads the list as it is at that moment.
func (d *UserDirectory) Search(keyword string) iter.Seq[models.User] {
	return func(yield func(models.User) bool) {
		if d.checkReady() != nil {
			return
		}

		fold := cases.Fold()
		kw := fold.String(keyword)
		for u := range d.store.All() {
			if kw != "" && !strings.Contains(fold.String(u.Name), kw) &&
				!strings.Contains(fold.String(u.Username), kw) {
				continue
			}
			if !yield(u) {
				return
			}
		}
	}
}

func (d *UserDirectory) Get(id int) (models.User, error) {
	if err := d.checkReady(); err != nil {
		return models.User{}, err
	}
	u, ok := d.store.Get(id)
	if !ok {
		return models.User{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return u, nil
}

// Create appends a new record built from draft. The draft id is ignored.
func (d *UserDirectory) Create(draft models.Draft) (models.User, error) {
	if err := d.checkReady(); err != nil {
		return models.User{}, err
	}
	if err := validate(draft); err != nil {
		return models.User{}, err
	}

	u := d.store.Append(models.User(draft), func(v memory.View) int {
		id := d.alloc(v)
		if id != v.Len()+1 {
			d.logger.Debugf("id %d taken, assigned %d", v.Len()+1, id)
		}
		return id
	})
	d.logger.Infof("created user %d", u.ID)

	return u, nil
}

// BeginEdit returns an editable copy of the record.
func (d *UserDirectory) BeginEdit(id int) (models.Draft, error) {
	u, err := d.Get(id)
	if err != nil {
		return models.Draft{}, err
	}
	return models.Draft(u), nil
}

// CommitEdit replaces the record with the draft's id. It reports false when no
// such record exists; it never inserts.
func (d *UserDirectory) CommitEdit(draft models.Draft) (bool, error) {
	if err := d.checkReady(); err != nil {
		return false, err
	}
	if err := validate(draft); err != nil {
		return false, err
	}

	if !d.store.Update(models.User(draft)) {
		d.logger.Warnf("commit for missing user %d ignored", draft.ID)
		return false, nil
	}
	d.logger.Infof("updated user %d", draft.ID)

	return true, nil
}

// Remove deletes the record after confirm agrees. A declined prompt is not an error.
func (d *UserDirectory) Remove(id int, confirm Confirmer) (bool, error) {
	if err := d.checkReady(); err != nil {
		return false, err
	}
	if confirm == nil {
		return false, ErrNoConfirmation
	}

	if !confirm.Confirm(fmt.Sprintf("Remove user %d?", id)) {
		d.logger.Debugf("removal of user %d declined", id)
		return false, nil
	}

	removed := d.store.Delete(id)
	if removed {
		d.logger.Infof("removed user %d", id)
	}
	return removed, nil
}
