package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/cryptox"
	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/models"
	"github.com/dmitrijs2005/taskboard/internal/repositories/accounts"
	"github.com/dmitrijs2005/taskboard/internal/storage"
)

// UserDirectory manages accounts on behalf of an administrator. Its list
// never carries secrets, and it never touches the session's account copy.
type UserDirectory interface {
	CreateUser(ctx context.Context, in models.NewAccount) (models.Account, error)
	UpdateUser(ctx context.Context, id string, patch models.AccountPatch) (models.Account, error)
	DeleteUser(ctx context.Context, id string) error

	GetUserByID(id string) (models.Account, bool)
	List() []models.Account

	// Reload replaces the snapshot with the persisted collection.
	Reload(ctx context.Context) error
}

type userDirectory struct {
	store    storage.Store
	accounts accounts.Repository
	matcher  cryptox.SecretMatcher
	log      logging.Logger

	mu    sync.RWMutex
	users []models.Account
}

// NewUserDirectory returns an empty directory; call Reload to fill it.
func NewUserDirectory(store storage.Store, accountsRepo accounts.Repository, matcher cryptox.SecretMatcher, log logging.Logger) UserDirectory {
	return &userDirectory{
		store:    store,
		accounts: accountsRepo,
		matcher:  matcher,
		log:      log.With("component", "users"),
		users:    []models.Account{},
	}
}

func (d *userDirectory) List() []models.Account {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]models.Account{}, d.users...)
}

func (d *userDirectory) GetUserByID(id string) (models.Account, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	for _, u := range d.users {
		if u.ID == id {
			return u, true
		}
	}
	return models.Account{}, false
}

func (d *userDirectory) Reload(ctx context.Context) error {
	all, err := d.accounts.Load(ctx)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	d.mu.Lock()
	d.users = strip(all)
	d.mu.Unlock()
	return nil
}

func (d *userDirectory) CreateUser(ctx context.Context, in models.NewAccount) (models.Account, error) {
	role := in.Role
	if role == "" {
		role = models.RoleUser
	}
	if !role.Valid() {
		return models.Account{}, fmt.Errorf("%w: unknown role %q", common.ErrValidation, role)
	}

	acct := models.Account{ID: common.NewID(), Email: in.Email, Name: in.Name, Role: role}
	err := d.mutate(ctx, func(all []models.StoredAccount) ([]models.StoredAccount, error) {
		if emailTaken(all, in.Email, "") {
			return nil, common.ErrDuplicateEmail
		}
		sealed, err := d.matcher.Seal(in.Password)
		if err != nil {
			return nil, fmt.Errorf("seal secret: %w", err)
		}
		return append(all, models.StoredAccount{Account: acct, Password: sealed}), nil
	})
	if err != nil {
		return models.Account{}, err
	}

	d.log.Info(ctx, "user created", "account_id", acct.ID, "role", acct.Role)
	return acct, nil
}

func (d *userDirectory) UpdateUser(ctx context.Context, id string, patch models.AccountPatch) (models.Account, error) {
	if patch.Role != nil && !patch.Role.Valid() {
		return models.Account{}, fmt.Errorf("%w: unknown role %q", common.ErrValidation, *patch.Role)
	}

	var updated models.Account
	err := d.mutate(ctx, func(all []models.StoredAccount) ([]models.StoredAccount, error) {
		i := indexOfAccount(all, id)
		if i < 0 {
			return nil, fmt.Errorf("user %s: %w", id, common.ErrNotFound)
		}
		if patch.Email != nil && emailTaken(all, *patch.Email, id) {
			return nil, common.ErrDuplicateEmail
		}
		all[i].Account = patch.Apply(all[i].Account)
		updated = all[i].Account
		return all, nil
	})
	if err != nil {
		return models.Account{}, err
	}

	d.log.Info(ctx, "user updated", "account_id", id)
	return updated, nil
}

func (d *userDirectory) DeleteUser(ctx context.Context, id string) error {
	err := d.mutate(ctx, func(all []models.StoredAccount) ([]models.StoredAccount, error) {
		i := indexOfAccount(all, id)
		if i < 0 {
			return nil, fmt.Errorf("user %s: %w", id, common.ErrNotFound)
		}
		return append(all[:i], all[i+1:]...), nil
	})
	if err != nil {
		return err
	}

	d.log.Info(ctx, "user deleted", "account_id", id)
	return nil
}

// mutate runs fn against the persisted collection, which registration also
// writes to, saves the result and resynchronizes the snapshot.
func (d *userDirectory) mutate(ctx context.Context, fn func([]models.StoredAccount) ([]models.StoredAccount, error)) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	all, err := d.accounts.Load(ctx)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	next, err := fn(all)
	if err != nil {
		return err
	}

	err = d.store.Atomic(ctx, func(ctx context.Context, w storage.Writer) error {
		return d.accounts.Save(ctx, w, next)
	})
	if err != nil {
		d.log.Error(ctx, "failed to persist accounts", "error", err)
		return fmt.Errorf("save accounts: %w", err)
	}

	d.users = strip(next)
	return nil
}

func indexOfAccount(all []models.StoredAccount, id string) int {
	for i, a := range all {
		if a.ID == id {
			return i
		}
	}
	return -1
}

func strip(all []models.StoredAccount) []models.Account {
	out := make([]models.Account, 0, len(all))
	for _, a := range all {
		out = append(out, a.Account)
	}
	return out
}
