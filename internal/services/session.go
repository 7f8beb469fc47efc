package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/taskboard/internal/auth"
	"github.com/dmitrijs2005/taskboard/internal/common"
	"github.com/dmitrijs2005/taskboard/internal/cryptox"
	"github.com/dmitrijs2005/taskboard/internal/logging"
	"github.com/dmitrijs2005/taskboard/internal/models"
	"github.com/dmitrijs2005/taskboard/internal/repositories/accounts"
	"github.com/dmitrijs2005/taskboard/internal/repositories/session"
	"github.com/dmitrijs2005/taskboard/internal/storage"
)

// SessionService tracks who is signed in.
//
// Contract:
//   - Login: exact email match plus secret match, else common.ErrInvalidCredentials.
//   - Register: common.ErrDuplicateEmail on an existing email; the first account
//     of an empty directory becomes admin; signs the new account in.
//   - Logout: always succeeds in memory, idempotent.
//   - Hydrate: restores a persisted session at startup.
//   - Refresh: re-reads the signed-in account from the directory.
//
// The session holds a point-in-time copy of the account. Directory edits are
// not reflected until Refresh or the next Login.
type SessionService interface {
	Login(ctx context.Context, email, secret string) (models.Account, error)
	Register(ctx context.Context, email, secret, name string) (models.Account, error)
	Logout(ctx context.Context) error
	Hydrate(ctx context.Context) error
	Refresh(ctx context.Context) error

	IsAuthenticated() bool
	IsAdmin() bool
	Current() (models.Account, bool)
}

type sessionService struct {
	store    storage.Store
	accounts accounts.Repository
	sessions session.Repository
	matcher  cryptox.SecretMatcher
	tokens   *auth.TokenIssuer
	log      logging.Logger

	mu      sync.RWMutex
	token   string
	account *models.Account
}

func NewSessionService(
	store storage.Store,
	accountsRepo accounts.Repository,
	sessionRepo session.Repository,
	matcher cryptox.SecretMatcher,
	tokens *auth.TokenIssuer,
	log logging.Logger,
) SessionService {
	return &sessionService{
		store:    store,
		accounts: accountsRepo,
		sessions: sessionRepo,
		matcher:  matcher,
		tokens:   tokens,
		log:      log.With("component", "session"),
	}
}

func (s *sessionService) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account != nil
}

func (s *sessionService) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.account != nil && s.account.IsAdmin()
}

func (s *sessionService) Current() (models.Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.account == nil {
		return models.Account{}, false
	}
	return *s.account, true
}

func (s *sessionService) Login(ctx context.Context, email, secret string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.accounts.Load(ctx)
	if err != nil {
		return models.Account{}, fmt.Errorf("load accounts: %w", err)
	}

	var found *models.StoredAccount
	for i := range all {
		if all[i].Email == email && s.matcher.Match(all[i].Password, secret) {
			found = &all[i]
			break
		}
	}
	if found == nil {
		s.log.Info(ctx, "login rejected")
		return models.Account{}, common.ErrInvalidCredentials
	}

	if err := s.establish(ctx, nil, found.Account); err != nil {
		return models.Account{}, err
	}
	s.log.Info(ctx, "logged in", "account_id", found.ID)
	return found.Account, nil
}

func (s *sessionService) Register(ctx context.Context, email, secret, name string) (models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.accounts.Load(ctx)
	if err != nil {
		return models.Account{}, fmt.Errorf("load accounts: %w", err)
	}
	if emailTaken(all, email, "") {
		return models.Account{}, common.ErrDuplicateEmail
	}

	sealed, err := s.matcher.Seal(secret)
	if err != nil {
		return models.Account{}, fmt.Errorf("seal secret: %w", err)
	}

	role := models.RoleUser
	if len(all) == 0 {
		role = models.RoleAdmin
	}
	acct := models.Account{ID: common.NewID(), Email: email, Name: name, Role: role}
	updated := append(all, models.StoredAccount{Account: acct, Password: sealed})

	if err := s.establish(ctx, updated, acct); err != nil {
		return models.Account{}, err
	}
	s.log.Info(ctx, "registered", "account_id", acct.ID, "role", acct.Role)
	return acct, nil
}

// establish persists a new session, together with the account list when
// withAccounts is non-nil, and then swaps the in-memory state. Caller holds mu.
func (s *sessionService) establish(ctx context.Context, withAccounts []models.StoredAccount, acct models.Account) error {
	token, err := s.tokens.Issue(acct.ID)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	err = s.store.Atomic(ctx, func(ctx context.Context, w storage.Writer) error {
		if withAccounts != nil {
			if err := s.accounts.Save(ctx, w, withAccounts); err != nil {
				return err
			}
		}
		return s.sessions.Save(ctx, w, token, acct)
	})
	if err != nil {
		s.log.Error(ctx, "failed to persist session", "error", err)
		return fmt.Errorf("save session: %w", err)
	}

	s.token = token
	s.account = &acct
	return nil
}

func (s *sessionService) Logout(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.clear(ctx)
}

// clear removes the persisted session and then the in-memory one. Caller holds mu.
func (s *sessionService) clear(ctx context.Context) error {
	err := s.store.Atomic(ctx, func(ctx context.Context, w storage.Writer) error {
		return s.sessions.Clear(ctx, w)
	})
	if err != nil {
		s.log.Error(ctx, "failed to clear session", "error", err)
		return fmt.Errorf("clear session: %w", err)
	}
	if s.account != nil {
		s.log.Info(ctx, "logged out", "account_id", s.account.ID)
	}
	s.token = ""
	s.account = nil
	return nil
}

// Hydrate accepts the persisted session only when both the token and the
// account copy are present and the token was issued for that account.
// Anything else is wiped.
func (s *sessionService) Hydrate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, acct, err := s.sessions.Load(ctx)
	if errors.Is(err, storage.ErrCorrupt) {
		s.log.Warn(ctx, "discarding unreadable persisted session", "error", err)
		return s.clear(ctx)
	}
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	if token == "" && acct == nil {
		s.token, s.account = "", nil
		return nil
	}
	if token != "" && acct != nil {
		sub, err := s.tokens.Subject(token)
		if err == nil && sub == acct.ID {
			s.token = token
			s.account = acct
			s.log.Debug(ctx, "session restored", "account_id", acct.ID)
			return nil
		}
		s.log.Warn(ctx, "discarding persisted session", "error", err)
	} else {
		s.log.Warn(ctx, "discarding incomplete persisted session")
	}
	return s.clear(ctx)
}

// Refresh replaces the session's account copy with the directory record. If
// the account was deleted the session ends.
func (s *sessionService) Refresh(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.account == nil {
		return nil
	}

	all, err := s.accounts.Load(ctx)
	if err != nil {
		return fmt.Errorf("load accounts: %w", err)
	}
	for _, a := range all {
		if a.ID != s.account.ID {
			continue
		}
		if a.Account == *s.account {
			return nil
		}
		fresh := a.Account
		err := s.store.Atomic(ctx, func(ctx context.Context, w storage.Writer) error {
			return s.sessions.Save(ctx, w, s.token, fresh)
		})
		if err != nil {
			return fmt.Errorf("save session: %w", err)
		}
		s.account = &fresh
		s.log.Info(ctx, "session refreshed", "account_id", fresh.ID)
		return nil
	}

	s.log.Warn(ctx, "session account no longer exists", "account_id", s.account.ID)
	return s.clear(ctx)
}

// emailTaken reports whether any account other than exceptID uses email.
// The comparison is exact and case-sensitive.
func emailTaken(all []models.StoredAccount, email, exceptID string) bool {
	for _, a := range all {
		if a.Email == email && a.ID != exceptID {
			return true
		}
	}
	return false
}
