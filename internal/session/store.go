// Package session owns "who is logged in" for one browser client.
//
// The store hydrates from durable storage when it is created so callers get a
// best guess immediately, then reconciles with the backend in the background.
// The backend answer always wins over the stored value.
package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aaravmahajanofficial/storefront-bff/internal/backend"
	"github.com/aaravmahajanofficial/storefront-bff/internal/cache"
	appErrors "github.com/aaravmahajanofficial/storefront-bff/internal/errors"
	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
)

// Backend is the part of the storefront API the session store calls.
type Backend interface {
	Me(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, req models.LoginRequest) error
	Logout(ctx context.Context) error
}

// RateLimiter returns isAllowed, attempts left, seconds to wait.
type RateLimiter interface {
	CheckLoginRateLimit(ctx context.Context, username string) (bool, int, int, error)
}

// Listener is called after the logged-in identity changed.
type Listener func(ctx context.Context, prev, next *models.User)

type Store struct {
	backend  Backend
	record   *cache.Record[*models.User]
	limiter  RateLimiter
	validate *validator.Validate
	logger   *slog.Logger

	mu        sync.RWMutex
	user      *models.User
	seq       uint64
	listeners []Listener

	refreshGroup singleflight.Group
	ready        chan struct{}
}

type Options struct {
	Backend  Backend
	Record   *cache.Record[*models.User]
	Limiter  RateLimiter
	Validate *validator.Validate
	Logger   *slog.Logger
}

// NewStore hydrates the user from the durable record and starts the initial
// refresh. Ready is closed once that refresh has been applied.
func NewStore(ctx context.Context, opts Options) *Store {

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	validate := opts.Validate
	if validate == nil {
		validate = validator.New()
	}

	s := &Store{
		backend:  opts.Backend,
		record:   opts.Record,
		limiter:  opts.Limiter,
		validate: validate,
		logger:   logger,
		ready:    make(chan struct{}),
	}

	s.hydrate(ctx)

	seq := s.seq

	go func() {
		defer close(s.ready)
		s.refresh(context.WithoutCancel(ctx), seq)
	}()

	return s
}

func (s *Store) hydrate(ctx context.Context) {

	if s.record == nil {
		return
	}

	user, found, err := s.record.Load(ctx)
	if err != nil {
		s.logger.Warn("Failed to restore stored session", slog.String("error", err.Error()))
		return
	}

	if found {
		s.user = user
	}
}

func (s *Store) Ready() <-chan struct{} {
	return s.ready
}

func (s *Store) Get() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.user == nil {
		return nil
	}

	user := *s.user

	return &user
}

func (s *Store) IsAdmin() bool {
	return s.Get().IsAdmin()
}

// Subscribe registers fn for identity changes. Listeners run synchronously on
// the goroutine that changed the user, outside the store lock.
func (s *Store) Subscribe(fn Listener) {
	s.mu.Lock()
	s.listeners = append(s.listeners, fn)
	s.mu.Unlock()
}

// Set replaces the current user and persists it. Any refresh issued before the
// call is discarded when it completes.
func (s *Store) Set(ctx context.Context, user *models.User) {

	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.mu.Unlock()

	s.apply(ctx, seq, user)
}

type refreshResult struct {
	seq  uint64
	user *models.User
}

// Refresh asks the backend who is logged in. Every failure, 401 included,
// means nobody is; the resulting user is returned.
func (s *Store) Refresh(ctx context.Context) *models.User {

	s.mu.RLock()
	seq := s.seq
	s.mu.RUnlock()

	return s.refresh(ctx, seq)
}

// refresh joins an in-flight session check if there is one. The answer is
// tagged with the sequence of the caller that issued it.
func (s *Store) refresh(ctx context.Context, seq uint64) *models.User {

	v, _, _ := s.refreshGroup.Do("refresh", func() (any, error) {

		user, err := s.backend.Me(ctx)
		if err != nil {
			if backend.IsStatus(err, http.StatusUnauthorized) {
				s.logger.Debug("Session check: not logged in")
			} else {
				s.logger.Warn("Session check failed", slog.String("error", err.Error()))
			}

			return refreshResult{seq: seq}, nil
		}

		return refreshResult{seq: seq, user: user}, nil
	})

	result := v.(refreshResult)
	s.apply(ctx, result.seq, result.user)

	return s.Get()
}

// Login validates the credentials, logs in against the backend and then takes
// the user from an authoritative session check.
func (s *Store) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {

	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.ValidationError("Invalid login request").WithDetail(err.Error()).WithError(err)
	}

	remaining := 0

	if s.limiter != nil {
		allowed, left, retryAfter, err := s.limiter.CheckLoginRateLimit(ctx, req.Email)
		if err != nil {
			return nil, appErrors.ThirdPartyError("Rate limit check failed").WithError(err)
		}

		if !allowed {
			return nil, appErrors.TooManyRequestsError("Too many login attempts. Please try again later.").
				WithDetail(fmt.Sprintf("retry after %d seconds", retryAfter))
		}

		remaining = left
	}

	if err := s.backend.Login(ctx, req); err != nil {
		if appErrors.HasCode(err, appErrors.ErrCodeUnauthorized) || appErrors.HasCode(err, appErrors.ErrCodeBadRequest) {
			return &models.LoginResponse{
				Success:   false,
				Message:   "Invalid email or password",
				Remaining: remaining,
			}, nil
		}

		return nil, err
	}

	user, err := s.backend.Me(ctx)
	if err != nil {
		s.Set(ctx, nil)
		return nil, err
	}

	s.Set(ctx, user)

	return &models.LoginResponse{Success: true, User: s.Get()}, nil
}

// Logout always ends with no user, whatever the backend answered.
func (s *Store) Logout(ctx context.Context) {

	if err := s.backend.Logout(ctx); err != nil {
		s.logger.Warn("Backend logout failed", slog.String("error", err.Error()))
	}

	s.Set(ctx, nil)
}

func (s *Store) apply(ctx context.Context, seq uint64, user *models.User) {

	s.mu.Lock()

	if seq != s.seq {
		s.mu.Unlock()
		s.logger.Debug("Dropping superseded session update", slog.Uint64("seq", seq))
		return
	}

	prev := s.user
	s.user = user
	listeners := append([]Listener(nil), s.listeners...)

	s.mu.Unlock()

	s.persist(ctx, user)

	if models.SameIdentity(prev, user) {
		return
	}

	for _, fn := range listeners {
		fn(ctx, prev, user)
	}
}

func (s *Store) persist(ctx context.Context, user *models.User) {

	if s.record == nil {
		return
	}

	var err error

	if user == nil {
		err = s.record.Clear(ctx)
	} else {
		err = s.record.Save(ctx, user)
	}

	if err != nil {
		s.logger.Warn("Failed to persist session", slog.String("error", err.Error()))
	}
}
