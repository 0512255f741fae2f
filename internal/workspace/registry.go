package workspace

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aaravmahajanofficial/storefront-bff/internal/admin"
	"github.com/aaravmahajanofficial/storefront-bff/internal/backend"
	"github.com/aaravmahajanofficial/storefront-bff/internal/cache"
	"github.com/aaravmahajanofficial/storefront-bff/internal/cart"
	"github.com/aaravmahajanofficial/storefront-bff/internal/catalog"
	"github.com/aaravmahajanofficial/storefront-bff/internal/checkout"
	"github.com/aaravmahajanofficial/storefront-bff/internal/config"
	"github.com/aaravmahajanofficial/storefront-bff/internal/metrics"
	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
	"github.com/aaravmahajanofficial/storefront-bff/internal/pricing"
	"github.com/aaravmahajanofficial/storefront-bff/internal/session"
	"github.com/aaravmahajanofficial/storefront-bff/internal/wishlist"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/singleflight"
)

type Options struct {
	Gateway   *backend.Gateway
	Cache     cache.Cache
	Tree      *catalog.Tree
	History   checkout.History
	Limiter   session.RateLimiter
	Validate  *validator.Validate
	Storage   config.Storage
	Workspace config.Workspace
	Logger    *slog.Logger

	// Now is the clock used for idle tracking. Defaults to time.Now.
	Now func() time.Time
}

type Registry struct {
	opts Options

	mu         sync.Mutex
	workspaces map[string]*Workspace
	group      singleflight.Group
}

func NewRegistry(opts Options) *Registry {

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Validate == nil {
		opts.Validate = validator.New()
	}

	if opts.Now == nil {
		opts.Now = time.Now
	}

	return &Registry{opts: opts, workspaces: make(map[string]*Workspace)}
}

// Get returns the workspace of clientID, building it on first use. Concurrent
// first requests of one client share a single build.
func (r *Registry) Get(ctx context.Context, clientID string) *Workspace {

	now := r.opts.Now()

	r.mu.Lock()
	ws, ok := r.workspaces[clientID]
	r.mu.Unlock()

	if ok {
		ws.touch(now)
		return ws
	}

	value, _, _ := r.group.Do(clientID, func() (any, error) {

		r.mu.Lock()
		existing, ok := r.workspaces[clientID]
		r.mu.Unlock()

		if ok {
			return existing, nil
		}

		built := r.build(context.WithoutCancel(ctx), clientID)

		r.mu.Lock()
		r.workspaces[clientID] = built
		count := len(r.workspaces)
		r.mu.Unlock()

		metrics.SetActiveWorkspaces(count)

		return built, nil
	})

	ws = value.(*Workspace)
	ws.touch(now)

	return ws
}

func (r *Registry) build(ctx context.Context, clientID string) *Workspace {

	logger := r.opts.Logger.With(slog.String("clientId", clientID))
	ttl := r.opts.Storage.RecordTTL

	client := r.opts.Gateway.NewPersistentClient(ctx,
		cache.NewRecord[[]*http.Cookie](r.opts.Cache, cache.Key(cache.BackendCookieKeyPrefix, clientID), ttl),
		logger.With(slog.String("store", "cookies")),
	)

	sess := session.NewStore(ctx, session.Options{
		Backend:  client,
		Record:   cache.NewRecord[*models.User](r.opts.Cache, cache.Key(cache.UserKeyPrefix, clientID), ttl),
		Limiter:  r.opts.Limiter,
		Validate: r.opts.Validate,
		Logger:   logger.With(slog.String("store", "session")),
	})

	cartStore := cart.NewStore(ctx, client, sess,
		cache.NewRecord[[]models.CartItem](r.opts.Cache, cache.Key(cache.CartKeyPrefix, clientID), ttl),
		logger.With(slog.String("store", "cart")),
	)

	ws := &Workspace{
		ClientID:   clientID,
		Backend:    client,
		Session:    sess,
		Cart:       cartStore,
		Listing:    catalog.NewListing(client, logger),
		Search:     catalog.NewSearch(client, logger),
		Wishlist: wishlist.NewStore(ctx,
			cache.NewRecord[[]models.WishlistItem](r.opts.Cache, cache.Key(cache.WishlistKeyPrefix, clientID), ttl),
			r.opts.Validate, logger.With(slog.String("store", "wishlist")),
		),
		Checkout:   checkout.NewService(clientID, client, cartStore, sess, r.opts.History, r.opts.Validate, logger),
		Admin:      admin.NewService(client, r.opts.Tree, sess, r.opts.Validate, logger),
		Tree:       r.opts.Tree,
		logger:     logger,
		selections: make(map[int64]*pricing.Selection),
	}

	sess.Subscribe(ws.Checkout.OnIdentityChange)
	sess.Subscribe(ws.onIdentityChange)

	// An identity change reloads the cart by itself; an unchanged identity
	// still needs the server cart once the session is reconciled.
	go func() {
		<-sess.Ready()
		cartStore.Load(ctx)
	}()

	logger.Debug("Workspace created")

	return ws
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.workspaces)
}

// Sweep drops every workspace idle for longer than the configured idle TTL
// and returns how many were dropped.
func (r *Registry) Sweep() int {

	now := r.opts.Now()
	idleTTL := r.opts.Workspace.IdleTTL

	r.mu.Lock()

	evicted := 0

	for id, ws := range r.workspaces {
		if ws.idleSince(now) > idleTTL {
			delete(r.workspaces, id)
			evicted++
		}
	}

	count := len(r.workspaces)
	r.mu.Unlock()

	metrics.SetActiveWorkspaces(count)

	if evicted > 0 {
		r.opts.Logger.Info("Evicted idle workspaces", slog.Int("evicted", evicted), slog.Int("active", count))
	}

	return evicted
}

// Run sweeps on every tick until ctx is done.
func (r *Registry) Run(ctx context.Context) {

	interval := r.opts.Workspace.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Sweep()
		}
	}
}
