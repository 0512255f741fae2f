package cart_test

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aaravmahajanofficial/storefront-bff/internal/cache"
	"github.com/aaravmahajanofficial/storefront-bff/internal/cart"
	"github.com/aaravmahajanofficial/storefront-bff/internal/config"
	appErrors "github.com/aaravmahajanofficial/storefront-bff/internal/errors"
	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
	"github.com/aaravmahajanofficial/storefront-bff/internal/session"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory remote cart.
type fakeBackend struct {
	mu       sync.Mutex
	items    []models.CartItem
	nextID   int64
	failures map[string]error
	calls    []string
	requests []any
	cartGate chan struct{}
	entered  chan struct{}
	onWrite  func()
}

func newFakeBackend(items ...models.CartItem) *fakeBackend {
	return &fakeBackend{items: items, nextID: 100, failures: map[string]error{}}
}

func (f *fakeBackend) record(op string, req any) error {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	f.requests = append(f.requests, req)
	err := f.failures[op]
	hook := f.onWrite
	f.mu.Unlock()

	if hook != nil && op != "cart" {
		hook()
	}

	return err
}

func (f *fakeBackend) Cart(ctx context.Context) ([]models.CartItem, error) {
	f.mu.Lock()
	gate := f.cartGate
	f.mu.Unlock()

	if gate != nil {
		f.entered <- struct{}{}
		<-gate
	}

	if err := f.record("cart", nil); err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	return slices.Clone(f.items), nil
}

func (f *fakeBackend) AddCartItem(ctx context.Context, req models.AddCartItemRequest) error {
	if err := f.record("add", req); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.items {
		if f.items[i].Matches(req.ProductID, req.OptionID) {
			f.items[i].Quantity += req.Quantity
			return nil
		}
	}

	f.nextID++
	item := models.CartItem{CartID: f.nextID, ProductID: req.ProductID, Quantity: req.Quantity, Price: 5000}

	if req.OptionID != nil {
		item.Option = &models.CartOption{OptionID: *req.OptionID}
	}

	f.items = append(f.items, item)

	return nil
}

func (f *fakeBackend) UpdateCartQuantity(ctx context.Context, req models.UpdateCartQuantityRequest) error {
	if err := f.record("quantity", req); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.items {
		if f.items[i].CartID == req.CartID {
			f.items[i].Quantity = req.Quantity
		}
	}

	return nil
}

func (f *fakeBackend) ChangeCartOption(ctx context.Context, req models.ChangeCartOptionRequest) error {
	if err := f.record("option", req); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	for i := range f.items {
		if f.items[i].CartID == req.CartID {
			f.items[i].Option = &models.CartOption{OptionID: req.NewOptionID}
		}
	}

	return nil
}

func (f *fakeBackend) DeleteCartItem(ctx context.Context, cartID int64) error {
	if err := f.record("delete", cartID); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = slices.DeleteFunc(f.items, func(item models.CartItem) bool { return item.CartID == cartID })

	return nil
}

func (f *fakeBackend) ClearCart(ctx context.Context) error {
	if err := f.record("clear", nil); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	f.items = nil

	return nil
}

func (f *fakeBackend) called(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	n := 0

	for _, c := range f.calls {
		if c == op {
			n++
		}
	}

	return n
}

// fakeUsers stands in for the session store.
type fakeUsers struct {
	mu        sync.Mutex
	user      *models.User
	listeners []session.Listener
}

func (u *fakeUsers) Get() *models.User {
	u.mu.Lock()
	defer u.mu.Unlock()

	return u.user
}

func (u *fakeUsers) Subscribe(fn session.Listener) {
	u.mu.Lock()
	u.listeners = append(u.listeners, fn)
	u.mu.Unlock()
}

func (u *fakeUsers) set(ctx context.Context, user *models.User) {
	u.mu.Lock()
	prev := u.user
	u.user = user
	listeners := slices.Clone(u.listeners)
	u.mu.Unlock()

	for _, fn := range listeners {
		fn(ctx, prev, user)
	}
}

var (
	shopper = &models.User{ID: 1, Name: "Shopper", Role: "USER"}
	admin   = &models.User{ID: 2, Name: "Admin", Role: " admin "}
	mug     = models.CartProduct{ProductID: 10, ProductName: "Mug", SellPrice: 5000, Stock: 3}
)

func optionID(id int64) *int64 {
	return &id
}

func newStore(t *testing.T, b *fakeBackend, user *models.User) (*cart.Store, *fakeUsers) {
	t.Helper()

	users := &fakeUsers{user: user}

	return cart.NewStore(t.Context(), b, users, nil, nil), users
}

func TestStoreIneligibleUsers(t *testing.T) {
	for name, user := range map[string]*models.User{"anonymous": nil, "admin": admin, "zero id": {ID: 0, Role: "USER"}} {
		t.Run("Success - No-op for "+name, func(t *testing.T) {
			// Arrange
			b := newFakeBackend(models.CartItem{CartID: 1, ProductID: 10, Quantity: 1})
			store, _ := newStore(t, b, user)

			// Act
			items := store.Load(t.Context())
			errAdd := store.Add(t.Context(), mug, nil, 1)
			errUpdate := store.UpdateQuantity(t.Context(), 1, 5)
			errDelete := store.Delete(t.Context(), 1)
			store.Clear(t.Context())

			// Assert
			assert.Empty(t, items)
			require.NoError(t, errAdd)
			require.NoError(t, errUpdate)
			require.NoError(t, errDelete)
			assert.Empty(t, store.Items())
			assert.Empty(t, b.calls, "no request may be sent")
		})
	}
}

func TestStoreLoad(t *testing.T) {
	t.Run("Success - Reflects the server cart", func(t *testing.T) {
		b := newFakeBackend(models.CartItem{CartID: 1, ProductID: 10, Quantity: 2, Price: 5000})
		store, _ := newStore(t, b, shopper)

		items := store.Load(t.Context())

		require.Len(t, items, 1)
		assert.Equal(t, int64(10000), store.Total())
		assert.Equal(t, 1, store.Count())
	})

	t.Run("Failure - Degrades to an empty cart", func(t *testing.T) {
		// Arrange
		b := newFakeBackend(models.CartItem{CartID: 1, ProductID: 10, Quantity: 2})
		store, _ := newStore(t, b, shopper)
		store.Load(t.Context())
		b.failures["cart"] = appErrors.ThirdPartyError("down")

		// Act
		items := store.Load(t.Context())

		// Assert
		assert.Empty(t, items)
		assert.Empty(t, store.Items())
		assert.Equal(t, models.CartResponse{Items: []models.CartItem{}}, store.Snapshot())
	})
}

func TestStoreAdd(t *testing.T) {
	t.Run("Success - Merges into the matching line", func(t *testing.T) {
		// Arrange
		b := newFakeBackend(models.CartItem{CartID: 1, ProductID: 10, Quantity: 1, Price: 5000})
		store, _ := newStore(t, b, shopper)
		store.Load(t.Context())

		var optimistic []models.CartItem
		b.onWrite = func() { optimistic = store.Items() }

		// Act
		err := store.Add(t.Context(), mug, nil, 2)

		// Assert
		require.NoError(t, err)
		require.Len(t, optimistic, 1)
		assert.Equal(t, 3, optimistic[0].Quantity, "local state changes before the server answers")

		items := store.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 3, items[0].Quantity)
		assert.Equal(t, int64(15000), items[0].LineTotal())
		assert.Equal(t, 2, b.called("cart"), "every write is followed by a reload")
	})

	t.Run("Success - Repeated adds sum up on one line", func(t *testing.T) {
		b := newFakeBackend()
		store, _ := newStore(t, b, shopper)

		for _, q := range []int{1, 4, 2} {
			require.NoError(t, store.Add(t.Context(), mug, optionID(7), q))
		}

		items := store.Items()
		require.Len(t, items, 1)
		assert.Equal(t, 7, items[0].Quantity)
	})

	t.Run("Success - Option distinguishes lines", func(t *testing.T) {
		b := newFakeBackend()
		store, _ := newStore(t, b, shopper)

		require.NoError(t, store.Add(t.Context(), mug, nil, 1))
		require.NoError(t, store.Add(t.Context(), mug, optionID(7), 1))
		require.NoError(t, store.Add(t.Context(), mug, optionID(8), 1))

		assert.Len(t, store.Items(), 3)
	})

	t.Run("Success - New line gets a temporary id until reload", func(t *testing.T) {
		// Arrange
		b := newFakeBackend()
		store, _ := newStore(t, b, shopper)

		var temp []int64
		b.onWrite = func() {
			for _, item := range store.Items() {
				temp = append(temp, item.CartID)
			}
		}

		// Act
		require.NoError(t, store.Add(t.Context(), mug, nil, 1))
		require.NoError(t, store.Add(t.Context(), mug, optionID(3), 1))

		// Assert
		require.Equal(t, []int64{-1, 101, -2}, temp)
		for _, item := range store.Items() {
			assert.Positive(t, item.CartID, "server ids replace temporary ids")
		}
	})

	t.Run("Failure - Server error reverts the optimistic line", func(t *testing.T) {
		// Arrange
		b := newFakeBackend(models.CartItem{CartID: 1, ProductID: 10, Quantity: 1, Price: 5000})
		store, _ := newStore(t, b, shopper)
		store.Load(t.Context())
		b.failures["add"] = appErrors.ThirdPartyError("Failed to reach storefront backend")

		// Act
		errMerge := store.Add(t.Context(), mug, nil, 2)
		errNew := store.Add(t.Context(), mug, optionID(4), 1)

		// Assert
		assert.True(t, appErrors.HasCode(errMerge, appErrors.ErrCodeThirdPartyError))
		assert.True(t, appErrors.HasCode(errNew, appErrors.ErrCodeThirdPartyError))
		assert.Equal(t, []models.CartItem{{CartID: 1, ProductID: 10, Quantity: 1, Price: 5000}}, store.Items())
	})

	t.Run("Failure - Quantity below one", func(t *testing.T) {
		b := newFakeBackend()
		store, _ := newStore(t, b, shopper)

		err := store.Add(t.Context(), mug, nil, 0)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeValidation))
		assert.Zero(t, b.called("add"))
	})
}

func TestStoreUpdateQuantity(t *testing.T) {
	t.Run("Success - Clamps to one", func(t *testing.T) {
		// Arrange
		b := newFakeBackend(models.CartItem{CartID: 1, ProductID: 10, Quantity: 4})
		store, _ := newStore(t, b, shopper)
		store.Load(t.Context())

		// Act
		err := store.UpdateQuantity(t.Context(), 1, -3)

		// Assert
		require.NoError(t, err)
		assert.Equal(t, models.UpdateCartQuantityRequest{CartID: 1, Quantity: 1}, b.requests[len(b.requests)-2])
		assert.Equal(t, 1, store.Items()[0].Quantity)
	})

	t.Run("Failure - Reverts the quantity", func(t *testing.T) {
		b := newFakeBackend(models.CartItem{CartID: 1, ProductID: 10, Quantity: 4})
		store, _ := newStore(t, b, shopper)
		store.Load(t.Context())
		b.failures["quantity"] = appErrors.BadRequestError("Not enough stock")

		err := store.UpdateQuantity(t.Context(), 1, 9)

		assert.True(t, appErrors.HasCode(err, appErrors.ErrCodeBadRequest))
		assert.Equal(t, 4, store.Items()[0].Quantity)
	})
}

func TestStoreChangeOption(t *testing.T) {
	b := newFakeBackend(models.CartItem{CartID: 1, ProductID: 10, Quantity: 1, Option: &models.CartOption{OptionID: 3}})
	store, _ := newStore(t, b, shopper)
	store.Load(t.Context())

	require.NoError(t, store.ChangeOption(t.Context(), 1, 4))

	assert.Equal(t, int64(4), store.Items()[0].Option.OptionID)
}

func TestStoreDelete(t *testing.T) {
	lines := []models.CartItem{{CartID: 1, ProductID: 10}, {CartID: 2, ProductID: 11}, {CartID: 3, ProductID: 12}}

	t.Run("Success", func(t *testing.T) {
		b := newFakeBackend(slices.Clone(lines)...)
		store, _ := newStore(t, b, shopper)
		store.Load(t.Context())

		require.NoError(t, store.Delete(t.Context(), 2))

		assert.Equal(t, []models.CartItem{lines[0], lines[2]}, store.Items())
	})

	t.Run("Failure - Line comes back in place", func(t *testing.T) {
		b := newFakeBackend(slices.Clone(lines)...)
		store, _ := newStore(t, b, shopper)
		store.Load(t.Context())
		b.failures["delete"] = appErrors.NotFoundError("cart item not found")

		err := store.Delete(t.Context(), 2)

		require.Error(t, err)
		assert.Equal(t, lines, store.Items())
	})
}

func TestStoreClear(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		b := newFakeBackend(models.CartItem{CartID: 1, ProductID: 10, Quantity: 1})
		store, _ := newStore(t, b, shopper)
		store.Load(t.Context())

		store.Clear(t.Context())

		assert.Empty(t, store.Items())
		assert.Equal(t, 1, b.called("clear"))
	})

	t.Run("Failure - Local clear survives a server failure", func(t *testing.T) {
		b := newFakeBackend(models.CartItem{CartID: 1, ProductID: 10, Quantity: 1})
		store, _ := newStore(t, b, shopper)
		store.Load(t.Context())
		b.failures["clear"] = appErrors.ThirdPartyError("down")

		store.Clear(t.Context())

		assert.Empty(t, store.Items())
	})
}

func TestStoreIdentityChanges(t *testing.T) {
	t.Run("Success - Logout empties and admin login stays empty", func(t *testing.T) {
		// Arrange
		b := newFakeBackend(models.CartItem{CartID: 1, ProductID: 10, Quantity: 1})
		store, users := newStore(t, b, shopper)
		store.Load(t.Context())
		require.Len(t, store.Items(), 1)

		// Act
		users.set(t.Context(), nil)
		afterLogout := store.Items()
		users.set(t.Context(), admin)

		// Assert
		assert.Empty(t, afterLogout)
		assert.Empty(t, store.Items())
		assert.Equal(t, 1, b.called("cart"), "no reload for ineligible identities")
	})

	t.Run("Success - Login of a shopper reloads", func(t *testing.T) {
		b := newFakeBackend(models.CartItem{CartID: 5, ProductID: 10, Quantity: 2})
		store, users := newStore(t, b, nil)

		users.set(t.Context(), shopper)

		assert.Len(t, store.Items(), 1)
	})

	t.Run("Success - In-flight load of the previous user is dropped", func(t *testing.T) {
		// Arrange
		b := newFakeBackend(models.CartItem{CartID: 1, ProductID: 10, Quantity: 1})
		store, users := newStore(t, b, shopper)

		gate := make(chan struct{})
		b.cartGate = gate
		b.entered = make(chan struct{}, 1)

		done := make(chan []models.CartItem)
		go func() { done <- store.Load(context.Background()) }()
		<-b.entered

		// Act
		users.set(t.Context(), nil)
		close(gate)
		result := <-done

		// Assert
		assert.Empty(t, result)
		assert.Empty(t, store.Items())
	})
}

func TestStorePersistence(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	c := cache.NewRedisCache(client, &config.CacheConfig{DefaultTTL: time.Minute})
	record := cache.NewRecord[[]models.CartItem](c, cache.Key(cache.CartKeyPrefix, "client-1"), time.Hour)

	t.Run("Success - Lines survive a new store", func(t *testing.T) {
		// Arrange
		b := newFakeBackend(models.CartItem{CartID: 1, ProductID: 10, Quantity: 2})
		users := &fakeUsers{user: shopper}
		first := cart.NewStore(t.Context(), b, users, record, nil)
		first.Load(t.Context())

		// Act
		second := cart.NewStore(t.Context(), b, users, record, nil)

		// Assert
		assert.Equal(t, first.Items(), second.Items())
	})

	t.Run("Success - Ineligible user wipes the stored cart", func(t *testing.T) {
		cart.NewStore(t.Context(), newFakeBackend(), &fakeUsers{user: admin}, record, nil)

		assert.False(t, mr.Exists(record.Key()))
	})
}
