package checkout

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	appErrors "github.com/aaravmahajanofficial/storefront-bff/internal/errors"
	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
	"github.com/go-playground/validator/v10"
)

type Backend interface {
	Addresses(ctx context.Context) ([]models.Address, error)
	AddAddress(ctx context.Context, req models.AddAddressRequest) error
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (*models.OrderConfirmation, error)
}

type Cart interface {
	Items() []models.CartItem
	Clear(ctx context.Context)
}

type History interface {
	Record(ctx context.Context, entry *models.OrderHistoryEntry) error
	ListByUser(ctx context.Context, clientID string, userID int64, page, size int) ([]models.OrderHistoryEntry, int, error)
}

// Users is the session view the order history is scoped by.
type Users interface {
	Get() *models.User
}

// placedOrder is a confirmation together with the user who placed it.
type placedOrder struct {
	confirmation models.OrderConfirmation
	userID       int64
}

// Service assembles and submits the order of one client. The direct purchase
// record and the last confirmation are transient slots.
type Service struct {
	clientID string
	backend  Backend
	cart     Cart
	users    Users
	history  History
	validate *validator.Validate
	logger   *slog.Logger

	direct       Slot[models.CheckoutData]
	confirmation Slot[placedOrder]
	placing      sync.Mutex
}

func NewService(clientID string, backend Backend, cart Cart, users Users, history History, validate *validator.Validate, logger *slog.Logger) *Service {

	if validate == nil {
		validate = validator.New()
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		clientID: clientID,
		backend:  backend,
		cart:     cart,
		users:    users,
		history:  history,
		validate: validate,
		logger:   logger,
	}
}

// SetDirectPurchase replaces the "buy now" record.
func (s *Service) SetDirectPurchase(data models.CheckoutData) {
	s.direct.Put(data)
}

func (s *Service) DirectPurchase() (models.CheckoutData, bool) {
	return s.direct.Peek()
}

func (s *Service) DiscardDirectPurchase() {
	s.direct.Clear()
}

// OnIdentityChange empties both slots so nothing bought under one user is
// shown to the next.
func (s *Service) OnIdentityChange(_ context.Context, _, _ *models.User) {
	s.direct.Clear()
	s.confirmation.Clear()
}

func (s *Service) Summary() models.CheckoutSummary {

	var direct *models.CheckoutData

	if data, ok := s.direct.Peek(); ok {
		direct = &data
	}

	return Assemble(direct, s.cart.Items())
}

// Addresses lists the shipping addresses and preselects the default one, or
// the first. A failed lookup yields an empty list.
func (s *Service) Addresses(ctx context.Context) models.AddressListResponse {

	addresses, err := s.backend.Addresses(ctx)
	if err != nil {
		s.logger.Warn("Failed to load addresses", slog.String("error", err.Error()))
		return models.AddressListResponse{Addresses: []models.Address{}}
	}

	res := models.AddressListResponse{Addresses: addresses}

	if idx := slices.IndexFunc(addresses, func(a models.Address) bool { return a.IsDefault }); idx >= 0 {
		res.Selected = addresses[idx].ID
	} else if len(addresses) > 0 {
		res.Selected = addresses[0].ID
	}

	if res.Addresses == nil {
		res.Addresses = []models.Address{}
	}

	return res
}

func (s *Service) AddAddress(ctx context.Context, req models.AddAddressRequest) (models.AddressListResponse, error) {

	if err := s.validate.Struct(req); err != nil {
		return models.AddressListResponse{}, appErrors.ValidationError("Name, phone and address are required").WithError(err)
	}

	if err := s.backend.AddAddress(ctx, req); err != nil {
		return models.AddressListResponse{}, err
	}

	return s.Addresses(ctx), nil
}

// PlaceOrder submits the assembled order. On success the confirmation is kept
// for one read, the cart is cleared and the direct purchase is discarded; on
// failure nothing changes so the customer can retry.
func (s *Service) PlaceOrder(ctx context.Context, addressID int64) (*models.OrderConfirmation, error) {

	if addressID == 0 {
		return nil, appErrors.ValidationError("Select a shipping address")
	}

	s.placing.Lock()
	defer s.placing.Unlock()

	summary := s.Summary()
	if len(summary.Items) == 0 {
		return nil, appErrors.ValidationError("There is nothing to order")
	}

	confirmation, err := s.backend.CreateOrder(ctx, models.CreateOrderRequest{
		Items:      summary.Items,
		AddressID:  addressID,
		TotalPrice: summary.TotalPrice,
	})
	if err != nil {
		s.logger.Warn("Order submission failed", slog.String("error", err.Error()))
		return nil, err
	}

	if len(confirmation.Items) == 0 {
		confirmation.Items = summary.Items
	}

	if confirmation.TotalPrice == 0 {
		confirmation.TotalPrice = summary.TotalPrice
	}

	s.confirmation.Put(placedOrder{confirmation: *confirmation, userID: s.userID()})
	s.cart.Clear(ctx)
	s.direct.Clear()

	s.logger.Info("Order placed",
		slog.Int64("orderId", confirmation.OrderID),
		slog.Int64("totalPrice", confirmation.TotalPrice),
	)

	return confirmation, nil
}

// TakeConfirmation hands out the last confirmation once and records it in the
// client's order history.
func (s *Service) TakeConfirmation(ctx context.Context) (*models.OrderConfirmation, error) {

	placed, ok := s.confirmation.Take()
	if !ok {
		return nil, appErrors.NotFoundError("No recent order")
	}

	confirmation := placed.confirmation

	now := time.Now().UTC()
	if confirmation.OrderDate == nil {
		confirmation.OrderDate = &now
	}

	if s.history != nil {
		entry := &models.OrderHistoryEntry{
			ClientID:   s.clientID,
			UserID:     placed.userID,
			OrderID:    confirmation.OrderID,
			TotalPrice: confirmation.TotalPrice,
			Order:      confirmation,
			CreatedAt:  now,
		}

		if err := s.history.Record(ctx, entry); err != nil {
			s.logger.Error("Failed to record order history", slog.String("error", err.Error()))
		}
	}

	return &confirmation, nil
}

// History lists the orders the current user placed from this client. Nobody
// logged in means an empty page.
func (s *Service) History(ctx context.Context, page, size int) (*models.PaginatedResponse, error) {

	page, size = models.NormalizePage(page, size, 50)

	userID := s.userID()

	if s.history == nil || userID == 0 {
		return &models.PaginatedResponse{Data: []models.OrderHistoryEntry{}, Page: page, PageSize: size}, nil
	}

	entries, total, err := s.history.ListByUser(ctx, s.clientID, userID, page, size)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to list order history").WithError(err)
	}

	if entries == nil {
		entries = []models.OrderHistoryEntry{}
	}

	return &models.PaginatedResponse{Data: entries, Total: total, Page: page, PageSize: size}, nil
}

func (s *Service) userID() int64 {
	if s.users == nil {
		return 0
	}

	if user := s.users.Get(); user != nil {
		return user.ID
	}

	return 0
}
