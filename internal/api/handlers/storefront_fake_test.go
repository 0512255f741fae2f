package handlers_test

import (
	"encoding/json"
	"net/http"
	"slices"
	"strconv"
	"sync"

	"github.com/aaravmahajanofficial/storefront-bff/internal/models"
)

const sessionCookie = "BACKEND_SESSION"

// fakeStorefront is an in-memory stand-in for the storefront REST API.
type fakeStorefront struct {
	mu         sync.Mutex
	users      map[string]models.User
	products   map[int64]models.Product
	cart       map[string][]models.CartItem
	nextCartID int64
	addresses  []models.Address
	orders     []models.CreateOrderRequest
	created    []models.AdminProductPayload
	updated    []models.Product
	failOrders bool
}

func newFakeStorefront() *fakeStorefront {
	consumer := int64(40000)

	return &fakeStorefront{
		users: map[string]models.User{
			"lee@example.com":   {ID: 1, Name: "Lee", Email: "lee@example.com", Role: "USER"},
			"admin@example.com": {ID: 2, Name: "Admin", Email: "admin@example.com", Role: " admin "},
			"kim@example.com":   {ID: 3, Name: "Kim", Email: "kim@example.com", Role: "USER"},
		},
		products: map[int64]models.Product{
			10: {ProductID: 10, ProductName: "Mug", SellPrice: 5000},
			20: {
				ProductID: 20, ProductName: "Shirt", SellPrice: 30000, ConsumerPrice: &consumer, IsOption: true,
				Options: []models.ProductOption{
					{OptionID: 1, OptionTitle: "Size", OptionValue: "M", SellPrice: 30000},
					{OptionID: 2, OptionTitle: "Size", OptionValue: "L", SellPrice: 30000},
					{OptionID: 3, OptionTitle: "Size", OptionValue: "XL", SellPrice: 32000},
				},
			},
		},
		cart:       map[string][]models.CartItem{},
		nextCartID: 100,
		addresses:  []models.Address{{ID: 1, Name: "Home"}, {ID: 2, Name: "Office", IsDefault: true}},
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeStorefront) user(r *http.Request) (models.User, bool) {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return models.User{}, false
	}

	user, ok := f.users[cookie.Value]

	return user, ok
}

func (f *fakeStorefront) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req models.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		f.mu.Lock()
		_, ok := f.users[req.Email]
		f.mu.Unlock()

		if !ok || req.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "bad credentials"})
			return
		}

		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: req.Email, Path: "/"})
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})

	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: sessionCookie, Value: "", Path: "/", MaxAge: -1})
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		user, ok := f.user(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "login required"})
			return
		}

		writeJSON(w, http.StatusOK, user)
	})

	mux.HandleFunc("GET /api/categories/tree", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, models.CategoryTreeResponse{Tree: models.CategoryTree{
			"10": {Title: "Fashion", Children: map[string]models.MidCategory{
				"1010": {Title: "Tops", Children: map[string]string{"101010": "Shirts"}},
			}},
		}})
	})

	mux.HandleFunc("GET /api/products/category/{leafCode}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("leafCode") != "101010" {
			writeJSON(w, http.StatusOK, []models.Product{})
			return
		}

		f.mu.Lock()
		defer f.mu.Unlock()

		writeJSON(w, http.StatusOK, []models.Product{f.products[20]})
	})

	mux.HandleFunc("GET /api/products/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

		f.mu.Lock()
		product, ok := f.products[id]
		f.mu.Unlock()

		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Product not found"})
			return
		}

		writeJSON(w, http.StatusOK, product)
	})

	mux.HandleFunc("PUT /api/products/{id}", f.withUser(func(w http.ResponseWriter, r *http.Request, _ models.User) {
		id, _ := strconv.ParseInt(r.PathValue("id"), 10, 64)

		if _, ok := f.products[id]; !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Product not found"})
			return
		}

		var product models.Product
		_ = json.NewDecoder(r.Body).Decode(&product)

		f.products[id] = product
		f.updated = append(f.updated, product)
		w.WriteHeader(http.StatusOK)
	}))

	mux.HandleFunc("GET /api/search", func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Query().Get("query") {
		case "stoneware mug":
			writeJSON(w, http.StatusOK, map[string]any{"items": []models.SearchItem{
				{Image: "https://img.example.com/mug.png", Title: "Stoneware mug", LPrice: "12000", Link: "https://shop.example.com/mug"},
			}})
		case "broken":
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "search quota exceeded"})
		default:
			writeJSON(w, http.StatusOK, map[string]any{"items": []models.SearchItem{}})
		}
	})

	mux.HandleFunc("GET /api/cart", f.withUser(func(w http.ResponseWriter, _ *http.Request, user models.User) {
		writeJSON(w, http.StatusOK, map[string]any{"items": f.cartOf(user)})
	}))

	mux.HandleFunc("POST /api/cart", f.withUser(func(w http.ResponseWriter, r *http.Request, user models.User) {
		var req models.AddCartItemRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		product, ok := f.products[req.ProductID]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Product not found"})
			return
		}

		items := f.cart[user.Email]

		idx := slices.IndexFunc(items, func(i models.CartItem) bool { return i.Matches(req.ProductID, req.OptionID) })
		if idx >= 0 {
			items[idx].Quantity += req.Quantity
			writeJSON(w, http.StatusOK, map[string]bool{"success": true})
			return
		}

		item := models.CartItem{CartID: f.nextCartID, ProductID: product.ProductID, ProductName: product.ProductName, Quantity: req.Quantity, Price: product.SellPrice}
		f.nextCartID++

		if req.OptionID != nil {
			opt, _ := product.Option(*req.OptionID)
			title, value := opt.OptionTitle, opt.OptionValue
			item.Price = opt.SellPrice
			item.Option = &models.CartOption{OptionID: opt.OptionID, OptionTitle: &title, OptionValue: &value}
		}

		f.cart[user.Email] = append(items, item)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}))

	mux.HandleFunc("PUT /api/cart/quantity", f.withUser(func(w http.ResponseWriter, r *http.Request, user models.User) {
		var req models.UpdateCartQuantityRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		items := f.cart[user.Email]

		idx := slices.IndexFunc(items, func(i models.CartItem) bool { return i.CartID == req.CartID })
		if idx < 0 {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Cart item not found"})
			return
		}

		items[idx].Quantity = req.Quantity
		w.WriteHeader(http.StatusOK)
	}))

	mux.HandleFunc("PUT /api/cart/option", f.withUser(func(w http.ResponseWriter, r *http.Request, user models.User) {
		var req models.ChangeCartOptionRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		items := f.cart[user.Email]

		idx := slices.IndexFunc(items, func(i models.CartItem) bool { return i.CartID == req.CartID })
		if idx < 0 || items[idx].Option == nil {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "Cart item not found"})
			return
		}

		product := f.products[items[idx].ProductID]

		opt, ok := product.Option(req.NewOptionID)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": "Unknown option"})
			return
		}

		title, value := opt.OptionTitle, opt.OptionValue
		items[idx].Price = opt.SellPrice
		items[idx].Option = &models.CartOption{OptionID: opt.OptionID, OptionTitle: &title, OptionValue: &value}
		w.WriteHeader(http.StatusOK)
	}))

	mux.HandleFunc("DELETE /api/cart/{cartId}", f.withUser(func(w http.ResponseWriter, r *http.Request, user models.User) {
		cartID, _ := strconv.ParseInt(r.PathValue("cartId"), 10, 64)

		f.cart[user.Email] = slices.DeleteFunc(f.cart[user.Email], func(i models.CartItem) bool { return i.CartID == cartID })
		w.WriteHeader(http.StatusOK)
	}))

	mux.HandleFunc("DELETE /api/cart", f.withUser(func(w http.ResponseWriter, _ *http.Request, user models.User) {
		delete(f.cart, user.Email)
		w.WriteHeader(http.StatusOK)
	}))

	mux.HandleFunc("GET /api/address", f.withUser(func(w http.ResponseWriter, _ *http.Request, _ models.User) {
		writeJSON(w, http.StatusOK, f.addresses)
	}))

	mux.HandleFunc("POST /api/address/add", f.withUser(func(w http.ResponseWriter, r *http.Request, _ models.User) {
		var req models.AddAddressRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		f.addresses = append(f.addresses, models.Address{ID: int64(len(f.addresses) + 1), Name: req.Name, Phone: req.Phone, Address: req.Address})
		w.WriteHeader(http.StatusOK)
	}))

	mux.HandleFunc("POST /api/orders/create", f.withUser(func(w http.ResponseWriter, r *http.Request, _ models.User) {
		if f.failOrders {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "payment failed"})
			return
		}

		var req models.CreateOrderRequest
		_ = json.NewDecoder(r.Body).Decode(&req)

		f.orders = append(f.orders, req)
		writeJSON(w, http.StatusOK, models.OrderConfirmation{OrderID: int64(1000 + len(f.orders)), Items: req.Items, TotalPrice: req.TotalPrice})
	}))

	mux.HandleFunc("POST /api/admin/products", f.withUser(func(w http.ResponseWriter, r *http.Request, _ models.User) {
		var payload models.AdminProductPayload
		_ = json.NewDecoder(r.Body).Decode(&payload)

		f.created = append(f.created, payload)
		w.WriteHeader(http.StatusCreated)
	}))

	mux.HandleFunc("POST /api/admin/products/generate-description", f.withUser(func(w http.ResponseWriter, _ *http.Request, _ models.User) {
		writeJSON(w, http.StatusOK, models.DescriptionResponse{Description: `<p>Soft cotton.</p><script>steal()</script>`})
	}))

	return mux
}

// withUser runs next under the lock for an authenticated request.
func (f *fakeStorefront) withUser(next func(http.ResponseWriter, *http.Request, models.User)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		user, ok := f.user(r)
		if !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "login required"})
			return
		}

		next(w, r, user)
	}
}

func (f *fakeStorefront) cartOf(user models.User) []models.CartItem {
	return append([]models.CartItem{}, f.cart[user.Email]...)
}

func (f *fakeStorefront) orderCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()

	return len(f.orders)
}
