package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/storefront/internal/core/domain"
	"github.com/niksmo/storefront/internal/core/port"
)

// GET  v1/products?page=&per_page=&color=&size=&price=min-max&order= (200 OK, 400 Bad request, 503)
// GET  v1/products/{id}/cart-adds (200 OK, 501 Not implemented)
// POST v1/cart/items JSON {"product_id", "price", "quantity"} (200 OK, 400 Bad request)
// GET  v1/cart (200 OK)

type ProductsHandler struct {
	querier         port.ProductsQuerier
	defaultPageSize int
}

func RegisterProducts(
	mux *http.ServeMux, querier port.ProductsQuerier, defaultPageSize int,
) {
	if defaultPageSize < 1 {
		defaultPageSize = domain.DefaultPageSize
	}
	h := ProductsHandler{querier, defaultPageSize}
	mux.HandleFunc("GET /v1/products", h.GetProducts)
}

func (h ProductsHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	const op = "ProductsHandler.GetProducts"
	log := slog.With("op", op)

	q, err := parseProductQuery(r.URL.Query(), h.defaultPageSize)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Warn("invalid query", "err", err)
		return
	}

	page, err := h.querier.QueryProducts(r.Context(), q)
	if err != nil {
		writeError(w, log, "failed to query products", err)
		return
	}

	writeJSON(w, log, http.StatusOK, toProductsPage(page, q.Page))
	log.Debug("products page", "page", q.Page, "nProducts", len(page.Items))
}

type CartHandler struct {
	keeper port.CartKeeper
}

func RegisterCart(mux *http.ServeMux, keeper port.CartKeeper) {
	h := CartHandler{keeper}
	mux.HandleFunc("POST /v1/cart/items", h.PostItem)
	mux.HandleFunc("GET /v1/cart", h.GetCart)
}

func (h CartHandler) PostItem(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.PostItem"
	log := slog.With("op", op)

	var item AddCartItem
	if err := json.NewDecoder(r.Body).Decode(&item); err != nil {
		http.Error(w, "invalid JSON data", http.StatusBadRequest)
		log.Warn("failed to parse JSON", "err", err)
		return
	}

	c, err := h.keeper.AddToCart(r.Context(), item.toDomain())
	if err != nil {
		writeError(w, log, "failed to add item to cart", err)
		return
	}

	writeJSON(w, log, http.StatusOK, toCart(c))
	log.Info("item added", "productID", item.ProductID)
}

func (h CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	const op = "CartHandler.GetCart"
	log := slog.With("op", op)

	c, err := h.keeper.Cart(r.Context())
	if err != nil {
		writeError(w, log, "failed to load cart", err)
		return
	}
	writeJSON(w, log, http.StatusOK, toCart(c))
}

type CartAddsHandler struct {
	counter port.CartAddsCounter
}

func RegisterCartAdds(mux *http.ServeMux, counter port.CartAddsCounter) {
	h := CartAddsHandler{counter}
	mux.HandleFunc("GET /v1/products/{id}/cart-adds", h.GetCartAdds)
}

func (h CartAddsHandler) GetCartAdds(w http.ResponseWriter, r *http.Request) {
	const op = "CartAddsHandler.GetCartAdds"
	log := slog.With("op", op)

	productID := r.PathValue("id")
	n, err := h.counter.CartAdds(r.Context(), productID)
	if err != nil {
		writeError(w, log, "failed to read cart adds", err)
		return
	}
	writeJSON(w, log, http.StatusOK, CartAdds{ProductID: productID, Quantity: n})
}

func writeError(w http.ResponseWriter, log *slog.Logger, msg string, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		http.Error(w, err.Error(), http.StatusBadRequest)
		log.Warn(msg, "err", err)
	case errors.Is(err, domain.ErrSourceUnavailable):
		http.Error(w, "product source unavailable", http.StatusServiceUnavailable)
		log.Error(msg, "err", err)
	case errors.Is(err, domain.ErrFeatureDisabled):
		http.Error(w, "not enabled", http.StatusNotImplemented)
		log.Warn(msg, "err", err)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
		log.Error(msg, "err", err)
	}
}

func writeJSON(w http.ResponseWriter, log *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error("failed to write response body", "err", err)
	}
}
