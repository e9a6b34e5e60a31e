package httpx

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/domain/entity"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/core/service"
	"github.com/jcmexdev/storefront-gateway/internal/api-gateway/infra/httpx/middlewares"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/apperror"
	"github.com/jcmexdev/storefront-gateway/internal/pkg/constants"
)

// Handler serves the gateway's REST API on top of the core services.
type Handler struct {
	auth     *service.AuthService
	catalog  *service.CatalogService
	blog     *service.BlogService
	checkout *service.CheckoutService
	now      func() time.Time
}

func NewHandler(
	auth *service.AuthService,
	catalog *service.CatalogService,
	blog *service.BlogService,
	checkout *service.CheckoutService,
) *Handler {
	return &Handler{
		auth:     auth,
		catalog:  catalog,
		blog:     blog,
		checkout: checkout,
		now:      time.Now,
	}
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.auth.Login(r.Context(), normalizeEmail(req.Email), req.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusOK, mapAuth(res.Token, res.RefreshToken, res.User), "Login successful")
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	res, err := h.auth.Register(r.Context(), entity.Registration{
		Email:     normalizeEmail(req.Email),
		Password:  req.Password,
		FirstName: derefString(req.FirstName),
		LastName:  derefString(req.LastName),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeOK(w, http.StatusCreated, mapAuth(res.Token, "", res.User), "Registration successful")
}

// Logout always succeeds. A valid bearer token, if presented, is revoked.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	claims, _ := middlewares.ClaimsFromContext(r.Context())
	h.auth.Logout(r.Context(), claims)
	writeOK(w, http.StatusOK, nil, "Logout successful")
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middlewares.UserFromContext(r.Context())
	if !ok {
		writeError(w, r, apperror.Unauthorized("User not authenticated"))
		return
	}
	writeOK(w, http.StatusOK, user, "User information retrieved")
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if products == nil {
		products = []entity.Product{}
	}
	writeOK(w, http.StatusOK, products, fmt.Sprintf("Retrieved %d products", len(products)))
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := h.catalog.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, product, "Product retrieved successfully")
}

// Checkout reports per-line availability. A denied verdict is a 400 that
// still carries the whole stock check.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	user, _ := middlewares.UserFromContext(r.Context())
	verdict, err := h.checkout.Check(r.Context(), user, mapItems(req.Items))
	if err != nil {
		writeError(w, r, err)
		return
	}

	if !verdict.CanProceed {
		writeJSON(w, http.StatusBadRequest, Envelope{
			Success: false,
			Data:    mapVerdict(verdict),
			Error:   "Insufficient stock",
		})
		return
	}
	writeOK(w, http.StatusOK, mapVerdict(verdict), "Stock validation successful")
}

func (h *Handler) ListBlogPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.blog.ListPosts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if posts == nil {
		posts = []entity.BlogPost{}
	}
	writeOK(w, http.StatusOK, posts, fmt.Sprintf("Retrieved %d blog posts", len(posts)))
}

func (h *Handler) GetBlogPost(w http.ResponseWriter, r *http.Request) {
	post, err := h.blog.GetPost(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, post, "Blog post retrieved successfully")
}

func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "OK",
		Timestamp: h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		Service:   constants.ServiceName,
	})
}

func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, ErrorResponse{
		Error:   "Not Found",
		Message: fmt.Sprintf("Route %s not found", r.URL.RequestURI()),
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
