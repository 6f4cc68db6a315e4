package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"minimarket/internal/api/middleware"
	"minimarket/internal/app/service"
	"minimarket/internal/common"
	"minimarket/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	productService *service.ProductService
	authenticate   func(http.Handler) http.Handler
}

func NewProductHandler(productService *service.ProductService, authenticate func(http.Handler) http.Handler) *ProductHandler {
	return &ProductHandler{productService: productService, authenticate: authenticate}
}

func (h *ProductHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listProducts)          // GET /api/v1/products
	r.Get("/{productID}", h.getProduct) // GET /api/v1/products/{id}

	r.Group(func(authed chi.Router) {
		authed.Use(h.authenticate)
		authed.Post("/", h.createProduct)           // POST /api/v1/products
		authed.Get("/my", h.listMyProducts)         // GET /api/v1/products/my
		authed.Put("/{productID}", h.updateProduct) // PUT /api/v1/products/{id}
		authed.Delete("/{productID}", h.deleteProduct)
	})
}

type PaginatedProductsResponse struct {
	Products []model.Product `json:"products"`
	Total    int             `json:"total"`
	Limit    int             `json:"limit"`
	Offset   int             `json:"offset"`
}

func (h *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	product, err := h.productService.Create(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, product)
}

func (h *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	ownerID := r.URL.Query().Get("owner_id")

	h.respondList(w, r, limit, offset, ownerID)
}

func (h *ProductHandler) listMyProducts(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	h.respondList(w, r, limit, offset, userID)
}

func (h *ProductHandler) respondList(w http.ResponseWriter, r *http.Request, limit, offset int, ownerID string) {
	products, total, err := h.productService.List(r.Context(), limit, offset, ownerID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	common.RespondWithJSON(w, http.StatusOK, PaginatedProductsResponse{
		Products: products,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
	})
}

func (h *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	productID := chi.URLParam(r, "productID")

	product, err := h.productService.Get(r.Context(), productID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) updateProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	productID := chi.URLParam(r, "productID")

	var req service.UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	product, err := h.productService.Update(r.Context(), productID, userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	productID := chi.URLParam(r, "productID")

	if err := h.productService.Delete(r.Context(), productID, userID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
