package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Oguricoder/CrochetBusiness-CPE107-1L/internal/catalog"
)

type CatalogHandler struct {
	catalog catalog.Accessor
}

func NewCatalogHandler(cat catalog.Accessor) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

func (h *CatalogHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	var (
		products []catalog.Product
		err      error
	)

	switch {
	case r.URL.Query().Get("featured") == "true":
		products, err = catalog.Featured(r.Context(), h.catalog)
	case r.URL.Query().Get("new") == "true":
		products, err = catalog.NewArrivals(r.Context(), h.catalog)
	default:
		products, err = h.catalog.ProductsByCategory(r.Context(), r.URL.Query().Get("category"))
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load products")
		return
	}

	if products == nil {
		products = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *CatalogHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "productId"), 10, 64)
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid productId")
		return
	}

	product, err := h.catalog.ProductByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to load product")
		return
	}

	writeJSON(w, http.StatusOK, product)
}

func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := catalog.Categories(r.Context(), h.catalog)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to load categories")
		return
	}

	if categories == nil {
		categories = []string{}
	}
	writeJSON(w, http.StatusOK, categories)
}
