package catalog

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MrEthical07/goShop/internal/store"
)

// Handler exposes the catalog over HTTP.
type Handler struct {
	svc *Service
	log *slog.Logger
}

// NewHandler builds the HTTP layer for the catalog.
func NewHandler(svc *Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log}
}

// Register mounts the catalog routes. Listing the full catalog and all
// write operations are admin-only; featured, category and recommendation
// reads are public.
func (h *Handler) Register(r *gin.RouterGroup, protect, admin gin.HandlerFunc) {
	r.GET("", protect, admin, h.List)
	r.GET("/featured", h.Featured)
	r.GET("/category/:category", h.ByCategory)
	r.GET("/recommendations", h.Recommended)
	r.POST("", protect, admin, h.Create)
	r.PATCH("/:id", protect, admin, h.ToggleFeatured)
	r.DELETE("/:id", protect, admin, h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	products, err := h.svc.All(c.Request.Context())
	if err != nil {
		h.fail(c, "list_products", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) Featured(c *gin.Context) {
	products, err := h.svc.Featured(c.Request.Context())
	if errors.Is(err, ErrNoFeaturedProducts) {
		c.JSON(http.StatusNotFound, gin.H{"message": "No featured products found"})
		return
	}
	if err != nil {
		h.fail(c, "featured_products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

type createProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" binding:"required"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
}

func (h *Handler) Create(c *gin.Context) {
	var req createProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}
	product, err := h.svc.Create(c.Request.Context(), req.Name, req.Description, req.Price, req.Image, req.Category)
	if err != nil {
		h.fail(c, "create_product", err)
		return
	}
	c.JSON(http.StatusCreated, product)
}

func (h *Handler) Delete(c *gin.Context) {
	err := h.svc.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	if err != nil {
		h.fail(c, "delete_product", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func (h *Handler) Recommended(c *gin.Context) {
	products, err := h.svc.Recommended(c.Request.Context())
	if err != nil {
		h.fail(c, "recommended_products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handler) ByCategory(c *gin.Context) {
	products, err := h.svc.ByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		h.fail(c, "products_by_category", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"products": products})
}

func (h *Handler) ToggleFeatured(c *gin.Context) {
	product, err := h.svc.ToggleFeatured(c.Request.Context(), c.Param("id"))
	if errors.Is(err, store.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	if err != nil {
		h.fail(c, "toggle_featured", err)
		return
	}
	c.JSON(http.StatusOK, product)
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	h.log.Error("catalog request failed", "op", op, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "error": err.Error()})
}
