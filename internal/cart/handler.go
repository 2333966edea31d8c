package cart

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/MrEthical07/goShop/internal/middleware"
	"github.com/MrEthical07/goShop/internal/store"
)

// Handler exposes the cart over HTTP. Every route requires an
// authenticated user.
type Handler struct {
	svc *Service
	log *slog.Logger
}

// NewHandler builds the HTTP layer for the cart.
func NewHandler(svc *Service, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}
	return &Handler{svc: svc, log: log}
}

// Register mounts the cart routes behind the auth guard.
func (h *Handler) Register(r *gin.RouterGroup, protect gin.HandlerFunc) {
	r.Use(protect)
	r.GET("", h.Products)
	r.POST("", h.Add)
	r.PUT("/:id", h.UpdateQuantity)
	r.DELETE("", h.Clear)
}

func (h *Handler) Products(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		h.fail(c, "cart_products", errors.New("no authenticated user in context"))
		return
	}
	products, err := h.svc.Products(c.Request.Context(), user)
	if err != nil {
		h.fail(c, "cart_products", err)
		return
	}
	c.JSON(http.StatusOK, products)
}

type addRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func (h *Handler) Add(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		h.fail(c, "cart_add", errors.New("no authenticated user in context"))
		return
	}
	var req addRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	items, err := h.svc.Add(c.Request.Context(), user, req.ProductID)
	if errors.Is(err, store.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	if err != nil {
		h.fail(c, "cart_add", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

type updateQuantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (h *Handler) UpdateQuantity(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		h.fail(c, "cart_update", errors.New("no authenticated user in context"))
		return
	}
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil || *req.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid quantity"})
		return
	}

	items, err := h.svc.UpdateQuantity(c.Request.Context(), user, c.Param("id"), *req.Quantity)
	if errors.Is(err, store.ErrProductNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Product not found"})
		return
	}
	if err != nil {
		h.fail(c, "cart_update", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

type clearRequest struct {
	ProductID string `json:"productId"`
}

func (h *Handler) Clear(c *gin.Context) {
	user, ok := middleware.UserFromContext(c)
	if !ok {
		h.fail(c, "cart_clear", errors.New("no authenticated user in context"))
		return
	}
	// Body is optional: no body clears the whole cart.
	var req clearRequest
	_ = c.ShouldBindJSON(&req)

	items, err := h.svc.Clear(c.Request.Context(), user, req.ProductID)
	if err != nil {
		h.fail(c, "cart_clear", err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *Handler) fail(c *gin.Context, op string, err error) {
	h.log.Error("cart request failed", "op", op, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error", "error": err.Error()})
}
