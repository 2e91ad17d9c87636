package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"santamartha/storefront/internal/models"
	"santamartha/storefront/internal/selectors"
	"santamartha/storefront/internal/state"
)

type cartView struct {
	Items      []models.CartItem `json:"items"`
	TotalItems int               `json:"totalItems"`
	TotalPrice decimal.Decimal   `json:"totalPrice"`
	Status     state.Status      `json:"status"`
	Error      string            `json:"error,omitempty"`
}

func (h HandlerSet) cartView() cartView {
	cart := h.store.Cart.Snapshot()
	totals := h.memo.CartTotals(cart)
	return cartView{
		Items:      cart.Items,
		TotalItems: totals.Items,
		TotalPrice: totals.Price,
		Status:     cart.Status,
		Error:      cart.Error,
	}
}

func (h HandlerSet) CartView(c *gin.Context) {
	_ = h.store.Cart.Fetch(actionContext(c))
	c.JSON(http.StatusOK, h.cartView())
}

type addToCartRequest struct {
	ProductID int64 `json:"productId" binding:"required"`
	Quantity  int   `json:"quantity"`
}

func (h HandlerSet) AddToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	// Stock and archive state are checked against a fresh copy.
	ctx := actionContext(c)
	product, err := h.store.Products.FetchByID(ctx, req.ProductID)
	if err != nil {
		respondError(c, err)
		return
	}

	if _, err := h.store.Cart.AddToCart(ctx, product, req.Quantity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.cartView())
}

type updateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

func (h HandlerSet) UpdateCartItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.store.Cart.UpdateItem(actionContext(c), id, req.Quantity); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.cartView())
}

func (h HandlerSet) RemoveCartItem(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.store.Cart.RemoveItem(actionContext(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.cartView())
}

func (h HandlerSet) ClearCart(c *gin.Context) {
	if err := h.store.Cart.Clear(actionContext(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.cartView())
}

type checkoutView struct {
	Items       []models.CartItem `json:"items"`
	Subtotal    decimal.Decimal   `json:"subtotal"`
	ShippingFee decimal.Decimal   `json:"shippingFee"`
	Total       decimal.Decimal   `json:"total"`
	Address     string            `json:"deliveryAddress"`
	Phone       string            `json:"phone"`
}

// CheckoutView prefills the delivery details from the profile. An empty cart
// sends the client back to the cart page.
func (h HandlerSet) CheckoutView(c *gin.Context) {
	if err := h.store.Cart.Fetch(actionContext(c)); err == nil && len(h.store.Cart.Snapshot().Items) == 0 {
		c.Redirect(http.StatusFound, "/cart")
		return
	}

	cart := h.store.Cart.Snapshot()
	subtotal := h.memo.CartTotals(cart).Price
	view := checkoutView{
		Items:       cart.Items,
		Subtotal:    subtotal,
		ShippingFee: h.cfg.Checkout.ShippingFee,
		Total:       selectors.CheckoutTotal(subtotal, h.cfg.Checkout.ShippingFee),
	}
	if user := h.store.Auth.Snapshot().User; user != nil {
		view.Address = user.Address
		view.Phone = user.Phone
	}
	c.JSON(http.StatusOK, view)
}

type checkoutRequest struct {
	DeliveryAddress string `json:"deliveryAddress" binding:"required"`
	Phone           string `json:"phone" binding:"required"`
}

func (h HandlerSet) Checkout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.store.Checkout(actionContext(c), models.PlaceOrder{
		DeliveryAddress: req.DeliveryAddress,
		Phone:           req.Phone,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, newOrderView(order))
}
