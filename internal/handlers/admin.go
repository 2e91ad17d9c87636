package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"santamartha/storefront/internal/models"
	"santamartha/storefront/internal/selectors"
	"santamartha/storefront/internal/state"
)

type dashboardView struct {
	selectors.DashboardMetrics
	Errors map[string]string `json:"errors,omitempty"`
}

// Dashboard loads orders, products and users concurrently and derives the
// back-office metrics from whatever settled.
func (h HandlerSet) Dashboard(c *gin.Context) {
	ctx := actionContext(c)
	var g errgroup.Group
	g.Go(func() error { return h.store.Orders.FetchAll(ctx) })
	g.Go(func() error { return h.store.Products.FetchUnfiltered(ctx) })
	g.Go(func() error { return h.store.Users.FetchAll(ctx) })
	_ = g.Wait()

	orders := h.store.Orders.Snapshot()
	products := h.store.Products.Snapshot()
	users := h.store.Users.Snapshot()

	errs := map[string]string{}
	for name, msg := range map[string]string{"orders": orders.Error, "products": products.Error, "users": users.Error} {
		if msg != "" {
			errs[name] = msg
		}
	}

	c.JSON(http.StatusOK, dashboardView{
		DashboardMetrics: h.memo.Dashboard(orders, products.Items, users.Items, h.now()),
		Errors:           errs,
	})
}

type adminProductsView struct {
	Products   []models.Product  `json:"products"`
	Archived   []models.Product  `json:"archived"`
	Categories []models.Category `json:"categories"`
	Status     state.Status      `json:"status"`
	Error      string            `json:"error,omitempty"`
}

func (h HandlerSet) AdminProducts(c *gin.Context) {
	ctx := actionContext(c)
	var g errgroup.Group
	g.Go(func() error { return h.store.Products.FetchUnfiltered(ctx) })
	g.Go(func() error { return h.store.Categories.FetchAll(ctx) })
	_ = g.Wait()

	h.renderAdminProducts(c, http.StatusOK)
}

func (h HandlerSet) renderAdminProducts(c *gin.Context, status int) {
	products := h.store.Products.Snapshot()
	active := selectors.ActiveProducts(products.Items)
	if search := c.Query("search"); search != "" {
		active = selectors.SearchByName(active, search)
	}

	c.JSON(status, adminProductsView{
		Products:   active,
		Archived:   selectors.ArchivedProducts(products.Items),
		Categories: h.store.Categories.Snapshot().Items,
		Status:     products.Status,
		Error:      products.Error,
	})
}

func (h HandlerSet) CreateProduct(c *gin.Context) {
	var req models.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Name == nil || req.Price == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and price are required"})
		return
	}

	product, err := h.store.Products.Create(actionContext(c), req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product})
}

func (h HandlerSet) UpdateProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.ProductInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.store.Products.Update(actionContext(c), id, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"product": product})
}

// ArchiveProduct archives by default; ?archive=false restores.
func (h HandlerSet) ArchiveProduct(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	archive, err := strconv.ParseBool(c.DefaultQuery("archive", "true"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "archive must be true or false"})
		return
	}

	if _, err := h.store.Products.SetArchived(actionContext(c), id, archive); err != nil {
		respondError(c, err)
		return
	}

	h.renderAdminProducts(c, http.StatusOK)
}

type categoryRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

func (h HandlerSet) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	category, err := h.store.Categories.Create(actionContext(c), models.CategoryInput{
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"category": category})
}

type stockView struct {
	Products      []models.Product `json:"products"`
	LowStock      []models.Product `json:"lowStock"`
	OutOfStock    []models.Product `json:"outOfStock"`
	LowStockCount int              `json:"lowStockCount"`
	Status        state.Status     `json:"status"`
	Error         string           `json:"error,omitempty"`
}

func (h HandlerSet) StockView(c *gin.Context) {
	_ = h.store.Products.FetchUnfiltered(actionContext(c))
	h.renderStock(c)
}

func (h HandlerSet) renderStock(c *gin.Context) {
	products := h.store.Products.Snapshot()
	active := selectors.ActiveProducts(products.Items)
	c.JSON(http.StatusOK, stockView{
		Products:      active,
		LowStock:      selectors.LowStock(active),
		OutOfStock:    selectors.OutOfStock(active),
		LowStockCount: selectors.LowStockCount(active),
		Status:        products.Status,
		Error:         products.Error,
	})
}

type stockRequest struct {
	Stock *int `json:"stock" binding:"required,min=0"`
}

func (h HandlerSet) UpdateStock(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req stockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.store.Products.Update(actionContext(c), id, models.ProductInput{Stock: req.Stock}); err != nil {
		respondError(c, err)
		return
	}

	h.renderStock(c)
}

type statusOption struct {
	Value models.OrderStatus `json:"value"`
	Label string             `json:"label"`
}

type adminOrdersView struct {
	Orders   []orderView    `json:"orders"`
	Statuses []statusOption `json:"statuses"`
	Filter   string         `json:"filter,omitempty"`
	Status   state.Status   `json:"status"`
	Error    string         `json:"error,omitempty"`
}

func statusOptions() []statusOption {
	options := make([]statusOption, 0, len(models.OrderStatuses))
	for _, status := range models.OrderStatuses {
		options = append(options, statusOption{Value: status, Label: status.Label()})
	}
	return options
}

func (h HandlerSet) AdminOrders(c *gin.Context) {
	_ = h.store.Orders.FetchAll(actionContext(c))

	snapshot := h.store.Orders.Snapshot()
	orders := snapshot.Items
	filter := c.Query("status")
	if filter != "" {
		orders = selectors.OrdersByStatus(orders, models.OrderStatus(filter))
	}

	c.JSON(http.StatusOK, adminOrdersView{
		Orders:   newOrderViews(orders),
		Statuses: statusOptions(),
		Filter:   filter,
		Status:   snapshot.Status,
		Error:    snapshot.Error,
	})
}

type orderDetailView struct {
	Order    *orderView     `json:"order"`
	Statuses []statusOption `json:"statuses"`
	Error    string         `json:"error,omitempty"`
}

// AdminOrderDetail serves the order from state when the list already holds
// it and fetches it otherwise.
func (h HandlerSet) AdminOrderDetail(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	order, found := h.store.Orders.Get(id)
	if !found {
		var err error
		if order, err = h.store.Orders.FetchByID(actionContext(c), id); err != nil {
			c.JSON(http.StatusOK, orderDetailView{Statuses: statusOptions(), Error: err.Error()})
			return
		}
	}

	view := newOrderView(order)
	c.JSON(http.StatusOK, orderDetailView{Order: &view, Statuses: statusOptions()})
}

type orderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

func (h HandlerSet) UpdateOrderStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req orderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.store.Orders.UpdateStatus(actionContext(c), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}

	view := newOrderView(order)
	c.JSON(http.StatusOK, orderDetailView{Order: &view, Statuses: statusOptions()})
}

type usersView struct {
	Users  []models.User `json:"users"`
	Status state.Status  `json:"status"`
	Error  string        `json:"error,omitempty"`
}

func (h HandlerSet) usersView() usersView {
	snapshot := h.store.Users.Snapshot()
	return usersView{Users: snapshot.Items, Status: snapshot.Status, Error: snapshot.Error}
}

func (h HandlerSet) AdminUsers(c *gin.Context) {
	_ = h.store.Users.FetchAll(actionContext(c))
	c.JSON(http.StatusOK, h.usersView())
}

type newUserRequest struct {
	registerRequest
	Role models.UserRole `json:"role" binding:"required,oneof=USER ADMIN"`
}

// CreateUser registers an account on someone else's behalf and reloads the
// list. The admin's own session is untouched.
func (h HandlerSet) CreateUser(c *gin.Context) {
	var req newUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := actionContext(c)
	if _, err := h.store.Auth.Register(ctx, models.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Phone:    req.Phone,
		Role:     req.Role,
	}); err != nil {
		respondError(c, err)
		return
	}

	_ = h.store.Users.FetchAll(ctx)
	c.JSON(http.StatusCreated, h.usersView())
}

func (h HandlerSet) UpdateUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var req models.UserUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if _, err := h.store.Users.Update(actionContext(c), id, req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.usersView())
}

func (h HandlerSet) DeleteUser(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := h.store.Users.Delete(actionContext(c), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, h.usersView())
}
