package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"bento-backend/internal/domain"
	"bento-backend/internal/infra/ratelimit"
	"bento-backend/internal/repository"
	"bento-backend/internal/services"
)

const (
	sessionCookieName   = "guest_session_id"
	sessionCookieMaxAge = int(domain.SessionTTL / time.Second)
)

type Handler struct {
	sessions  *services.SessionService
	carts     *services.CartService
	migration *services.MigrationService
	orders    *services.OrderService
	dashboard *services.DashboardService
	catalog   repository.CatalogRepository
	limiter   *ratelimit.Limiter
}

func NewHandler(
	sessions *services.SessionService,
	carts *services.CartService,
	migration *services.MigrationService,
	orders *services.OrderService,
	dashboard *services.DashboardService,
	catalog repository.CatalogRepository,
	limiter *ratelimit.Limiter,
) *Handler {
	return &Handler{
		sessions:  sessions,
		carts:     carts,
		migration: migration,
		orders:    orders,
		dashboard: dashboard,
		catalog:   catalog,
		limiter:   limiter,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	guest := r.Group("/guest")
	{
		guest.POST("/session", h.CreateGuestSession)
		guest.GET("/session", h.GetGuestSession)
		guest.POST("/session/store", h.SelectStore)
		guest.DELETE("/session", h.DeleteGuestSession)
		guest.GET("/menus", h.GuestMenus)
		guest.POST("/cart/add", h.AddGuestCartItem)
		guest.GET("/cart", h.GetGuestCart)
		guest.PUT("/cart/item/:item_id", h.UpdateGuestCartItem)
		guest.DELETE("/cart/item/:item_id", h.DeleteGuestCartItem)
	}

	customer := r.Group("/customer", h.requireUser)
	{
		customer.POST("/cart/claim", h.ClaimGuestCart)
		customer.GET("/cart", h.GetUserCart)
		customer.POST("/cart/add", h.AddUserCartItem)
		customer.PUT("/cart/item/:item_id", h.UpdateUserCartItem)
		customer.DELETE("/cart/item/:item_id", h.DeleteUserCartItem)
		customer.DELETE("/cart", h.ClearUserCart)
		customer.POST("/orders", h.CreateOrder)
		customer.GET("/orders", h.ListMyOrders)
		customer.GET("/orders/:order_id", h.GetMyOrder)
		customer.PUT("/orders/:order_id/cancel", h.CancelMyOrder)
	}

	store := r.Group("/store", h.requireStaff)
	{
		store.GET("/orders", h.ListStoreOrders)
		store.PUT("/orders/:order_id/status", h.UpdateOrderStatus)
		store.GET("/dashboard", h.Dashboard)
		store.GET("/dashboard/weekly-sales", h.WeeklySales)
	}
}

// ----- identity -----

// Token verification happens upstream; the gateway forwards the identity
// as headers. This layer only shapes them into a domain.User.
func userFromHeaders(c *gin.Context) *domain.User {
	idStr := c.GetHeader("X-User-ID")
	if idStr == "" {
		return nil
	}
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil {
		return nil
	}
	user := &domain.User{ID: id, Role: domain.Role(c.GetHeader("X-User-Role"))}
	if storeStr := c.GetHeader("X-Store-ID"); storeStr != "" {
		if storeID, err := strconv.ParseUint(storeStr, 10, 64); err == nil {
			user.StoreID = &storeID
		}
	}
	return user
}

func (h *Handler) requireUser(c *gin.Context) {
	user := userFromHeaders(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.Set("user", user)
	c.Next()
}

func (h *Handler) requireStaff(c *gin.Context) {
	user := userFromHeaders(c)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	switch user.Role {
	case domain.RoleOwner, domain.RoleManager, domain.RoleStaff:
		c.Set("user", user)
		c.Next()
	default:
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "staff role required"})
	}
}

func currentUser(c *gin.Context) *domain.User {
	return c.MustGet("user").(*domain.User)
}

// ----- guest session -----

func (h *Handler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookieName, token, sessionCookieMaxAge, "/", "", false, true)
}

func (h *Handler) sessionToken(c *gin.Context) string {
	token, err := c.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	return token
}

func (h *Handler) CreateGuestSession(c *gin.Context) {
	if h.limiter != nil {
		allowed, err := h.limiter.Allow(c.Request.Context(), "guest-session:"+c.ClientIP())
		if err != nil {
			log.Printf("rate limiter unavailable: %v", err)
		}
		if !allowed {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many session requests"})
			return
		}
	}

	session, created, err := h.sessions.GetOrCreate(c.Request.Context(), h.sessionToken(c))
	if err != nil {
		respondError(c, err)
		return
	}

	h.setSessionCookie(c, session.Token)
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, session)
}

func (h *Handler) GetGuestSession(c *gin.Context) {
	session, err := h.sessions.Resolve(c.Request.Context(), h.sessionToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) SelectStore(c *gin.Context) {
	var req SelectStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.sessions.SelectStore(c.Request.Context(), h.sessionToken(c), req.StoreID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, session)
}

func (h *Handler) DeleteGuestSession(c *gin.Context) {
	if err := h.sessions.Delete(c.Request.Context(), h.sessionToken(c)); err != nil {
		respondError(c, err)
		return
	}
	c.SetCookie(sessionCookieName, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

func (h *Handler) GuestMenus(c *gin.Context) {
	session, err := h.sessions.Resolve(c.Request.Context(), h.sessionToken(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if session.SelectedStoreID == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": services.ErrStoreNotSelected.Error()})
		return
	}

	menus, err := h.catalog.AvailableMenus(c.Request.Context(), *session.SelectedStoreID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menus": menus, "total": len(menus)})
}

// ----- guest cart -----

func (h *Handler) AddGuestCartItem(c *gin.Context) {
	session, err := h.sessions.Resolve(c.Request.Context(), h.sessionToken(c))
	if err != nil {
		respondError(c, err)
		return
	}

	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := h.carts.AddGuestItem(c.Request.Context(), session, req.MenuID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}

func (h *Handler) GetGuestCart(c *gin.Context) {
	session, err := h.sessions.Resolve(c.Request.Context(), h.sessionToken(c))
	if err != nil {
		respondError(c, err)
		return
	}

	snapshot, err := h.carts.GuestSnapshot(c.Request.Context(), session.Token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *Handler) UpdateGuestCartItem(c *gin.Context) {
	session, err := h.sessions.Resolve(c.Request.Context(), h.sessionToken(c))
	if err != nil {
		respondError(c, err)
		return
	}

	itemID, err := parseID(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item_id"})
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := h.carts.UpdateGuestItem(c.Request.Context(), session, itemID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *Handler) DeleteGuestCartItem(c *gin.Context) {
	session, err := h.sessions.Resolve(c.Request.Context(), h.sessionToken(c))
	if err != nil {
		respondError(c, err)
		return
	}

	itemID, err := parseID(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item_id"})
		return
	}

	snapshot, err := h.carts.RemoveGuestItem(c.Request.Context(), session, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

// ----- cart migration -----

// ClaimGuestCart is invoked by the authentication flow right after
// credentials check out. Migration failure is logged and swallowed so the
// login itself never fails on it; rollback leaves the guest cart intact
// for the next attempt.
func (h *Handler) ClaimGuestCart(c *gin.Context) {
	user := currentUser(c)

	result, err := h.migration.MigrateGuestCartToUser(c.Request.Context(), h.sessionToken(c), user.ID)
	if err != nil {
		log.Printf("cart migration for user %d: %v", user.ID, err)
		c.JSON(http.StatusOK, domain.MigrationResult{})
		return
	}
	if result.TotalQuantity > 0 {
		log.Printf("cart migration for user %d: migrated=%d merged=%d quantity=%d",
			user.ID, result.MigratedItems, result.MergedItems, result.TotalQuantity)
	}
	c.JSON(http.StatusOK, result)
}

// ----- user cart -----

func (h *Handler) GetUserCart(c *gin.Context) {
	snapshot, err := h.carts.UserSnapshot(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *Handler) AddUserCartItem(c *gin.Context) {
	var req CartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := h.carts.AddUserItem(c.Request.Context(), currentUser(c).ID, req.MenuID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, snapshot)
}

func (h *Handler) UpdateUserCartItem(c *gin.Context) {
	itemID, err := parseID(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item_id"})
		return
	}

	var req UpdateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	snapshot, err := h.carts.UpdateUserItem(c.Request.Context(), currentUser(c).ID, itemID, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *Handler) DeleteUserCartItem(c *gin.Context) {
	itemID, err := parseID(c.Param("item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item_id"})
		return
	}

	snapshot, err := h.carts.RemoveUserItem(c.Request.Context(), currentUser(c).ID, itemID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, snapshot)
}

func (h *Handler) ClearUserCart(c *gin.Context) {
	if err := h.carts.ClearUserCart(c.Request.Context(), currentUser(c).ID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ----- orders -----

func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.CreateOrder(c.Request.Context(), currentUser(c).ID, req.MenuID, req.Quantity, req.DeliveryTime, req.Notes)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order)
}

func (h *Handler) ListMyOrders(c *gin.Context) {
	filter, err := listFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, total, err := h.orders.ListUserOrders(c.Request.Context(), currentUser(c).ID, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": total})
}

func (h *Handler) GetMyOrder(c *gin.Context) {
	orderID, err := parseID(c.Param("order_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order_id"})
		return
	}

	order, err := h.orders.GetOrder(c.Request.Context(), currentUser(c).ID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) CancelMyOrder(c *gin.Context) {
	orderID, err := parseID(c.Param("order_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order_id"})
		return
	}

	order, err := h.orders.CancelOrder(c.Request.Context(), currentUser(c).ID, orderID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ----- store staff -----

func (h *Handler) ListStoreOrders(c *gin.Context) {
	filter, err := listFilter(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	orders, total, err := h.orders.ListStoreOrders(c.Request.Context(), currentUser(c), filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orders": orders, "total": total})
}

func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	orderID, err := parseID(c.Param("order_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order_id"})
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	next, err := domain.ParseOrderStatus(req.Status)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.UpdateStatus(c.Request.Context(), currentUser(c), orderID, next)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

func (h *Handler) Dashboard(c *gin.Context) {
	summary, err := h.dashboard.Summary(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *Handler) WeeklySales(c *gin.Context) {
	weekly, err := h.dashboard.Weekly(c.Request.Context(), currentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, weekly)
}

// ----- helpers -----

func parseID(s string) (uint64, error) {
	return strconv.ParseUint(s, 10, 64)
}

func listFilter(c *gin.Context) (repository.OrderListFilter, error) {
	filter := repository.OrderListFilter{
		Sort: c.DefaultQuery("sort", "newest"),
	}

	if raw := c.Query("status"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			status, err := domain.ParseOrderStatus(strings.TrimSpace(part))
			if err != nil {
				return filter, err
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if err != nil || perPage < 1 || perPage > 100 {
		perPage = 20
	}
	filter.Limit = perPage
	filter.Offset = (page - 1) * perPage
	return filter, nil
}

func respondError(c *gin.Context, err error) {
	var invalid *domain.InvalidTransitionError

	switch {
	case errors.Is(err, services.ErrSessionExpiredOrMissing):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrStoreNotFound),
		errors.Is(err, services.ErrMenuNotFound),
		errors.Is(err, services.ErrItemNotFound),
		errors.Is(err, services.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrStoreNotSelected),
		errors.Is(err, services.ErrStoreMismatch),
		errors.Is(err, services.ErrMenuUnavailable),
		errors.Is(err, services.ErrInvalidQuantity),
		errors.Is(err, services.ErrNoStore):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &invalid):
		c.JSON(http.StatusBadRequest, gin.H{"error": invalid.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
