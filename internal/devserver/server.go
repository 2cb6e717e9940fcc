// Package devserver is a runnable stub of the tiffin backend, close enough
// to the production API for the client core to be exercised end to end:
// same endpoints, same success/data/message envelope, same auth scheme.
// It is not the production service and its auth is not production auth.
package devserver

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"tiffinbox/internal/models"
	"tiffinbox/internal/monitoring"
	"tiffinbox/internal/tracking"
)

// Server hosts the stub API.
type Server struct {
	router    *gin.Engine
	storage   *Storage
	hub       *hub
	jwtSecret []byte
	metrics   *monitoring.Metrics
	packages  []models.PackageMeal
	singles   []models.SingleMeal
	now       func() time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics records request counts on the given collector.
func WithMetrics(m *monitoring.Metrics) Option {
	return func(s *Server) { s.metrics = m }
}

// NewServer wires the routes over the given storage.
func NewServer(storage *Storage, jwtSecret string, opts ...Option) *Server {
	s := &Server{
		router:    gin.Default(),
		storage:   storage,
		hub:       newHub(),
		jwtSecret: []byte(jwtSecret),
		packages:  seedPackages(),
		singles:   seedSingles(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes()
	return s
}

// Router returns the gin engine for serving or for tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}

func (s *Server) countRequests() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if s.metrics == nil {
			return
		}
		outcome := "ok"
		if c.Writer.Status() >= 400 {
			outcome = "error"
		}
		s.metrics.CountRequest(c.FullPath(), outcome)
	}
}

func (s *Server) setupRoutes() {
	s.router.Use(s.countRequests())
	s.router.GET("/health", func(c *gin.Context) {
		respondOK(c, gin.H{"status": "ok"})
	})
	s.router.GET("/ws", s.hub.handleWS)

	s.router.POST("/auth/register", s.handleRegister)
	s.router.POST("/auth/login", s.handleLogin)

	s.router.GET("/packages", s.handleListPackages)
	s.router.GET("/packages/day/:day", s.handlePackagesByDay)
	s.router.GET("/singles", s.handleListSingles)
	s.router.GET("/singles/categories", s.handleSingleCategories)
	s.router.GET("/singles/category/:category", s.handleSinglesByCategory)

	s.router.POST("/orders", s.authRequired(), s.handleCreateOrder)
	s.router.GET("/orders", s.handleListOrders)
	s.router.GET("/orders/:id", s.handleGetOrder)
	s.router.PATCH("/orders/:id/status", s.handleUpdateStatus)
}

// --- envelope helpers ---

func respondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func respondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

// --- auth ---

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

func (s *Server) issueToken(user *UserRow) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"phone": user.Phone,
		"role":  user.Role,
		"exp":   s.now().Add(72 * time.Hour).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

// authRequired validates the bearer token before order creation, the one
// write the production API protects.
func (s *Server) authRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			respondError(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}
		tokenString := strings.TrimPrefix(header, "Bearer ")

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return s.jwtSecret, nil
		})
		if err != nil || !token.Valid {
			respondError(c, http.StatusUnauthorized, "Invalid token")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) handleRegister(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email"`
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "name, phone and password are required")
		return
	}
	if req.Role == "" {
		req.Role = models.RoleCustomer
	}

	row := &UserRow{
		ID:       uuid.NewString(),
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: hashPassword(req.Password),
		Role:     req.Role,
	}
	if err := s.storage.CreateUser(row); err != nil {
		respondError(c, http.StatusBadRequest, "phone already registered")
		return
	}
	respondCreated(c, gin.H{"id": row.ID})
}

func (s *Server) handleLogin(c *gin.Context) {
	var req struct {
		Phone    string `json:"phone" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "phone and password are required")
		return
	}

	user, err := s.storage.UserByPhone(req.Phone)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "lookup failed")
		return
	}
	if user == nil || user.Password != hashPassword(req.Password) {
		respondError(c, http.StatusUnauthorized, "invalid phone or password")
		return
	}

	token, err := s.issueToken(user)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "could not issue token")
		return
	}
	respondOK(c, gin.H{
		"user": models.User{
			ID: user.ID, Name: user.Name, Email: user.Email,
			Phone: user.Phone, Role: user.Role, Address: user.Address,
		},
		"token": token,
	})
}

// --- menu ---

func (s *Server) handleListPackages(c *gin.Context) {
	respondOK(c, s.packages)
}

func (s *Server) handlePackagesByDay(c *gin.Context) {
	day := c.Param("day")
	mealType := c.Query("mealType")

	var out []models.PackageMeal
	for _, p := range s.packages {
		if !strings.EqualFold(p.Day, day) {
			continue
		}
		if mealType != "" && !strings.EqualFold(p.MealType, mealType) {
			continue
		}
		out = append(out, p)
	}
	respondOK(c, out)
}

func (s *Server) handleListSingles(c *gin.Context) {
	var out []models.SingleMeal
	for _, item := range s.singles {
		if item.Visible {
			out = append(out, item)
		}
	}
	respondOK(c, out)
}

func (s *Server) handleSinglesByCategory(c *gin.Context) {
	category := c.Param("category")
	var out []models.SingleMeal
	for _, item := range s.singles {
		if item.Visible && strings.EqualFold(item.Category, category) {
			out = append(out, item)
		}
	}
	respondOK(c, out)
}

func (s *Server) handleSingleCategories(c *gin.Context) {
	seen := make(map[string]bool)
	var categories []string
	for _, item := range s.singles {
		if item.Visible && !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}
	respondOK(c, categories)
}

// --- orders ---

func (s *Server) handleCreateOrder(c *gin.Context) {
	var order models.Order
	if err := c.ShouldBindJSON(&order); err != nil {
		respondError(c, http.StatusBadRequest, "invalid order payload")
		return
	}
	if len(order.Items) == 0 {
		respondError(c, http.StatusBadRequest, "order has no items")
		return
	}

	// A lost response followed by a retry must not create a second order.
	if existing, err := s.storage.OrderByIdempotencyKey(order.IdempotencyKey); err == nil && existing != nil {
		respondCreated(c, gin.H{"id": existing.ID})
		return
	}

	itemsJSON, err := json.Marshal(order.Items)
	if err != nil {
		respondError(c, http.StatusBadRequest, "invalid order items")
		return
	}

	row := &OrderRow{
		ID:             "ord-" + uuid.NewString()[:8],
		Phone:          order.Customer.Phone,
		CustomerName:   order.Customer.Name,
		Address:        order.Customer.Address,
		ItemsJSON:      string(itemsJSON),
		TotalAmount:    order.TotalAmount,
		PaymentMethod:  order.PaymentMethod,
		Notes:          order.Notes,
		DeliveryDate:   order.DeliveryInfo.Date,
		DeliveryTime:   order.DeliveryInfo.Time,
		IsToday:        order.DeliveryInfo.IsToday,
		Status:         string(models.OrderStatusPlaced),
		IdempotencyKey: order.IdempotencyKey,
		CreatedAt:      s.now(),
	}
	if err := s.storage.CreateOrder(row); err != nil {
		respondError(c, http.StatusInternalServerError, "could not store order")
		return
	}
	respondCreated(c, gin.H{"id": row.ID})
}

func (s *Server) handleGetOrder(c *gin.Context) {
	row, err := s.storage.OrderByID(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "lookup failed")
		return
	}
	if row == nil {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}
	order, err := row.Order()
	if err != nil {
		respondError(c, http.StatusInternalServerError, "stored order is corrupt")
		return
	}
	respondOK(c, order)
}

func (s *Server) handleListOrders(c *gin.Context) {
	phone := c.Query("phone")
	if phone == "" {
		respondError(c, http.StatusBadRequest, "phone query parameter required")
		return
	}

	rows, err := s.storage.OrdersByPhone(phone)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "lookup failed")
		return
	}
	orders := make([]*models.Order, 0, len(rows))
	for i := range rows {
		order, err := rows[i].Order()
		if err != nil {
			log.Printf("devserver: skipping corrupt order %s: %v", rows[i].ID, err)
			continue
		}
		orders = append(orders, order)
	}
	respondOK(c, orders)
}

// handleUpdateStatus drives the delivery lifecycle during development and
// pushes the change to websocket subscribers.
func (s *Server) handleUpdateStatus(c *gin.Context) {
	var req struct {
		Status models.OrderStatus `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "status is required")
		return
	}
	if req.Status != models.OrderStatusCancelled && tracking.StepIndex(req.Status) < 0 {
		respondError(c, http.StatusBadRequest, "unknown status")
		return
	}

	id := c.Param("id")
	row, err := s.storage.OrderByID(id)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "lookup failed")
		return
	}
	if row == nil {
		respondError(c, http.StatusNotFound, "Order not found")
		return
	}

	var riderJSON string
	if req.Status == models.OrderStatusPickedUp && row.RiderJSON == "" {
		data, _ := json.Marshal(seedRider())
		riderJSON = string(data)
	}
	if err := s.storage.UpdateOrderStatus(id, string(req.Status), riderJSON); err != nil {
		respondError(c, http.StatusInternalServerError, "could not update status")
		return
	}

	s.hub.broadcast(statusEvent{OrderID: id, Status: string(req.Status)})
	respondOK(c, gin.H{"id": id, "status": req.Status})
}
