package orderControllers

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/plantstore-dev/plantstore-api/models"
	"gorm.io/gorm"
)

var (
	ErrIdentityRequired = errors.New("either user_id or guest_email is required")
	ErrNoItems          = errors.New("order must include at least one item")
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderCreation    = errors.New("failed to create order")
)

// Statuses an order listing may be filtered by. Terminal states are
// fetched individually, not as fulfilment queues.
var listableStatuses = map[models.OrderStatus]bool{
	models.OrderStatusPending:    true,
	models.OrderStatusConfirmed:  true,
	models.OrderStatusProcessing: true,
	models.OrderStatusReady:      true,
	models.OrderStatusShipped:    true,
}

// -------- Request / View Structs --------

type OrderItemInput struct {
	PlantID  uint    `json:"plant_id" binding:"required"`
	Quantity int     `json:"quantity" binding:"required"`
	Price    float64 `json:"price"`
}

type CreateOrderRequest struct {
	UserID          *uint            `json:"user_id"`
	GuestEmail      string           `json:"guest_email"`
	Phone           string           `json:"phone"`
	TotalAmount     float64          `json:"total_amount"`
	ShippingAddress string           `json:"shipping_address"`
	PaymentMethod   string           `json:"payment_method"`
	Items           []OrderItemInput `json:"items"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type OrderItemView struct {
	ID       uint    `json:"id"`
	PlantID  uint    `json:"plant_id"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type OrderView struct {
	OrderID         uint               `json:"order_id"`
	OrderRef        string             `json:"order_ref"`
	UserID          *uint              `json:"user_id,omitempty"`
	GuestEmail      string             `json:"guest_email,omitempty"`
	Phone           string             `json:"phone"`
	TotalAmount     float64            `json:"total_amount"`
	ShippingAddress string             `json:"shipping_address"`
	PaymentMethod   string             `json:"payment_method"`
	Status          models.OrderStatus `json:"status"`
	OrderDate       time.Time          `json:"order_date"`
	Items           []OrderItemView    `json:"items"`
}

func newOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// -------- Core Logic --------

// CreateOrder persists the order header and its line items as a single
// unit of work. The transaction checks out a dedicated connection for
// its full duration; any failure rolls the whole order back and the
// connection is released on every exit path. Item prices are written
// as supplied by the caller (price lock at cart time), not re-derived
// from the catalog.
func CreateOrder(db *gorm.DB, req CreateOrderRequest) (uint, error) {
	if req.UserID == nil && req.GuestEmail == "" {
		return 0, ErrIdentityRequired
	}
	if len(req.Items) == 0 {
		return 0, ErrNoItems
	}

	var orderID uint
	err := db.Transaction(func(tx *gorm.DB) error {
		order := models.Order{
			OrderRef:        newOrderRef(),
			UserID:          req.UserID,
			GuestEmail:      req.GuestEmail,
			Phone:           req.Phone,
			TotalAmount:     req.TotalAmount,
			ShippingAddress: req.ShippingAddress,
			PaymentMethod:   req.PaymentMethod,
			Status:          models.OrderStatusPending,
			OrderDate:       time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(req.Items))
		for _, item := range req.Items {
			items = append(items, models.OrderItem{
				OrderID:  order.ID,
				PlantID:  item.PlantID,
				Quantity: item.Quantity,
				Price:    item.Price,
			})
		}
		if err := tx.Create(&items).Error; err != nil {
			return err
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrOrderCreation, err)
	}
	return orderID, nil
}

// ListOrdersByStatus left-joins order items and folds the flat row set
// into one entry per order, each carrying an items array. Orders with
// no items still appear with an empty array. First-seen ordering from
// the query (ascending order id) is preserved.
func ListOrdersByStatus(db *gorm.DB, status string) ([]OrderView, error) {
	parsed, err := models.ParseOrderStatus(status)
	if err != nil {
		return nil, err
	}
	if !listableStatuses[parsed] {
		return nil, models.ErrInvalidOrderStatus
	}

	rows, err := db.Raw(
		`SELECT o.id, o.order_ref, o.user_id, o.guest_email, o.phone, o.total_amount,
		        o.shipping_address, o.payment_method, o.status, o.order_date,
		        oi.id, oi.plant_id, oi.quantity, oi.price
		 FROM orders o
		 LEFT JOIN order_items oi ON oi.order_id = o.id
		 WHERE o.status = ?
		 ORDER BY o.id, oi.id`,
		parsed,
	).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []OrderView{}
	position := map[uint]int{}
	for rows.Next() {
		var (
			view       OrderView
			userID     sql.NullInt64
			guestEmail sql.NullString
			itemID     sql.NullInt64
			plantID    sql.NullInt64
			quantity   sql.NullInt64
			price      sql.NullFloat64
		)
		if err := rows.Scan(
			&view.OrderID, &view.OrderRef, &userID, &guestEmail, &view.Phone,
			&view.TotalAmount, &view.ShippingAddress, &view.PaymentMethod,
			&view.Status, &view.OrderDate,
			&itemID, &plantID, &quantity, &price,
		); err != nil {
			return nil, err
		}

		pos, seen := position[view.OrderID]
		if !seen {
			if userID.Valid {
				id := uint(userID.Int64)
				view.UserID = &id
			}
			view.GuestEmail = guestEmail.String
			view.Items = []OrderItemView{}
			pos = len(orders)
			position[view.OrderID] = pos
			orders = append(orders, view)
		}

		if plantID.Valid {
			orders[pos].Items = append(orders[pos].Items, OrderItemView{
				ID:       uint(itemID.Int64),
				PlantID:  uint(plantID.Int64),
				Quantity: int(quantity.Int64),
				Price:    price.Float64,
			})
		}
	}
	return orders, rows.Err()
}

// GetOrder fetches a single order with its items.
func GetOrder(db *gorm.DB, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := db.Preload("Items").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// ListUserOrders returns a user's orders, newest first.
func ListUserOrders(db *gorm.DB, userID uint) ([]models.Order, error) {
	var orders []models.Order
	if err := db.Preload("Items").
		Where("user_id = ?", userID).
		Order("order_date DESC").
		Find(&orders).Error; err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, ErrOrderNotFound
	}
	return orders, nil
}

// UpdateOrderStatus writes any member of the status enum regardless of
// the order's current status.
func UpdateOrderStatus(db *gorm.DB, orderID uint, status string) (models.OrderStatus, error) {
	parsed, err := models.ParseOrderStatus(status)
	if err != nil {
		return "", err
	}

	result := db.Model(&models.Order{}).Where("id = ?", orderID).Update("status", parsed)
	if result.Error != nil {
		return "", result.Error
	}
	if result.RowsAffected == 0 {
		return "", ErrOrderNotFound
	}
	return parsed, nil
}

// -------- Handlers --------

// POST /orders
func CreateOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		orderID, err := CreateOrder(db, req)
		if err != nil {
			switch {
			case errors.Is(err, ErrIdentityRequired), errors.Is(err, ErrNoItems):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order."})
			}
			return
		}

		if order, err := GetOrder(db, orderID); err == nil {
			broadcastOrderEvent("order_created", *order)
		}

		c.JSON(http.StatusCreated, gin.H{"success": true, "order_id": orderID})
	}
}

// GET /orders
func GetAllOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var orders []models.Order
		if err := db.Preload("Items").Order("order_date DESC").Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
	}
}

// GET /orders/status/:status
func GetOrdersByStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := ListOrdersByStatus(db, c.Param("status"))
		if err != nil {
			if errors.Is(err, models.ErrInvalidOrderStatus) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or unsupported status filter"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
	}
}

// GET /orders/user. The user id comes from the verified token, never the request.
func GetUserOrdersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDVal, exists := c.Get("user_id")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		userID, ok := userIDVal.(uint)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token subject"})
			return
		}

		orders, err := ListUserOrders(db, userID)
		if err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "No orders found for this user."})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching user orders."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "orders": orders})
	}
}

// GET /orders/:orderID
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID64, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}

		order, err := GetOrder(db, uint(orderID64))
		if err != nil {
			if errors.Is(err, ErrOrderNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found."})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching the order."})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
	}
}

// PUT /orders/:orderID/status
func UpdateOrderStatusHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID64, err := strconv.ParseUint(c.Param("orderID"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}

		var req UpdateOrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		status, err := UpdateOrderStatus(db, uint(orderID64), req.Status)
		if err != nil {
			switch {
			case errors.Is(err, models.ErrInvalidOrderStatus):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, ErrOrderNotFound):
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "Order not found or no change made."})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Error updating the order status."})
			}
			return
		}

		if order, err := GetOrder(db, uint(orderID64)); err == nil {
			broadcastOrderEvent("order_status_updated", *order)
		}

		c.JSON(http.StatusOK, gin.H{
			"success":          true,
			"message":          "Order status updated successfully.",
			"updated_order_id": orderID64,
			"status":           status,
		})
	}
}
