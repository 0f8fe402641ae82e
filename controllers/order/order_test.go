package orderControllers

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/plantstore-dev/plantstore-api/models"
	"golang.org/x/sync/errgroup"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(&models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	return db
}

func uintPtr(v uint) *uint { return &v }

func validRequest() CreateOrderRequest {
	return CreateOrderRequest{
		GuestEmail:      "guest@example.com",
		Phone:           "555-0100",
		TotalAmount:     65,
		ShippingAddress: "12 Garden Lane",
		PaymentMethod:   "cod",
		Items: []OrderItemInput{
			{PlantID: 1, Quantity: 2, Price: 25},
			{PlantID: 2, Quantity: 1, Price: 15},
		},
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	return count
}

func TestCreateOrderRequiresIdentity(t *testing.T) {
	db := openTestDB(t)

	req := validRequest()
	req.GuestEmail = ""
	if _, err := CreateOrder(db, req); !errors.Is(err, ErrIdentityRequired) {
		t.Fatalf("expected ErrIdentityRequired, got %v", err)
	}
	if n := countRows(t, db, &models.Order{}); n != 0 {
		t.Fatalf("expected no orders written, got %d", n)
	}
}

func TestCreateOrderRequiresItems(t *testing.T) {
	db := openTestDB(t)

	req := validRequest()
	req.Items = nil
	if _, err := CreateOrder(db, req); !errors.Is(err, ErrNoItems) {
		t.Fatalf("expected ErrNoItems, got %v", err)
	}
	if n := countRows(t, db, &models.Order{}); n != 0 {
		t.Fatalf("expected no orders written, got %d", n)
	}
}

func TestCreateOrderPersistsHeaderAndItems(t *testing.T) {
	db := openTestDB(t)

	orderID, err := CreateOrder(db, validRequest())
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	order, err := GetOrder(db, orderID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if order.Status != models.OrderStatusPending {
		t.Fatalf("expected pending status, got %q", order.Status)
	}
	if order.OrderRef == "" {
		t.Fatal("expected an order reference")
	}
	if len(order.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(order.Items))
	}
	// Caller-supplied prices are written verbatim.
	if order.Items[0].Price != 25 || order.Items[1].Price != 15 {
		t.Fatalf("unexpected item prices: %+v", order.Items)
	}
}

func TestCreateOrderRollsBackWhenItemInsertFails(t *testing.T) {
	db := openTestDB(t)

	// The second item violates the quantity check constraint; the
	// header insert succeeds first, so the whole unit of work must be
	// rolled back.
	req := validRequest()
	req.Items = []OrderItemInput{
		{PlantID: 1, Quantity: 2, Price: 25},
		{PlantID: 2, Quantity: -1, Price: 15},
	}

	_, err := CreateOrder(db, req)
	if !errors.Is(err, ErrOrderCreation) {
		t.Fatalf("expected ErrOrderCreation, got %v", err)
	}

	if n := countRows(t, db, &models.Order{}); n != 0 {
		t.Fatalf("expected zero orders after rollback, got %d", n)
	}
	if n := countRows(t, db, &models.OrderItem{}); n != 0 {
		t.Fatalf("expected zero order items after rollback, got %d", n)
	}
}

func TestConcurrentCreateOrdersStayIsolated(t *testing.T) {
	db := openTestDB(t)

	// Shared-cache sqlite permits one writer at a time. Capping the pool
	// to a single connection makes concurrent transactions queue on
	// connection checkout instead of surfacing lock errors, while the
	// goroutines still race for it.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	const n = 8
	ids := make([]uint, n)
	var g errgroup.Group
	for i := 0; i < n; i++ {
		g.Go(func() error {
			req := validRequest()
			req.GuestEmail = fmt.Sprintf("shopper%d@example.com", i)
			id, err := CreateOrder(db, req)
			if err != nil {
				return err
			}
			ids[i] = id
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatalf("concurrent CreateOrder failed: %v", err)
	}

	// Each order holds exactly its own two items; no transaction leaked
	// rows into another order.
	for _, id := range ids {
		order, err := GetOrder(db, id)
		if err != nil {
			t.Fatalf("GetOrder(%d) failed: %v", id, err)
		}
		if len(order.Items) != 2 {
			t.Fatalf("order %d: expected 2 items, got %d", id, len(order.Items))
		}
		for _, item := range order.Items {
			if item.OrderID != id {
				t.Fatalf("order %d: item %d belongs to order %d", id, item.ID, item.OrderID)
			}
		}
	}
	if got := countRows(t, db, &models.Order{}); got != n {
		t.Fatalf("expected %d orders, got %d", n, got)
	}
	if got := countRows(t, db, &models.OrderItem{}); got != 2*n {
		t.Fatalf("expected %d order items, got %d", 2*n, got)
	}
}

func TestListOrdersByStatusFoldsItems(t *testing.T) {
	db := openTestDB(t)

	firstID, err := CreateOrder(db, validRequest())
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	// An order with no items still appears in the listing, with an
	// empty items array.
	bare := models.Order{
		OrderRef:   newOrderRef(),
		GuestEmail: "bare@example.com",
		Status:     models.OrderStatusPending,
		OrderDate:  time.Now(),
	}
	if err := db.Create(&bare).Error; err != nil {
		t.Fatalf("failed to seed bare order: %v", err)
	}

	shipped := models.Order{
		OrderRef:   newOrderRef(),
		GuestEmail: "other@example.com",
		Status:     models.OrderStatusShipped,
		OrderDate:  time.Now(),
	}
	if err := db.Create(&shipped).Error; err != nil {
		t.Fatalf("failed to seed shipped order: %v", err)
	}

	orders, err := ListOrdersByStatus(db, "pending")
	if err != nil {
		t.Fatalf("ListOrdersByStatus failed: %v", err)
	}

	if len(orders) != 2 {
		t.Fatalf("expected 2 pending orders, got %d", len(orders))
	}
	if orders[0].OrderID != firstID || orders[1].OrderID != bare.ID {
		t.Fatalf("expected ascending order-id ordering, got %d then %d", orders[0].OrderID, orders[1].OrderID)
	}
	if len(orders[0].Items) != 2 {
		t.Fatalf("expected 2 folded items on the first order, got %d", len(orders[0].Items))
	}
	if orders[1].Items == nil || len(orders[1].Items) != 0 {
		t.Fatalf("expected empty (non-nil) items on the bare order, got %+v", orders[1].Items)
	}
}

func TestListOrdersByStatusRejectsBadFilters(t *testing.T) {
	db := openTestDB(t)

	if _, err := ListOrdersByStatus(db, "bogus"); !errors.Is(err, models.ErrInvalidOrderStatus) {
		t.Fatalf("expected ErrInvalidOrderStatus for unknown status, got %v", err)
	}
	// Terminal states are valid enum members but not listing filters.
	if _, err := ListOrdersByStatus(db, "delivered"); !errors.Is(err, models.ErrInvalidOrderStatus) {
		t.Fatalf("expected ErrInvalidOrderStatus for terminal status, got %v", err)
	}
}

func TestUpdateOrderStatus(t *testing.T) {
	db := openTestDB(t)

	orderID, err := CreateOrder(db, validRequest())
	if err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	t.Run("invalid status", func(t *testing.T) {
		if _, err := UpdateOrderStatus(db, orderID, "bogus"); !errors.Is(err, models.ErrInvalidOrderStatus) {
			t.Fatalf("expected ErrInvalidOrderStatus, got %v", err)
		}
	})

	t.Run("missing order", func(t *testing.T) {
		if _, err := UpdateOrderStatus(db, 9999, "shipped"); !errors.Is(err, ErrOrderNotFound) {
			t.Fatalf("expected ErrOrderNotFound, got %v", err)
		}
	})

	t.Run("any enum member is writable", func(t *testing.T) {
		for _, status := range []string{"shipped", "pending", "cancelled"} {
			got, err := UpdateOrderStatus(db, orderID, status)
			if err != nil {
				t.Fatalf("update to %q failed: %v", status, err)
			}
			if string(got) != status {
				t.Fatalf("expected %q, got %q", status, got)
			}
		}

		order, err := GetOrder(db, orderID)
		if err != nil {
			t.Fatalf("GetOrder failed: %v", err)
		}
		if order.Status != models.OrderStatusCancelled {
			t.Fatalf("expected cancelled, got %q", order.Status)
		}
	})
}

func TestGetOrderNotFound(t *testing.T) {
	db := openTestDB(t)

	if _, err := GetOrder(db, 12345); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestListUserOrders(t *testing.T) {
	db := openTestDB(t)

	req := validRequest()
	req.UserID = uintPtr(7)
	if _, err := CreateOrder(db, req); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	orders, err := ListUserOrders(db, 7)
	if err != nil {
		t.Fatalf("ListUserOrders failed: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 order, got %d", len(orders))
	}

	if _, err := ListUserOrders(db, 8); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound for user without orders, got %v", err)
	}
}
