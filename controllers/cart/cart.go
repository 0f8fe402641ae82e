package cartControllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/plantstore-dev/plantstore-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrIdentityRequired = errors.New("user_id or guest_id is required")
	ErrPlantNotFound    = errors.New("plant not found")
	ErrCartNotFound     = errors.New("cart is empty")
	ErrItemNotFound     = errors.New("cart item not found or already deleted")
)

type AddToCartInput struct {
	UserID   *uint   `json:"user_id"`
	GuestID  *string `json:"guest_id"`
	PlantID  uint    `json:"plant_id" binding:"required"`
	Quantity int     `json:"quantity" binding:"required,min=1"`
}

type CartLine struct {
	ID        uint    `json:"id"`
	PlantID   uint    `json:"plant_id"`
	PlantName string  `json:"plant_name"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Subtotal  float64 `json:"subtotal"`
}

type CartView struct {
	CartID     uint       `json:"cart_id"`
	Items      []CartLine `json:"items"`
	TotalPrice float64    `json:"total_price"`
}

// -------- Core Logic --------

// cartByIdentity starts a fresh query scoped to whichever identity
// field is set. The user id wins when both are supplied. Callers get a
// new chain every time; executed chains are never reused.
func cartByIdentity(db *gorm.DB, userID *uint, guestID *string) *gorm.DB {
	if userID != nil {
		return db.Where("user_id = ?", *userID)
	}
	return db.Where("guest_id = ?", *guestID)
}

// resolveOrCreateCart looks up the cart for whichever identity field is
// set, lazily creating one with a zero total. A create lost to a
// concurrent insert trips the identity unique index; the winner's row
// is re-read and returned instead.
func resolveOrCreateCart(db *gorm.DB, userID *uint, guestID *string) (*models.Cart, error) {
	if userID == nil && guestID == nil {
		return nil, ErrIdentityRequired
	}

	var cart models.Cart
	err := cartByIdentity(db, userID, guestID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = models.Cart{UserID: userID, GuestID: guestID, TotalPrice: 0}
	if createErr := db.Create(&cart).Error; createErr != nil {
		var winner models.Cart
		if retryErr := cartByIdentity(db, userID, guestID).First(&winner).Error; retryErr == nil {
			return &winner, nil
		}
		return nil, createErr
	}
	return &cart, nil
}

// AddToCart resolves (or creates) the identity's cart, snapshots the
// plant's current price into the line item, accumulating quantity when
// the plant is already in the cart, then recomputes the cart total
// from the full item set. Returns the cart id.
func AddToCart(db *gorm.DB, input AddToCartInput) (uint, error) {
	cart, err := resolveOrCreateCart(db, input.UserID, input.GuestID)
	if err != nil {
		return 0, err
	}

	var plant models.Plant
	if err := db.First(&plant, "id = ?", input.PlantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrPlantNotFound
		}
		return 0, err
	}

	item := models.CartItem{
		CartID:   cart.ID,
		PlantID:  input.PlantID,
		Quantity: input.Quantity,
		Price:    plant.Price,
		AddedAt:  time.Now(),
	}
	if err := db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "plant_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", input.Quantity),
			"price":    plant.Price,
			"added_at": time.Now(),
		}),
	}).Create(&item).Error; err != nil {
		return 0, err
	}

	if err := recomputeCartTotal(db, cart.ID); err != nil {
		return 0, err
	}
	return cart.ID, nil
}

// recomputeCartTotal rewrites the cached total from the full item set.
// Never adjusted incrementally, so the cache cannot drift.
func recomputeCartTotal(db *gorm.DB, cartID uint) error {
	return db.Exec(
		`UPDATE carts
		 SET total_price = (
		     SELECT COALESCE(SUM(quantity * price), 0) FROM cart_items WHERE cart_id = ?
		 ) WHERE id = ?`,
		cartID, cartID,
	).Error
}

// GetCart returns the identity's cart with item lines joined against
// plant names. The total is computed from the line subtotals at read
// time rather than trusted from the stored cache.
func GetCart(db *gorm.DB, userID *uint, guestID *string) (*CartView, error) {
	if userID == nil && guestID == nil {
		return nil, ErrIdentityRequired
	}

	var cart models.Cart
	if err := cartByIdentity(db, userID, guestID).First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}

	var lines []CartLine
	if err := db.Table("cart_items").
		Select(`cart_items.id, cart_items.plant_id, plants.name AS plant_name,
			cart_items.quantity, cart_items.price,
			cart_items.quantity * cart_items.price AS subtotal`).
		Joins("JOIN plants ON plants.id = cart_items.plant_id").
		Where("cart_items.cart_id = ?", cart.ID).
		Order("cart_items.id").
		Scan(&lines).Error; err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, ErrCartNotFound
	}

	var total float64
	for _, line := range lines {
		total += line.Subtotal
	}

	return &CartView{CartID: cart.ID, Items: lines, TotalPrice: total}, nil
}

// RemoveItem deletes the line matching both cart and item id, then
// recomputes the cart total so the cache reflects the removal.
func RemoveItem(db *gorm.DB, cartID, itemID uint) error {
	result := db.Where("id = ? AND cart_id = ?", itemID, cartID).Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrItemNotFound
	}
	return recomputeCartTotal(db, cartID)
}

// -------- Handlers --------

// POST /cart
func AddToCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input AddToCartInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		cartID, err := AddToCart(db, input)
		if err != nil {
			switch {
			case errors.Is(err, ErrIdentityRequired):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, ErrPlantNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Plant not found"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add item to cart"})
			}
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Item added to cart successfully", "cart_id": cartID})
	}
}

// GET /cart?user_id=&guest_id=
func GetCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, guestID, err := identityFromQuery(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		view, err := GetCart(db, userID, guestID)
		if err != nil {
			switch {
			case errors.Is(err, ErrIdentityRequired):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			case errors.Is(err, ErrCartNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "Cart is empty"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart items"})
			}
			return
		}

		c.JSON(http.StatusOK, view)
	}
}

// DELETE /cart/:cart_id
func RemoveItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		cartID64, err := strconv.ParseUint(c.Param("cart_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cart_id"})
			return
		}

		var body struct {
			ItemID uint `json:"item_id" binding:"required"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "item_id is required"})
			return
		}

		if err := RemoveItem(db, uint(cartID64), body.ItemID); err != nil {
			if errors.Is(err, ErrItemNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found or already deleted"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete cart item"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "Item removed from cart"})
	}
}

func identityFromQuery(c *gin.Context) (*uint, *string, error) {
	var userID *uint
	var guestID *string

	if raw := c.Query("user_id"); raw != "" {
		id64, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return nil, nil, errors.New("invalid user_id")
		}
		id := uint(id64)
		userID = &id
	}
	if raw := c.Query("guest_id"); raw != "" {
		guestID = &raw
	}
	return userID, guestID, nil
}
