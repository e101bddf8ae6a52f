package cart

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("cart: not found")
	ErrInactive        = errors.New("cart: inactive")
	ErrEmpty           = errors.New("cart: no active items")
	ErrItemNotFound    = errors.New("cart: item not found")
	ErrInvalidQuantity = errors.New("cart: quantity must be greater than zero")
	ErrDuplicateItem   = errors.New("cart: product already has an active line")
	ErrConflict        = errors.New("cart: user already has an active cart")
)

// Cart holds the line items a user intends to buy. Once an order is placed
// from it the cart is frozen (Active=false) and never reopened.
type Cart struct {
	ID        string
	UserID    string
	Active    bool
	Items     []*Item
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Item is one product line. Soft-deleted lines keep Active=false.
type Item struct {
	ID          string
	CartID      string
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func New(id, userID string) *Cart {
	now := time.Now().UTC()
	return &Cart{
		ID:        id,
		UserID:    userID,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (i *Item) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (c *Cart) ActiveItems() []*Item {
	out := make([]*Item, 0, len(c.Items))
	for _, it := range c.Items {
		if it.Active {
			out = append(out, it)
		}
	}
	return out
}

// Total sums quantity x unit price over active items only.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.ActiveItems() {
		total = total.Add(it.Subtotal())
	}
	return total
}

// Count sums quantities over active items.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.ActiveItems() {
		n += it.Quantity
	}
	return n
}

func (c *Cart) Item(itemID string) (*Item, error) {
	for _, it := range c.Items {
		if it.ID == itemID {
			return it, nil
		}
	}
	return nil, ErrItemNotFound
}

func (c *Cart) activeLineFor(productID string) *Item {
	for _, it := range c.Items {
		if it.Active && it.ProductID == productID {
			return it
		}
	}
	return nil
}

// AddItem merges quantity into an existing active line for the product, or
// appends a new line priced at unitPrice. newID is only used for a new line.
func (c *Cart) AddItem(newID, productID, productName string, quantity int, unitPrice decimal.Decimal) (*Item, error) {
	if !c.Active {
		return nil, ErrInactive
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	now := time.Now().UTC()
	if line := c.activeLineFor(productID); line != nil {
		line.Quantity += quantity
		line.UpdatedAt = now
		c.UpdatedAt = now
		return line, nil
	}
	line := &Item{
		ID:          newID,
		CartID:      c.ID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	c.Items = append(c.Items, line)
	c.UpdatedAt = now
	return line, nil
}

func (c *Cart) UpdateQuantity(itemID string, quantity int) (*Item, error) {
	if !c.Active {
		return nil, ErrInactive
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	line, err := c.Item(itemID)
	if err != nil {
		return nil, err
	}
	if !line.Active {
		return nil, ErrItemNotFound
	}
	line.Quantity = quantity
	c.touch(line)
	return line, nil
}

func (c *Cart) RemoveItem(itemID string) error {
	if !c.Active {
		return ErrInactive
	}
	line, err := c.Item(itemID)
	if err != nil {
		return err
	}
	if !line.Active {
		return ErrItemNotFound
	}
	line.Active = false
	c.touch(line)
	return nil
}

// RestoreItem reactivates a soft-deleted line while the cart is still open.
func (c *Cart) RestoreItem(itemID string) (*Item, error) {
	if !c.Active {
		return nil, ErrInactive
	}
	line, err := c.Item(itemID)
	if err != nil {
		return nil, err
	}
	if line.Active {
		return line, nil
	}
	if c.activeLineFor(line.ProductID) != nil {
		return nil, ErrDuplicateItem
	}
	line.Active = true
	c.touch(line)
	return line, nil
}

// DeactivateItems soft-deletes every active line and reports how many were touched.
// It applies to frozen carts too: paid orders clear the lines of their source cart.
func (c *Cart) DeactivateItems() int {
	n := 0
	for _, it := range c.ActiveItems() {
		it.Active = false
		c.touch(it)
		n++
	}
	return n
}

func (c *Cart) Freeze() {
	c.Active = false
	c.UpdatedAt = time.Now().UTC()
}

func (c *Cart) touch(it *Item) {
	now := time.Now().UTC()
	it.UpdatedAt = now
	c.UpdatedAt = now
}

// Clone returns a deep copy safe to hand across repository boundaries.
func (c *Cart) Clone() *Cart {
	if c == nil {
		return nil
	}
	clone := *c
	clone.Items = make([]*Item, len(c.Items))
	for i, it := range c.Items {
		cp := *it
		clone.Items[i] = &cp
	}
	return &clone
}
