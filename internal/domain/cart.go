package domain

import (
	"encoding/json"
	"errors"

	"github.com/shopspring/decimal"
)

var ErrLineNotFound = errors.New("item not found in cart")

// CartLine is a product snapshot taken when the product was first added.
type CartLine struct {
	ProductID string  `bson:"productId" json:"id"`
	Title     string  `bson:"title" json:"title"`
	Price     float64 `bson:"price" json:"price"`
	Image     string  `bson:"image" json:"image"`
	Quantity  int     `bson:"quantity" json:"quantity"`
}

// Cart is the ordered list of lines embedded in a user document.
// A line never holds a quantity below 1.
type Cart []CartLine

func (c Cart) MarshalJSON() ([]byte, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]CartLine(c))
}

func (c Cart) index(productID string) int {
	for i := range c {
		if c[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// Line returns the line for productID, if present.
func (c Cart) Line(productID string) (CartLine, bool) {
	if i := c.index(productID); i >= 0 {
		return c[i], true
	}
	return CartLine{}, false
}

// AddOrIncrement bumps an existing line by one or appends line with quantity 1.
// It returns the resulting quantity.
func (c *Cart) AddOrIncrement(line CartLine) int {
	if i := c.index(line.ProductID); i >= 0 {
		(*c)[i].Quantity++
		return (*c)[i].Quantity
	}
	line.Quantity = 1
	*c = append(*c, line)
	return 1
}

func (c *Cart) Increment(productID string) (int, error) {
	i := c.index(productID)
	if i < 0 {
		return 0, ErrLineNotFound
	}
	(*c)[i].Quantity++
	return (*c)[i].Quantity, nil
}

// Decrement lowers the quantity by one and drops the line when it would reach zero.
// A returned quantity of 0 means the line was removed.
func (c *Cart) Decrement(productID string) (int, error) {
	i := c.index(productID)
	if i < 0 {
		return 0, ErrLineNotFound
	}
	if (*c)[i].Quantity <= 1 {
		*c = append((*c)[:i], (*c)[i+1:]...)
		return 0, nil
	}
	(*c)[i].Quantity--
	return (*c)[i].Quantity, nil
}

// Remove drops the line if present and reports whether anything changed.
func (c *Cart) Remove(productID string) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	*c = append((*c)[:i], (*c)[i+1:]...)
	return true
}

// Total is the sum of price*quantity rounded to cents.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c {
		total = total.Add(decimal.NewFromFloat(l.Price).Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total.Round(2)
}

// Snapshot copies the lines by value into order items.
func (c Cart) Snapshot() []OrderItem {
	items := make([]OrderItem, len(c))
	for i, l := range c {
		items[i] = OrderItem(l)
	}
	return items
}
