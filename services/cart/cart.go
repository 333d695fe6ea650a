package cart

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/MarcGrol/printshop/services/catalog"
)

type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

func (l Line) Total() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds at most one line per product; lines keep the order in which products were first added.
type Cart struct {
	SessionUID   string
	CreatedAt    time.Time
	LastModified *time.Time
	Lines        []Line
}

func New(sessionUID string, now time.Time) Cart {
	return Cart{
		SessionUID: sessionUID,
		CreatedAt:  now,
		Lines:      []Line{},
	}
}

// Add merges into an existing line for the same product. A quantity below 1 counts as 1.
func (c *Cart) Add(product catalog.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	idx := c.indexOf(product.UID)
	if idx >= 0 {
		c.Lines[idx].Quantity += quantity
		return
	}

	c.Lines = append(c.Lines, Line{
		Product:  product,
		Quantity: quantity,
	})
}

func (c *Cart) Remove(productUID string) {
	idx := c.indexOf(productUID)
	if idx < 0 {
		return
	}
	c.Lines = append(c.Lines[:idx], c.Lines[idx+1:]...)
}

// UpdateQuantity sets the quantity of a line; zero or less removes it.
func (c *Cart) UpdateQuantity(productUID string, quantity int) {
	if quantity <= 0 {
		c.Remove(productUID)
		return
	}

	idx := c.indexOf(productUID)
	if idx < 0 {
		return
	}
	c.Lines[idx].Quantity = quantity
}

func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.Lines {
		total = total.Add(l.Total())
	}
	return total
}

func (c Cart) ItemCount() int {
	count := 0
	for _, l := range c.Lines {
		count += l.Quantity
	}
	return count
}

func (c Cart) Quantity(productUID string) int {
	idx := c.indexOf(productUID)
	if idx < 0 {
		return 0
	}
	return c.Lines[idx].Quantity
}

func (c Cart) Contains(productUID string) bool {
	return c.indexOf(productUID) >= 0
}

func (c Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

func (c Cart) clone() Cart {
	c.Lines = append([]Line{}, c.Lines...)
	return c
}

func (c Cart) indexOf(productUID string) int {
	for idx, l := range c.Lines {
		if l.Product.UID == productUID {
			return idx
		}
	}
	return -1
}
