package domain

import "time"

// Line is one product entry in a cart. Name, price and weight are snapshots
// taken when the product was added, so later catalog edits do not change an
// in-progress cart.
type Line struct {
	ProductID   string `json:"productId"`
	ProductName string `json:"productName"`
	UnitCents   int64  `json:"unitPrice"`
	Quantity    int32  `json:"quantity"`
	Weight      int64  `json:"weight"`
	WeightUnit  string `json:"weightUnit"`
	Flavor      string `json:"flavor,omitempty"`
}

type Cart struct {
	SessionID string    `json:"-"`
	Lines     []Line    `json:"items"`
	UpdatedAt time.Time `json:"-"`
}

// Add merges the line into the cart, incrementing quantity when the product
// already has a line. Snapshots of an existing line are kept.
func (c *Cart) Add(line Line) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == line.ProductID {
			c.Lines[i].Quantity += line.Quantity
			return
		}
	}
	c.Lines = append(c.Lines, line)
}

// SetQuantity sets the line's quantity, removing the line when quantity drops
// to zero or below. Unknown products are a no-op.
func (c *Cart) SetQuantity(productID string, quantity int32) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) Remove(productID string) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.Lines = nil
}

func (c *Cart) Quantity(productID string) int32 {
	for _, l := range c.Lines {
		if l.ProductID == productID {
			return l.Quantity
		}
	}
	return 0
}

// Count is the sum of quantities across lines.
func (c *Cart) Count() int32 {
	var n int32
	for _, l := range c.Lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) SubtotalCents() int64 {
	var sum int64
	for _, l := range c.Lines {
		sum += l.UnitCents * int64(l.Quantity)
	}
	return sum
}

func (c *Cart) Empty() bool {
	return len(c.Lines) == 0
}
