package domain

import "github.com/shopspring/decimal"

// LineItem is one distinct product in a cart. Name, Price and Image are fixed
// at first add; only Quantity changes afterwards.
type LineItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
	Quantity int             `json:"quantity"`
}

// Cart is an ordered sequence of line items, insertion order preserved.
// Item IDs are unique within a cart: AddOrIncrement merges into the existing
// entry instead of appending a duplicate.
type Cart struct {
	Items []LineItem `json:"items"`
}

// NewItemRequest carries the display fields for a single-unit add.
type NewItemRequest struct {
	ID    string
	Name  string
	Price decimal.Decimal
	Image string
}

type Summary struct {
	TotalItems int             `json:"total_items"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

// AddOrIncrement adds one unit of the requested product. An entry with the
// same ID gets its quantity bumped and keeps its original name, price and
// image; otherwise a new entry with quantity 1 is appended at the end.
func (c Cart) AddOrIncrement(req NewItemRequest) Cart {
	for i := range c.Items {
		if c.Items[i].ID == req.ID {
			c.Items[i].Quantity++
			return c
		}
	}
	c.Items = append(c.Items, LineItem{
		ID:       req.ID,
		Name:     req.Name,
		Price:    req.Price,
		Image:    req.Image,
		Quantity: 1,
	})
	return c
}

// SetQuantity sets the quantity of the entry with the given ID. A quantity
// below 1 or an unknown ID leaves the cart unchanged.
func (c Cart) SetQuantity(id string, quantity int) Cart {
	if quantity < 1 {
		return c
	}
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items[i].Quantity = quantity
			break
		}
	}
	return c
}

// Remove drops the entry with the given ID, preserving the order of the
// remaining entries. Unknown IDs are ignored.
func (c Cart) Remove(id string) Cart {
	for i := range c.Items {
		if c.Items[i].ID == id {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			break
		}
	}
	return c
}

func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Summarize totals the cart: TotalItems sums quantities across entries,
// TotalPrice sums price times quantity. Both are zero for the empty cart.
func (c Cart) Summarize() Summary {
	s := Summary{TotalPrice: decimal.Zero}
	for _, item := range c.Items {
		s.TotalItems += item.Quantity
		s.TotalPrice = s.TotalPrice.Add(item.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return s
}
