package cart

import (
	"time"

	"github.com/noah-isme/storefront-dietetica/internal/api"
)

// Line is one product entry in the cart.
type Line struct {
	ProductID          int64   `json:"productId"`
	Name               string  `json:"name"`
	UnitPrice          float64 `json:"unitPrice"`
	DiscountPercentage float64 `json:"discountPercentage"`
	EffectivePrice     float64 `json:"effectivePrice"`
	Quantity           int     `json:"quantity"`
	Stock              int     `json:"stock"`
	Image              string  `json:"image,omitempty"`
}

// Subtotal is the line's contribution to the cart total.
func (l Line) Subtotal() float64 {
	return l.EffectivePrice * float64(l.Quantity)
}

// Notification is the single-slot description of the most recent add. New adds
// overwrite a pending one; it expires after a fixed display duration.
type Notification struct {
	Visible       bool      `json:"visible"`
	ProductName   string    `json:"productName"`
	ProductImage  string    `json:"productImage"`
	ProductPrice  float64   `json:"productPrice"`
	QuantityAdded int       `json:"quantityAdded"`
	ExpiresAt     time.Time `json:"expiresAt"`
}

// State is the full cart store state. Only Lines is persisted; the rest is
// transient session state.
type State struct {
	Lines           []Line       `json:"lines"`
	Notification    Notification `json:"-"`
	RemovedProducts []int64      `json:"-"`
	ValidationError string       `json:"-"`
}

// ItemCount is the total quantity across all lines.
func (s State) ItemCount() int {
	total := 0
	for _, l := range s.Lines {
		total += l.Quantity
	}
	return total
}

// Total is the cart total at effective prices.
func (s State) Total() float64 {
	var total float64
	for _, l := range s.Lines {
		total += l.Subtotal()
	}
	return total
}

// Find returns the line for a product, reporting whether it exists.
func (s State) Find(productID int64) (Line, bool) {
	for _, l := range s.Lines {
		if l.ProductID == productID {
			return l, true
		}
	}
	return Line{}, false
}

// Reducer derives the next cart state from an action. Reduce is pure given the
// injected clock: it never mutates its input.
type Reducer struct {
	NotificationTTL time.Duration
	Now             func() time.Time
}

func (r Reducer) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r Reducer) ttl() time.Duration {
	if r.NotificationTTL > 0 {
		return r.NotificationTTL
	}
	return 4 * time.Second
}

// Reduce applies one action and returns the next state.
func (r Reducer) Reduce(s State, action Action) State {
	next := s
	next.Lines = cloneLines(s.Lines)

	switch a := action.(type) {
	case AddItem:
		next = r.addItem(next, a)
	case UpdateQuantity:
		for i := range next.Lines {
			if next.Lines[i].ProductID != a.ProductID {
				continue
			}
			next.Lines[i].Quantity = clampQuantity(a.Quantity, a.Stock)
			break
		}
	case RemoveItem:
		next.Lines = dropLines(next.Lines, []int64{a.ProductID})
	case Clear:
		next.Lines = nil
	case CloseNotification:
		next.Notification.Visible = false
	case ClearRemovedProducts:
		next.RemovedProducts = nil
	case ApplyValidation:
		if len(a.Removed) > 0 {
			next.Lines = dropLines(next.Lines, a.Removed)
			next.RemovedProducts = append([]int64(nil), a.Removed...)
		}
		next.ValidationError = ""
	case SetValidationError:
		next.ValidationError = a.Message
	}
	return next
}

func (r Reducer) addItem(s State, a AddItem) State {
	product := a.Product
	qty := a.Quantity
	if qty < 1 {
		qty = 1
	}
	effective := product.EffectivePrice()

	for i := range s.Lines {
		if s.Lines[i].ProductID != product.ID {
			continue
		}
		line := s.Lines[i]
		merged := line.Quantity + qty
		if merged > product.Stock {
			merged = product.Stock
		}
		// Never decrease an existing quantity here; shrinking stock is the
		// validator's job.
		if merged < line.Quantity {
			merged = line.Quantity
		}
		added := merged - line.Quantity
		line.Quantity = merged
		line.Stock = product.Stock
		line.Name = product.Name
		line.UnitPrice = product.Price
		line.DiscountPercentage = product.DiscountPercentage
		line.EffectivePrice = effective
		line.Image = product.Image()
		s.Lines[i] = line
		if added > 0 {
			s.Notification = r.notification(product, effective, added)
		}
		return s
	}

	if product.Stock <= 0 || qty > product.Stock {
		return s
	}
	s.Lines = append(s.Lines, Line{
		ProductID:          product.ID,
		Name:               product.Name,
		UnitPrice:          product.Price,
		DiscountPercentage: product.DiscountPercentage,
		EffectivePrice:     effective,
		Quantity:           qty,
		Stock:              product.Stock,
		Image:              product.Image(),
	})
	s.Notification = r.notification(product, effective, qty)
	return s
}

func (r Reducer) notification(product api.Product, effective float64, added int) Notification {
	return Notification{
		Visible:       true,
		ProductName:   product.Name,
		ProductImage:  product.Image(),
		ProductPrice:  effective,
		QuantityAdded: added,
		ExpiresAt:     r.now().Add(r.ttl()),
	}
}

func clampQuantity(qty, stock int) int {
	if qty < 1 {
		qty = 1
	}
	if qty > stock {
		qty = stock
	}
	return qty
}

func cloneLines(lines []Line) []Line {
	if lines == nil {
		return nil
	}
	return append([]Line(nil), lines...)
}

func dropLines(lines []Line, ids []int64) []Line {
	if len(ids) == 0 {
		return lines
	}
	drop := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		drop[id] = struct{}{}
	}
	kept := lines[:0]
	for _, l := range lines {
		if _, gone := drop[l.ProductID]; !gone {
			kept = append(kept, l)
		}
	}
	if len(kept) == 0 {
		return nil
	}
	return kept
}
