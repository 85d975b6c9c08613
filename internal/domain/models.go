package domain

import (
	"fmt"
	"time"
)

type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCategory returns an unsaved category stamped with the current time.
func NewCategory(name, description string) Category {
	now := Now()
	return Category{Name: name, Description: description, CreatedAt: now, UpdatedAt: now}
}

// Product holds the fields shared by every variant. Price and quantity are
// only reachable through their setters so they can never go negative; the
// remaining fields are plain and accept any value.
type Product struct {
	ID          int64     `json:"id"` // 0 until persisted
	Name        string    `json:"name"`
	Photos      []string  `json:"photos"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	CategoryID  int64     `json:"category_id"` // 0 = no category

	price    int64 // minor units
	quantity int64
}

func NewProduct(name string) Product {
	now := Now()
	return Product{Name: name, Photos: []string{}, CreatedAt: now, UpdatedAt: now}
}

func (p *Product) Price() int64    { return p.price }
func (p *Product) Quantity() int64 { return p.quantity }

func (p *Product) SetPrice(v int64) error {
	if v < 0 {
		return fmt.Errorf("%w: price cannot be negative (%d)", ErrValidation, v)
	}
	p.price = v
	return nil
}

func (p *Product) SetQuantity(v int64) error {
	if v < 0 {
		return fmt.Errorf("%w: quantity cannot be negative (%d)", ErrValidation, v)
	}
	p.quantity = v
	return nil
}

// Item is a product together with the attributes of its variant.
type Item struct {
	Product
	Attrs Attributes `json:"attributes"`
}

// Variant returns the tag of the item's attributes, or "" when none are set.
func (it *Item) Variant() Variant {
	if it.Attrs == nil {
		return ""
	}
	return it.Attrs.Variant()
}

// Validate checks everything a write needs before touching storage.
func (it *Item) Validate() error {
	if it.Attrs == nil {
		return fmt.Errorf("%w: missing variant attributes", ErrValidation)
	}
	if it.price < 0 || it.quantity < 0 {
		return fmt.Errorf("%w: price and quantity must be non-negative", ErrValidation)
	}
	return it.Attrs.Validate()
}

// Now is the default timestamp for new records. Storage keeps second
// precision, so sub-second parts are dropped up front.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}

// Listing is a base product tagged with its variant, used where only the
// shared fields are loaded.
type Listing struct {
	Product
	Variant Variant `json:"variant"`
}
