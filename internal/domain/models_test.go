package domain

import (
	"errors"
	"testing"
	"time"
)

func TestSetPriceAcceptsNonNegative(t *testing.T) {
	for _, v := range []int64{0, 1, 999, 1 << 40} {
		var p Product
		if err := p.SetPrice(v); err != nil {
			t.Fatalf("SetPrice(%d): %v", v, err)
		}
		if p.Price() != v {
			t.Fatalf("want price %d, got %d", v, p.Price())
		}
	}
}

func TestSetPriceRejectsNegativeAndKeepsValue(t *testing.T) {
	var p Product
	if err := p.SetPrice(1500); err != nil {
		t.Fatal(err)
	}
	for _, v := range []int64{-1, -1500, -1 << 40} {
		err := p.SetPrice(v)
		if !errors.Is(err, ErrValidation) {
			t.Fatalf("SetPrice(%d): want ErrValidation, got %v", v, err)
		}
		if p.Price() != 1500 {
			t.Fatalf("price changed to %d after rejected update", p.Price())
		}
	}
}

func TestSetQuantity(t *testing.T) {
	var p Product
	if err := p.SetQuantity(10); err != nil {
		t.Fatal(err)
	}
	if err := p.SetQuantity(-3); !errors.Is(err, ErrValidation) {
		t.Fatalf("want ErrValidation, got %v", err)
	}
	if p.Quantity() != 10 {
		t.Fatalf("want quantity 10, got %d", p.Quantity())
	}
}

func TestNewProductDefaults(t *testing.T) {
	before := time.Now().Add(-time.Second)
	p := NewProduct("")
	if p.ID != 0 || p.Price() != 0 || p.Quantity() != 0 || p.CategoryID != 0 {
		t.Fatalf("unexpected non-zero defaults: %+v", p)
	}
	if p.Photos == nil || len(p.Photos) != 0 {
		t.Fatalf("want empty photo list, got %#v", p.Photos)
	}
	if p.CreatedAt.Before(before) || !p.CreatedAt.Equal(p.UpdatedAt) {
		t.Fatalf("timestamps not defaulted to now: %v / %v", p.CreatedAt, p.UpdatedAt)
	}
	if p.CreatedAt.Nanosecond() != 0 {
		t.Fatalf("want second precision, got %v", p.CreatedAt)
	}
}

func TestItemValidate(t *testing.T) {
	it := Item{Product: NewProduct("shirt")}
	if err := it.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("missing attributes: want ErrValidation, got %v", err)
	}

	it.Attrs = &Clothing{Size: "M", MaterialFee: -1}
	if err := it.Validate(); !errors.Is(err, ErrValidation) {
		t.Fatalf("negative fee: want ErrValidation, got %v", err)
	}

	it.Attrs = &Electronic{Brand: "Acme", WarrantyFee: 300}
	if err := it.Validate(); err != nil {
		t.Fatalf("valid item rejected: %v", err)
	}
	if it.Variant() != VariantElectronic {
		t.Fatalf("want electronic, got %q", it.Variant())
	}
}

func TestAttributesColumnShapes(t *testing.T) {
	c := &Clothing{Size: "L", Color: "Blue", Type: "jacket", MaterialFee: 250}
	if len(c.Values()) != len(c.Targets()) {
		t.Fatal("clothing values and targets differ in length")
	}
	e := &Electronic{Brand: "Zenith", WarrantyFee: 100}
	if len(e.Values()) != len(e.Targets()) {
		t.Fatal("electronic values and targets differ in length")
	}
}
