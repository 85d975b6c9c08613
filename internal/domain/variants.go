package domain

import "fmt"

type Variant string

const (
	VariantClothing   Variant = "clothing"
	VariantElectronic Variant = "electronic"
)

// Attributes is implemented by each variant's extension fields. Values and
// Targets follow the column order the repos layer registers for the variant.
type Attributes interface {
	Variant() Variant
	Values() []any
	Targets() []any
	Validate() error
}

type Clothing struct {
	Size        string `json:"size"`
	Color       string `json:"color"`
	Type        string `json:"type"`
	MaterialFee int64  `json:"material_fee"`
}

func (c *Clothing) Variant() Variant { return VariantClothing }

func (c *Clothing) Values() []any {
	return []any{c.Size, c.Color, c.Type, c.MaterialFee}
}

func (c *Clothing) Targets() []any {
	return []any{&c.Size, &c.Color, &c.Type, &c.MaterialFee}
}

func (c *Clothing) Validate() error {
	if c.MaterialFee < 0 {
		return fmt.Errorf("%w: material fee cannot be negative", ErrValidation)
	}
	return nil
}

type Electronic struct {
	Brand       string `json:"brand"`
	WarrantyFee int64  `json:"warranty_fee"`
}

func (e *Electronic) Variant() Variant { return VariantElectronic }

func (e *Electronic) Values() []any { return []any{e.Brand, e.WarrantyFee} }

func (e *Electronic) Targets() []any { return []any{&e.Brand, &e.WarrantyFee} }

func (e *Electronic) Validate() error {
	if e.WarrantyFee < 0 {
		return fmt.Errorf("%w: warranty fee cannot be negative", ErrValidation)
	}
	return nil
}
