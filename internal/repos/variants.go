package repos

import (
	"fmt"
	"strings"

	"draftshop/internal/domain"
)

// VariantSpec describes where a variant's extension fields live. Columns are
// in the order the variant's Values and Targets use.
type VariantSpec struct {
	Variant    domain.Variant
	Table      string
	ForeignKey string
	Columns    []string
	New        func() domain.Attributes
}

var variants = map[domain.Variant]VariantSpec{
	domain.VariantClothing: {
		Variant:    domain.VariantClothing,
		Table:      "clothing",
		ForeignKey: "product_id",
		Columns:    []string{"size", "color", "type", "material_fee"},
		New:        func() domain.Attributes { return &domain.Clothing{} },
	},
	domain.VariantElectronic: {
		Variant:    domain.VariantElectronic,
		Table:      "electronic",
		ForeignKey: "product_id",
		Columns:    []string{"brand", "waranty_fee"},
		New:        func() domain.Attributes { return &domain.Electronic{} },
	},
}

func Resolve(v domain.Variant) (VariantSpec, error) {
	vs, ok := variants[v]
	if !ok {
		return VariantSpec{}, fmt.Errorf("%w: %q", domain.ErrUnknownVariant, v)
	}
	return vs, nil
}

// Variants lists the registered tags.
func Variants() []domain.Variant {
	out := make([]domain.Variant, 0, len(variants))
	for v := range variants {
		out = append(out, v)
	}
	return out
}

// JoinOn is the predicate tying the extension row to its base row.
func (s VariantSpec) JoinOn(baseAlias, extAlias string) string {
	return fmt.Sprintf("%s.%s = %s.id", extAlias, s.ForeignKey, baseAlias)
}

func (s VariantSpec) selectColumns(alias string) string {
	cols := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		cols[i] = alias + "." + c
	}
	return strings.Join(cols, ", ")
}

func (s VariantSpec) insertSQL() string {
	cols := append([]string{s.ForeignKey}, s.Columns...)
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return fmt.Sprintf("INSERT INTO %s(%s) VALUES (%s)", s.Table, strings.Join(cols, ", "), marks)
}

func (s VariantSpec) updateSQL() string {
	sets := make([]string, len(s.Columns))
	for i, c := range s.Columns {
		sets[i] = c + " = ?"
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?", s.Table, strings.Join(sets, ", "), s.ForeignKey)
}
