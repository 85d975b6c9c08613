package handlers

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"draftshop/internal/domain"
	"draftshop/internal/repos"
	"draftshop/internal/validate"
)

// ItemView is the JSON shape of an item, price and quantity included.
type ItemView struct {
	ID          int64             `json:"id"`
	Variant     domain.Variant    `json:"variant"`
	Name        string            `json:"name"`
	Photos      []string          `json:"photos"`
	Price       int64             `json:"price"`
	Description string            `json:"description"`
	Quantity    int64             `json:"quantity"`
	CategoryID  int64             `json:"category_id"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Attributes  domain.Attributes `json:"attributes,omitempty"`
}

func viewItem(it *domain.Item) ItemView {
	return ItemView{
		ID:          it.ID,
		Variant:     it.Variant(),
		Name:        it.Name,
		Photos:      it.Photos,
		Price:       it.Price(),
		Description: it.Description,
		Quantity:    it.Quantity(),
		CategoryID:  it.CategoryID,
		CreatedAt:   it.CreatedAt,
		UpdatedAt:   it.UpdatedAt,
		Attributes:  it.Attrs,
	}
}

func viewListing(l *domain.Listing) ItemView {
	return ItemView{
		ID:          l.ID,
		Variant:     l.Variant,
		Name:        l.Name,
		Photos:      l.Photos,
		Price:       l.Price(),
		Description: l.Description,
		Quantity:    l.Quantity(),
		CategoryID:  l.CategoryID,
		CreatedAt:   l.CreatedAt,
		UpdatedAt:   l.UpdatedAt,
	}
}

// ItemInput is the body accepted by the create and update endpoints.
type ItemInput struct {
	Name        string              `json:"name"`
	Photos      []string            `json:"photos"`
	Price       int64               `json:"price"`
	Description string              `json:"description"`
	Quantity    int64               `json:"quantity"`
	CategoryID  int64               `json:"category_id"`
	Attributes  jsoniter.RawMessage `json:"attributes"`
}

// apply copies the input onto it. Everything is checked on a copy first, so
// a rejected input leaves the item as it was.
func (in ItemInput) apply(v domain.Variant, it *domain.Item) (string, error) {
	name, ok := validate.Name(in.Name)
	if !ok {
		return "name", fmt.Errorf("%w: name is required (max 120 chars)", domain.ErrValidation)
	}
	desc, ok := validate.Text(in.Description)
	if !ok {
		return "description", fmt.Errorf("%w: description too long", domain.ErrValidation)
	}
	if !validate.Photos(in.Photos) {
		return "photos", fmt.Errorf("%w: invalid photo references", domain.ErrValidation)
	}
	vs, err := repos.Resolve(v)
	if err != nil {
		return "variant", err
	}
	attrs := vs.New()
	if len(in.Attributes) > 0 {
		if err := jsoniter.Unmarshal(in.Attributes, attrs); err != nil {
			return "attributes", fmt.Errorf("%w: attributes: malformed", domain.ErrValidation)
		}
	}
	if err := attrs.Validate(); err != nil {
		return "attributes", err
	}
	p := it.Product
	if err := p.SetPrice(in.Price); err != nil {
		return "price", err
	}
	if err := p.SetQuantity(in.Quantity); err != nil {
		return "quantity", err
	}

	p.Name = name
	p.Description = desc
	p.Photos = in.Photos
	if p.Photos == nil {
		p.Photos = []string{}
	}
	p.CategoryID = in.CategoryID
	it.Product = p
	it.Attrs = attrs
	return "", nil
}

type CategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
