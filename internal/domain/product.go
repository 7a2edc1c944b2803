package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AllCategories is the list filter value meaning "no filter".
const AllCategories = "All"

type Product struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title" validate:"required"`
	Description string             `bson:"description" json:"description" validate:"required"`
	Price       float64            `bson:"price" json:"price" validate:"gte=0"`
	Category    string             `bson:"category" json:"category" validate:"required"`
	Thumbnail   string             `bson:"thumbnail" json:"thumbnail" validate:"required"`
	Images      []string           `bson:"images" json:"images"`
	Stock       int                `bson:"stock" json:"stock" validate:"gte=0"`
	Rating      float64            `bson:"rating" json:"rating" validate:"gte=0,lte=5"`
	Brand       string             `bson:"brand" json:"brand"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (p Product) Validate() error {
	return validateStruct(p)
}

// ProductInput carries the admin-supplied fields. Nil means "not supplied".
type ProductInput struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Price       *float64  `json:"price"`
	Category    *string   `json:"category"`
	Thumbnail   *string   `json:"thumbnail"`
	Images      *[]string `json:"images"`
	Stock       *int      `json:"stock"`
	Rating      *float64  `json:"rating"`
	Brand       *string   `json:"brand"`
}

func (in ProductInput) hasRequired() bool {
	for _, s := range []*string{in.Title, in.Description, in.Category, in.Thumbnail} {
		if s == nil || *s == "" {
			return false
		}
	}
	return in.Price != nil
}

// NewProduct builds a product from a create request, applying defaults for optional fields.
func NewProduct(in ProductInput) (Product, error) {
	if !in.hasRequired() {
		return Product{}, Validation("Title, description, price, category, and thumbnail are required.")
	}
	p := Product{Images: []string{}}
	in.ApplyTo(&p)
	if err := p.Validate(); err != nil {
		return Product{}, err
	}
	return p, nil
}

// ApplyTo copies every supplied field onto p.
func (in ProductInput) ApplyTo(p *Product) {
	if in.Title != nil {
		p.Title = *in.Title
	}
	if in.Description != nil {
		p.Description = *in.Description
	}
	if in.Price != nil {
		p.Price = *in.Price
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Thumbnail != nil {
		p.Thumbnail = *in.Thumbnail
	}
	if in.Images != nil {
		p.Images = *in.Images
		if p.Images == nil {
			p.Images = []string{}
		}
	}
	if in.Stock != nil {
		p.Stock = *in.Stock
	}
	if in.Rating != nil {
		p.Rating = *in.Rating
	}
	if in.Brand != nil {
		p.Brand = *in.Brand
	}
}

// SetDocument is the $set payload for the supplied fields.
func (in ProductInput) SetDocument() bson.M {
	set := bson.M{}
	var p Product
	in.ApplyTo(&p)
	if in.Title != nil {
		set["title"] = p.Title
	}
	if in.Description != nil {
		set["description"] = p.Description
	}
	if in.Price != nil {
		set["price"] = p.Price
	}
	if in.Category != nil {
		set["category"] = p.Category
	}
	if in.Thumbnail != nil {
		set["thumbnail"] = p.Thumbnail
	}
	if in.Images != nil {
		set["images"] = p.Images
	}
	if in.Stock != nil {
		set["stock"] = p.Stock
	}
	if in.Rating != nil {
		set["rating"] = p.Rating
	}
	if in.Brand != nil {
		set["brand"] = p.Brand
	}
	return set
}

type ImportError struct {
	Title string `json:"title"`
	Error string `json:"error"`
}

type ImportResult struct {
	Imported int           `json:"imported"`
	Skipped  int           `json:"skipped"`
	Errors   []ImportError `json:"errors,omitempty"`
}
