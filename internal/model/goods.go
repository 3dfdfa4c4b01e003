package model

import (
	"fmt"
	"strings"
	"time"
)

// GoodsStatus goods shelf status code
type GoodsStatus int

// GoodsStatus const
const (
	GoodsStatusOffSale GoodsStatus = 0 // 下架
	GoodsStatusOnSale  GoodsStatus = 1 // 上架
)

// Valid reports whether s is a known status code.
func (s GoodsStatus) Valid() bool {
	return s == GoodsStatusOffSale || s == GoodsStatusOnSale
}

// Specification a named goods option and its allowed values, e.g. size -> S, M, L
type Specification struct {
	Name   string   `json:"name" validate:"required"`
	Values []string `json:"values" validate:"min=1,dive,required"`
}

// Goods goods record as returned by the shop backend
type Goods struct {
	ID               string          `json:"_id"`
	Name             string          `json:"name"`
	Description      string          `json:"description"`
	Price            float64         `json:"price"`
	OriginalPrice    float64         `json:"originalPrice"`
	Images           []string        `json:"images"`
	Thumbnail        string          `json:"thumbnail"`
	Stock            int             `json:"stock"`
	Sales            int             `json:"sales"`
	Status           GoodsStatus     `json:"status"`
	IsRecommend      bool            `json:"isRecommend"`
	MenuID           string          `json:"menuId"`
	ShopID           string          `json:"shopId"`
	Specifications   []Specification `json:"specifications,omitempty"`
	NoSingleDelivery *bool           `json:"noSingleDelivery,omitempty"`
	CreateTime       time.Time       `json:"createTime"`
	UpdateTime       time.Time       `json:"updateTime"`
	Revision         int             `json:"__v"`
	MenuName         string          `json:"menuName"`
}

// IsOnSale check if goods is on sale
func (g *Goods) IsOnSale() bool {
	return g.Status == GoodsStatusOnSale
}

// HasStock check if goods has stock
func (g *Goods) HasStock() bool {
	return g.Stock > 0
}

// ToParams copies the editable fields of g into an update payload.
func (g *Goods) ToParams() UpdateGoodsParams {
	menuID := g.MenuID
	return UpdateGoodsParams{
		Name:             g.Name,
		Description:      g.Description,
		Price:            g.Price,
		OriginalPrice:    g.OriginalPrice,
		Images:           append([]string(nil), g.Images...),
		Thumbnail:        g.Thumbnail,
		Stock:            g.Stock,
		Status:           g.Status,
		MenuID:           &menuID,
		IsRecommend:      g.IsRecommend,
		Specifications:   cloneSpecifications(g.Specifications),
		NoSingleDelivery: g.NoSingleDelivery,
	}
}

// GoodsListResponse goods page
type GoodsListResponse struct {
	Goods      []Goods         `json:"goods"`
	Pagination GoodsPagination `json:"pagination"`
}

// GoodsMenu goods category
type GoodsMenu struct {
	ID          string    `json:"_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Level       *int      `json:"level,omitempty"`
	Sort        *int      `json:"sort,omitempty"`
	Status      int       `json:"status"`
	CreateTime  time.Time `json:"createTime"`
	UpdateTime  time.Time `json:"updateTime"`
}

// CreateGoodsMenuParams payload of a new goods category
type CreateGoodsMenuParams struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Level       int    `json:"level" validate:"gte=0"`
	Sort        int    `json:"sort"`
}

// CreateGoodsParams payload of a new goods record. MenuID may be nil while a
// form is being filled in but must be resolved before the payload is sent.
type CreateGoodsParams struct {
	Name             string          `json:"name" validate:"required"`
	Description      string          `json:"description"`
	Price            float64         `json:"price" validate:"gte=0"`
	OriginalPrice    float64         `json:"originalPrice" validate:"gte=0"`
	Images           []string        `json:"images"`
	Thumbnail        string          `json:"thumbnail"`
	Stock            int             `json:"stock" validate:"gte=0"`
	Status           GoodsStatus     `json:"status" validate:"oneof=0 1"`
	MenuID           *string         `json:"menuId" validate:"required,min=1"`
	IsRecommend      bool            `json:"isRecommend"`
	Specifications   []Specification `json:"specifications,omitempty" validate:"omitempty,dive"`
	NoSingleDelivery *bool           `json:"noSingleDelivery,omitempty"`
}

// UpdateGoodsParams has the same shape as CreateGoodsParams
type UpdateGoodsParams CreateGoodsParams

// Normalize makes an absent image list go over the wire as [] instead of null.
func (p *CreateGoodsParams) Normalize() {
	if p.Images == nil {
		p.Images = []string{}
	}
}

// Normalize see CreateGoodsParams.Normalize
func (p *UpdateGoodsParams) Normalize() {
	if p.Images == nil {
		p.Images = []string{}
	}
}

// ValidateSpecifications checks that names are unique within one goods item
// and that every specification offers at least one non-blank value.
func ValidateSpecifications(specs []Specification) error {
	seen := make(map[string]struct{}, len(specs))
	for i, spec := range specs {
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			return fmt.Errorf("specifications[%d]: name is required", i)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("specifications[%d]: duplicate name %q", i, name)
		}
		seen[name] = struct{}{}

		if len(spec.Values) == 0 {
			return fmt.Errorf("specifications[%d]: %q has no values", i, name)
		}
		for j, v := range spec.Values {
			if strings.TrimSpace(v) == "" {
				return fmt.Errorf("specifications[%d].values[%d]: value is blank", i, j)
			}
		}
	}
	return nil
}

func cloneSpecifications(specs []Specification) []Specification {
	if specs == nil {
		return nil
	}
	out := make([]Specification, len(specs))
	for i, s := range specs {
		out[i] = Specification{Name: s.Name, Values: append([]string(nil), s.Values...)}
	}
	return out
}
