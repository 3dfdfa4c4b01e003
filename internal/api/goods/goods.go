package goods

import (
	"context"
	"net/url"
	"strconv"

	"shopadmin/internal/model"
	"shopadmin/internal/transport"
	"shopadmin/pkg/utils"
)

// backend paths
const (
	pathList       = "/goods/shop/all"
	pathCreate     = "/goods/create"
	pathMenuList   = "/goodsmenu/list"
	pathMenuCreate = "/goodsmenu/add"
	pathItem       = "/goods/"
	routeItem      = "/goods/{id}"
)

// API goods and goods category calls
type API interface {
	ListAll(ctx context.Context) (*model.GoodsListResponse, error)
	List(ctx context.Context, filter ListFilter) (*model.GoodsListResponse, error)
	Create(ctx context.Context, params model.CreateGoodsParams) (*model.Goods, error)
	Menus(ctx context.Context) ([]model.GoodsMenu, error)
	CreateMenu(ctx context.Context, params model.CreateGoodsMenuParams) (*model.GoodsMenu, error)
	Detail(ctx context.Context, id string) (*model.Goods, error)
	Update(ctx context.Context, id string, params model.UpdateGoodsParams) (*model.Goods, error)
	Delete(ctx context.Context, id string) error
}

// ListFilter narrows a goods listing. Zero values are left out of the query.
type ListFilter struct {
	Page    int    `json:"page" form:"page" validate:"gte=0"`
	Limit   int    `json:"limit" form:"limit" validate:"gte=0"`
	MenuID  string `json:"menuId" form:"menuId"`
	Keyword string `json:"keyword" form:"keyword"`
}

// Query encodes only the fields that are set
func (f ListFilter) Query() url.Values {
	q := url.Values{}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.MenuID != "" {
		q.Set("menuId", f.MenuID)
	}
	if f.Keyword != "" {
		q.Set("keyword", f.Keyword)
	}
	return q
}

type goodsAPI struct {
	doer transport.Doer
}

// New creates the goods API over doer
func New(doer transport.Doer) API {
	return &goodsAPI{doer: doer}
}

func (a *goodsAPI) ListAll(ctx context.Context) (*model.GoodsListResponse, error) {
	var resp model.GoodsListResponse
	if err := a.doer.Get(ctx, pathList, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *goodsAPI) List(ctx context.Context, filter ListFilter) (*model.GoodsListResponse, error) {
	if err := utils.ValidateStruct(filter); err != nil {
		return nil, err
	}

	var resp model.GoodsListResponse
	if err := a.doer.Get(ctx, pathList, filter.Query(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *goodsAPI) Create(ctx context.Context, params model.CreateGoodsParams) (*model.Goods, error) {
	if err := validateGoods(params); err != nil {
		return nil, err
	}
	params.Normalize()

	var goods model.Goods
	if err := a.doer.Post(ctx, pathCreate, params, &goods); err != nil {
		return nil, err
	}
	return &goods, nil
}

func (a *goodsAPI) Menus(ctx context.Context) ([]model.GoodsMenu, error) {
	menus := []model.GoodsMenu{}
	if err := a.doer.Get(ctx, pathMenuList, nil, &menus); err != nil {
		return nil, err
	}
	return menus, nil
}

func (a *goodsAPI) CreateMenu(ctx context.Context, params model.CreateGoodsMenuParams) (*model.GoodsMenu, error) {
	if err := utils.ValidateStruct(params); err != nil {
		return nil, err
	}

	var menu model.GoodsMenu
	if err := a.doer.Post(ctx, pathMenuCreate, params, &menu); err != nil {
		return nil, err
	}
	return &menu, nil
}

func (a *goodsAPI) Detail(ctx context.Context, id string) (*model.Goods, error) {
	if err := utils.ValidateID("id", id); err != nil {
		return nil, err
	}

	var goods model.Goods
	if err := a.doer.Get(itemRoute(ctx), itemPath(id), nil, &goods); err != nil {
		return nil, err
	}
	return &goods, nil
}

func (a *goodsAPI) Update(ctx context.Context, id string, params model.UpdateGoodsParams) (*model.Goods, error) {
	if err := utils.ValidateID("id", id); err != nil {
		return nil, err
	}
	if err := validateGoods(model.CreateGoodsParams(params)); err != nil {
		return nil, err
	}
	params.Normalize()

	var goods model.Goods
	if err := a.doer.Put(itemRoute(ctx), itemPath(id), params, &goods); err != nil {
		return nil, err
	}
	return &goods, nil
}

func (a *goodsAPI) Delete(ctx context.Context, id string) error {
	if err := utils.ValidateID("id", id); err != nil {
		return err
	}
	return a.doer.Delete(itemRoute(ctx), itemPath(id), nil)
}

func validateGoods(params model.CreateGoodsParams) error {
	if err := utils.ValidateStruct(params); err != nil {
		return err
	}
	if err := model.ValidateSpecifications(params.Specifications); err != nil {
		return utils.NewValidationError(0, err.Error(), map[string]string{
			"specifications": err.Error(),
		})
	}
	return nil
}

func itemPath(id string) string {
	return pathItem + url.PathEscape(id)
}

func itemRoute(ctx context.Context) context.Context {
	return transport.WithRoute(ctx, routeItem)
}
