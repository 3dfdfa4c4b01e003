package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shopadmin/internal/api/goods"
	"shopadmin/internal/model"
	"shopadmin/pkg/utils"
)

// GoodsHandler goods and goods category endpoints
type GoodsHandler struct {
	goods goods.API
}

// NewGoodsHandler creates a goods handler
func NewGoodsHandler(api goods.API) *GoodsHandler {
	return &GoodsHandler{goods: api}
}

// List lists goods narrowed by page, limit, menuId and keyword
func (h *GoodsHandler) List(c *gin.Context) {
	var filter goods.ListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid query: "+err.Error())
		return
	}

	list, err := h.goods.List(c.Request.Context(), filter)
	if err != nil {
		apiError(c, err)
		return
	}
	utils.SuccessResponse(c, list)
}

// ListAll lists every goods record of the shop
func (h *GoodsHandler) ListAll(c *gin.Context) {
	list, err := h.goods.ListAll(c.Request.Context())
	if err != nil {
		apiError(c, err)
		return
	}
	utils.SuccessResponse(c, list)
}

// Create creates a goods record
func (h *GoodsHandler) Create(c *gin.Context) {
	var params model.CreateGoodsParams
	if !bindJSON(c, &params) {
		return
	}

	created, err := h.goods.Create(c.Request.Context(), params)
	if err != nil {
		apiError(c, err)
		return
	}
	utils.SuccessResponse(c, created)
}

// Get returns one goods record
func (h *GoodsHandler) Get(c *gin.Context) {
	item, err := h.goods.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		apiError(c, err)
		return
	}
	utils.SuccessResponse(c, item)
}

// Update replaces a goods record
func (h *GoodsHandler) Update(c *gin.Context) {
	var params model.UpdateGoodsParams
	if !bindJSON(c, &params) {
		return
	}

	updated, err := h.goods.Update(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		apiError(c, err)
		return
	}
	utils.SuccessResponse(c, updated)
}

// Delete removes a goods record
func (h *GoodsHandler) Delete(c *gin.Context) {
	if err := h.goods.Delete(c.Request.Context(), c.Param("id")); err != nil {
		apiError(c, err)
		return
	}
	utils.SuccessResponse(c, nil)
}

// Menus lists goods categories
func (h *GoodsHandler) Menus(c *gin.Context) {
	menus, err := h.goods.Menus(c.Request.Context())
	if err != nil {
		apiError(c, err)
		return
	}
	utils.SuccessResponse(c, menus)
}

// CreateMenu creates a goods category
func (h *GoodsHandler) CreateMenu(c *gin.Context) {
	var params model.CreateGoodsMenuParams
	if !bindJSON(c, &params) {
		return
	}

	menu, err := h.goods.CreateMenu(c.Request.Context(), params)
	if err != nil {
		apiError(c, err)
		return
	}
	utils.SuccessResponse(c, menu)
}
