package handler

import (
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"

	"shopadmin/internal/route"
	"shopadmin/pkg/utils"
)

// RouteHandler serves the console navigation built from the route table
type RouteHandler struct {
	table atomic.Pointer[route.Table]
}

// NewRouteHandler creates a route handler over table
func NewRouteHandler(table *route.Table) *RouteHandler {
	h := &RouteHandler{}
	h.table.Store(table)
	return h
}

// SetTable swaps the table, e.g. after the routes file was edited
func (h *RouteHandler) SetTable(table *route.Table) {
	h.table.Store(table)
}

// Table returns the table being served
func (h *RouteHandler) Table() *route.Table {
	return h.table.Load()
}

// Menu returns the sidebar menu with hidden routes pruned
func (h *RouteHandler) Menu(c *gin.Context) {
	t := h.table.Load()
	utils.SuccessResponse(c, gin.H{
		"version": t.Version(),
		"menu":    t.Menu(),
	})
}

// Breadcrumb returns the trail and the menu keys to highlight for ?path=
func (h *RouteHandler) Breadcrumb(c *gin.Context) {
	p := c.Query("path")
	if p == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Missing path parameter")
		return
	}

	t := h.table.Load()
	crumbs, ok := t.Breadcrumb(p)
	if !ok {
		utils.ErrorResponse(c, http.StatusNotFound, "Unknown route: "+p)
		return
	}
	utils.SuccessResponse(c, gin.H{
		"crumbs":     crumbs,
		"activeKeys": t.ActiveKeys(p),
	})
}
