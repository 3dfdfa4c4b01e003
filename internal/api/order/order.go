package order

import (
	"context"
	"encoding/json"

	"shopadmin/internal/model"
	"shopadmin/internal/transport"
	"shopadmin/pkg/utils"
)

// backend paths; batch-update really lives under /api on the backend
const (
	pathList         = "/order/shop/orders"
	pathDetail       = "/order/shop/detail"
	pathUpdateStatus = "/order/shop/update-status"
	pathStatistics   = "/order/shop/statistics"
	pathBatchUpdate  = "/api/order/shop/batch-update"
)

// API shop order calls. Every call is a POST with a JSON body.
type API interface {
	List(ctx context.Context, params model.GetOrderListParams) (*model.OrderListResponse, error)
	Detail(ctx context.Context, orderID string) (*model.Order, error)
	// UpdateStatus returns the backend's reply untouched
	UpdateStatus(ctx context.Context, params model.UpdateOrderStatusParams) (json.RawMessage, error)
	Statistics(ctx context.Context, params model.GetOrderStatisticsParams) (*model.OrderStatistics, error)
	// BatchUpdate sends all ids in one request. The reply is returned
	// untouched; whether the batch applied partially is up to the backend.
	BatchUpdate(ctx context.Context, params model.BatchUpdateOrderParams) (json.RawMessage, error)
}

type detailRequest struct {
	OrderID string `json:"orderId"`
}

type orderAPI struct {
	doer transport.Doer
}

// New creates the order API over doer
func New(doer transport.Doer) API {
	return &orderAPI{doer: doer}
}

func (a *orderAPI) List(ctx context.Context, params model.GetOrderListParams) (*model.OrderListResponse, error) {
	if err := utils.ValidateStruct(params); err != nil {
		return nil, err
	}

	var resp model.OrderListResponse
	if err := a.doer.Post(ctx, pathList, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (a *orderAPI) Detail(ctx context.Context, orderID string) (*model.Order, error) {
	if err := utils.ValidateID("orderId", orderID); err != nil {
		return nil, err
	}

	var order model.Order
	if err := a.doer.Post(ctx, pathDetail, detailRequest{OrderID: orderID}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

func (a *orderAPI) UpdateStatus(ctx context.Context, params model.UpdateOrderStatusParams) (json.RawMessage, error) {
	if err := utils.ValidateStruct(params); err != nil {
		return nil, err
	}

	var result json.RawMessage
	if err := a.doer.Post(ctx, pathUpdateStatus, params, &result); err != nil {
		return nil, err
	}
	return result, nil
}

func (a *orderAPI) Statistics(ctx context.Context, params model.GetOrderStatisticsParams) (*model.OrderStatistics, error) {
	if err := utils.ValidateStruct(params); err != nil {
		return nil, err
	}

	var stats model.OrderStatistics
	if err := a.doer.Post(ctx, pathStatistics, params, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (a *orderAPI) BatchUpdate(ctx context.Context, params model.BatchUpdateOrderParams) (json.RawMessage, error) {
	if err := utils.ValidateStruct(params); err != nil {
		return nil, err
	}

	var result json.RawMessage
	if err := a.doer.Post(ctx, pathBatchUpdate, params, &result); err != nil {
		return nil, err
	}
	return result, nil
}
