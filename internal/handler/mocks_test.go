package handler

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"shopadmin/internal/api/goods"
	"shopadmin/internal/model"
)

// MockGoodsAPI is a mock implementation of goods.API
type MockGoodsAPI struct {
	mock.Mock
}

func (m *MockGoodsAPI) ListAll(ctx context.Context) (*model.GoodsListResponse, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GoodsListResponse), args.Error(1)
}

func (m *MockGoodsAPI) List(ctx context.Context, filter goods.ListFilter) (*model.GoodsListResponse, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GoodsListResponse), args.Error(1)
}

func (m *MockGoodsAPI) Create(ctx context.Context, params model.CreateGoodsParams) (*model.Goods, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Goods), args.Error(1)
}

func (m *MockGoodsAPI) Menus(ctx context.Context) ([]model.GoodsMenu, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.GoodsMenu), args.Error(1)
}

func (m *MockGoodsAPI) CreateMenu(ctx context.Context, params model.CreateGoodsMenuParams) (*model.GoodsMenu, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.GoodsMenu), args.Error(1)
}

func (m *MockGoodsAPI) Detail(ctx context.Context, id string) (*model.Goods, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Goods), args.Error(1)
}

func (m *MockGoodsAPI) Update(ctx context.Context, id string, params model.UpdateGoodsParams) (*model.Goods, error) {
	args := m.Called(ctx, id, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Goods), args.Error(1)
}

func (m *MockGoodsAPI) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOrderAPI is a mock implementation of order.API
type MockOrderAPI struct {
	mock.Mock
}

func (m *MockOrderAPI) List(ctx context.Context, params model.GetOrderListParams) (*model.OrderListResponse, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderListResponse), args.Error(1)
}

func (m *MockOrderAPI) Detail(ctx context.Context, orderID string) (*model.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockOrderAPI) UpdateStatus(ctx context.Context, params model.UpdateOrderStatusParams) (json.RawMessage, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *MockOrderAPI) Statistics(ctx context.Context, params model.GetOrderStatisticsParams) (*model.OrderStatistics, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.OrderStatistics), args.Error(1)
}

func (m *MockOrderAPI) BatchUpdate(ctx context.Context, params model.BatchUpdateOrderParams) (json.RawMessage, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(json.RawMessage), args.Error(1)
}

// MockUserAPI is a mock implementation of user.API
type MockUserAPI struct {
	mock.Mock
}

func (m *MockUserAPI) Info(ctx context.Context) (*model.UserInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.UserInfo), args.Error(1)
}
