package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus order lifecycle state
type OrderStatus string

// OrderStatus const
const (
	OrderStatusPending    OrderStatus = "pending"    // 待确认
	OrderStatusConfirmed  OrderStatus = "confirmed"  // 已确认
	OrderStatusPreparing  OrderStatus = "preparing"  // 备货中
	OrderStatusDelivering OrderStatus = "delivering" // 配送中
	OrderStatusCompleted  OrderStatus = "completed"  // 已完成
	OrderStatusCancelled  OrderStatus = "cancelled"  // 已取消
)

// forward lifecycle; cancelled is reachable from every non-terminal state
var orderFlow = map[OrderStatus]OrderStatus{
	OrderStatusPending:    OrderStatusConfirmed,
	OrderStatusConfirmed:  OrderStatusPreparing,
	OrderStatusPreparing:  OrderStatusDelivering,
	OrderStatusDelivering: OrderStatusCompleted,
}

// OrderStatuses lists every status in lifecycle order.
var OrderStatuses = []OrderStatus{
	OrderStatusPending,
	OrderStatusConfirmed,
	OrderStatusPreparing,
	OrderStatusDelivering,
	OrderStatusCompleted,
	OrderStatusCancelled,
}

// Valid reports whether s is a known status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusDelivering, OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// Next returns the forward successor of s, if any.
func (s OrderStatus) Next() (OrderStatus, bool) {
	next, ok := orderFlow[s]
	return next, ok
}

// CanTransitionTo reports whether next is the forward successor of s or a
// cancellation of a non-terminal order. The backend stays the authority.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !s.Valid() || s.IsTerminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	successor, ok := orderFlow[s]
	return ok && successor == next
}

// BatchAction bulk operation on orders
type BatchAction string

// BatchAction const
const (
	BatchActionConfirm        BatchAction = "confirm"
	BatchActionCancel         BatchAction = "cancel"
	BatchActionStartPreparing BatchAction = "start_preparing"
)

// Valid reports whether a is a known action.
func (a BatchAction) Valid() bool {
	switch a {
	case BatchActionConfirm, BatchActionCancel, BatchActionStartPreparing:
		return true
	}
	return false
}

// TargetStatus returns the status an order reaches when a succeeds on it.
func (a BatchAction) TargetStatus() OrderStatus {
	switch a {
	case BatchActionConfirm:
		return OrderStatusConfirmed
	case BatchActionCancel:
		return OrderStatusCancelled
	case BatchActionStartPreparing:
		return OrderStatusPreparing
	}
	return ""
}

// StatisticsType bucket size of statistics trend data
type StatisticsType string

// StatisticsType const
const (
	StatisticsByDay   StatisticsType = "day"
	StatisticsByWeek  StatisticsType = "week"
	StatisticsByMonth StatisticsType = "month"
)

// OrderItem ordered goods line
type OrderItem struct {
	GoodsID        string  `json:"goodsId"`
	GoodsName      string  `json:"goodsName"`
	GoodsImage     string  `json:"goodsImage"`
	Price          float64 `json:"price"`
	Quantity       int     `json:"quantity"`
	Subtotal       float64 `json:"subtotal"`
	Specifications string  `json:"specifications,omitempty"`
}

// SubtotalMatches reports whether Subtotal == Price * Quantity.
func (i *OrderItem) SubtotalMatches() bool {
	expected := decimal.NewFromFloat(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
	return withinTolerance(expected, decimal.NewFromFloat(i.Subtotal))
}

// DeliveryAddress delivery address
type DeliveryAddress struct {
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Address   string   `json:"address"`
	Detail    string   `json:"detail"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
}

// OrderUser user summary embedded in an order (buyer or courier)
type OrderUser struct {
	ID       string `json:"_id"`
	Nickname string `json:"nickname"`
	Phone    string `json:"phone"`
	Avatar   string `json:"avatar,omitempty"`
}

// OrderShop shop summary embedded in an order
type OrderShop struct {
	ID           string `json:"_id"`
	ShopName     string `json:"shopName"`
	Address      string `json:"address"`
	ContactPhone string `json:"contactPhone"`
	Logo         string `json:"logo,omitempty"`
}

// Order order record as returned by the shop backend
type Order struct {
	ID                string          `json:"_id"`
	OrderNumber       string          `json:"orderNumber"`
	User              OrderUser       `json:"userId"`
	Shop              OrderShop       `json:"shopId"`
	OrderItems        []OrderItem     `json:"orderItems"`
	DeliveryAddress   DeliveryAddress `json:"deliveryAddress"`
	DeliveryType      string          `json:"deliveryType"`
	DeliveryTime      string          `json:"deliveryTime"`
	GoodsAmount       float64         `json:"goodsAmount"`
	DeliveryFee       float64         `json:"deliveryFee"`
	DiscountAmount    float64         `json:"discountAmount"`
	TotalAmount       float64         `json:"totalAmount"`
	Status            OrderStatus     `json:"status"`
	PaymentStatus     string          `json:"paymentStatus"`
	PaymentMethod     string          `json:"paymentMethod"`
	Remark            string          `json:"remark,omitempty"`
	DeliveryUser      *OrderUser      `json:"deliveryUserId,omitempty"`
	OrderTime         time.Time       `json:"orderTime"`
	ConfirmTime       *time.Time      `json:"confirmTime,omitempty"`
	CompletedTime     *time.Time      `json:"completedTime,omitempty"`
	CancelledTime     *time.Time      `json:"cancelledTime,omitempty"`
	CancelReason      string          `json:"cancelReason,omitempty"`
	PaymentExpireTime *time.Time      `json:"paymentExpireTime,omitempty"`
	CreateTime        time.Time       `json:"createTime"`
	UpdateTime        time.Time       `json:"updateTime"`
}

// AmountsBalanced reports whether TotalAmount == GoodsAmount + DeliveryFee - DiscountAmount.
func (o *Order) AmountsBalanced() bool {
	expected := decimal.NewFromFloat(o.GoodsAmount).
		Add(decimal.NewFromFloat(o.DeliveryFee)).
		Sub(decimal.NewFromFloat(o.DiscountAmount))
	return withinTolerance(expected, decimal.NewFromFloat(o.TotalAmount))
}

// Verify checks the amount breakdown and every item subtotal.
func (o *Order) Verify() error {
	if !o.AmountsBalanced() {
		return fmt.Errorf("order %s: total %.2f != goods %.2f + delivery %.2f - discount %.2f",
			o.OrderNumber, o.TotalAmount, o.GoodsAmount, o.DeliveryFee, o.DiscountAmount)
	}
	for idx := range o.OrderItems {
		item := &o.OrderItems[idx]
		if !item.SubtotalMatches() {
			return fmt.Errorf("order %s: item %s subtotal %.2f != %.2f x %d",
				o.OrderNumber, item.GoodsID, item.Subtotal, item.Price, item.Quantity)
		}
	}
	return nil
}

// IsPending check order is pending
func (o *Order) IsPending() bool {
	return o.Status == OrderStatusPending
}

// IsCancelled check order is cancelled
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// IsCompleted check order is completed
func (o *Order) IsCompleted() bool {
	return o.Status == OrderStatusCompleted
}

// OrderListResponse order page
type OrderListResponse struct {
	Orders     []Order         `json:"orders"`
	Pagination OrderPagination `json:"pagination"`
}

// StatisticsSummary aggregate totals
type StatisticsSummary struct {
	TotalOrders     int     `json:"totalOrders"`
	TotalAmount     float64 `json:"totalAmount"`
	AvgOrderAmount  float64 `json:"avgOrderAmount"`
	CompletedOrders int     `json:"completedOrders"`
}

// StatusStats order count per status
type StatusStats struct {
	Pending    int `json:"pending"`
	Confirmed  int `json:"confirmed"`
	Preparing  int `json:"preparing"`
	Delivering int `json:"delivering"`
	Completed  int `json:"completed"`
	Cancelled  int `json:"cancelled"`
}

// Count returns the count recorded for s.
func (s StatusStats) Count(status OrderStatus) int {
	switch status {
	case OrderStatusPending:
		return s.Pending
	case OrderStatusConfirmed:
		return s.Confirmed
	case OrderStatusPreparing:
		return s.Preparing
	case OrderStatusDelivering:
		return s.Delivering
	case OrderStatusCompleted:
		return s.Completed
	case OrderStatusCancelled:
		return s.Cancelled
	}
	return 0
}

// Total sums all status counts.
func (s StatusStats) Total() int {
	return s.Pending + s.Confirmed + s.Preparing + s.Delivering + s.Completed + s.Cancelled
}

// HotGoods top selling goods entry
type HotGoods struct {
	ID            string  `json:"_id"`
	GoodsName     string  `json:"goodsName"`
	TotalQuantity int     `json:"totalQuantity"`
	TotalAmount   float64 `json:"totalAmount"`
}

// TrendPoint orders in one time bucket
type TrendPoint struct {
	Time   string `json:"time"`
	Orders int    `json:"orders"`
}

// DateRange range covered by a statistics response
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// OrderStatistics order statistics
type OrderStatistics struct {
	Summary     StatisticsSummary `json:"summary"`
	StatusStats StatusStats       `json:"statusStats"`
	HotGoods    []HotGoods        `json:"hotGoods"`
	TrendData   []TrendPoint      `json:"trendData"`
	DateRange   DateRange         `json:"dateRange"`
}

// GetOrderListParams order query. Zero fields are left out of the request body.
type GetOrderListParams struct {
	Status      OrderStatus `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed preparing delivering completed cancelled"`
	Page        int         `json:"page,omitempty" validate:"gte=0"`
	Limit       int         `json:"limit,omitempty" validate:"gte=0"`
	StartDate   string      `json:"startDate,omitempty"`
	EndDate     string      `json:"endDate,omitempty"`
	OrderNumber string      `json:"orderNumber,omitempty"`
}

// UpdateOrderStatusParams status change of one order. CancelReason is
// expected by the backend when Status is cancelled and omitted when empty.
type UpdateOrderStatusParams struct {
	OrderID      string      `json:"orderId" validate:"required"`
	Status       OrderStatus `json:"status" validate:"required,oneof=pending confirmed preparing delivering completed cancelled"`
	CancelReason string      `json:"cancelReason,omitempty"`
}

// BatchUpdateOrderParams bulk action over several orders, sent as one request
type BatchUpdateOrderParams struct {
	OrderIDs     []string    `json:"orderIds" validate:"required,min=1,dive,required"`
	Action       BatchAction `json:"action" validate:"required,oneof=confirm cancel start_preparing"`
	CancelReason string      `json:"cancelReason,omitempty"`
}

// GetOrderStatisticsParams statistics query
type GetOrderStatisticsParams struct {
	StartDate string         `json:"startDate,omitempty"`
	EndDate   string         `json:"endDate,omitempty"`
	Type      StatisticsType `json:"type,omitempty" validate:"omitempty,oneof=day week month"`
}

// amounts are currency with two decimals; half a cent absorbs float noise
var amountTolerance = decimal.New(5, -3)

func withinTolerance(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(amountTolerance)
}
