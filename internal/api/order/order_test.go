package order

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopadmin/internal/model"
	"shopadmin/internal/session"
	"shopadmin/internal/transport"
	"shopadmin/pkg/utils"
)

// bodies records what the fake backend received per path
type bodies map[string][]json.RawMessage

func setup(t *testing.T, s *session.Session, routes func(r *gin.Engine)) (API, bodies) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	got := bodies{}
	r := gin.New()
	r.Use(func(c *gin.Context) {
		body, _ := io.ReadAll(c.Request.Body)
		got[c.Request.URL.Path] = append(got[c.Request.URL.Path], body)
	})
	routes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	client, err := transport.New(srv.URL, transport.WithTokenReader(s))
	require.NoError(t, err)
	return New(client), got
}

func loggedIn(t *testing.T) *session.Session {
	t.Helper()
	s := session.New(session.NewMemoryStore())
	require.NoError(t, s.Login(context.Background(), "tok"))
	return s
}

func decode(t *testing.T, raw json.RawMessage) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &m))
	return m
}

func TestList(t *testing.T) {
	api, got := setup(t, loggedIn(t), func(r *gin.Engine) {
		r.POST("/order/shop/orders", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"code": 0, "data": gin.H{
				"orders":     []gin.H{{"_id": "o1", "orderNumber": "N1", "status": "pending", "goodsAmount": 59.7, "deliveryFee": 5, "discountAmount": 10.1, "totalAmount": 54.6}},
				"pagination": model.NewOrderPagination(21, 10, 1),
			}})
		})
	})
	ctx := context.Background()

	resp, err := api.List(ctx, model.GetOrderListParams{})
	require.NoError(t, err)
	require.Len(t, resp.Orders, 1)
	assert.True(t, resp.Orders[0].IsPending())
	assert.True(t, resp.Orders[0].AmountsBalanced())
	assert.True(t, resp.Pagination.HasNext())
	assert.JSONEq(t, `{}`, string(got["/order/shop/orders"][0]))

	_, err = api.List(ctx, model.GetOrderListParams{Status: model.OrderStatusDelivering, Page: 2})
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":"delivering","page":2}`, string(got["/order/shop/orders"][1]))

	_, err = api.List(ctx, model.GetOrderListParams{Status: "shipped"})
	assert.True(t, utils.IsValidationError(err))
	assert.Len(t, got["/order/shop/orders"], 2)
}

func TestDetail(t *testing.T) {
	api, got := setup(t, loggedIn(t), func(r *gin.Engine) {
		r.POST("/order/shop/detail", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"code": 0, "data": gin.H{
				"_id":    "o1",
				"status": "confirmed",
				"userId": gin.H{"_id": "u1", "nickname": "Ann"},
				"orderItems": []gin.H{
					{"goodsId": "g1", "price": 19.9, "quantity": 3, "subtotal": 59.7},
				},
				"goodsAmount": 59.7,
				"totalAmount": 59.7,
			}})
		})
	})

	order, err := api.Detail(context.Background(), "o1")
	require.NoError(t, err)
	assert.Equal(t, "Ann", order.User.Nickname)
	assert.Nil(t, order.DeliveryUser)
	assert.NoError(t, order.Verify())
	assert.JSONEq(t, `{"orderId":"o1"}`, string(got["/order/shop/detail"][0]))

	_, err = api.Detail(context.Background(), "")
	assert.True(t, utils.IsValidationError(err))
}

func TestUpdateStatus(t *testing.T) {
	api, got := setup(t, loggedIn(t), func(r *gin.Engine) {
		r.POST("/order/shop/update-status", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"code": 0, "data": gin.H{"acknowledged": true, "modifiedCount": 1}})
		})
	})
	ctx := context.Background()

	result, err := api.UpdateStatus(ctx, model.UpdateOrderStatusParams{OrderID: "o1", Status: model.OrderStatusConfirmed})
	require.NoError(t, err)
	assert.JSONEq(t, `{"acknowledged":true,"modifiedCount":1}`, string(result))

	sent := decode(t, got["/order/shop/update-status"][0])
	assert.NotContains(t, sent, "cancelReason")

	_, err = api.UpdateStatus(ctx, model.UpdateOrderStatusParams{
		OrderID:      "o1",
		Status:       model.OrderStatusCancelled,
		CancelReason: "out of stock",
	})
	require.NoError(t, err)
	sent = decode(t, got["/order/shop/update-status"][1])
	assert.Equal(t, "out of stock", sent["cancelReason"])
	assert.Equal(t, "cancelled", sent["status"])

	_, err = api.UpdateStatus(ctx, model.UpdateOrderStatusParams{OrderID: "o1", Status: "lost"})
	assert.True(t, utils.IsValidationError(err))
	_, err = api.UpdateStatus(ctx, model.UpdateOrderStatusParams{Status: model.OrderStatusConfirmed})
	assert.True(t, utils.IsValidationError(err))
	assert.Len(t, got["/order/shop/update-status"], 2)
}

func TestBatchUpdate(t *testing.T) {
	api, got := setup(t, loggedIn(t), func(r *gin.Engine) {
		r.POST("/api/order/shop/batch-update", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"code": 0, "data": gin.H{"success": []string{"o1", "o2"}, "failed": []string{"o3"}}})
		})
	})
	ctx := context.Background()

	result, err := api.BatchUpdate(ctx, model.BatchUpdateOrderParams{
		OrderIDs: []string{"o1", "o2", "o3"},
		Action:   model.BatchActionConfirm,
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":["o1","o2"],"failed":["o3"]}`, string(result), "partial results are passed through")

	require.Len(t, got["/api/order/shop/batch-update"], 1, "one request for the whole batch")
	assert.JSONEq(t, `{"orderIds":["o1","o2","o3"],"action":"confirm"}`, string(got["/api/order/shop/batch-update"][0]))

	_, err = api.BatchUpdate(ctx, model.BatchUpdateOrderParams{Action: model.BatchActionCancel})
	assert.True(t, utils.IsValidationError(err))
	_, err = api.BatchUpdate(ctx, model.BatchUpdateOrderParams{OrderIDs: []string{"o1"}, Action: "ship"})
	assert.True(t, utils.IsValidationError(err))
	assert.Len(t, got["/api/order/shop/batch-update"], 1)
}

func TestStatistics(t *testing.T) {
	api, got := setup(t, loggedIn(t), func(r *gin.Engine) {
		r.POST("/order/shop/statistics", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"code": 0, "data": gin.H{
				"summary":     gin.H{"totalOrders": 3, "totalAmount": 100.5},
				"statusStats": gin.H{"pending": 1, "completed": 2},
				"trendData":   []gin.H{{"time": "2026-01-01", "orders": 3}},
				"dateRange":   gin.H{"startDate": "2026-01-01", "endDate": "2026-01-07"},
			}})
		})
	})
	ctx := context.Background()

	stats, err := api.Statistics(ctx, model.GetOrderStatisticsParams{Type: model.StatisticsByWeek})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Summary.TotalOrders)
	assert.Equal(t, stats.Summary.TotalOrders, stats.StatusStats.Total())
	assert.JSONEq(t, `{"type":"week"}`, string(got["/order/shop/statistics"][0]))

	_, err = api.Statistics(ctx, model.GetOrderStatisticsParams{Type: "year"})
	assert.True(t, utils.IsValidationError(err))
}

func TestLoggedOut(t *testing.T) {
	api, got := setup(t, session.New(session.NewMemoryStore()), func(r *gin.Engine) {
		r.POST("/order/shop/orders", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{}) })
	})

	_, err := api.List(context.Background(), model.GetOrderListParams{})
	assert.True(t, utils.IsAuthError(err))
	assert.Empty(t, got)
}
