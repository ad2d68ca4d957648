package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/nexus-commerce/storefront/internal/checkout"
	"github.com/nexus-commerce/storefront/internal/orders"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type checkoutMock struct {
	order *orders.Order
	err   error
}

func (m *checkoutMock) PlaceOrder(context.Context, string) (*orders.Order, error) {
	return m.order, m.err
}

type orderReaderMock struct {
	orders    map[uuid.UUID]*orders.Order
	statusErr error
}

func (m *orderReaderMock) GetOrderByID(_ context.Context, id uuid.UUID) (*orders.Order, error) {
	if o, ok := m.orders[id]; ok {
		return o, nil
	}
	return nil, orders.ErrOrderNotFound
}

func (m *orderReaderMock) ListOrdersByUserID(_ context.Context, userID string) ([]*orders.Order, error) {
	var result []*orders.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			result = append(result, o)
		}
	}
	return result, nil
}

func (m *orderReaderMock) UpdateOrderStatus(_ context.Context, id uuid.UUID, status orders.OrderStatus) error {
	if m.statusErr != nil {
		return m.statusErr
	}
	o, ok := m.orders[id]
	if !ok {
		return orders.ErrOrderNotFound
	}
	o.Status = status
	return nil
}

func TestPlaceOrder_Created(t *testing.T) {
	placed := &orders.Order{
		ID:          uuid.New(),
		Number:      "ORD1756500000000",
		UserID:      "user-1",
		TotalAmount: 38.39,
		Status:      orders.StatusPending,
	}
	handler := NewOrdersHandler(&checkoutMock{order: placed}, &orderReaderMock{})

	recorder := httptest.NewRecorder()
	handler.PlaceOrder(recorder, authedRequest("POST", "/api/orders", nil))

	require.Equal(t, http.StatusCreated, recorder.Code)

	var response orders.Order
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, placed.Number, response.Number)
	assert.InDelta(t, 38.39, response.TotalAmount, 1e-9)
}

func TestPlaceOrder_EmptyCart(t *testing.T) {
	handler := NewOrdersHandler(&checkoutMock{err: checkout.ErrEmptyCart}, &orderReaderMock{})

	recorder := httptest.NewRecorder()
	handler.PlaceOrder(recorder, authedRequest("POST", "/api/orders", nil))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	var response ErrorResponse
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&response))
	assert.Equal(t, "empty_cart", response.Code)
}

func TestListOrders_EmptyIsArray(t *testing.T) {
	handler := NewOrdersHandler(&checkoutMock{}, &orderReaderMock{})

	recorder := httptest.NewRecorder()
	handler.ListOrders(recorder, authedRequest("GET", "/api/orders", nil))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `[]`, recorder.Body.String())
}

func TestGetOrder_OwnedByOtherUser(t *testing.T) {
	other := &orders.Order{ID: uuid.New(), UserID: "someone-else"}
	reader := &orderReaderMock{orders: map[uuid.UUID]*orders.Order{other.ID: other}}
	handler := NewOrdersHandler(&checkoutMock{}, reader)

	recorder := httptest.NewRecorder()
	request := authedRequest("GET", "/api/orders/"+other.ID.String(), nil)
	request = withURLParam(request, "id", other.ID.String())

	handler.GetOrder(recorder, request)

	// Another user's order must be indistinguishable from a missing one.
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestGetOrder_InvalidID(t *testing.T) {
	handler := NewOrdersHandler(&checkoutMock{}, &orderReaderMock{})

	recorder := httptest.NewRecorder()
	request := authedRequest("GET", "/api/orders/not-a-uuid", nil)
	request = withURLParam(request, "id", "not-a-uuid")

	handler.GetOrder(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestUpdateStatus(t *testing.T) {
	order := &orders.Order{ID: uuid.New(), UserID: "user-1", Status: orders.StatusPending}
	reader := &orderReaderMock{orders: map[uuid.UUID]*orders.Order{order.ID: order}}
	handler := NewOrdersHandler(&checkoutMock{}, reader)

	recorder := httptest.NewRecorder()
	request := authedRequest("PUT", "/api/orders/"+order.ID.String()+"/status", []byte(`{"status":"completed"}`))
	request = withURLParam(request, "id", order.ID.String())

	handler.UpdateStatus(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, orders.StatusCompleted, order.Status)
}

func TestUpdateStatus_InvalidStatus(t *testing.T) {
	order := &orders.Order{ID: uuid.New(), UserID: "user-1"}
	reader := &orderReaderMock{orders: map[uuid.UUID]*orders.Order{order.ID: order}}
	handler := NewOrdersHandler(&checkoutMock{}, reader)

	recorder := httptest.NewRecorder()
	request := authedRequest("PUT", "/api/orders/"+order.ID.String()+"/status", []byte(`{"status":"teleported"}`))
	request = withURLParam(request, "id", order.ID.String())

	handler.UpdateStatus(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
