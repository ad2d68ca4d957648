package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nexus-commerce/storefront/internal/payments"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPaymentTestHandler() *PaymentHandler {
	return NewPaymentHandler(payments.NewService(payments.NewMockProvider()))
}

func TestCreateIntent_Created(t *testing.T) {
	handler := newPaymentTestHandler()

	recorder := httptest.NewRecorder()
	body := []byte(`{"amount": 38.39, "currency": "usd"}`)
	handler.CreateIntent(recorder, authedRequest("POST", "/api/payments/create-payment-intent", body))

	require.Equal(t, http.StatusCreated, recorder.Code)

	var intent payments.Intent
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&intent))
	assert.NotEmpty(t, intent.ID)
	assert.NotEmpty(t, intent.ClientSecret)
	assert.Equal(t, "succeeded", intent.Status)
}

func TestCreateIntent_InvalidAmount(t *testing.T) {
	handler := newPaymentTestHandler()

	recorder := httptest.NewRecorder()
	body := []byte(`{"amount": -10}`)
	handler.CreateIntent(recorder, authedRequest("POST", "/api/payments/create-payment-intent", body))

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestVerifyIntent_Roundtrip(t *testing.T) {
	svc := payments.NewService(payments.NewMockProvider())
	handler := NewPaymentHandler(svc)

	recorder := httptest.NewRecorder()
	body := []byte(`{"amount": 10.00}`)
	handler.CreateIntent(recorder, authedRequest("POST", "/api/payments/create-payment-intent", body))
	require.Equal(t, http.StatusCreated, recorder.Code)

	var created payments.Intent
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&created))

	recorder = httptest.NewRecorder()
	request := authedRequest("GET", "/api/payments/verify/"+created.ID, nil)
	request = withURLParam(request, "payment_id", created.ID)

	handler.VerifyIntent(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)
	var verified payments.Intent
	require.NoError(t, json.NewDecoder(recorder.Body).Decode(&verified))
	assert.Equal(t, created.ID, verified.ID)
}

func TestVerifyIntent_NotFound(t *testing.T) {
	handler := newPaymentTestHandler()

	recorder := httptest.NewRecorder()
	request := authedRequest("GET", "/api/payments/verify/pi_unknown", nil)
	request = withURLParam(request, "payment_id", "pi_unknown")

	handler.VerifyIntent(recorder, request)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestWebhook_Acknowledges(t *testing.T) {
	handler := newPaymentTestHandler()

	recorder := httptest.NewRecorder()
	body := []byte(`{"type": "payment_intent.succeeded"}`)
	handler.Webhook(recorder, authedRequest("POST", "/api/payments/webhook", body))

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.JSONEq(t, `{"received": true}`, recorder.Body.String())
}
