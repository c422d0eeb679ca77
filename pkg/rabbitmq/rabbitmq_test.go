package rabbitmq

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"catalogo/internal/services"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockAcknowledger records how a delivery was settled.
type MockAcknowledger struct {
	mock.Mock
}

func (m *MockAcknowledger) Ack(tag uint64, multiple bool) error {
	return m.Called(tag, multiple).Error(0)
}

func (m *MockAcknowledger) Nack(tag uint64, multiple bool, requeue bool) error {
	return m.Called(tag, multiple, requeue).Error(0)
}

func (m *MockAcknowledger) Reject(tag uint64, requeue bool) error {
	return m.Called(tag, requeue).Error(0)
}

func delivery(t *testing.T, ack amqp.Acknowledger, body []byte) amqp.Delivery {
	t.Helper()
	return amqp.Delivery{Acknowledger: ack, DeliveryTag: 7, Body: body}
}

func eventBody(t *testing.T) []byte {
	t.Helper()
	body, err := json.Marshal(services.ProductEvent{
		ID:         "evt-1",
		Type:       services.EventProductDeleted,
		Code:       "AAAAA",
		OccurredAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return body
}

func TestHandleDelivery_AcksHandledEvent(t *testing.T) {
	ack := new(MockAcknowledger)
	ack.On("Ack", uint64(7), false).Return(nil).Once()

	var got services.ProductEvent
	handleDelivery(delivery(t, ack, eventBody(t)), func(event services.ProductEvent) error {
		got = event
		return nil
	})

	assert.Equal(t, "evt-1", got.ID)
	assert.Equal(t, services.EventProductDeleted, got.Type)
	assert.Equal(t, "AAAAA", got.Code)
	ack.AssertExpectations(t)
	ack.AssertNotCalled(t, "Nack", mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleDelivery_RequeuesOnHandlerError(t *testing.T) {
	ack := new(MockAcknowledger)
	ack.On("Nack", uint64(7), false, true).Return(nil).Once()

	handleDelivery(delivery(t, ack, eventBody(t)), func(services.ProductEvent) error {
		return errors.New("sink unavailable")
	})

	ack.AssertExpectations(t)
	ack.AssertNotCalled(t, "Ack", mock.Anything, mock.Anything)
}

func TestHandleDelivery_DropsUndecodableMessage(t *testing.T) {
	ack := new(MockAcknowledger)
	ack.On("Nack", uint64(7), false, false).Return(nil).Once()

	called := false
	handleDelivery(delivery(t, ack, []byte("not json")), func(services.ProductEvent) error {
		called = true
		return nil
	})

	assert.False(t, called)
	ack.AssertExpectations(t)
}

func TestHandleDelivery_SettlementErrorsAreTolerated(t *testing.T) {
	ack := new(MockAcknowledger)
	ack.On("Ack", uint64(7), false).Return(errors.New("channel closed")).Once()

	assert.NotPanics(t, func() {
		handleDelivery(delivery(t, ack, eventBody(t)), func(services.ProductEvent) error { return nil })
	})
	ack.AssertExpectations(t)
}

func TestClientWithoutChannel(t *testing.T) {
	c := &Client{}
	assert.Error(t, c.PublishProductEvent(services.ProductEvent{}))
	_, err := c.ConsumeProductEvents(func(services.ProductEvent) error { return nil })
	assert.Error(t, err)
	assert.NoError(t, c.Close())
}
