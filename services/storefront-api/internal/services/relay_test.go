package services

import (
	"testing"
	"time"

	"github.com/marketbay/shopfront/pkg"
	"github.com/marketbay/shopfront/pkg/views"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func testEvent(code string) views.PaymentEvent {
	return views.PaymentEvent{
		EventID:   "evt-1",
		OrderID:   "ord-1",
		OrderCode: code,
		Status:    pkg.OrderStatusSuccess,
		Amount:    100000,
	}
}

func TestRelay_DeliversToWaiter(t *testing.T) {
	relay := NewRelay(zap.NewNop(), time.Minute)
	defer relay.Close()

	ch, cancel := relay.Subscribe("ORD1001")
	defer cancel()

	delivered := relay.Publish(testEvent("ORD1001"))
	assert.Equal(t, 1, delivered)

	select {
	case event, open := <-ch:
		assert.True(t, open)
		assert.Equal(t, "ORD1001", event.OrderCode)
		assert.Equal(t, pkg.OrderStatusSuccess, event.Status)
	case <-time.After(time.Second):
		t.Fatal("expected event on subscriber channel")
	}

	// Channel is closed after the single delivery.
	_, open := <-ch
	assert.False(t, open)
}

func TestRelay_MultipleWaitersSameCode(t *testing.T) {
	relay := NewRelay(zap.NewNop(), time.Minute)
	defer relay.Close()

	ch1, cancel1 := relay.Subscribe("ORD1001")
	ch2, cancel2 := relay.Subscribe("ORD1001")
	defer cancel1()
	defer cancel2()

	delivered := relay.Publish(testEvent("ORD1001"))
	assert.Equal(t, 2, delivered)

	for _, ch := range []<-chan views.PaymentEvent{ch1, ch2} {
		select {
		case event := <-ch:
			assert.Equal(t, "ORD1001", event.OrderCode)
		case <-time.After(time.Second):
			t.Fatal("every waiter must receive the event")
		}
	}
}

func TestRelay_PublishWithoutWaiters(t *testing.T) {
	relay := NewRelay(zap.NewNop(), time.Minute)
	defer relay.Close()

	assert.Equal(t, 0, relay.Publish(testEvent("ORD9999")))
}

func TestRelay_PublishDoesNotCrossCodes(t *testing.T) {
	relay := NewRelay(zap.NewNop(), time.Minute)
	defer relay.Close()

	ch, cancel := relay.Subscribe("ORD1001")
	defer cancel()

	relay.Publish(testEvent("ORD2002"))

	select {
	case <-ch:
		t.Fatal("waiter for ORD1001 must not see ORD2002")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRelay_CancelRemovesWaiter(t *testing.T) {
	relay := NewRelay(zap.NewNop(), time.Minute)
	defer relay.Close()

	_, cancel := relay.Subscribe("ORD1001")
	cancel()

	assert.Equal(t, 0, relay.Publish(testEvent("ORD1001")))
}

func TestRelay_ExpiredWaiterIsEvicted(t *testing.T) {
	relay := NewRelay(zap.NewNop(), 10*time.Millisecond)
	defer relay.Close()

	ch, _ := relay.Subscribe("ORD1001")

	// Drive eviction directly instead of waiting for the janitor tick.
	impl := relay.(*RelayImpl)
	impl.evictExpired(time.Now().Add(time.Second))

	select {
	case _, open := <-ch:
		assert.False(t, open, "expired waiter channel must be closed without an event")
	case <-time.After(time.Second):
		t.Fatal("expired waiter channel must be closed")
	}

	assert.Equal(t, 0, relay.Publish(testEvent("ORD1001")))
}

func TestRelay_CloseClosesAllWaiters(t *testing.T) {
	relay := NewRelay(zap.NewNop(), time.Minute)

	ch, _ := relay.Subscribe("ORD1001")
	relay.Close()

	_, open := <-ch
	assert.False(t, open)
}
