package event

import (
	"errors"
	"fmt"
	"testing"
)

type point struct{ X, Y int }

var pointTopic = NewTopic[point](testCode, "test.point")

func TestTopic_PublishSubscribe(t *testing.T) {
	b, _ := newTestBus(t)
	me := NewRecipient()

	var got []point
	h := SubscribeFunc(b, pointTopic, me, func(e Event[point]) bool {
		got = append(got, e.Payload)
		if e.Recipient != me {
			t.Errorf("Recipient = %v, expected %v", e.Recipient, me)
		}
		return true
	})
	if h == nil {
		t.Fatal("SubscribeFunc failed")
	}

	if !Publish(b, pointTopic, Recipient{}, point{1, 2}) {
		t.Error("Publish should be handled")
	}
	if len(got) != 1 || got[0] != (point{1, 2}) {
		t.Errorf("got %v", got)
	}

	if !Unsubscribe(b, pointTopic, me, h) {
		t.Error("Unsubscribe should succeed")
	}
	if Publish(b, pointTopic, Recipient{}, point{3, 4}) {
		t.Error("Publish after Unsubscribe should not be handled")
	}
}

func TestTopic_BindsPayloadType(t *testing.T) {
	b, _ := newTestBus(t)
	h := &recorder{handled: true}
	b.Register(testCode, NewRecipient(), h)

	Publish(b, pointTopic, Recipient{}, point{})
	if typ, ok := b.PayloadType(testCode); !ok || typ.String() != "event.point" {
		t.Fatalf("PayloadType() = %v, %v", typ, ok)
	}

	if b.Emit(testCode, Recipient{}, "not a point") {
		t.Error("Emit with mismatched payload should be rejected")
	}
	if len(h.calls) != 1 {
		t.Errorf("handler saw %d events, expected 1", len(h.calls))
	}

	other := NewTopic[string](testCode, "test.string")
	if Publish(b, other, Recipient{}, "x") {
		t.Error("Publish with a conflicting topic type should be rejected")
	}
	if SubscribeFunc(b, other, NewRecipient(), func(Event[string]) bool { return true }) != nil {
		t.Error("Subscribe with a conflicting topic type should be rejected")
	}
}

func TestTopic_BindError(t *testing.T) {
	b, _ := newTestBus(t)
	if err := b.bind(testCode, typeOf[point]()); err != nil {
		t.Fatalf("bind() error = %v", err)
	}

	err := b.bind(testCode, typeOf[int]())
	var pte *PayloadTypeError
	if !errors.As(err, &pte) || !errors.Is(err, ErrPayloadType) {
		t.Fatalf("bind() error = %v, expected *PayloadTypeError", err)
	}
	if pte.Code != testCode {
		t.Errorf("Code = %d, expected %d", pte.Code, testCode)
	}
}

func TestTopic_InterfacePayload(t *testing.T) {
	b, _ := newTestBus(t)
	topic := NewTopic[fmt.Stringer](testCode, "test.stringer")

	var seen string
	SubscribeFunc(b, topic, NewRecipient(), func(e Event[fmt.Stringer]) bool {
		seen = e.Payload.String()
		return true
	})

	if !Publish[fmt.Stringer](b, topic, Recipient{}, NewRecipient()) {
		t.Fatal("Publish of an implementation should be accepted")
	}
	if seen == "" {
		t.Error("handler did not receive payload")
	}
	if b.Emit(testCode, Recipient{}, 7) {
		t.Error("Emit of a non-implementation should be rejected")
	}
}

func TestTopic_NilHandler(t *testing.T) {
	b, _ := newTestBus(t)
	if SubscribeFunc[point](b, pointTopic, NewRecipient(), nil) != nil {
		t.Error("nil func should be rejected")
	}
	if Subscribe[point](b, pointTopic, NewRecipient(), nil) != nil {
		t.Error("nil handler should be rejected")
	}
}

func TestTopic_DedupeByRecipient(t *testing.T) {
	b, _ := newTestBus(t)
	me := NewRecipient()
	fn := func(Event[point]) bool { return true }

	if SubscribeFunc(b, pointTopic, me, fn) == nil {
		t.Fatal("first subscribe failed")
	}
	if SubscribeFunc(b, pointTopic, me, fn) != nil {
		t.Error("second subscribe by the same recipient should fail")
	}
}

func TestTopic_FailedSubscribeLeavesCodeUnbound(t *testing.T) {
	b, _ := newTestBus(t)
	me := NewRecipient()
	b.Register(testCode, me, &recorder{})

	if SubscribeFunc(b, pointTopic, me, func(Event[point]) bool { return true }) != nil {
		t.Fatal("subscribe by a registered recipient should fail")
	}
	if typ, ok := b.PayloadType(testCode); ok {
		t.Errorf("PayloadType() = %v, expected no binding", typ)
	}
	b.Emit(testCode, Recipient{}, "any payload")
	if b.Stats().Rejected != 1 {
		t.Errorf("Rejected = %d, expected only the failed subscribe", b.Stats().Rejected)
	}
}
