package events

import (
	"errors"
	"reflect"
	"testing"
)

func TestPublishOrder(t *testing.T) {
	b := NewBus[FrameEvent]()
	var got []string
	b.Subscribe(func(FrameEvent) { got = append(got, "clock") })
	b.Subscribe(func(FrameEvent) { got = append(got, "profiler") })
	b.Subscribe(func(FrameEvent) { got = append(got, "custom") })

	b.Publish(FrameEvent{Frame: 1})

	want := []string{"clock", "profiler", "custom"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("delivery order: expected %v, got %v", want, got)
	}
}

func TestUnsubscribe(t *testing.T) {
	b := NewBus[FrameEvent]()
	count := 0
	unsub := b.Subscribe(func(FrameEvent) { count++ })

	b.Publish(FrameEvent{Frame: 1})
	unsub()
	unsub()
	b.Publish(FrameEvent{Frame: 2})

	if count != 1 {
		t.Errorf("expected 1 delivery, got %d", count)
	}
	if b.Len() != 0 {
		t.Errorf("expected 0 subscribers, got %d", b.Len())
	}
}

func TestSubscribeDuringPublish(t *testing.T) {
	b := NewBus[FrameEvent]()
	late := 0
	b.Subscribe(func(FrameEvent) {
		b.Subscribe(func(FrameEvent) { late++ })
	})

	b.Publish(FrameEvent{Frame: 1})
	if late != 0 {
		t.Errorf("handler added during publish ran in the same publish")
	}
	b.Publish(FrameEvent{Frame: 2})
	if late != 1 {
		t.Errorf("expected late handler to run once, got %d", late)
	}
}

func TestNilHandlerIgnored(t *testing.T) {
	b := NewBus[ErrorEvent]()
	unsub := b.Subscribe(nil)
	unsub()
	if b.Len() != 0 {
		t.Errorf("nil handler should not be registered")
	}
}

func TestErrorPayload(t *testing.T) {
	b := NewBus[ErrorEvent]()
	sentinel := errors.New("font missing")
	var got ErrorEvent
	b.Subscribe(func(ev ErrorEvent) { got = ev })

	b.Publish(ErrorEvent{Source: "scene", Err: sentinel})

	if got.Source != "scene" || !errors.Is(got.Err, sentinel) {
		t.Errorf("unexpected payload %+v", got)
	}
}
