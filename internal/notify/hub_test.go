package notify_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"catering-service/internal/notify"
)

type recordingListener struct {
	mu   sync.Mutex
	name string
	got  []string
	sink *[]string
}

func (l *recordingListener) Notify(event string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.got = append(l.got, event)
	if l.sink != nil {
		*l.sink = append(*l.sink, l.name)
	}
}

type panickyListener struct{}

func (l *panickyListener) Notify(event string) {
	panic("listener blew up: " + event)
}

func TestHub_PublishInSubscriptionOrder(t *testing.T) {
	hub := notify.NewHub[string]()

	var order []string
	first := &recordingListener{name: "first", sink: &order}
	second := &recordingListener{name: "second", sink: &order}

	hub.Subscribe(first)
	hub.Subscribe(second)
	hub.Publish("event")

	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, []string{"event"}, first.got)
	assert.Equal(t, []string{"event"}, second.got)
}

func TestHub_PanickingListenerDoesNotStopFanOut(t *testing.T) {
	hub := notify.NewHub[string]()

	after := &recordingListener{name: "after"}
	hub.Subscribe(&panickyListener{})
	hub.Subscribe(after)

	assert.NotPanics(t, func() { hub.Publish("event") })
	assert.Equal(t, []string{"event"}, after.got)
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := notify.NewHub[string]()

	a := &recordingListener{name: "a"}
	b := &recordingListener{name: "b"}
	hub.Subscribe(a)
	hub.Subscribe(b)

	hub.Unsubscribe(a)
	hub.Publish("event")

	assert.Empty(t, a.got)
	assert.Equal(t, []string{"event"}, b.got)
	assert.Equal(t, 1, hub.Len())

	// unsubscribing something never registered is a no-op
	hub.Unsubscribe(&recordingListener{name: "stranger"})
	assert.Equal(t, 1, hub.Len())
}

func TestHub_PublishNoListeners(t *testing.T) {
	hub := notify.NewHub[string]()
	assert.NotPanics(t, func() { hub.Publish("dropped") })
}

func TestHub_ConcurrentSubscribeDuringPublish(t *testing.T) {
	hub := notify.NewHub[string]()
	hub.Subscribe(&recordingListener{name: "seed"})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			l := &recordingListener{name: "churn"}
			hub.Subscribe(l)
			hub.Unsubscribe(l)
		}()
		go func() {
			defer wg.Done()
			hub.Publish("event")
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, hub.Len())
}
