package events

import (
	"errors"
	"fmt"
	"sync"

	"github.com/orris-inc/ticketry/internal/shared/goroutine"
	"github.com/orris-inc/ticketry/internal/shared/logger"
)

var (
	ErrDispatcherStopped = errors.New("event dispatcher is not running")
	ErrDispatcherFull    = errors.New("event channel is full")
)

// InMemoryDispatcher delivers events to subscribers on a single background
// goroutine, in publish order. Stop drains events already queued.
type InMemoryDispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]HandlerFunc
	running  bool
	eventCh  chan DomainEvent
	stopCh   chan struct{}
	wg       sync.WaitGroup
	logger   logger.Interface
}

func NewInMemoryDispatcher(bufferSize int, log logger.Interface) *InMemoryDispatcher {
	if bufferSize <= 0 {
		bufferSize = 100
	}
	return &InMemoryDispatcher{
		handlers: make(map[string][]HandlerFunc),
		eventCh:  make(chan DomainEvent, bufferSize),
		stopCh:   make(chan struct{}),
		logger:   log,
	}
}

func (d *InMemoryDispatcher) Subscribe(eventType string, fn HandlerFunc) error {
	if eventType == "" {
		return fmt.Errorf("event type cannot be empty")
	}
	if fn == nil {
		return fmt.Errorf("handler cannot be nil")
	}
	d.mu.Lock()
	d.handlers[eventType] = append(d.handlers[eventType], fn)
	d.mu.Unlock()
	return nil
}

func (d *InMemoryDispatcher) Publish(event DomainEvent) error {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if !d.running {
		return ErrDispatcherStopped
	}
	select {
	case d.eventCh <- event:
		return nil
	default:
		return ErrDispatcherFull
	}
}

func (d *InMemoryDispatcher) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.running {
		return fmt.Errorf("event dispatcher is already running")
	}
	d.running = true
	d.wg.Add(1)
	goroutine.SafeGo(d.logger, "event-dispatcher", d.loop)
	return nil
}

func (d *InMemoryDispatcher) Stop() error {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return ErrDispatcherStopped
	}
	d.running = false
	d.mu.Unlock()

	close(d.stopCh)
	d.wg.Wait()
	return nil
}

func (d *InMemoryDispatcher) loop() {
	defer d.wg.Done()
	for {
		select {
		case <-d.stopCh:
			for {
				select {
				case event := <-d.eventCh:
					d.dispatch(event)
				default:
					return
				}
			}
		case event := <-d.eventCh:
			d.dispatch(event)
		}
	}
}

func (d *InMemoryDispatcher) dispatch(event DomainEvent) {
	d.mu.RLock()
	handlers := d.handlers[event.GetEventType()]
	d.mu.RUnlock()

	for _, h := range handlers {
		d.safeHandle(h, event)
	}
}

func (d *InMemoryDispatcher) safeHandle(h HandlerFunc, event DomainEvent) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Errorw("event handler panicked",
				"event_type", event.GetEventType(),
				"aggregate_id", event.GetAggregateID(),
				"panic", fmt.Sprintf("%v", r))
		}
	}()
	if err := h(event); err != nil {
		d.logger.Warnw("event handler failed",
			"event_type", event.GetEventType(),
			"aggregate_id", event.GetAggregateID(),
			"error", err)
	}
}
