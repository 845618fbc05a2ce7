package appearance

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"inmo-backoffice/internal/mqtt"
)

// HostScheme the host environment's color-scheme signal.
type HostScheme interface {
	// Current reports whether the host currently prefers dark.
	Current() bool
	// Subscribe calls fn on every change until cancel is called.
	Subscribe(fn func(dark bool)) (cancel func(), err error)
}

// StaticHost a host with a fixed scheme and no change signal.
type StaticHost struct {
	Dark bool
}

func (h StaticHost) Current() bool { return h.Dark }

func (StaticHost) Subscribe(func(bool)) (func(), error) { return func() {}, nil }

// Subscriber the part of the MQTT client the host signal needs.
type Subscriber interface {
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topics ...string) error
}

// MQTTHost follows a topic that carries "dark"/"light" or {"dark": bool}.
// Once started it stays subscribed until Close, whether or not anyone is
// listening, so Current is fresh when a resolver switches back to system.
type MQTTHost struct {
	sub   Subscriber
	topic string
	qos   byte

	mu        sync.Mutex
	started   bool
	dark      bool
	listeners map[int]func(bool)
	nextID    int
}

func NewMQTTHost(sub Subscriber, topic string, qos byte, initialDark bool) *MQTTHost {
	return &MQTTHost{
		sub:       sub,
		topic:     topic,
		qos:       qos,
		dark:      initialDark,
		listeners: map[int]func(bool){},
	}
}

// Start subscribes to the topic. Calling it again is a no-op.
func (h *MQTTHost) Start() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.start()
}

func (h *MQTTHost) start() error {
	if h.started {
		return nil
	}
	if err := h.sub.Subscribe(h.topic, h.qos, h.handle); err != nil {
		return err
	}
	h.started = true
	return nil
}

// Close drops the broker subscription and every listener.
func (h *MQTTHost) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.listeners = map[int]func(bool){}
	if !h.started {
		return nil
	}
	h.started = false
	return h.sub.Unsubscribe(h.topic)
}

func (h *MQTTHost) Current() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.dark
}

// Subscribe starts the host if needed and registers fn.
func (h *MQTTHost) Subscribe(fn func(dark bool)) (func(), error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.start(); err != nil {
		return nil, err
	}
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.listeners, id)
			h.mu.Unlock()
		})
	}, nil
}

func (h *MQTTHost) handle(_ string, payload []byte) error {
	dark, err := ParseScheme(payload)
	if err != nil {
		return err
	}
	h.mu.Lock()
	changed := dark != h.dark
	h.dark = dark
	fns := make([]func(bool), 0, len(h.listeners))
	for _, fn := range h.listeners {
		fns = append(fns, fn)
	}
	h.mu.Unlock()

	if changed {
		for _, fn := range fns {
			fn(dark)
		}
	}
	return nil
}

// ParseScheme decodes a host color-scheme payload.
func ParseScheme(payload []byte) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(string(payload))) {
	case "dark":
		return true, nil
	case "light":
		return false, nil
	}
	var msg struct {
		Dark *bool `json:"dark"`
	}
	if err := json.Unmarshal(payload, &msg); err != nil || msg.Dark == nil {
		return false, fmt.Errorf("unrecognized color-scheme payload %q", payload)
	}
	return *msg.Dark, nil
}
