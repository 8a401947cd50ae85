package sprite

import (
	"testing"
	"time"
)

// countingHandler overrides only Click, the way applications embed
// BaseHandler.
type countingHandler struct {
	BaseHandler
	clicks int
}

func (h *countingHandler) Click(Click) { h.clicks++ }

func TestBaseHandlerDefaults(t *testing.T) {
	var h Handler = BaseHandler{}

	if err := h.Init(nil); err != nil {
		t.Errorf("Init() = %v, want nil", err)
	}
	pb, err := h.Redraw(V2(0, 0), nil)
	if pb != nil || err != nil {
		t.Errorf("Redraw() = %v, %v, want nil, nil", pb, err)
	}
	if !h.Running() {
		t.Error("Running() = false, want true")
	}
	if !h.Exit() {
		t.Error("Exit() = false, want true")
	}

	// No-op hooks must not panic.
	h.Tick(time.Second)
	h.Click(Click{Button: MouseLeft, State: Pressed})
	h.Key(KeyEvent{Key: KeyLetter, Letter: 'a'})
}

func TestBaseHandlerEmbedding(t *testing.T) {
	h := &countingHandler{}
	var iface Handler = h

	iface.Click(Click{Button: MouseRight, State: Released, Entity: 7})
	iface.Click(Click{})
	if h.clicks != 2 {
		t.Errorf("clicks = %d, want 2", h.clicks)
	}
	if !iface.Running() {
		t.Error("embedded Running() = false, want true")
	}
}
