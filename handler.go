package sprite

import "time"

// MouseButton identifies which mouse button a Click came from.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
)

// ButtonState is the press phase of a Click.
type ButtonState int

const (
	Pressed ButtonState = iota
	Released
)

// Click is a mouse event already resolved against the most recent pick
// buffer: Entity is the ID under the cursor, or 0 when the cursor was over
// empty space.
type Click struct {
	Button MouseButton
	State  ButtonState
	Pos    Vec2
	Entity ID
}

// Key identifies a keyboard event the compositor's host forwards.
type Key int

const (
	KeyEnter Key = iota
	KeyEscape
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	// KeyLetter events carry the rune in KeyEvent.Letter.
	KeyLetter
)

// KeyEvent is a key press forwarded by the host.
type KeyEvent struct {
	Key    Key
	Letter rune
}

// Handler is the capability surface a windowing host drives. The host owns
// the window and event loop; it calls Init once after the engine is ready,
// Redraw whenever a frame is needed, Tick on its timer, and the input hooks
// as events arrive. Clicks are resolved against the PickBuffer returned by
// the latest Redraw.
//
// Embed BaseHandler to get no-op defaults and implement only the hooks the
// application cares about.
type Handler interface {
	// Init is called once, after the engine has a device and before the
	// first frame. Register textures here.
	Init(e *Engine) error

	// Redraw renders a frame and returns the pick buffer for input
	// resolution, or nil if this frame needs no picking.
	Redraw(mouse Vec2, e *Engine) (*PickBuffer, error)

	// Tick advances application time by dt.
	Tick(dt time.Duration)

	// Click reports a mouse event with its resolved entity.
	Click(c Click)

	// Key reports a keyboard event.
	Key(k KeyEvent)

	// Running reports whether the host should keep the loop alive.
	Running() bool

	// Exit is called when the window is asked to close. Returning false
	// vetoes the close.
	Exit() bool
}

// BaseHandler provides no-op defaults for every Handler hook. Running
// reports true and Exit permits the close.
type BaseHandler struct{}

func (BaseHandler) Init(*Engine) error { return nil }

func (BaseHandler) Redraw(Vec2, *Engine) (*PickBuffer, error) { return nil, nil }

func (BaseHandler) Tick(time.Duration) {}

func (BaseHandler) Click(Click) {}

func (BaseHandler) Key(KeyEvent) {}

func (BaseHandler) Running() bool { return true }

func (BaseHandler) Exit() bool { return true }
