package core

// Action is a key press after the platform has decided what it means.
type Action uint8

const (
	ActionNone Action = iota
	ActionUp
	ActionDown
	ActionLeft
	ActionRight
	ActionUse     // Space
	ActionConfirm // Enter
	ActionBack    // B, back to the picker
	ActionRestart // R
	ActionQuit    // Q, Ctrl+C
	ActionPause   // P, Esc
)

var actionNames = [...]string{
	ActionNone:    "None",
	ActionUp:      "Up",
	ActionDown:    "Down",
	ActionLeft:    "Left",
	ActionRight:   "Right",
	ActionUse:     "Use",
	ActionConfirm: "Confirm",
	ActionBack:    "Back",
	ActionRestart: "Restart",
	ActionQuit:    "Quit",
	ActionPause:   "Pause",
}

func (a Action) String() string {
	if int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "Unknown"
}

// IsMove reports whether a is one of the four directions.
func (a Action) IsMove() bool {
	return a >= ActionUp && a <= ActionRight
}

// InputFrame collects the actions of one tick. At most one move is kept per
// frame, the first one pressed, so arrow and WASD aliases never double up.
// The zero value is an empty frame.
type InputFrame struct {
	pressed uint16
	move    Action
}

// NewInputFrame returns an empty frame.
func NewInputFrame() InputFrame {
	return InputFrame{}
}

// Set records a. Moves go through SetMove.
func (f *InputFrame) Set(a Action) {
	if a.IsMove() {
		f.SetMove(a)
		return
	}
	f.pressed |= 1 << a
}

// SetMove records a move and reports false when the frame already has one.
func (f *InputFrame) SetMove(a Action) bool {
	if !a.IsMove() || f.move != ActionNone {
		return false
	}
	f.move = a
	f.pressed |= 1 << a
	return true
}

// Move returns the move of this frame, or ActionNone.
func (f InputFrame) Move() Action {
	return f.move
}

// Has reports whether a was pressed this frame.
func (f InputFrame) Has(a Action) bool {
	return f.pressed&(1<<a) != 0
}

// Clear empties the frame for the next tick.
func (f *InputFrame) Clear() {
	*f = InputFrame{}
}
