package system

// InputSnapshot is the per-frame control state. Held flags describe the
// current frame, *Pressed flags are edge-triggered.
type InputSnapshot struct {
	Left  bool `json:"l,omitempty"`
	Right bool `json:"r,omitempty"`
	Up    bool `json:"u,omitempty"`
	Down  bool `json:"d,omitempty"`

	JumpPressed    bool `json:"jp,omitempty"`
	JumpHeld       bool `json:"jh,omitempty"`
	DashPressed    bool `json:"dp,omitempty"`
	AttackPressed  bool `json:"ap,omitempty"`
	SpecialPressed bool `json:"sp,omitempty"`
}

// Horizontal returns -1, 0 or +1. Opposing keys cancel.
func (in InputSnapshot) Horizontal() float64 {
	switch {
	case in.Left && !in.Right:
		return -1
	case in.Right && !in.Left:
		return 1
	}
	return 0
}

// Vertical returns -1 for up, +1 for down, 0 otherwise.
func (in InputSnapshot) Vertical() float64 {
	switch {
	case in.Up && !in.Down:
		return -1
	case in.Down && !in.Up:
		return 1
	}
	return 0
}

// Idle reports whether no control is active.
func (in InputSnapshot) Idle() bool {
	return in == InputSnapshot{}
}
