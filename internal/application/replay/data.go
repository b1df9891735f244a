// Package replay records and plays back per-frame input for deterministic
// reruns of a seeded world.
package replay

import "github.com/younwookim/duskfall/internal/application/system"

// Version is written into every recording.
const Version = "2.0"

// FrameInput records input state for a single frame
type FrameInput struct {
	F  int  `json:"f"`            // Frame number
	L  bool `json:"l,omitempty"`  // Left
	R  bool `json:"r,omitempty"`  // Right
	U  bool `json:"u,omitempty"`  // Up
	D  bool `json:"d,omitempty"`  // Down
	JP bool `json:"jp,omitempty"` // JumpPressed
	JH bool `json:"jh,omitempty"` // JumpHeld
	DP bool `json:"dp,omitempty"` // DashPressed
	AP bool `json:"ap,omitempty"` // AttackPressed
	SP bool `json:"sp,omitempty"` // SpecialPressed
}

// NewFrameInput captures in as frame f.
func NewFrameInput(f int, in system.InputSnapshot) FrameInput {
	return FrameInput{
		F:  f,
		L:  in.Left,
		R:  in.Right,
		U:  in.Up,
		D:  in.Down,
		JP: in.JumpPressed,
		JH: in.JumpHeld,
		DP: in.DashPressed,
		AP: in.AttackPressed,
		SP: in.SpecialPressed,
	}
}

// Input converts the recorded frame back into a snapshot.
func (fi FrameInput) Input() system.InputSnapshot {
	return system.InputSnapshot{
		Left:           fi.L,
		Right:          fi.R,
		Up:             fi.U,
		Down:           fi.D,
		JumpPressed:    fi.JP,
		JumpHeld:       fi.JH,
		DashPressed:    fi.DP,
		AttackPressed:  fi.AP,
		SpecialPressed: fi.SP,
	}
}

// ReplayData contains all data needed to replay a game session
type ReplayData struct {
	Version   string       `json:"version"`
	Seed      int64        `json:"seed"`
	Stage     string       `json:"stage"`
	StartTime string       `json:"startTime"`
	DT        float64      `json:"dt"`
	Frames    []FrameInput `json:"frames"`
}
