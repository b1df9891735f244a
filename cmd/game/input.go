package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/younwookim/duskfall/internal/application/system"
)

// keyboard reads one InputSnapshot per frame from the live keyboard.
//
//	Arrows  move / aim
//	Z       jump
//	X       attack
//	C       dash
//	A       special
type keyboard struct{}

func (keyboard) Next() (system.InputSnapshot, bool) {
	return system.InputSnapshot{
		Left:           ebiten.IsKeyPressed(ebiten.KeyArrowLeft),
		Right:          ebiten.IsKeyPressed(ebiten.KeyArrowRight),
		Up:             ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		Down:           ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		JumpPressed:    inpututil.IsKeyJustPressed(ebiten.KeyZ),
		JumpHeld:       ebiten.IsKeyPressed(ebiten.KeyZ),
		DashPressed:    inpututil.IsKeyJustPressed(ebiten.KeyC),
		AttackPressed:  inpututil.IsKeyJustPressed(ebiten.KeyX),
		SpecialPressed: inpututil.IsKeyJustPressed(ebiten.KeyA),
	}, true
}
