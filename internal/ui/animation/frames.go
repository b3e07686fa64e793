package animation

import "fyne.io/fyne/v2"

// Frames is the icon set a pulse pattern switches between.
type Frames struct {
	// Pulse is shown while a pulse is on.
	Pulse fyne.Resource
	// Dim is shown in the gaps. Nil keeps the pulse frame up.
	Dim fyne.Resource
	// Rest is the initial frame shown between patterns.
	Rest fyne.Resource
}
