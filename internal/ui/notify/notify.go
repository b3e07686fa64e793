// Package notify delivers alerts through Fyne: system notifications and an
// in-app prompt with action buttons.
package notify

import (
	"errors"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"sitless/internal/alert"
)

// ErrNoWindow is returned when a prompt has no parent window.
var ErrNoWindow = errors.New("notify: no parent window for prompt")

// Notifier posts system notifications.
type Notifier struct {
	app fyne.App
}

var _ alert.Notifier = (*Notifier)(nil)

// NewNotifier creates a notifier bound to app.
func NewNotifier(app fyne.App) *Notifier {
	return &Notifier{app: app}
}

// Notify posts notification immediately. The OS decides on the sound.
func (notifier *Notifier) Notify(notification alert.Notification) error {
	if notifier == nil || notifier.app == nil {
		return errors.New("notify: app is not configured")
	}
	notifier.app.SendNotification(fyne.NewNotification(notification.Title, notification.Body))
	return nil
}

// Confirmer shows prompts as dialogs over a parent window.
type Confirmer struct {
	parent func() fyne.Window
	active dialog.Dialog
}

var _ alert.Confirmer = (*Confirmer)(nil)

// NewConfirmer creates a confirmer. parent resolves the window to attach to;
// it is brought to front before each prompt.
func NewConfirmer(parent func() fyne.Window) *Confirmer {
	return &Confirmer{parent: parent}
}

// Confirm shows prompt. A newer prompt replaces one still on screen.
func (confirmer *Confirmer) Confirm(prompt alert.Prompt) error {
	if confirmer.parent == nil {
		return ErrNoWindow
	}
	fyne.Do(func() {
		confirmer.showUnsafe(prompt)
	})
	return nil
}

func (confirmer *Confirmer) showUnsafe(prompt alert.Prompt) {
	window := confirmer.parent()
	if window == nil {
		return
	}
	window.Show()
	window.RequestFocus()
	if confirmer.active != nil {
		confirmer.active.Hide()
	}

	body := widget.NewLabel(prompt.Body)
	body.Wrapping = fyne.TextWrapWord
	prompted := dialog.NewCustomWithoutButtons(prompt.Title, container.NewPadded(body), window)
	prompted.SetButtons(confirmer.buttons(prompted, prompt.Actions))
	prompted.Resize(fyne.NewSize(320, 160))
	confirmer.active = prompted
	prompted.Show()
}

func (confirmer *Confirmer) buttons(prompted dialog.Dialog, actions []alert.Action) []fyne.CanvasObject {
	if len(actions) == 0 {
		return []fyne.CanvasObject{widget.NewButton("OK", func() { prompted.Hide() })}
	}
	buttons := make([]fyne.CanvasObject, 0, len(actions))
	for index, action := range actions {
		run := action.Run
		button := widget.NewButton(action.Label, func() {
			prompted.Hide()
			if confirmer.active == prompted {
				confirmer.active = nil
			}
			if run != nil {
				run()
			}
		})
		if index == 0 {
			button.Importance = widget.HighImportance
		}
		buttons = append(buttons, button)
	}
	return buttons
}
