// Package command maps keyboard input in the page viewer to editor actions.
//
// Keys are named the way browsers report KeyboardEvent.key ("ArrowLeft",
// "Escape", "a", "+"). Letter keys are matched case-insensitively so that
// Shift or Caps Lock do not change a binding, except where Shift is part of
// the chord (Ctrl+Shift+Z, Shift+Tab).
package command

import (
	"strings"

	"github.com/tsawler/regionedit/model"
)

// KeyEvent is a key press.
type KeyEvent struct {
	Key   string
	Ctrl  bool
	Meta  bool
	Shift bool
	Alt   bool

	// InTextInput is set when focus is in a text field, text area or
	// select; every binding is suppressed then.
	InTextInput bool
}

// CommandKey reports whether Ctrl or Cmd is held.
func (e KeyEvent) CommandKey() bool {
	return e.Ctrl || e.Meta
}

// Actions is what the dispatcher drives.
type Actions interface {
	PrevPage()
	NextPage()

	ZoomIn()
	ZoomOut()
	ResetZoom()

	Undo()
	Redo()

	SelectAll()
	ClearSelection()
	HasSelection() bool
	CycleSelection(forward bool)

	// ApplyToSelection sets action on every selected region.
	ApplyToSelection(action model.Action)

	Copy()
	Paste()

	TypePickerOpen() bool
	CancelTypePicker()
	DrawMode() bool
	SetDrawMode(on bool)
}

// Dispatcher routes key events to Actions.
type Dispatcher struct {
	actions Actions
}

// New returns a Dispatcher for a.
func New(a Actions) *Dispatcher {
	return &Dispatcher{actions: a}
}

// Dispatch runs the binding for ev and reports whether the key was
// consumed. The host should suppress the platform default for consumed
// keys.
func (d *Dispatcher) Dispatch(ev KeyEvent) bool {
	if ev.InTextInput {
		return false
	}
	a := d.actions
	key := ev.Key
	if len([]rune(key)) == 1 {
		key = strings.ToLower(key)
	}

	if ev.CommandKey() && !ev.Alt {
		switch key {
		case "z":
			if ev.Shift {
				a.Redo()
			} else {
				a.Undo()
			}
			return true
		case "y":
			a.Redo()
			return true
		case "a":
			a.SelectAll()
			return true
		case "c":
			a.Copy()
			return true
		case "v":
			a.Paste()
			return true
		}
	}

	switch key {
	case "+", "=":
		a.ZoomIn()
		return true
	case "-":
		a.ZoomOut()
		return true
	case "0":
		a.ResetZoom()
		return true
	case "Escape":
		return d.escape()
	}

	if ev.CommandKey() || ev.Alt {
		return false
	}

	switch key {
	case "ArrowLeft":
		a.PrevPage()
	case "ArrowRight":
		a.NextPage()
	case "d", "Delete":
		a.ApplyToSelection(model.ActionRemove)
	case "t":
		a.ApplyToSelection(model.ActionTokenize)
	case "c":
		a.ApplyToSelection(model.ActionCancel)
	case "Tab":
		a.CycleSelection(!ev.Shift)
	default:
		return false
	}
	return true
}

// escape unwinds one level of modal state: the type picker first, then
// draw mode, then the selection.
func (d *Dispatcher) escape() bool {
	a := d.actions
	switch {
	case a.TypePickerOpen():
		a.CancelTypePicker()
	case a.DrawMode():
		a.SetDrawMode(false)
	case a.HasSelection():
		a.ClearSelection()
	default:
		return false
	}
	return true
}
