package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/tsawler/regionedit"
	"github.com/tsawler/regionedit/command"
	"github.com/tsawler/regionedit/model"
	"github.com/tsawler/regionedit/viewport"
)

// Event is one line of a replay script.
type Event struct {
	Type string `json:"type"`

	// pointer and key modifiers
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Key   string  `json:"key"`
	Ctrl  bool    `json:"ctrl"`
	Meta  bool    `json:"meta"`
	Shift bool    `json:"shift"`
	Alt   bool    `json:"alt"`

	ID      string       `json:"id"`
	IDs     []string     `json:"ids"`
	Action  model.Action `json:"action"`
	PIIType string       `json:"pii_type"`
	Text    string       `json:"text"`
	Page    int          `json:"page"`
	Bitmap  string       `json:"bitmap"`
	Zoom    float64      `json:"zoom"`
	Left    float64      `json:"left"`
	Top     float64      `json:"top"`
	Ms      int          `json:"ms"`
	On      bool         `json:"on"`
}

func (ev Event) pointer() viewport.Pointer {
	return viewport.Pointer{ClientX: ev.X, ClientY: ev.Y, Ctrl: ev.Ctrl, Meta: ev.Meta, Shift: ev.Shift, Alt: ev.Alt}
}

// piiType parses the event's type name. An empty name stays empty so that
// ConfirmDraw applies its default.
func (ev Event) piiType() model.PIIType {
	if ev.PIIType == "" {
		return ""
	}
	return model.ParsePIIType(ev.PIIType)
}

// ParseScript reads JSON-lines events. Blank lines and lines starting with
// '#' are skipped.
func ParseScript(r io.Reader) ([]Event, error) {
	var events []Event
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var ev Event
		if err := json.Unmarshal([]byte(text), &ev); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if ev.Type == "" {
			return nil, fmt.Errorf("line %d: missing event type", line)
		}
		events = append(events, ev)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading script: %w", err)
	}
	return events, nil
}

// Replay applies events to e in order.
func Replay(ctx context.Context, e *regionedit.Editor, events []Event) error {
	for i, ev := range events {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := apply(ctx, e, ev); err != nil {
			return fmt.Errorf("event %d (%s): %w", i+1, ev.Type, err)
		}
	}
	return nil
}

func apply(ctx context.Context, e *regionedit.Editor, ev Event) error {
	switch ev.Type {
	case "down":
		e.PointerDown(ev.pointer())
	case "move":
		e.PointerMove(ev.pointer())
	case "up":
		e.PointerUp(ev.pointer())
	case "key":
		e.HandleKey(command.KeyEvent{Key: ev.Key, Ctrl: ev.Ctrl, Meta: ev.Meta, Shift: ev.Shift, Alt: ev.Alt})
	case "draw_mode":
		e.SetDrawMode(ev.On)
	case "confirm":
		_, err := e.ConfirmDraw(ev.piiType())
		return err
	case "select":
		e.Select(ev.IDs...)
	case "action":
		if ev.ID == "" {
			e.ApplyToSelection(ev.Action)
			return nil
		}
		return e.SetAction(ev.ID, ev.Action)
	case "label":
		return e.SetLabel(ev.ID, ev.piiType())
	case "text":
		return e.SetText(ev.ID, ev.Text)
	case "delete":
		_, err := e.Delete(ev.IDs...)
		return err
	case "highlight":
		return e.HighlightAll(ev.ID)
	case "page":
		var bitmap []byte
		if ev.Bitmap != "" {
			data, err := os.ReadFile(ev.Bitmap)
			if err != nil {
				return err
			}
			bitmap = data
		}
		return e.LoadPage(ctx, ev.Page, bitmap)
	case "zoom":
		e.SetZoom(ev.Zoom)
	case "container":
		e.View().SetContainer(viewport.Rect{Left: ev.Left, Top: ev.Top})
	case "undo":
		e.Undo()
	case "redo":
		e.Redo()
	case "flush":
		e.Flush()
	case "wait":
		select {
		case <-time.After(time.Duration(ev.Ms) * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	default:
		return fmt.Errorf("unknown event type %q", ev.Type)
	}
	return nil
}
