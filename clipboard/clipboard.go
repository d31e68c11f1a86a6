// Package clipboard holds copied regions between a copy and a paste.
//
// Entries carry a region's geometry and metadata but never its id: every
// paste creates fresh regions. Memory keeps entries in process. System
// additionally mirrors them to the operating system clipboard as JSON so
// that a second viewer process can paste them.
package clipboard

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/atotto/clipboard"

	"github.com/tsawler/regionedit/model"
)

// Entry is a copied region without its id.
type Entry struct {
	BBox       model.BBox    `json:"bbox"`
	Text       string        `json:"text"`
	PIIType    model.PIIType `json:"pii_type"`
	Confidence float64       `json:"confidence"`
	Source     model.Source  `json:"source"`
	Action     model.Action  `json:"action"`
}

// FromRegion copies the transferable fields of r.
func FromRegion(r model.Region) Entry {
	return Entry{
		BBox:       r.BBox,
		Text:       r.Text,
		PIIType:    r.PIIType,
		Confidence: r.Confidence,
		Source:     r.Source,
		Action:     r.Action,
	}
}

// Region builds a region from e on the given page. A cancelled entry is
// pasted as pending.
func (e Entry) Region(id string, page int) model.Region {
	action := e.Action
	if action == model.ActionCancel || !action.Valid() {
		action = model.ActionPending
	}
	return model.Region{
		ID:         id,
		PageNumber: page,
		BBox:       e.BBox,
		Text:       e.Text,
		PIIType:    e.PIIType,
		Confidence: e.Confidence,
		Source:     e.Source,
		Action:     action,
	}
}

// Board stores copied entries.
type Board interface {
	Write(entries []Entry) error
	Read() ([]Entry, error)
}

// Memory is an in-process Board. The zero value is empty and ready to use.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

// Write replaces the stored entries.
func (m *Memory) Write(entries []Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append([]Entry(nil), entries...)
	return nil
}

// Read returns a copy of the stored entries.
func (m *Memory) Read() ([]Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...), nil
}

// marker prefixes the JSON payload on the system clipboard so that
// unrelated clipboard text is never parsed as regions.
const marker = "regionedit/regions:"

var (
	clipboardWrite = clipboard.WriteAll
	clipboardRead  = clipboard.ReadAll
)

// System is a Board that mirrors entries to the OS clipboard. When the OS
// clipboard is unavailable (no xclip, xsel or wl-clipboard on Linux,
// headless sessions) it behaves like Memory.
type System struct {
	mem Memory
}

// Write stores entries in memory and copies them to the OS clipboard. A
// failing OS clipboard is reported but the in-memory copy is kept.
func (s *System) Write(entries []Entry) error {
	_ = s.mem.Write(entries)
	if clipboard.Unsupported {
		return nil
	}
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding clipboard entries: %w", err)
	}
	if err := clipboardWrite(marker + string(data)); err != nil {
		return fmt.Errorf("writing system clipboard: %w", err)
	}
	return nil
}

// Read prefers region entries found on the OS clipboard and falls back to
// the in-memory copy. Foreign clipboard text yields the in-memory copy.
func (s *System) Read() ([]Entry, error) {
	if clipboard.Unsupported {
		return s.mem.Read()
	}
	text, err := clipboardRead()
	if err != nil || !strings.HasPrefix(text, marker) {
		return s.mem.Read()
	}
	var entries []Entry
	if err := json.Unmarshal([]byte(strings.TrimPrefix(text, marker)), &entries); err != nil {
		return nil, fmt.Errorf("decoding system clipboard: %w", err)
	}
	return entries, nil
}
