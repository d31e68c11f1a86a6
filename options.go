package regionedit

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/regionedit/clipboard"
	"github.com/tsawler/regionedit/outbox"
)

// DefaultReanalyzeDelay is how long the Editor waits after the last
// geometry change before asking the backend to reanalyze a region.
const DefaultReanalyzeDelay = 300 * time.Millisecond

// Options configures an Editor.
type Options struct {
	// Logger receives editor and replication logs. Defaults to
	// logrus.StandardLogger().
	Logger logrus.FieldLogger

	// OnStatus receives short user-facing messages, such as a replication
	// failure. Called from a background goroutine.
	OnStatus func(msg string)

	// OnUpdate is called after a backend response has been merged into the
	// region set. Called from a background goroutine without the editor
	// lock held.
	OnUpdate func()

	// OnPageChange is called after keyboard navigation changes the active
	// page, without the editor lock held. The host is expected to call
	// LoadPage for the new page.
	OnPageChange func(page int)

	// ReanalyzeDelay is the debounce delay of the reanalyze call.
	ReanalyzeDelay time.Duration

	// HistoryLimit bounds the undo stack. Zero means unbounded.
	HistoryLimit int

	// PageCount is the number of pages in the document. Zero disables the
	// upper bound on page navigation.
	PageCount int

	// Clipboard stores copied regions. Defaults to an in-memory board.
	Clipboard clipboard.Board

	// Recognizer, when set, supplies text blocks for pages the backend
	// returns none for.
	Recognizer TextRecognizer

	// Replication configures the retry policy of the persistence outbox.
	// Its Logger and OnStatus are filled in from the fields above when
	// unset.
	Replication outbox.Options
}

// DefaultOptions returns the default editor options.
func DefaultOptions() Options {
	replication := outbox.DefaultOptions()
	replication.Logger = nil // inherits Logger
	return Options{
		Logger:         logrus.StandardLogger(),
		ReanalyzeDelay: DefaultReanalyzeDelay,
		Replication:    replication,
	}
}

// withDefaults fills every unset field from DefaultOptions.
func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Logger == nil {
		o.Logger = def.Logger
	}
	if o.ReanalyzeDelay <= 0 {
		o.ReanalyzeDelay = def.ReanalyzeDelay
	}
	if o.HistoryLimit < 0 {
		o.HistoryLimit = 0
	}
	if o.Clipboard == nil {
		o.Clipboard = &clipboard.Memory{}
	}
	if o.Replication.MaxAttempts <= 0 {
		o.Replication.MaxAttempts = def.Replication.MaxAttempts
	}
	if o.Replication.Backoff <= 0 {
		o.Replication.Backoff = def.Replication.Backoff
	}
	if o.Replication.Logger == nil {
		o.Replication.Logger = o.Logger
	}
	if o.Replication.OnStatus == nil {
		o.Replication.OnStatus = o.OnStatus
	}
	return o
}
