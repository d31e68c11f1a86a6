package regionedit

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tsawler/regionedit/command"
	"github.com/tsawler/regionedit/model"
	"github.com/tsawler/regionedit/viewport"
)

var bg = context.Background()

func region(id string, x0, y0, x1, y1 float64) model.Region {
	return model.Region{
		ID:         id,
		PageNumber: 1,
		BBox:       model.BBox{X0: x0, Y0: y0, X1: x1, Y1: y1},
		PIIType:    model.PIIPerson,
		Source:     model.SourceNER,
		Action:     model.ActionPending,
	}
}

// newEditor returns an editor on page 1 of a 600x800 page rendered at page
// size, so client pixels map 1:1 onto page units.
func newEditor(t *testing.T, store Persistence, configure ...func(*Options)) *Editor {
	t.Helper()
	logger, _ := test.NewNullLogger()
	opts := DefaultOptions()
	opts.Logger = logger
	opts.ReanalyzeDelay = time.Hour
	opts.Replication.Backoff = time.Millisecond
	for _, fn := range configure {
		fn(&opts)
	}

	e, err := New("doc1", store, opts)
	require.NoError(t, err)
	t.Cleanup(func() { _ = e.Close() })
	require.NoError(t, e.ShowPage(model.PageData{PageNumber: 1, Width: 600, Height: 800}, model.Size{}))
	return e
}

func at(x, y float64) viewport.Pointer {
	return viewport.Pointer{ClientX: x, ClientY: y}
}

func drag(e *Editor, x0, y0, x1, y1 float64) {
	e.PointerDown(at(x0, y0))
	e.PointerMove(at(x1, y1))
	e.PointerUp(at(x1, y1))
}

func draw(t *testing.T, e *Editor, x0, y0, x1, y1 float64) model.BBox {
	t.Helper()
	e.SetDrawMode(true)
	drag(e, x0, y0, x1, y1)
	e.SetDrawMode(false)
	box, ok := e.PendingDraw()
	require.True(t, ok, "draw was discarded")
	return box
}

func TestNewValidatesArguments(t *testing.T) {
	_, err := New("", newFakeStore(), DefaultOptions())
	assert.ErrorIs(t, err, ErrNoDocument)

	_, err = New("doc1", nil, DefaultOptions())
	assert.Error(t, err)
}

func TestClickSelectsWithoutReplication(t *testing.T) {
	store := newFakeStore()
	e := newEditor(t, store)
	e.SetRegions([]model.Region{region("a", 100, 100, 150, 130)})

	drag(e, 120, 110, 122, 111)
	e.Flush()

	assert.Equal(t, []string{"a"}, e.Selected())
	assert.False(t, e.CanUndo(), "dead zone must not grow the history")
	assert.Empty(t, store.ops())
	r, _ := e.Region("a")
	assert.Equal(t, model.BBox{X0: 100, Y0: 100, X1: 150, Y1: 130}, r.BBox)
}

func TestDragCommitsAndReplicatesGeometry(t *testing.T) {
	a := region("a", 100, 100, 150, 130)
	b := region("b", 200, 100, 250, 130)
	store := newFakeStore(a, b)
	e := newEditor(t, store)
	e.SetRegions([]model.Region{a, b})

	drag(e, 120, 110, 190, 110)
	e.Flush()

	got, _ := e.Region("a")
	assert.Equal(t, model.BBox{X0: 150, Y0: 100, X1: 200, Y1: 130}, got.BBox, "pushed out of b")
	assert.False(t, got.BBox.Overlaps(b.BBox))
	assert.True(t, e.CanUndo())
	assert.False(t, e.PointerCaptured())

	calls := store.find("bbox")
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"a"}, calls[0].IDs)
	assert.Equal(t, got.BBox, calls[0].BBox)
}

func TestDragStaysOnPage(t *testing.T) {
	e := newEditor(t, newFakeStore())
	e.SetRegions([]model.Region{region("a", 100, 100, 150, 130)})

	drag(e, 120, 110, 5000, 5000)
	r, _ := e.Region("a")
	assert.Equal(t, model.BBox{X0: 550, Y0: 770, X1: 600, Y1: 800}, r.BBox)
	assert.True(t, r.BBox.Within(600, 800))
}

func TestResizeKeepsMinimumSize(t *testing.T) {
	e := newEditor(t, newFakeStore())
	e.SetRegions([]model.Region{region("a", 100, 100, 150, 130)})
	e.Select("a")

	drag(e, 150, 130, 20, 20)
	r, _ := e.Region("a")
	assert.Equal(t, model.BBox{X0: 100, Y0: 100, X1: 105, Y1: 105}, r.BBox)
}

func TestUndoRedoRoundTrip(t *testing.T) {
	a := region("a", 100, 100, 150, 130)
	b := region("b", 300, 300, 350, 330)
	store := newFakeStore(a, b)
	e := newEditor(t, store)
	e.SetRegions([]model.Region{a, b})
	initial := e.Regions()

	require.NoError(t, e.SetAction("a", model.ActionRemove))
	drag(e, 320, 310, 360, 310)
	e.Select("a", "b")
	assert.Equal(t, 2, e.ApplyToSelection(model.ActionTokenize))
	final := e.Regions()

	for i := 0; i < 3; i++ {
		require.True(t, e.Undo(), "undo %d", i)
	}
	assert.False(t, e.Undo())
	if diff := cmp.Diff(initial, e.Regions()); diff != "" {
		t.Errorf("after undo (-want +got):\n%s", diff)
	}

	for i := 0; i < 3; i++ {
		require.True(t, e.Redo(), "redo %d", i)
	}
	assert.False(t, e.CanRedo())
	if diff := cmp.Diff(final, e.Regions()); diff != "" {
		t.Errorf("after redo (-want +got):\n%s", diff)
	}

	// the backend followed every step
	e.Flush()
	for _, want := range final {
		got, ok := store.region(want.ID)
		require.True(t, ok)
		assert.Equal(t, want.Action, got.Action, want.ID)
		assert.Equal(t, want.BBox, got.BBox, want.ID)
	}
}

func TestUndoLogsHistoryDepth(t *testing.T) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	e := newEditor(t, newFakeStore(), func(o *Options) { o.Logger = logger })
	e.SetRegions([]model.Region{region("a", 100, 100, 150, 130)})

	require.NoError(t, e.SetAction("a", model.ActionRemove))
	require.True(t, e.Undo())

	var fields logrus.Fields
	for _, entry := range hook.AllEntries() {
		if entry.Message == "history restored" {
			fields = entry.Data
		}
	}
	require.NotNil(t, fields)
	assert.Equal(t, "undo", fields["op"])
	assert.Equal(t, 0, fields["undo_depth"])
	assert.Equal(t, 1, fields["redo_depth"])
}

func TestLassoSelection(t *testing.T) {
	e := newEditor(t, newFakeStore())
	e.SetRegions([]model.Region{
		region("A", 10, 10, 20, 20),
		region("B", 100, 100, 120, 120),
	})
	lasso := func(x0, y0, x1, y1 float64) {
		e.PointerDown(viewport.Pointer{ClientX: x0, ClientY: y0, Ctrl: true})
		e.PointerMove(at(x1, y1))
		e.PointerUp(at(x1, y1))
	}

	lasso(0, 0, 30, 30)
	assert.Equal(t, []string{"A"}, e.Selected())

	lasso(0, 0, 200, 200)
	assert.Equal(t, []string{"A", "B"}, e.Selected())

	lasso(300, 300, 302, 400)
	assert.Equal(t, []string{"A", "B"}, e.Selected(), "tiny lasso is a no-op")
}

func TestDrawThresholdAndSnap(t *testing.T) {
	store := newFakeStore()
	e := newEditor(t, store)
	require.NoError(t, e.ShowPage(model.PageData{
		PageNumber: 1, Width: 600, Height: 800,
		TextBlocks: []model.TextBlock{{Text: "Jane", BBox: model.BBox{X0: 100, Y0: 50, X1: 200, Y1: 70}}},
	}, model.Size{}))

	e.SetDrawMode(true)
	drag(e, 300, 300, 305, 340)
	_, ok := e.PendingDraw()
	assert.False(t, ok, "a 5px wide draw is discarded")

	box := draw(t, e, 104, 30, 150, 90)
	assert.Equal(t, model.BBox{X0: 98, Y0: 30, X1: 150, Y1: 90}, box, "left edge snaps to 100-2")
	_, err := e.ConfirmDraw(model.PIIPerson)
	require.NoError(t, err)

	box = draw(t, e, 150, 100, 190, 160)
	assert.Equal(t, 150.0, box.X0, "left edge beyond the threshold is not snapped")
}

func TestConfirmDrawAliasesLocalID(t *testing.T) {
	store := newFakeStore()
	store.addText = "Jane Doe"
	e := newEditor(t, store)

	draw(t, e, 100, 100, 200, 150)
	id, err := e.ConfirmDraw(model.PIIPerson)
	require.NoError(t, err)
	assert.Equal(t, "local-1", id)
	assert.Equal(t, []string{"local-1"}, e.Selected())

	// the create may still be in flight
	drag(e, 150, 120, 170, 120)
	e.Flush()

	regions := e.Regions()
	require.Len(t, regions, 1)
	r := regions[0]
	assert.Equal(t, "srv1", r.ID)
	assert.Equal(t, "Jane Doe", r.Text)
	assert.Equal(t, model.SourceManual, r.Source)
	assert.Equal(t, model.BBox{X0: 120, Y0: 100, X1: 220, Y1: 150}, r.BBox)
	assert.Equal(t, []string{"srv1"}, e.Selected())

	assert.Equal(t, []string{"add", "bbox"}, store.ops())
	assert.Equal(t, []string{"srv1"}, store.find("bbox")[0].IDs)

	// history was renamed too
	require.True(t, e.Undo())
	e.Flush()
	r, ok := e.Region("srv1")
	require.True(t, ok)
	assert.Equal(t, model.BBox{X0: 100, Y0: 100, X1: 200, Y1: 150}, r.BBox)
	assert.Equal(t, []string{"srv1"}, store.find("bbox")[1].IDs)
}

func TestConfirmDrawMergesSiblings(t *testing.T) {
	store := newFakeStore()
	sibling := region("srv9", 10, 10, 60, 30)
	sibling.PageNumber = 2
	store.addSiblings = []model.Region{sibling}
	e := newEditor(t, store)

	draw(t, e, 100, 100, 200, 150)
	_, err := e.ConfirmDraw(model.PIIEmail)
	require.NoError(t, err)
	e.Flush()

	assert.Len(t, e.Regions(), 2)
	assert.Equal(t, []string{"srv1", "srv9"}, e.Selected())
}

func TestConfirmDrawWithoutPendingDraw(t *testing.T) {
	e := newEditor(t, newFakeStore())
	_, err := e.ConfirmDraw(model.PIIPerson)
	assert.ErrorIs(t, err, ErrNoPendingDraw)

	draw(t, e, 100, 100, 200, 150)
	e.CancelDraw()
	_, err = e.ConfirmDraw(model.PIIPerson)
	assert.ErrorIs(t, err, ErrNoPendingDraw)
}

func TestConfirmDrawAvoidsSiblings(t *testing.T) {
	e := newEditor(t, newFakeStore())
	e.SetRegions([]model.Region{region("a", 100, 100, 150, 130)})

	draw(t, e, 140, 100, 200, 130)
	id, err := e.ConfirmDraw(model.PIIPerson)
	require.NoError(t, err)

	r, _ := e.Region(id)
	a, _ := e.Region("a")
	assert.False(t, r.BBox.Overlaps(a.BBox))
}

func TestUndoCreateCancelsOnBackend(t *testing.T) {
	store := newFakeStore()
	e := newEditor(t, store)

	draw(t, e, 100, 100, 200, 150)
	_, err := e.ConfirmDraw(model.PIIPerson)
	require.NoError(t, err)
	e.Flush()

	require.True(t, e.Undo())
	assert.Empty(t, e.Regions())
	_, err = e.Sync(bg)
	require.NoError(t, err)

	r, ok := store.region("srv1")
	require.True(t, ok)
	assert.Equal(t, model.ActionCancel, r.Action, "an undone draw must not be redacted")

	require.True(t, e.Redo())
	e.Flush()
	r, _ = store.region("srv1")
	assert.Equal(t, model.ActionPending, r.Action)
	assert.Equal(t, []string{"add", "action", "sync", "action"}, store.ops())
}

func TestPasteOntoAnotherPage(t *testing.T) {
	cancelled := region("a", 10, 10, 60, 30)
	cancelled.Action = model.ActionCancel
	removed := region("b", 100, 100, 150, 130)
	removed.Action = model.ActionRemove

	store := newFakeStore()
	e := newEditor(t, store, func(o *Options) { o.PageCount = 5 })
	e.SetRegions([]model.Region{cancelled, removed})
	e.Select("a", "b")
	n, err := e.Copy()
	require.NoError(t, err)
	require.Equal(t, 2, n)

	require.NoError(t, e.ShowPage(model.PageData{PageNumber: 3, Width: 600, Height: 800}, model.Size{}))
	assert.Equal(t, 3, e.Page())
	assert.Empty(t, e.Selected(), "page switch clears the selection")

	n, err = e.Paste()
	require.NoError(t, err)
	require.Equal(t, 2, n)

	pasted := model.OnPage(e.Regions(), 3)
	require.Len(t, pasted, 2)
	assert.Equal(t, cancelled.BBox, pasted[0].BBox)
	assert.Equal(t, removed.BBox, pasted[1].BBox)
	assert.Equal(t, model.ActionPending, pasted[0].Action)
	assert.Equal(t, model.ActionRemove, pasted[1].Action)
	for _, r := range pasted {
		assert.NotEqual(t, model.ActionCancel, r.Action)
	}
	assert.Equal(t, []string{pasted[0].ID, pasted[1].ID}, e.Selected())

	e.Flush()
	assert.Len(t, store.find("add"), 2)
	ids := e.Selected()
	assert.Equal(t, []string{"srv1", "srv2"}, ids)

	require.True(t, e.Undo())
	assert.Empty(t, model.OnPage(e.Regions(), 3))
}

func TestReplicationFailureIsReportedNotReverted(t *testing.T) {
	store := newFakeStore(region("a", 100, 100, 150, 130))
	store.actionErr = tempErr{}

	var mu sync.Mutex
	var statuses []string
	e := newEditor(t, store, func(o *Options) {
		o.OnStatus = func(msg string) {
			mu.Lock()
			statuses = append(statuses, msg)
			mu.Unlock()
		}
	})
	e.SetRegions([]model.Region{region("a", 100, 100, 150, 130)})

	require.NoError(t, e.SetAction("a", model.ActionRemove))
	e.Flush()

	assert.Len(t, store.find("action"), 3, "retried up to the attempt limit")
	mu.Lock()
	require.Len(t, statuses, 1)
	assert.Contains(t, statuses[0], "set_action failed")
	mu.Unlock()

	r, _ := e.Region("a")
	assert.Equal(t, model.ActionRemove, r.Action, "local state is kept")
}

func TestFailedCreateIsNotReferenced(t *testing.T) {
	store := newFakeStore()
	store.addErr = errors.New("rejected")
	e := newEditor(t, store)

	draw(t, e, 100, 100, 200, 150)
	id, err := e.ConfirmDraw(model.PIIPerson)
	require.NoError(t, err)
	require.NoError(t, e.SetAction(id, model.ActionRemove))
	e.Flush()

	assert.Equal(t, []string{"add"}, store.ops(), "no request is sent for an unsaved id")

	n, err := e.Sync(bg)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, store.find("sync")[0].IDs)
}

func TestReanalyzeIsDebounced(t *testing.T) {
	store := newFakeStore(region("a", 100, 100, 150, 130))
	store.reanalysis = model.Reanalysis{Text: "Jane Doe", PIIType: model.PIIPerson, Confidence: 0.9, Source: model.SourceLLM}

	var updates int32
	e := newEditor(t, store, func(o *Options) {
		o.ReanalyzeDelay = 50 * time.Millisecond
		o.OnUpdate = func() { atomic.AddInt32(&updates, 1) }
	})
	e.SetRegions([]model.Region{region("a", 100, 100, 150, 130)})

	drag(e, 120, 110, 140, 110)
	drag(e, 140, 110, 160, 110)

	assert.Eventually(t, func() bool {
		r, _ := e.Region("a")
		return r.Text == "Jane Doe"
	}, 2*time.Second, 5*time.Millisecond)
	e.Flush()

	assert.Len(t, store.find("reanalyze"), 1, "two commits within the delay reanalyze once")
	r, _ := e.Region("a")
	assert.Equal(t, model.SourceLLM, r.Source)
	assert.Positive(t, atomic.LoadInt32(&updates))
}

func TestHighlightAll(t *testing.T) {
	a := region("a", 100, 100, 150, 130)
	a.Text = "ACME"
	store := newFakeStore(a)
	n1 := region("n1", 10, 10, 60, 30)
	n1.PageNumber = 2
	store.highlight = model.HighlightResult{Created: 1, NewRegions: []model.Region{n1}, AllIDs: []string{"a", "n1"}}
	e := newEditor(t, store)
	e.SetRegions([]model.Region{a})

	require.NoError(t, e.HighlightAll("a"))
	e.Flush()

	assert.Len(t, e.Regions(), 2)
	assert.Equal(t, []string{"a", "n1"}, e.Selected())

	assert.ErrorIs(t, e.HighlightAll("missing"), ErrRegionNotFound)
}

func TestHighlightAllFallsBackToLocalMatches(t *testing.T) {
	a := region("a", 100, 100, 150, 130)
	a.Text = "ACME"
	b := region("b", 200, 100, 250, 130)
	b.Text = "acme "
	c := region("c", 300, 100, 350, 130)
	c.Text = "Other"

	store := newFakeStore(a, b, c)
	store.highlightErr = errors.New("offline")
	e := newEditor(t, store)
	e.SetRegions([]model.Region{a, b, c})

	require.NoError(t, e.HighlightAll("a"))
	e.Flush()
	assert.Equal(t, []string{"a", "b"}, e.Selected())
}

func TestSetLabelPropagatesToSameText(t *testing.T) {
	a := region("a", 100, 100, 150, 130)
	a.Text = "ACME"
	b := region("b", 200, 100, 250, 130)
	b.Text = "Acme"
	c := region("c", 300, 100, 350, 130)
	c.Text = "Other"

	store := newFakeStore(a, b, c)
	store.updates = []model.RegionUpdate{{ID: "a", PIIType: model.PIIOrg}, {ID: "b", PIIType: model.PIIOrg}}
	e := newEditor(t, store)
	e.SetRegions([]model.Region{a, b, c})

	require.NoError(t, e.SetLabel("a", model.PIIOrg))
	for id, want := range map[string]model.PIIType{"a": model.PIIOrg, "b": model.PIIOrg, "c": model.PIIPerson} {
		r, _ := e.Region(id)
		assert.Equal(t, want, r.PIIType, id)
	}
	assert.False(t, e.CanUndo())

	require.NoError(t, e.SetText("c", "Globex"))
	e.Flush()
	assert.Equal(t, []string{"label", "text"}, store.ops())
	assert.Equal(t, "Globex", store.find("text")[0].Value)

	bare := newEditor(t, coreStore{store})
	bare.SetRegions([]model.Region{a})
	assert.ErrorIs(t, bare.SetLabel("a", model.PIIOrg), ErrNotSupported)
}

func TestSetLabelMatchesLikeBackend(t *testing.T) {
	a := region("a", 100, 100, 150, 130)
	a.Text = "José  Diaz"
	b := region("b", 200, 100, 250, 130)
	b.Text = "Jose Diaz"
	c := region("c", 300, 100, 350, 130)
	c.Text = " josé  diaz"

	store := newFakeStore(a, b, c)
	e := newEditor(t, store)
	e.SetRegions([]model.Region{a, b, c})

	require.NoError(t, e.SetLabel("a", model.PIIOrg))
	for id, want := range map[string]model.PIIType{"a": model.PIIOrg, "b": model.PIIPerson, "c": model.PIIOrg} {
		r, _ := e.Region(id)
		assert.Equal(t, want, r.PIIType, id)
	}
}

func TestDeleteCannotBeUndone(t *testing.T) {
	a := region("a", 100, 100, 150, 130)
	b := region("b", 200, 100, 250, 130)
	store := newFakeStore(a, b)
	e := newEditor(t, store)
	e.SetRegions([]model.Region{a, b})

	require.NoError(t, e.SetAction("a", model.ActionRemove))
	e.Select("a", "b")
	n, err := e.Delete("a", "b", "missing")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Empty(t, e.Regions())
	assert.Empty(t, e.Selected())

	require.True(t, e.Undo())
	assert.Empty(t, e.Regions(), "deleted regions are gone from the history")

	e.Flush()
	require.Len(t, store.find("batch_delete"), 1)
	assert.Equal(t, []string{"a", "b"}, store.find("batch_delete")[0].IDs)
}

func TestSyncPushesEveryRegion(t *testing.T) {
	a := region("a", 100, 100, 150, 130)
	b := region("b", 200, 100, 250, 130)
	store := newFakeStore(a, b)
	e := newEditor(t, store)
	e.SetRegions([]model.Region{a, b})

	draw(t, e, 300, 300, 400, 350)
	_, err := e.ConfirmDraw(model.PIIPerson)
	require.NoError(t, err)

	n, err := e.Sync(bg)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, []string{"a", "b", "srv1"}, store.find("sync")[0].IDs)

	_, err = newEditor(t, coreStore{store}).Sync(bg)
	assert.ErrorIs(t, err, ErrNotSupported)
}

func TestKeyboardDrivesEditor(t *testing.T) {
	var pages []int
	store := newFakeStore()
	e := newEditor(t, store, func(o *Options) {
		o.PageCount = 2
		o.OnPageChange = func(p int) { pages = append(pages, p) }
	})
	e.SetRegions([]model.Region{region("a", 100, 100, 150, 130), region("b", 200, 100, 250, 130)})

	assert.True(t, e.HandleKey(command.KeyEvent{Key: "a", Ctrl: true}))
	assert.Equal(t, []string{"a", "b"}, e.Selected())

	assert.True(t, e.HandleKey(command.KeyEvent{Key: "d"}))
	r, _ := e.Region("b")
	assert.Equal(t, model.ActionRemove, r.Action)

	assert.True(t, e.HandleKey(command.KeyEvent{Key: "z", Meta: true}))
	r, _ = e.Region("b")
	assert.Equal(t, model.ActionPending, r.Action)

	assert.False(t, e.HandleKey(command.KeyEvent{Key: "t", InTextInput: true}))

	assert.True(t, e.HandleKey(command.KeyEvent{Key: "="}))
	assert.Equal(t, 1.25, e.Zoom())
	assert.True(t, e.HandleKey(command.KeyEvent{Key: "0"}))
	assert.Equal(t, 1.0, e.Zoom())

	assert.True(t, e.HandleKey(command.KeyEvent{Key: "ArrowRight"}))
	assert.True(t, e.HandleKey(command.KeyEvent{Key: "ArrowRight"}))
	assert.Equal(t, 2, e.Page())
	assert.Equal(t, []int{2}, pages, "navigation past the last page is ignored")
	assert.Empty(t, e.Selected())

	e.Flush()
	assert.Equal(t, []string{"batch_action", "batch_action"}, store.ops())
}

func TestUnloadedPageRefusesGestures(t *testing.T) {
	e := newEditor(t, newFakeStore(), func(o *Options) { o.PageCount = 3 })
	require.NoError(t, e.ShowPage(model.PageData{PageNumber: 2, Width: 300, Height: 400}, model.Size{}))
	e.SetRegions([]model.Region{region("a", 100, 100, 150, 130)})

	require.True(t, e.SetPage(1))
	assert.Equal(t, model.Size{Width: 600, Height: 800}, e.View().PageSize(), "cached page keeps its size")
	assert.Equal(t, model.Size{Width: 600, Height: 800}, e.View().ImageSize())

	require.True(t, e.SetPage(3))
	assert.True(t, e.View().PageSize().IsZero())
	e.SetDrawMode(true)
	assert.False(t, e.PointerDown(at(100, 100)), "no bounds to clamp against yet")
	e.SetDrawMode(false)

	require.NoError(t, e.ShowPage(model.PageData{PageNumber: 3, Width: 600, Height: 800}, model.Size{}))
	e.SetDrawMode(true)
	assert.True(t, e.PointerDown(at(100, 100)))
	e.CancelGesture()
}

func TestEscapeUnwindsDrawState(t *testing.T) {
	e := newEditor(t, newFakeStore())
	e.SetRegions([]model.Region{region("a", 100, 100, 150, 130)})
	e.Select("a")

	e.SetDrawMode(true)
	drag(e, 300, 300, 400, 350)
	_, ok := e.PendingDraw()
	require.True(t, ok)

	esc := command.KeyEvent{Key: "Escape"}
	assert.True(t, e.HandleKey(esc))
	_, ok = e.PendingDraw()
	assert.False(t, ok)
	assert.True(t, e.DrawMode())

	assert.True(t, e.HandleKey(esc))
	assert.False(t, e.DrawMode())

	assert.True(t, e.HandleKey(esc))
	assert.Empty(t, e.Selected())
	assert.False(t, e.HandleKey(esc))
}

func TestSelectionBoundsAndCycle(t *testing.T) {
	e := newEditor(t, newFakeStore())
	cancelled := region("c", 0, 0, 10, 10)
	cancelled.Action = model.ActionCancel
	e.SetRegions([]model.Region{region("a", 100, 100, 150, 130), region("b", 200, 150, 250, 180), cancelled})

	e.Select("a")
	_, ok := e.SelectionBounds()
	assert.False(t, ok)

	e.Select("a", "b", "c")
	box, ok := e.SelectionBounds()
	require.True(t, ok)
	assert.Equal(t, model.BBox{X0: 100, Y0: 100, X1: 250, Y1: 180}, box)

	id, ok := e.CycleSelection(true)
	assert.True(t, ok)
	assert.Equal(t, "a", id)
	id, _ = e.CycleSelection(true)
	assert.Equal(t, "b", id)
	id, _ = e.CycleSelection(true)
	assert.Equal(t, "a", id, "wraps and skips cancelled regions")
}

func TestClosedEditorRejectsInput(t *testing.T) {
	store := newFakeStore()
	e := newEditor(t, store)
	e.SetRegions([]model.Region{region("a", 100, 100, 150, 130)})

	require.NoError(t, e.Close())
	require.NoError(t, e.Close())

	assert.False(t, e.PointerDown(at(120, 110)))
	assert.ErrorIs(t, e.SetAction("a", model.ActionRemove), ErrClosed)
	assert.False(t, e.HandleKey(command.KeyEvent{Key: "d"}))
	assert.Empty(t, store.ops())
}
