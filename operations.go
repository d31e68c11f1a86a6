package regionedit

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"

	"github.com/tsawler/regionedit/clipboard"
	"github.com/tsawler/regionedit/model"
	"github.com/tsawler/regionedit/selection"
)

// ConfirmDraw turns the pending draw into a manual region of the given type
// on the active page, selects it and returns its id. The id is temporary
// until the backend acknowledges the region; Regions and Selected report the
// backend id from then on.
func (e *Editor) ConfirmDraw(piiType model.PIIType) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return "", ErrClosed
	}
	if e.pendingDraw == nil {
		return "", ErrNoPendingDraw
	}
	box := *e.pendingDraw
	e.pendingDraw = nil
	if piiType == "" {
		piiType = model.PIICustom
	}

	e.pushUndoLocked()
	r := model.Region{
		ID:         e.newLocalIDLocked(),
		PageNumber: e.page,
		BBox:       e.placeLocked(box, ""),
		PIIType:    piiType,
		Confidence: 1,
		Source:     model.SourceManual,
		Action:     model.ActionPending,
	}
	e.regions = append(e.regions, r)
	e.selection.Set(r.ID)

	e.replicateCreate(r)
	e.scheduleReanalyze(r.ID)
	return r.ID, nil
}

// SetAction sets one region's action.
func (e *Editor) SetAction(id string, action model.Action) error {
	if !action.Valid() {
		return fmt.Errorf("invalid action %q", action)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	i := model.IndexOf(e.regions, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRegionNotFound, id)
	}
	if e.regions[i].Action == action {
		return nil
	}
	e.pushUndoLocked()
	e.regions[i].Action = action
	e.replicateAction([]string{id}, action)
	return nil
}

// ApplyToSelection sets action on every selected region and returns how
// many regions were changed.
func (e *Editor) ApplyToSelection(action model.Action) int {
	if !action.Valid() {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return 0
	}
	return e.applyToSelectionLocked(action)
}

func (e *Editor) applyToSelectionLocked(action model.Action) int {
	var ids []string
	for _, r := range e.selection.Members(e.regions) {
		if r.Action != action {
			ids = append(ids, r.ID)
		}
	}
	if len(ids) == 0 {
		return 0
	}

	e.pushUndoLocked()
	for _, id := range ids {
		e.regions[model.IndexOf(e.regions, id)].Action = action
	}
	e.replicateAction(ids, action)
	return len(ids)
}

// SelectAll selects every active region on the active page.
func (e *Editor) SelectAll() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.SelectAll(e.regions, e.page)
}

// CycleSelection moves the selection to the next or previous pending region
// on the active page.
func (e *Editor) CycleSelection(forward bool) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.selection.Cycle(e.regions, e.page, forward)
}

// Copy writes the selected regions to the clipboard and returns how many
// were copied.
func (e *Editor) Copy() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.copyLocked()
}

func (e *Editor) copyLocked() (int, error) {
	members := e.selection.Members(e.regions)
	if len(members) == 0 {
		return 0, nil
	}
	entries := make([]clipboard.Entry, 0, len(members))
	for _, r := range members {
		entries = append(entries, clipboard.FromRegion(r))
	}
	if err := e.board.Write(entries); err != nil {
		return 0, fmt.Errorf("write clipboard: %w", err)
	}
	return len(entries), nil
}

// Paste adds the clipboard entries to the active page as new manual
// regions, selects them and returns how many were added. Each pasted box
// keeps its geometry unless it has to be moved onto the page or out of a
// sibling.
func (e *Editor) Paste() (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return 0, ErrClosed
	}
	return e.pasteLocked()
}

func (e *Editor) pasteLocked() (int, error) {
	entries, err := e.board.Read()
	if err != nil {
		return 0, fmt.Errorf("read clipboard: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	e.pushUndoLocked()
	created := make([]model.Region, 0, len(entries))
	for _, entry := range entries {
		r := entry.Region(e.newLocalIDLocked(), e.page)
		r.BBox = e.placeLocked(r.BBox, "")
		e.regions = append(e.regions, r)
		created = append(created, r)
	}

	ids := make([]string, 0, len(created))
	for _, r := range created {
		ids = append(ids, r.ID)
		e.replicateCreate(r)
	}
	e.selection.Replace(ids)
	return len(created), nil
}

// HighlightAll asks the backend to mark every other occurrence of a region's
// text and selects the matches. If the request fails, regions already in
// the array with matching text are selected instead.
func (e *Editor) HighlightAll(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	i := model.IndexOf(e.regions, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRegionNotFound, id)
	}
	text := e.regions[i].Text

	e.enqueue("highlight_all", logrus.Fields{"region_id": id}, func(ctx context.Context) error {
		sid, err := e.resolveOne(id)
		if err != nil {
			return err
		}
		res, err := e.store.HighlightAllRegions(ctx, e.docID, sid)
		if err != nil {
			return err
		}
		e.mu.Lock()
		e.mergeNewLocked(res.NewRegions, res.CancelledIDs)
		if all := e.presentLocked(res.AllIDs); len(all) > 0 {
			e.selection.Replace(all)
		}
		e.mu.Unlock()
		e.notify()
		return nil
	}, func(err error) {
		if err == nil || text == "" {
			return
		}
		e.mu.Lock()
		ids := selection.MatchingText(e.regions, text)
		if len(ids) > 0 {
			e.selection.Replace(ids)
		}
		e.mu.Unlock()
		e.notify()
	})
	return nil
}

// SetLabel changes a region's PII type. Regions with the same text take the
// new type as well, matching what the backend does. Label edits are not
// recorded in the undo history.
func (e *Editor) SetLabel(id string, piiType model.PIIType) error {
	fe, ok := e.store.(FieldEditor)
	if !ok {
		return ErrNotSupported
	}
	return e.editField(id, "update_label", func(r *model.Region) {
		r.PIIType = piiType
	}, func(ctx context.Context, sid string) ([]model.RegionUpdate, error) {
		return fe.UpdateRegionLabel(ctx, e.docID, sid, piiType)
	})
}

// SetText changes a region's text. Regions with the same original text take
// the new text as well. Text edits are not recorded in the undo history.
func (e *Editor) SetText(id, text string) error {
	fe, ok := e.store.(FieldEditor)
	if !ok {
		return ErrNotSupported
	}
	return e.editField(id, "update_text", func(r *model.Region) {
		r.Text = text
	}, func(ctx context.Context, sid string) ([]model.RegionUpdate, error) {
		return fe.UpdateRegionText(ctx, e.docID, sid, text)
	})
}

func (e *Editor) editField(id, op string, apply func(*model.Region), send func(context.Context, string) ([]model.RegionUpdate, error)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	i := model.IndexOf(e.regions, id)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrRegionNotFound, id)
	}

	key := selection.EditKey(e.regions[i].Text)
	apply(&e.regions[i])
	if key != "" {
		for j := range e.regions {
			if j != i && selection.EditKey(e.regions[j].Text) == key {
				apply(&e.regions[j])
			}
		}
	}

	e.enqueue(op, logrus.Fields{"region_id": id}, func(ctx context.Context) error {
		sid, err := e.resolveOne(id)
		if err != nil {
			return err
		}
		updated, err := send(ctx, sid)
		if err != nil {
			return err
		}
		e.mu.Lock()
		e.applyUpdatesLocked(updated)
		e.mu.Unlock()
		e.notify()
		return nil
	}, nil)
	return nil
}

// Delete hard-deletes regions. Unlike a CANCEL action this cannot be undone:
// the ids are dropped from the undo history too. It returns how many
// regions were removed.
func (e *Editor) Delete(ids ...string) (int, error) {
	del, ok := e.store.(Deleter)
	if !ok {
		return 0, ErrNotSupported
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return 0, ErrClosed
	}
	ids = e.presentLocked(ids)
	if len(ids) == 0 {
		return 0, nil
	}

	e.gestures.Cancel()
	kept := e.regions[:0]
	for _, r := range e.regions {
		if !slices.Contains(ids, r.ID) {
			kept = append(kept, r)
		}
	}
	e.regions = kept
	e.selection.Remove(ids...)
	e.history.Drop(ids...)

	e.enqueue("delete", logrus.Fields{"region_ids": ids}, func(ctx context.Context) error {
		resolved := e.resolve(ids...)
		switch len(resolved) {
		case 0:
			return nil
		case 1:
			return del.DeleteRegion(ctx, e.docID, resolved[0])
		default:
			_, err := del.BatchDeleteRegions(ctx, e.docID, resolved)
			return err
		}
	}, nil)
	return len(ids), nil
}

// Sync waits for queued replication to finish and then pushes the action
// and bbox of every acknowledged region in one request. Hosts call it
// before anonymizing the document. It returns how many regions the backend
// matched.
func (e *Editor) Sync(ctx context.Context) (int, error) {
	s, ok := e.store.(Syncer)
	if !ok {
		return 0, ErrNotSupported
	}
	e.outbox.Flush()

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return 0, ErrClosed
	}
	saved := make([]model.Region, 0, len(e.regions))
	for _, r := range e.regions {
		if !isLocal(r.ID) {
			saved = append(saved, r)
		}
	}
	e.mu.Unlock()

	n, err := s.SyncRegions(ctx, e.docID, model.SyncItems(saved))
	if err != nil {
		return 0, fmt.Errorf("sync regions: %w", err)
	}
	e.logger.WithFields(logrus.Fields{"sent": len(saved), "synced": n}).Info("regions synced")
	return n, nil
}
