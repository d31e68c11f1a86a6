package regionedit

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"

	"github.com/tsawler/regionedit/model"
	"github.com/tsawler/regionedit/outbox"
)

// errNotSaved is returned by a replication job whose region never got a
// backend id because its creation failed.
var errNotSaved = errors.New("region was never saved")

// enqueue hands a job to the outbox. It does not block and may be called
// with e.mu held. run and done are called on the outbox worker without the
// lock.
func (e *Editor) enqueue(op string, fields logrus.Fields, run func(ctx context.Context) error, done func(error)) {
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["doc_id"] = e.docID
	err := e.outbox.Enqueue(outbox.Job{Name: op, Fields: fields, Run: run, Done: done})
	if err != nil {
		e.logger.WithError(err).WithField("op", op).Debug("replication dropped")
	}
}

// resolve maps ids to backend ids, following aliases recorded when a
// locally created region was acknowledged. Ids that are still local are
// left out.
func (e *Editor) resolve(ids ...string) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		for {
			next, ok := e.aliases[id]
			if !ok {
				break
			}
			id = next
		}
		if !isLocal(id) {
			out = append(out, id)
		}
	}
	return out
}

func (e *Editor) resolveOne(id string) (string, error) {
	ids := e.resolve(id)
	if len(ids) == 0 {
		return "", fmt.Errorf("%s: %w", id, errNotSaved)
	}
	return ids[0], nil
}

func (e *Editor) replicateAction(ids []string, action model.Action) {
	ids = slices.Clone(ids)
	fields := logrus.Fields{"action": action}
	if len(ids) == 1 {
		fields["region_id"] = ids[0]
	} else {
		fields["region_ids"] = ids
	}
	e.enqueue("set_action", fields, func(ctx context.Context) error {
		resolved := e.resolve(ids...)
		switch len(resolved) {
		case 0:
			return fmt.Errorf("%v: %w", ids, errNotSaved)
		case 1:
			return e.store.SetRegionAction(ctx, e.docID, resolved[0], action)
		default:
			return e.store.BatchSetRegionAction(ctx, e.docID, resolved, action)
		}
	}, nil)
}

func (e *Editor) replicateBBox(id string, bbox model.BBox) {
	e.enqueue("update_bbox", logrus.Fields{"region_id": id}, func(ctx context.Context) error {
		sid, err := e.resolveOne(id)
		if err != nil {
			return err
		}
		return e.store.UpdateRegionBBox(ctx, e.docID, sid, bbox)
	}, nil)
}

// replicateCreate sends a locally created region to the backend and merges
// the answer: the temporary id is replaced everywhere by the backend id, the
// extracted text and type are taken over, and regions the backend created
// for other occurrences of the text are added.
func (e *Editor) replicateCreate(r model.Region) {
	localID := r.ID
	e.enqueue("add_region", logrus.Fields{"region_id": localID, "page": r.PageNumber}, func(ctx context.Context) error {
		added, err := e.store.AddManualRegion(ctx, e.docID, r)
		if err != nil {
			return err
		}
		if added.RegionID == "" {
			return fmt.Errorf("add region %s: backend returned no id", localID)
		}
		e.mu.Lock()
		e.mergeAddedLocked(localID, added)
		e.mu.Unlock()
		e.notify()
		return nil
	}, nil)
}

func (e *Editor) mergeAddedLocked(localID string, added model.AddedRegion) {
	serverID := added.RegionID
	e.aliases[localID] = serverID

	li := model.IndexOf(e.regions, localID)
	if model.IndexOf(e.regions, serverID) >= 0 {
		// The backend matched a region we already have.
		if li >= 0 {
			e.regions = slices.Delete(e.regions, li, li+1)
		}
		if e.selection.Contains(localID) {
			e.selection.Remove(localID)
			e.selection.Union([]string{serverID})
		}
		e.history.Drop(localID)
	} else {
		if li >= 0 {
			e.regions[li].ID = serverID
		}
		e.selection.Rename(localID, serverID)
		e.history.Rename(localID, serverID)
	}

	if i := model.IndexOf(e.regions, serverID); i >= 0 {
		if added.Text != "" {
			e.regions[i].Text = added.Text
		}
		if added.PIIType != "" {
			e.regions[i].PIIType = added.PIIType
		}
	}
	e.mergeNewLocked(added.NewRegions, added.CancelledIDs)

	// Widen a selection of just the new region to every occurrence.
	if id, ok := e.selection.Single(); ok && id == serverID {
		if all := e.presentLocked(added.AllIDs); len(all) > 0 {
			e.selection.Replace(all)
		}
	}
	e.logger.WithFields(logrus.Fields{
		"local_id":  localID,
		"region_id": serverID,
		"siblings":  len(added.NewRegions),
	}).Debug("region acknowledged")
}

// mergeNewLocked appends backend-created regions that are not known yet and
// marks the cancelled ones.
func (e *Editor) mergeNewLocked(regions []model.Region, cancelled []string) {
	for _, r := range regions {
		if r.ID == "" || model.IndexOf(e.regions, r.ID) >= 0 {
			continue
		}
		e.regions = append(e.regions, r)
	}
	for _, id := range cancelled {
		if i := model.IndexOf(e.regions, id); i >= 0 {
			e.regions[i].Action = model.ActionCancel
		}
	}
}

func (e *Editor) applyUpdatesLocked(updates []model.RegionUpdate) {
	for _, u := range updates {
		i := model.IndexOf(e.regions, u.ID)
		if i < 0 {
			continue
		}
		if u.PIIType != "" {
			e.regions[i].PIIType = u.PIIType
		}
		if u.Text != "" {
			e.regions[i].Text = u.Text
		}
	}
}

// replicateDiffLocked sends the action and bbox changes between two states
// of the region array. A region that disappears (an undone draw or paste)
// is cancelled on the backend, which is its soft delete; a region that
// reappears gets its restored action back.
func (e *Editor) replicateDiffLocked(before, after []model.Region) {
	prev := make(map[string]model.Region, len(before))
	for _, r := range before {
		prev[r.ID] = r
	}

	var order []model.Action
	byAction := make(map[model.Action][]string)
	add := func(action model.Action, id string) {
		if _, seen := byAction[action]; !seen {
			order = append(order, action)
		}
		byAction[action] = append(byAction[action], id)
	}

	next := make(map[string]bool, len(after))
	for _, r := range after {
		next[r.ID] = true
		old, ok := prev[r.ID]
		if !ok {
			add(r.Action, r.ID)
			continue
		}
		if old.Action != r.Action {
			add(r.Action, r.ID)
		}
		if old.BBox != r.BBox {
			e.replicateBBox(r.ID, r.BBox)
		}
	}
	for _, r := range before {
		if !next[r.ID] && r.Action != model.ActionCancel {
			add(model.ActionCancel, r.ID)
		}
	}
	for _, action := range order {
		e.replicateAction(byAction[action], action)
	}
}

// scheduleReanalyze restarts the reanalyze debounce for id. Only the last
// region scheduled within the delay is reanalyzed.
func (e *Editor) scheduleReanalyze(id string) {
	e.reanalyze.Trigger(e.opts.ReanalyzeDelay, func() {
		e.enqueue("reanalyze", logrus.Fields{"region_id": id}, func(ctx context.Context) error {
			sid, err := e.resolveOne(id)
			if err != nil {
				return err
			}
			ra, err := e.store.ReanalyzeRegion(ctx, e.docID, sid)
			if err != nil {
				return err
			}
			e.mu.Lock()
			if i := model.IndexOf(e.regions, sid); i >= 0 {
				ra.Apply(&e.regions[i])
			}
			e.mu.Unlock()
			e.notify()
			return nil
		}, nil)
	})
}
