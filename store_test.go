package regionedit

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/exp/slices"

	"github.com/tsawler/regionedit/model"
)

type call struct {
	Op     string
	IDs    []string
	Action model.Action
	BBox   model.BBox
	Value  string
}

// tempErr is a transient failure the outbox retries.
type tempErr struct{}

func (tempErr) Error() string { return "backend unavailable" }
func (tempErr) Temporary() bool { return true }

// fakeStore is an in-memory backend. It keeps its own copy of every region
// so tests can compare what was replicated with the editor's state.
type fakeStore struct {
	mu    sync.Mutex
	calls []call
	next  int
	state map[string]model.Region

	actionErr    error
	addErr       error
	highlightErr error
	highlight    model.HighlightResult
	reanalysis   model.Reanalysis
	addText      string
	addSiblings  []model.Region
	updates      []model.RegionUpdate
	pages        map[int]model.PageData
}

func newFakeStore(seed ...model.Region) *fakeStore {
	s := &fakeStore{state: make(map[string]model.Region), pages: make(map[int]model.PageData)}
	for _, r := range seed {
		s.state[r.ID] = r
	}
	return s
}

func (s *fakeStore) record(c call) {
	s.calls = append(s.calls, c)
}

func (s *fakeStore) find(op string) []call {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []call
	for _, c := range s.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (s *fakeStore) ops() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, c := range s.calls {
		out = append(out, c.Op)
	}
	return out
}

func (s *fakeStore) region(id string) (model.Region, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.state[id]
	return r, ok
}

func (s *fakeStore) setAction(id string, action model.Action) {
	if r, ok := s.state[id]; ok {
		r.Action = action
		s.state[id] = r
	}
}

func (s *fakeStore) SetRegionAction(_ context.Context, _, regionID string, action model.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(call{Op: "action", IDs: []string{regionID}, Action: action})
	if s.actionErr != nil {
		return s.actionErr
	}
	s.setAction(regionID, action)
	return nil
}

func (s *fakeStore) BatchSetRegionAction(_ context.Context, _ string, ids []string, action model.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(call{Op: "batch_action", IDs: slices.Clone(ids), Action: action})
	if s.actionErr != nil {
		return s.actionErr
	}
	for _, id := range ids {
		s.setAction(id, action)
	}
	return nil
}

func (s *fakeStore) UpdateRegionBBox(_ context.Context, _, regionID string, bbox model.BBox) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(call{Op: "bbox", IDs: []string{regionID}, BBox: bbox})
	if r, ok := s.state[regionID]; ok {
		r.BBox = bbox
		s.state[regionID] = r
	}
	return nil
}

func (s *fakeStore) AddManualRegion(_ context.Context, _ string, region model.Region) (model.AddedRegion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(call{Op: "add", BBox: region.BBox, Action: region.Action, Value: region.ID})
	if s.addErr != nil {
		return model.AddedRegion{}, s.addErr
	}
	s.next++
	region.ID = fmt.Sprintf("srv%d", s.next)
	if s.addText != "" {
		region.Text = s.addText
	}
	s.state[region.ID] = region

	added := model.AddedRegion{
		RegionID: region.ID,
		Text:     region.Text,
		PIIType:  region.PIIType,
		BBox:     region.BBox,
	}
	if len(s.addSiblings) > 0 {
		added.NewRegions = s.addSiblings
		added.AllIDs = []string{region.ID}
		for _, r := range s.addSiblings {
			s.state[r.ID] = r
			added.AllIDs = append(added.AllIDs, r.ID)
		}
	}
	return added, nil
}

func (s *fakeStore) ReanalyzeRegion(_ context.Context, _, regionID string) (model.Reanalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(call{Op: "reanalyze", IDs: []string{regionID}})
	ra := s.reanalysis
	ra.RegionID = regionID
	return ra, nil
}

func (s *fakeStore) HighlightAllRegions(_ context.Context, _, regionID string) (model.HighlightResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(call{Op: "highlight", IDs: []string{regionID}})
	if s.highlightErr != nil {
		return model.HighlightResult{}, s.highlightErr
	}
	return s.highlight, nil
}

func (s *fakeStore) GetRegions(_ context.Context, _ string, page int) ([]model.Region, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(call{Op: "get_regions"})
	var out []model.Region
	for _, r := range s.state {
		if page == 0 || r.PageNumber == page {
			out = append(out, r)
		}
	}
	slices.SortFunc(out, func(a, b model.Region) bool { return a.ID < b.ID })
	return out, nil
}

func (s *fakeStore) GetPage(_ context.Context, _ string, page int) (model.PageData, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(call{Op: "get_page"})
	pd, ok := s.pages[page]
	if !ok {
		return model.PageData{}, fmt.Errorf("page %d not found", page)
	}
	return pd, nil
}

func (s *fakeStore) SyncRegions(_ context.Context, _ string, items []model.SyncItem) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := call{Op: "sync"}
	n := 0
	for _, it := range items {
		c.IDs = append(c.IDs, it.ID)
		if _, ok := s.state[it.ID]; ok {
			n++
		}
	}
	s.record(c)
	return n, nil
}

func (s *fakeStore) DeleteRegion(_ context.Context, _, regionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(call{Op: "delete", IDs: []string{regionID}})
	delete(s.state, regionID)
	return nil
}

func (s *fakeStore) BatchDeleteRegions(_ context.Context, _ string, ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(call{Op: "batch_delete", IDs: slices.Clone(ids)})
	n := 0
	for _, id := range ids {
		if _, ok := s.state[id]; ok {
			delete(s.state, id)
			n++
		}
	}
	return n, nil
}

func (s *fakeStore) UpdateRegionLabel(_ context.Context, _, regionID string, piiType model.PIIType) ([]model.RegionUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(call{Op: "label", IDs: []string{regionID}, Value: string(piiType)})
	return s.updates, nil
}

func (s *fakeStore) UpdateRegionText(_ context.Context, _, regionID, text string) ([]model.RegionUpdate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.record(call{Op: "text", IDs: []string{regionID}, Value: text})
	return s.updates, nil
}

// coreStore implements only the required Persistence methods.
type coreStore struct {
	Persistence
}
