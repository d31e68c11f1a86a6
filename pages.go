package regionedit

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/regionedit/model"
	"github.com/tsawler/regionedit/viewport"
)

// Load replaces the region array with every region of the document.
func (e *Editor) Load(ctx context.Context) error {
	loader, ok := e.store.(Loader)
	if !ok {
		return ErrNotSupported
	}
	regions, err := loader.GetRegions(ctx, e.docID, 0)
	if err != nil {
		return fmt.Errorf("load regions: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}
	e.setRegionsLocked(regions)
	e.logger.WithField("regions", len(regions)).Info("regions loaded")
	return nil
}

// LoadPage fetches a page's metadata and makes it the active page. bitmap,
// when given, is the rendered page image: its dimensions become the image
// size of the viewport, and it is run through Options.Recognizer when the
// backend has no text blocks for the page.
func (e *Editor) LoadPage(ctx context.Context, page int, bitmap []byte) error {
	loader, ok := e.store.(Loader)
	if !ok {
		return ErrNotSupported
	}
	pd, err := loader.GetPage(ctx, e.docID, page)
	if err != nil {
		return fmt.Errorf("load page %d: %w", page, err)
	}
	if pd.PageNumber == 0 {
		pd.PageNumber = page
	}

	var imageSize model.Size
	if len(bitmap) > 0 {
		imageSize, err = viewport.MeasureImageBytes(bitmap)
		if err != nil {
			return fmt.Errorf("measure page %d: %w", page, err)
		}
		if len(pd.TextBlocks) == 0 && e.opts.Recognizer != nil {
			blocks, err := e.opts.Recognizer.TextBlocks(bitmap, pd.Size())
			if err != nil {
				e.logger.WithError(err).WithField("page", page).Warn("OCR failed, snapping disabled for page")
			} else {
				pd.TextBlocks = blocks
				e.logger.WithFields(logrus.Fields{"page": page, "blocks": len(blocks)}).Debug("text blocks from OCR")
			}
		}
	}
	return e.ShowPage(pd, imageSize)
}

// ShowPage makes pd the active page without contacting the backend. The
// image size is the size of the rendered bitmap; a zero size means the
// bitmap is rendered at page dimensions.
func (e *Editor) ShowPage(pd model.PageData, imageSize model.Size) error {
	if pd.PageNumber < 1 {
		return fmt.Errorf("invalid page number %d", pd.PageNumber)
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return ErrClosed
	}

	e.pages[pd.PageNumber] = pd
	if pd.PageNumber != e.page {
		e.switchPageLocked(pd.PageNumber)
	}
	if imageSize.IsZero() {
		imageSize = pd.Size()
	}
	e.bitmaps[pd.PageNumber] = imageSize
	e.view.SetPageSize(pd.Size())
	e.view.SetImageSize(imageSize)
	return nil
}

// TextBlocks returns the snapping references of the active page.
func (e *Editor) TextBlocks() []model.TextBlock {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pages[e.page].TextBlocks
}

// Page returns the 1-indexed active page.
func (e *Editor) Page() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.page
}

// SetPage changes the active page and reports whether it changed. The host
// loads the page's data with LoadPage or ShowPage.
func (e *Editor) SetPage(page int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.setPageLocked(page)
}

// PageCount returns the number of pages, or 0 when unknown.
func (e *Editor) PageCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.pageCount
}

// SetPageCount sets the number of pages used to bound navigation.
func (e *Editor) SetPageCount(n int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if n < 0 {
		n = 0
	}
	e.pageCount = n
}

func (e *Editor) setPageLocked(page int) bool {
	if page < 1 || (e.pageCount > 0 && page > e.pageCount) || page == e.page {
		return false
	}
	e.switchPageLocked(page)
	return true
}

// switchPageLocked leaves the active page: any gesture or pending draw on
// it is abandoned and the selection is cleared.
func (e *Editor) switchPageLocked(page int) {
	e.gestures.Cancel()
	e.pendingDraw = nil
	e.selection.Clear()
	e.scroll = model.Point{}
	e.page = page
	if pd, ok := e.pages[page]; ok {
		e.view.SetPageSize(pd.Size())
		e.view.SetImageSize(e.bitmaps[page])
		return
	}
	// unknown until LoadPage or ShowPage
	e.view.SetPageSize(model.Size{})
	e.view.SetImageSize(model.Size{})
}
