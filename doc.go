// Package regionedit is the interaction engine of a document-redaction
// viewer. It keeps the PII regions of one document, turns pointer and
// keyboard input into edits of those regions, and replicates every edit to
// the redaction backend.
//
// Basic usage:
//
//	c, err := client.New(client.DefaultOptions())
//	if err != nil {
//	    // handle error
//	}
//	ed, err := regionedit.New("doc-id", c, regionedit.DefaultOptions())
//	if err != nil {
//	    // handle error
//	}
//	defer ed.Close()
//
//	if err := ed.Load(ctx); err != nil {
//	    // handle error
//	}
//	if err := ed.LoadPage(ctx, 1, pngBytes); err != nil {
//	    // handle error
//	}
//
//	ed.PointerDown(viewport.Pointer{ClientX: 120, ClientY: 80})
//	ed.PointerMove(viewport.Pointer{ClientX: 160, ClientY: 80})
//	ed.PointerUp(viewport.Pointer{ClientX: 160, ClientY: 80})
//	ed.HandleKey(command.KeyEvent{Key: "d"})
//
// Regions live in page coordinates (PDF points, origin top-left). The
// viewport package maps client pixels to page space through the current
// zoom and rendered image size, which the host keeps up to date on
// Editor.View.
//
// Edits are applied locally first and replicated in the background by a
// single FIFO worker that retries transient failures. Failures are logged
// and reported through Options.OnStatus; local state is never rolled back.
// Regions created by drawing or pasting carry a temporary "local-" id until
// the backend assigns one.
package regionedit
