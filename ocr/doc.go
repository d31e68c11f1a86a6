// Package ocr recovers word boxes from a rendered page bitmap so that
// scanned pages, which carry no text layer, still offer snapping
// references to the region editor.
//
// Recognition wraps the Tesseract engine via gosseract and is only compiled
// with the "ocr" build tag:
//
//	go build -tags ocr
//
// This requires Tesseract to be installed. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr libtesseract-dev
//
// Without the tag, New returns ErrOCRNotEnabled and callers fall back to an
// empty block list, which makes snapping a no-op.
package ocr
