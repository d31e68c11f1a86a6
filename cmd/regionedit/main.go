// Command regionedit replays a pointer and keyboard event script against a
// document on a running redaction backend and prints the resulting regions
// as JSON.
//
// Usage:
//
//	regionedit -server http://127.0.0.1:8000 -doc <id> -script events.jsonl
//
// Each script line is a JSON event, for example:
//
//	{"type":"page","page":1,"bitmap":"page1.png"}
//	{"type":"down","x":120,"y":80}
//	{"type":"move","x":160,"y":80}
//	{"type":"up","x":160,"y":80}
//	{"type":"key","key":"d"}
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"

	"github.com/tsawler/regionedit"
	"github.com/tsawler/regionedit/client"
	"github.com/tsawler/regionedit/clipboard"
	"github.com/tsawler/regionedit/ocr"
)

var (
	server     = flag.String("server", envOr("REGIONEDIT_SERVER", "http://127.0.0.1:8000"), "Backend base URL")
	docID      = flag.String("doc", os.Getenv("REGIONEDIT_DOC"), "Document id")
	script     = flag.String("script", "-", "Event script (JSON lines), - for stdin")
	pages      = flag.Int("pages", 0, "Page count, bounds keyboard navigation")
	useOCR     = flag.Bool("ocr", false, "Run OCR on page bitmaps without text blocks")
	lang       = flag.String("lang", "eng", "OCR language")
	sysClip    = flag.Bool("system-clipboard", false, "Mirror copied regions to the OS clipboard")
	syncAtEnd  = flag.Bool("sync", false, "Push every region to the backend after the script")
	debug      = flag.Bool("debug", false, "Enable debug logging")
	jsonOutput = flag.Bool("json-log", false, "Log as JSON")
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logrus.New()
	log.SetOutput(os.Stderr)
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}
	if *jsonOutput {
		log.SetFormatter(&logrus.JSONFormatter{})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, log, os.Stdout); err != nil {
		log.WithError(err).Fatal("regionedit failed")
	}
}

func run(ctx context.Context, log *logrus.Logger, out io.Writer) error {
	if *docID == "" {
		return errors.New("no document id: pass -doc or set REGIONEDIT_DOC")
	}

	events, err := readScript(*script)
	if err != nil {
		return err
	}

	c, err := client.New(client.Options{BaseURL: *server, Logger: log})
	if err != nil {
		return err
	}

	opts := regionedit.DefaultOptions()
	opts.Logger = log
	opts.PageCount = *pages
	opts.OnStatus = func(msg string) { log.Warn(msg) }
	if *sysClip {
		opts.Clipboard = &clipboard.System{}
	}
	if *useOCR {
		rec, err := ocr.New()
		switch {
		case errors.Is(err, ocr.ErrOCRNotEnabled):
			log.Warn("built without OCR support, rebuild with -tags ocr")
		case err != nil:
			return fmt.Errorf("starting OCR: %w", err)
		default:
			defer rec.Close()
			if err := rec.SetLanguage(*lang); err != nil {
				return fmt.Errorf("setting OCR language: %w", err)
			}
			opts.Recognizer = rec
		}
	}

	ed, err := regionedit.New(*docID, c, opts)
	if err != nil {
		return err
	}
	defer ed.Close()

	if err := ed.Load(ctx); err != nil {
		return err
	}
	if err := Replay(ctx, ed, events); err != nil {
		return err
	}
	ed.Flush()

	if *syncAtEnd {
		n, err := ed.Sync(ctx)
		if err != nil {
			return err
		}
		log.WithField("synced", n).Info("regions pushed")
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(ed.Regions())
}

func readScript(path string) ([]Event, error) {
	if path == "-" {
		return ParseScript(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening script: %w", err)
	}
	defer f.Close()
	return ParseScript(f)
}
