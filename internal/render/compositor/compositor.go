// Package compositor renders a civic profile video inside a headless
// Chromium. The composition page animates the profile on a canvas and
// records it with MediaRecorder, so all encoding happens inside the
// browser; this package only drives the page and collects the bytes.
package compositor

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/civicengine/api/internal/model"
)

// Options tune the browser and recording.
type Options struct {
	// BrowserBin overrides the Chromium binary; empty lets the
	// launcher resolve or download one.
	BrowserBin string
	Width      int
	Height     int
	// PollInterval is how often the page is asked for progress.
	PollInterval time.Duration
}

// DefaultOptions are the production settings (1080x1920 portrait).
func DefaultOptions() Options {
	return Options{
		Width:        1080,
		Height:       1920,
		PollInterval: 250 * time.Millisecond,
	}
}

// ProgressFunc observes compositing stages as they happen.
type ProgressFunc func(stage string, fraction float64)

// pageState mirrors the window.__render object maintained by the
// composition page script.
type pageState struct {
	Progress float64 `json:"progress"`
	Done     bool    `json:"done"`
	Error    string  `json:"error"`
	Video    string  `json:"video"` // base64 webm once done
}

// Render composites the payload into a webm at outputPath.
func Render(ctx context.Context, payload *model.RenderJobPayload, outputPath string, opts Options, onProgress ProgressFunc) error {
	report := func(stage string, f float64) {
		if onProgress != nil {
			onProgress(stage, f)
		}
	}

	report(model.StageBundling, 0.05)
	page, err := BuildCompositionPage(payload)
	if err != nil {
		return fmt.Errorf("failed to bundle composition: %w", err)
	}

	report(model.StageStartingBrowser, 0.1)
	browser, cleanup, err := launchBrowser(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to start browser: %w", err)
	}
	defer cleanup()

	dataURL := "data:text/html;charset=utf-8," + url.PathEscape(page)
	tab, err := browser.Page(proto.TargetCreateTarget{URL: dataURL})
	if err != nil {
		return fmt.Errorf("failed to open composition page: %w", err)
	}
	defer tab.Close()

	if err := tab.Context(ctx).WaitLoad(); err != nil {
		return fmt.Errorf("composition page failed to load: %w", err)
	}

	report(model.StageRendering, 0.15)

	// The page drives its own timeline; we poll its state object
	// until it reports done, mapping page progress into 0.15..0.9.
	interval := opts.PollInterval
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var state pageState
	for !state.Done {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		res, err := tab.Context(ctx).Eval(`() => window.__render`)
		if err != nil {
			return fmt.Errorf("lost contact with composition page: %w", err)
		}
		if err := res.Value.Unmarshal(&state); err != nil {
			return fmt.Errorf("unreadable composition state: %w", err)
		}
		if state.Error != "" {
			return fmt.Errorf("composition failed: %s", state.Error)
		}
		report(model.StageRendering, 0.15+0.75*clamp01(state.Progress))
	}

	report(model.StageFinalizing, 0.95)
	if state.Video == "" {
		return fmt.Errorf("composition finished without producing video data")
	}
	data, err := base64.StdEncoding.DecodeString(state.Video)
	if err != nil {
		return fmt.Errorf("failed to decode recorded video: %w", err)
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write artifact: %w", err)
	}
	return nil
}

// launchBrowser starts a sandboxed headless Chromium and connects.
func launchBrowser(ctx context.Context, opts Options) (*rod.Browser, func(), error) {
	l := launcher.New().
		Headless(true).
		Set("disable-gpu").
		Set("no-first-run").
		Set("mute-audio")
	if opts.BrowserBin != "" {
		l = l.Bin(opts.BrowserBin)
	}
	if opts.Width > 0 && opts.Height > 0 {
		l = l.Set("window-size", fmt.Sprintf("%d,%d", opts.Width, opts.Height))
	}

	controlURL, err := l.Context(ctx).Launch()
	if err != nil {
		return nil, nil, err
	}

	browser := rod.New().Context(ctx).ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		l.Cleanup()
		return nil, nil, err
	}

	cleanup := func() {
		_ = browser.Close()
		l.Cleanup()
	}
	return browser, cleanup, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
