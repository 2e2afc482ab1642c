// Command renderworker is the isolated compositing process. The
// orchestrator spawns one per render job: the sanitized payload arrives
// on stdin, progress/done/error messages leave on stdout as NDJSON, and
// the finished webm is written to the path given by --output. Any crash
// here is contained to this process; the orchestrator reads the exit
// status as a failure when no terminal message was seen.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/civicengine/api/internal/model"
	"github.com/civicengine/api/internal/render"
	"github.com/civicengine/api/internal/render/compositor"
)

func main() {
	output := flag.String("output", "", "path to write the rendered webm")
	browserBin := flag.String("browser", "", "Chromium binary override")
	flag.Parse()

	log.SetOutput(os.Stderr)
	log.SetPrefix("renderworker: ")

	if *output == "" {
		fail("missing --output path")
	}

	raw, err := io.ReadAll(os.Stdin)
	if err != nil {
		fail(fmt.Sprintf("failed to read payload: %v", err))
	}

	var payload model.RenderJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		fail(fmt.Sprintf("invalid payload: %v", err))
	}
	if len(payload.Policies) == 0 {
		fail("payload has no policies to render")
	}

	opts := compositor.DefaultOptions()
	opts.BrowserBin = *browserBin

	err = compositor.Render(context.Background(), &payload, *output, opts, func(stage string, fraction float64) {
		emit(render.Progress{Stage: stage, Fraction: fraction})
	})
	if err != nil {
		fail(err.Error())
	}

	emit(render.Done{OutputPath: *output})
}

// emit writes one protocol message to stdout.
func emit(m render.Message) {
	line, err := render.Encode(m)
	if err != nil {
		log.Printf("failed to encode message: %v", err)
		return
	}
	fmt.Println(string(line))
}

// fail reports a terminal error to the orchestrator and exits non-zero.
func fail(msg string) {
	emit(render.Failed{Message: msg})
	os.Exit(1)
}
