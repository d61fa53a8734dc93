// Command inkdemo replays a synthetic freehand stroke through a capture
// session and reports what the subsystem did with it.
//
// By default simplification runs in-process. Use -worker to send it to a
// running inkworker, or -discover to find one over mDNS.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/capture"
	"github.com/gogpu/ink/internal/config"
	"github.com/gogpu/ink/internal/export"
)

func main() {
	cfg := config.Load()

	var (
		samples   = flag.Int("samples", 1500, "pointer samples to replay")
		preset    = flag.String("preset", "balanced", "capture preset (balanced, smooth, performance)")
		tolerance = flag.Float64("tolerance", capture.DefaultTolerance, "simplification tolerance")
		scene     = flag.Int("scene", 12, "annotations already on the canvas")
		workerURL = flag.String("worker", "", "inkworker WebSocket URL (default: in-process)")
		discover  = flag.Bool("discover", false, "find an inkworker over mDNS")
		pngOut    = flag.String("png", "stroke.png", "PNG output file (empty to skip)")
		pdfOut    = flag.String("pdf", "", "PDF output file (empty to skip)")
		seed      = flag.Uint64("seed", 1, "random seed")
	)
	flag.TextVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level")
	flag.Parse()

	ink.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	ctx := context.Background()
	ch, where, err := openChannel(ctx, cfg, *workerURL, *discover)
	if err != nil {
		log.Fatalf("Failed to open compute channel: %v", err)
	}
	defer ch.Close()

	capCfg, err := presetConfig(*preset)
	if err != nil {
		log.Fatal(err)
	}

	frames := &capture.ManualScheduler{}
	clock := time.Unix(0, 0)
	buf := capture.NewBuffer(capCfg,
		capture.WithScheduler(frames),
		capture.WithClock(func() time.Time { return clock }),
	)
	rendered := 0
	buf.SetRenderCallback(func(window []ink.Point) { rendered++ })

	sess := capture.NewSession(buf, ch, capture.WithSessionTolerance(*tolerance))
	defer sess.Close()

	raw := stroke(*samples, *seed)
	sess.Start()
	for i, p := range raw {
		// 250 Hz pointer input, 60 Hz display.
		clock = clock.Add(4 * time.Millisecond)
		sess.AddPoint(p.X, p.Y)
		if i%4 == 0 {
			frames.Tick()
		}
	}
	frames.Tick()
	captured := buf.CompletePolygon()

	start := time.Now()
	out := sess.Complete(ctx)
	elapsed := time.Since(start)
	if out.Err != nil {
		log.Printf("Simplification fell back: %v", out.Err)
	}

	annotations := make([]ink.AnnotationSummary, 0, *scene+1)
	for i := range *scene {
		annotations = append(annotations, ink.AnnotationSummary{Kind: ink.KindPolygon, PointCount: 8 + i*4})
	}
	annotations = append(annotations, ink.AnnotationSummary{Kind: ink.KindFreehand, PointCount: len(out.Points)})
	complexity := ink.Complexity(annotations, false, false)
	metrics := ink.NewBudgetController().Metrics(complexity)
	hitbox := ink.NewHitboxBuilder().BuildTwoTierAtZoom(out.Points, len(annotations), 1)

	p := message.NewPrinter(language.English)
	p.Printf("compute:    %s\n", where)
	p.Printf("samples:    %d replayed, %d captured, %d render updates\n", len(raw), len(captured), rendered)
	p.Printf("simplified: %d points via %v in %v (%.1f%% kept)\n",
		len(out.Points), out.Source, elapsed.Round(time.Microsecond),
		100*float64(len(out.Points))/float64(max(len(captured), 1)))
	p.Printf("hitbox:     %d points (simplified: %v)\n", len(hitbox.Hitbox), hitbox.IsSimplified)
	p.Printf("budget:     score %.1f, level %v, critical %v\n", metrics.Score, metrics.Level, metrics.Critical)
	for _, r := range metrics.Recommendations {
		p.Printf("            - %s\n", r)
	}
	st := ch.Status()
	p.Printf("channel:    %d completed, %d failed, %d orphaned, %d pending\n",
		st.Completed, st.Failed, st.Orphaned, st.Pending)

	strokes := []export.Stroke{
		{Points: captured, Color: grey},
		{Points: out.Points, Color: red},
	}
	opts := export.DefaultOptions()
	if *pngOut != "" {
		if err := export.WritePNG(*pngOut, strokes, opts); err != nil {
			log.Fatalf("Failed to save: %v", err)
		}
		log.Printf("Stroke saved to %s", *pngOut)
	}
	if *pdfOut != "" {
		if err := export.WritePDF(*pdfOut, strokes, opts); err != nil {
			log.Fatalf("Failed to save: %v", err)
		}
		log.Printf("Stroke saved to %s", *pdfOut)
	}
}
