package main

import (
	"context"
	"errors"
	"fmt"
	"image/color"
	"math"
	"math/rand/v2"
	"time"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/capture"
	"github.com/gogpu/ink/compute"
	"github.com/gogpu/ink/internal/config"
)

var (
	grey = color.NRGBA{R: 160, G: 160, B: 160, A: 255}
	red  = color.NRGBA{R: 220, G: 40, B: 40, A: 255}
)

func presetConfig(name string) (capture.Config, error) {
	switch name {
	case "balanced":
		return capture.BalancedConfig(), nil
	case "smooth":
		return capture.SmoothConfig(), nil
	case "performance":
		return capture.PerformanceConfig(), nil
	default:
		return capture.Config{}, fmt.Errorf("unknown preset %q", name)
	}
}

// openChannel returns a compute channel and a description of where it runs.
func openChannel(ctx context.Context, cfg *config.Config, url string, discover bool) (*compute.Channel, string, error) {
	opts := []compute.Option{
		compute.WithHandshakeTimeout(cfg.HandshakeTimeout),
		compute.WithRequestTimeout(cfg.RequestTimeout),
		compute.WithWorkers(cfg.Workers),
		compute.WithQueueSize(cfg.QueueSize),
	}

	if discover && url == "" {
		endpoints, err := compute.Browse(ctx, 2*time.Second)
		if err != nil {
			return nil, "", err
		}
		if len(endpoints) == 0 {
			return nil, "", errors.New("no inkworker found")
		}
		url = endpoints[0].URL()
	}

	var ch *compute.Channel
	where := "in-process"
	if url != "" {
		ch = compute.NewChannel(compute.WebSocket(url), opts...)
		where = url
	} else {
		ch = compute.NewChannel(compute.Local(opts...), opts...)
	}
	if err := ch.Init(ctx); err != nil {
		_ = ch.Close()
		return nil, "", err
	}
	return ch, where, nil
}

// stroke returns a hand-drawn looking spiral of n samples.
func stroke(n int, seed uint64) []ink.Point {
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	pts := make([]ink.Point, n)
	for i := range pts {
		t := float64(i) / float64(max(n-1, 1))
		angle := t * 6 * math.Pi
		r := 40 + 200*t
		pts[i] = ink.Pt(
			400+r*math.Cos(angle)+rng.NormFloat64()*0.8,
			300+r*math.Sin(angle)+rng.NormFloat64()*0.8,
		)
	}
	return pts
}
