package encoder

import (
	"context"
	"sync"
	"time"

	"github.com/fhuszti/image-optimiser-go/internal/logger"
	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/fhuszti/image-optimiser-go/internal/port"
	"github.com/fhuszti/image-optimiser-go/internal/runner"
)

// Detector reports which external encoders can be spawned on this host.
type Detector struct {
	runner runner.Runner
	cache  port.ProbeCache
	ttl    time.Duration
	tools  []Tool

	mu sync.Mutex
}

func NewDetector(r runner.Runner, c port.ProbeCache, ttl time.Duration) *Detector {
	return &Detector{runner: r, cache: c, ttl: ttl, tools: KnownTools}
}

// Probe returns the availability of every known tool. A cached probe younger
// than the TTL is reused unless force is set.
func (d *Detector) Probe(ctx context.Context, force bool) model.EncoderSet {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !force {
		set, ok, err := d.cache.GetProbe(ctx)
		if err != nil {
			logger.Warnf(ctx, "encoder probe cache read failed: %v", err)
		}
		if ok {
			return set
		}
	}

	set := make(model.EncoderSet, len(d.tools))
	for _, t := range d.tools {
		set[t.Name] = d.probeTool(ctx, t)
	}

	if err := d.cache.SetProbe(ctx, set, d.ttl); err != nil {
		logger.Warnf(ctx, "encoder probe cache write failed: %v", err)
	}
	return set
}

// Available reports whether the named tool passed the current probe.
func (d *Detector) Available(ctx context.Context, name string) bool {
	return d.Probe(ctx, false).IsAvailable(name)
}

func (d *Detector) probeTool(ctx context.Context, t Tool) model.EncoderDescriptor {
	desc := model.EncoderDescriptor{Name: t.Name, Probe: t.ProbeCommand(), Tag: t.Tag}

	res, err := d.runner.Run(ctx, t.Name, t.VersionArgs...)
	if err != nil {
		logger.Debugf(ctx, "encoder %s unavailable: %v", t.Name, err)
		return desc
	}
	// some tools print their version and exit 1
	if res.ExitCode != 0 && res.ExitCode != 1 {
		logger.Debugf(ctx, "encoder %s unavailable: exit %d", t.Name, res.ExitCode)
		return desc
	}
	desc.Available = true
	desc.Version = res.FirstLine()
	return desc
}
