package encoder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/fhuszti/image-optimiser-go/internal/runner"
)

type fakeRunner struct {
	mu      sync.Mutex
	results map[string]runner.Result
	errs    map[string]error
	calls   map[string]int
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{
		results: map[string]runner.Result{},
		errs:    map[string]error{},
		calls:   map[string]int{},
	}
}

func (f *fakeRunner) Run(_ context.Context, name string, _ ...string) (runner.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
	if err, ok := f.errs[name]; ok {
		return runner.Result{}, err
	}
	if res, ok := f.results[name]; ok {
		return res, nil
	}
	return runner.Result{}, errors.New("exec: not found")
}

func (f *fakeRunner) RunToFile(ctx context.Context, _ string, name string, args ...string) (runner.Result, error) {
	return f.Run(ctx, name, args...)
}

func (f *fakeRunner) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

// ttlCache is a ProbeCache with a controllable clock.
type ttlCache struct {
	set     model.EncoderSet
	expires time.Time
	now     time.Time
	getErr  error
}

func (c *ttlCache) GetProbe(context.Context) (model.EncoderSet, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	if c.set == nil || !c.now.Before(c.expires) {
		return nil, false, nil
	}
	return c.set, true, nil
}

func (c *ttlCache) SetProbe(_ context.Context, set model.EncoderSet, ttl time.Duration) error {
	c.set = set
	c.expires = c.now.Add(ttl)
	return nil
}

func (c *ttlCache) DeleteProbe(context.Context) error {
	c.set = nil
	return nil
}

func TestProbe_ExitCodes(t *testing.T) {
	fr := newFakeRunner()
	fr.results[CWebP] = runner.Result{ExitCode: 0, Output: "1.4.0\nlibsharpyuv: 0.4.0\n"}
	fr.results[JPEGOptim] = runner.Result{ExitCode: 1, Output: "jpegoptim v1.5.5\n"}
	fr.results[PNGQuant] = runner.Result{ExitCode: 127}
	fr.errs[AVIFEnc] = errors.New("exec: \"avifenc\": executable file not found")

	d := NewDetector(fr, &ttlCache{now: time.Now()}, time.Minute)
	set := d.Probe(context.Background(), false)

	if len(set) != len(KnownTools) {
		t.Fatalf("len(set) = %d, want %d", len(set), len(KnownTools))
	}
	if !set.IsAvailable(CWebP) || set[CWebP].Version != "1.4.0" {
		t.Errorf("cwebp = %+v", set[CWebP])
	}
	if !set.IsAvailable(JPEGOptim) {
		t.Error("exit 1 must count as available")
	}
	if set.IsAvailable(PNGQuant) {
		t.Error("exit 127 must count as unavailable")
	}
	if set.IsAvailable(AVIFEnc) || set.IsAvailable(Magick) {
		t.Error("spawn errors must count as unavailable")
	}
	if set[CWebP].Probe != "cwebp -version" || set[CWebP].Tag != "webp" {
		t.Errorf("descriptor fields = %+v", set[CWebP])
	}
}

func TestProbe_CachedWithinTTL(t *testing.T) {
	fr := newFakeRunner()
	fr.results[CWebP] = runner.Result{Output: "1.4.0"}
	c := &ttlCache{now: time.Now()}
	d := NewDetector(fr, c, time.Minute)
	ctx := context.Background()

	d.Probe(ctx, false)
	first := fr.total()
	if first != len(KnownTools) {
		t.Fatalf("first probe spawned %d, want %d", first, len(KnownTools))
	}

	c.now = c.now.Add(30 * time.Second)
	if !d.Available(ctx, CWebP) {
		t.Error("cwebp should be available from cache")
	}
	if fr.total() != first {
		t.Errorf("second probe within ttl spawned again (%d calls)", fr.total())
	}

	c.now = c.now.Add(31 * time.Second)
	d.Probe(ctx, false)
	if fr.total() != 2*first {
		t.Errorf("probe after expiry did not spawn (%d calls)", fr.total())
	}
}

func TestProbe_Force(t *testing.T) {
	fr := newFakeRunner()
	d := NewDetector(fr, &ttlCache{now: time.Now()}, time.Hour)
	ctx := context.Background()

	d.Probe(ctx, false)
	fr.results[Magick] = runner.Result{Output: "Version: ImageMagick 7.1.1-29"}
	set := d.Probe(ctx, true)
	if !set.IsAvailable(Magick) {
		t.Error("forced probe should see newly installed magick")
	}
	if fr.total() != 2*len(KnownTools) {
		t.Errorf("calls = %d", fr.total())
	}
}

func TestProbe_Disabled(t *testing.T) {
	d := NewDetector(runner.Disabled{}, &ttlCache{now: time.Now()}, time.Minute)
	set := d.Probe(context.Background(), true)
	for name, desc := range set {
		if desc.Available {
			t.Errorf("%s available with spawning disabled", name)
		}
	}
}

func TestProbe_CacheErrorFallsBackToSpawn(t *testing.T) {
	fr := newFakeRunner()
	fr.results[CWebP] = runner.Result{Output: "1.4.0"}
	d := NewDetector(fr, &ttlCache{now: time.Now(), getErr: errors.New("redis down")}, time.Minute)
	if !d.Available(context.Background(), CWebP) {
		t.Error("probe should still run when the cache errors")
	}
}
