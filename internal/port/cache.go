package port

import (
	"context"
	"time"

	"github.com/fhuszti/image-optimiser-go/internal/model"
)

// ProbeCache keeps the last encoder probe until its TTL runs out.
type ProbeCache interface {
	// GetProbe returns ok=false on a miss or after expiry.
	GetProbe(ctx context.Context) (set model.EncoderSet, ok bool, err error)
	SetProbe(ctx context.Context, set model.EncoderSet, ttl time.Duration) error
	DeleteProbe(ctx context.Context) error
}
