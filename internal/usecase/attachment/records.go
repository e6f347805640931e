package attachment

import (
	"context"

	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/fhuszti/image-optimiser-go/internal/port"
)

type recordsListerSrv struct {
	log port.RecordLog
}

func NewRecordsLister(log port.RecordLog) port.RecordsLister {
	return &recordsListerSrv{log: log}
}

// ListRecords returns the newest records first. A non-positive limit selects
// the default and anything above the maximum is capped.
func (s *recordsListerSrv) ListRecords(ctx context.Context, limit int) ([]model.Record, error) {
	switch {
	case limit <= 0:
		limit = DefaultRecordsLimit
	case limit > MaxRecordsLimit:
		limit = MaxRecordsLimit
	}
	recs, err := s.log.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	if recs == nil {
		recs = []model.Record{}
	}
	return recs, nil
}
