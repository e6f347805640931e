package attachment

import (
	"context"
	"errors"
	"testing"

	"github.com/fhuszti/image-optimiser-go/internal/mock"
	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/fhuszti/image-optimiser-go/internal/uuid"
)

// scriptedOptimiser marks attachments optimised unless their id is listed in fail.
type scriptedOptimiser struct {
	repo *mock.MockAttachmentRepo
	fail map[uuid.UUID]bool
	seen []uuid.UUID
}

func (s *scriptedOptimiser) OptimiseAttachment(ctx context.Context, id uuid.UUID) (*model.Attachment, error) {
	s.seen = append(s.seen, id)
	a, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.fail[id] {
		msg := "no tier"
		a.FailureMessage = &msg
		return a, nil
	}
	a.Optimised = true
	return a, nil
}

func backlog(n int) []model.Attachment {
	out := make([]model.Attachment, n)
	for i := range out {
		out[i] = model.Attachment{ID: uuid.NewUUID(), Path: "img.jpg"}
	}
	return out
}

func TestBulkPoll_EmptyBacklogIsDone(t *testing.T) {
	repo := &mock.MockAttachmentRepo{}
	cur := &mock.MockRecordLog{CursorVal: 3}
	svc := NewBulkOptimiser(repo, &scriptedOptimiser{repo: repo}, cur, 5)

	p, err := svc.Poll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Done || p.Processed != 0 {
		t.Errorf("unexpected progress %+v", p)
	}
	if cur.CursorVal != 0 {
		t.Errorf("expected cursor reset, got %d", cur.CursorVal)
	}
}

func TestBulkPoll_ProcessesOneBatch(t *testing.T) {
	items := backlog(7)
	repo := &mock.MockAttachmentRepo{List: items, Count: 2}
	opt := &scriptedOptimiser{repo: repo}
	cur := &mock.MockRecordLog{}
	svc := NewBulkOptimiser(repo, opt, cur, 5)

	p, err := svc.Poll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.ListOffset != 0 || repo.ListLimit != 5 {
		t.Errorf("expected list(0, 5), got list(%d, %d)", repo.ListOffset, repo.ListLimit)
	}
	if len(opt.seen) != 5 || p.Processed != 5 || p.Failed != 0 {
		t.Errorf("unexpected progress %+v (seen %d)", p, len(opt.seen))
	}
	if p.Remaining != 2 || p.Done || p.Cursor != 0 {
		t.Errorf("unexpected progress %+v", p)
	}
}

func TestBulkPoll_FailuresAdvanceCursor(t *testing.T) {
	items := backlog(3)
	repo := &mock.MockAttachmentRepo{List: items, Count: 4}
	opt := &scriptedOptimiser{repo: repo, fail: map[uuid.UUID]bool{items[1].ID: true, items[2].ID: true}}
	cur := &mock.MockRecordLog{CursorVal: 1}
	svc := NewBulkOptimiser(repo, opt, cur, 10)

	p, err := svc.Poll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.ListOffset != 1 {
		t.Errorf("expected list from stored cursor 1, got %d", repo.ListOffset)
	}
	if p.Failed != 2 || p.Cursor != 3 || p.Remaining != 1 || p.Done {
		t.Errorf("unexpected progress %+v", p)
	}
	if cur.CursorVal != 3 {
		t.Errorf("expected cursor persisted as 3, got %d", cur.CursorVal)
	}
}

func TestBulkPoll_OnlyFailuresLeftIsDone(t *testing.T) {
	items := backlog(2)
	repo := &mock.MockAttachmentRepo{List: items, Count: 2}
	opt := &scriptedOptimiser{repo: repo, fail: map[uuid.UUID]bool{items[0].ID: true, items[1].ID: true}}
	cur := &mock.MockRecordLog{}
	svc := NewBulkOptimiser(repo, opt, cur, 5)

	p, err := svc.Poll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !p.Done || p.Cursor != 0 || p.Failed != 2 {
		t.Errorf("unexpected progress %+v", p)
	}
}

func TestBulkPoll_OptimiserErrorCountsAsFailure(t *testing.T) {
	items := backlog(1)
	repo := &mock.MockAttachmentRepo{List: items, Count: 1}
	opt := &mock.MockAttachmentOptimiser{Err: errors.New("boom")}
	svc := NewBulkOptimiser(repo, opt, &mock.MockRecordLog{}, 5)

	p, err := svc.Poll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.Failed != 1 || p.Processed != 1 {
		t.Errorf("unexpected progress %+v", p)
	}
}

func TestBulkPoll_StoreErrors(t *testing.T) {
	repo := &mock.MockAttachmentRepo{ListErr: errors.New("list fail")}
	svc := NewBulkOptimiser(repo, &mock.MockAttachmentOptimiser{}, &mock.MockRecordLog{}, 5)
	if _, err := svc.Poll(context.Background()); err == nil {
		t.Error("expected list error")
	}

	svc = NewBulkOptimiser(&mock.MockAttachmentRepo{}, &mock.MockAttachmentOptimiser{}, &mock.MockRecordLog{CursorErr: errors.New("cursor fail")}, 5)
	if _, err := svc.Poll(context.Background()); err == nil {
		t.Error("expected cursor error")
	}
}
