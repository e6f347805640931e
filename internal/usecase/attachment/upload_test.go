package attachment

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fhuszti/image-optimiser-go/internal/mock"
	"github.com/fhuszti/image-optimiser-go/internal/model"
)

func fixedNow() time.Time { return time.Date(2024, time.March, 5, 10, 0, 0, 0, time.UTC) }

func TestUpload_StoresUnderDatedDir(t *testing.T) {
	root := t.TempDir()
	reg := &mock.MockRegistrar{Out: &model.Attachment{ID: fixedID}}
	svc := NewUploader(reg, root, fixedNow)

	a, err := svc.Upload(context.Background(), "My Holiday Photo.JPG", strings.NewReader("jpeg-bytes"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if a.ID != fixedID {
		t.Errorf("expected registrar output, got %+v", a)
	}
	if len(reg.Paths) != 1 || reg.Paths[0] != "2024/03/My-Holiday-Photo.jpg" {
		t.Fatalf("unexpected registered paths: %v", reg.Paths)
	}
	got, err := os.ReadFile(filepath.Join(root, "2024", "03", "My-Holiday-Photo.jpg"))
	if err != nil {
		t.Fatalf("read stored file: %v", err)
	}
	if string(got) != "jpeg-bytes" {
		t.Errorf("unexpected content %q", got)
	}
}

func TestUpload_SuffixesOnCollision(t *testing.T) {
	root := t.TempDir()
	reg := &mock.MockRegistrar{Out: &model.Attachment{}}
	svc := NewUploader(reg, root, fixedNow)

	for i := 0; i < 3; i++ {
		if _, err := svc.Upload(context.Background(), "a.png", strings.NewReader("png")); err != nil {
			t.Fatalf("upload %d: %v", i, err)
		}
	}
	want := []string{"2024/03/a.png", "2024/03/a-1.png", "2024/03/a-2.png"}
	for i, p := range want {
		if reg.Paths[i] != p {
			t.Errorf("upload %d: expected %s, got %s", i, p, reg.Paths[i])
		}
	}
}

func TestUpload_StripsDirectories(t *testing.T) {
	root := t.TempDir()
	reg := &mock.MockRegistrar{Out: &model.Attachment{}}
	svc := NewUploader(reg, root, fixedNow)

	if _, err := svc.Upload(context.Background(), "../../etc/evil.gif", strings.NewReader("gif")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reg.Paths[0] != "2024/03/evil.gif" {
		t.Errorf("unexpected path %s", reg.Paths[0])
	}
}

func TestUpload_RejectsUnsupportedFormat(t *testing.T) {
	reg := &mock.MockRegistrar{}
	svc := NewUploader(reg, t.TempDir(), fixedNow)

	if _, err := svc.Upload(context.Background(), "notes.pdf", strings.NewReader("x")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
	if reg.Called {
		t.Error("registrar must not be called")
	}
}

func TestUpload_TooLargeIsRemoved(t *testing.T) {
	root := t.TempDir()
	reg := &mock.MockRegistrar{}
	svc := NewUploader(reg, root, fixedNow)

	big := bytes.NewReader(make([]byte, MaxFileSize+1))
	if _, err := svc.Upload(context.Background(), "big.jpg", big); !errors.Is(err, ErrFileTooLarge) {
		t.Fatalf("expected ErrFileTooLarge, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "2024", "03", "big.jpg")); !os.IsNotExist(err) {
		t.Errorf("expected rejected upload to be removed, stat err %v", err)
	}
	if reg.Called {
		t.Error("registrar must not be called")
	}
}

func TestUpload_EmptyBody(t *testing.T) {
	svc := NewUploader(&mock.MockRegistrar{}, t.TempDir(), fixedNow)

	if _, err := svc.Upload(context.Background(), "empty.png", strings.NewReader("")); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestSanitiseFilename(t *testing.T) {
	cases := map[string]string{
		"photo.jpg":        "photo.jpg",
		"Été 2024!.PNG":    "t-2024.png",
		`C:\tmp\shot.gif`:  "shot.gif",
		"...jpg":           "upload.jpg",
		"  spaced  .jpeg ": "spaced.jpeg",
	}
	for in, want := range cases {
		if got := sanitiseFilename(in); got != want {
			t.Errorf("sanitiseFilename(%q) = %q, want %q", in, got, want)
		}
	}
}
