package migration

import (
	"testing"
	"testing/fstest"

	"github.com/golang-migrate/migrate/v4/database"
)

func TestPreviousVersion(t *testing.T) {
	fsys := fstest.MapFS{
		"migrations/0001_create.up.sql":   {Data: []byte("x")},
		"migrations/0001_create.down.sql": {Data: []byte("x")},
		"migrations/0002_index.up.sql":    {Data: []byte("x")},
		"migrations/0005_more.up.sql":     {Data: []byte("x")},
		"migrations/README.md":            {Data: []byte("x")},
	}

	cases := []struct {
		dirty   int
		want    int
		wantErr bool
	}{
		{dirty: 5, want: 2},
		{dirty: 2, want: 1},
		{dirty: 1, want: database.NilVersion},
		{dirty: 3, wantErr: true},
	}
	for _, tc := range cases {
		got, err := previousVersion(fsys, tc.dirty)
		if tc.wantErr {
			if err == nil {
				t.Errorf("dirty %d: expected error", tc.dirty)
			}
			continue
		}
		if err != nil || got != tc.want {
			t.Errorf("dirty %d: got %d, %v; want %d", tc.dirty, got, err, tc.want)
		}
	}
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	ups, downs := 0, 0
	for _, e := range entries {
		switch {
		case len(e.Name()) > 7 && e.Name()[len(e.Name())-7:] == ".up.sql":
			ups++
		case len(e.Name()) > 9 && e.Name()[len(e.Name())-9:] == ".down.sql":
			downs++
		}
	}
	if ups == 0 || ups != downs {
		t.Errorf("ups=%d downs=%d", ups, downs)
	}
	if v, err := previousVersion(migrationsFS, 2); err != nil || v != 1 {
		t.Errorf("previousVersion(2) = %d, %v", v, err)
	}
}
