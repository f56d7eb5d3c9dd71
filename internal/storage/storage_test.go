package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rickpr/data-covid19-sfbayarea/internal/table"
)

const header = "date,time_updated,total_positive_cases,new_daily_cases,total_deaths,new_daily_deaths,city,county,state\n"

const seeded = header +
	"03/03/20,02:30:00 PM,80,,4,,San Francisco,San Francisco,CA\n" +
	"03/04/20,02:30:00 PM,100,20,5,1,San Francisco,San Francisco,CA\n"

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		missing  bool
		wantRows int
		wantErr  error
	}{
		{
			name:     "seeded table",
			content:  seeded,
			wantRows: 2,
		},
		{
			name:     "header only",
			content:  header,
			wantRows: 0,
		},
		{
			name:     "byte order mark",
			content:  "\ufeff" + seeded,
			wantRows: 2,
		},
		{
			name:    "missing file",
			missing: true,
			wantErr: ErrPersistence,
		},
		{
			name:    "empty file",
			content: "",
			wantErr: ErrSchema,
		},
		{
			name:    "wrong header",
			content: "date,cases,deaths\n03/04/20,100,5\n",
			wantErr: ErrSchema,
		},
		{
			name:    "short row",
			content: header + "03/04/20,02:30:00 PM,100\n",
			wantErr: ErrPersistence,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			if !tt.missing {
				writeFile(t, dir, "data/sf.csv", tt.content)
			}

			store, err := New(dir, false)
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}

			tbl, err := store.Load("data/sf.csv")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Load() error = %v, want %v", err, tt.wantErr)
				}
				if !errors.Is(err, ErrPersistence) {
					t.Errorf("Load() error = %v, should wrap ErrPersistence", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Load() unexpected error: %v", err)
			}
			if tbl.Len() != tt.wantRows {
				t.Errorf("Load() rows = %d, want %d", tbl.Len(), tt.wantRows)
			}
		})
	}
}

func TestSave_AppendsOneRow(t *testing.T) {
	for _, atomic := range []bool{false, true} {
		name := "in place"
		if atomic {
			name = "atomic"
		}
		t.Run(name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, "sf.csv", seeded)

			store, err := New(dir, atomic)
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}

			tbl, err := store.Load("sf.csv")
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}

			row, err := table.RowFromRecord([]string{"03/05/20", "02:30:00 PM", "120", "20", "6", "1", "San Francisco", "San Francisco", "CA"})
			if err != nil {
				t.Fatalf("RowFromRecord() error: %v", err)
			}
			tbl.Append(row)

			if err := store.Save("sf.csv", tbl); err != nil {
				t.Fatalf("Save() error: %v", err)
			}

			data, err := os.ReadFile(filepath.Join(dir, "sf.csv"))
			if err != nil {
				t.Fatalf("reading result: %v", err)
			}

			want := seeded + "03/05/20,02:30:00 PM,120,20,6,1,San Francisco,San Francisco,CA\n"
			if string(data) != want {
				t.Errorf("file contents =\n%s\nwant\n%s", data, want)
			}

			entries, _ := os.ReadDir(dir)
			if len(entries) != 1 {
				t.Errorf("data dir has %d entries, want only the table file", len(entries))
			}
		})
	}
}

func TestSave_PreservesStoredCells(t *testing.T) {
	dir := t.TempDir()
	original := header +
		"3/3/20,2:30 PM,80.0,,4.0,,San Francisco,San Francisco,CA\n" +
		"03/04/20,02:30:00 PM,100,20,5,1,\"San Francisco, City of\",San Francisco,CA\n"
	writeFile(t, dir, "sf.csv", original)

	store, _ := New(dir, false)
	tbl, err := store.Load("sf.csv")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if err := store.Save("sf.csv", tbl); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(dir, "sf.csv"))
	if string(data) != original {
		t.Errorf("round trip changed file:\n%s\nwant\n%s", data, original)
	}
}

func TestSave_UnwritablePath(t *testing.T) {
	store, _ := New(t.TempDir(), false)

	err := store.Save("no/such/dir/sf.csv", &table.Table{})
	if !errors.Is(err, ErrPersistence) {
		t.Errorf("Save() error = %v, want ErrPersistence", err)
	}
}

func TestPath(t *testing.T) {
	store, err := New("/srv/covid", false)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	if got := store.Path("data/sf.csv"); got != filepath.Join("/srv/covid", "data/sf.csv") {
		t.Errorf("Path() = %q", got)
	}
	if got := store.Path("/abs/sf.csv"); got != "/abs/sf.csv" {
		t.Errorf("Path(abs) = %q, want unchanged", got)
	}
}

func TestNew_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	store, err := New("~/covid-data", false)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if !strings.HasPrefix(store.Path("sf.csv"), home) {
		t.Errorf("Path() = %q, should start with %q", store.Path("sf.csv"), home)
	}
}
