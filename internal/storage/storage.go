package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rickpr/data-covid19-sfbayarea/internal/table"
)

var (
	// ErrPersistence wraps every failure to read or write a table file
	ErrPersistence = errors.New("persistence failed")
	// ErrSchema is returned when a file's header does not match table.Columns
	ErrSchema = errors.New("unexpected table header")
)

// Storage handles persistence of county tables
type Storage struct {
	dataDir string
	atomic  bool
}

// New creates a new Storage instance rooted at dataDir
func New(dataDir string, atomic bool) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}
	if dataDir == "" {
		dataDir = "."
	}

	return &Storage{
		dataDir: dataDir,
		atomic:  atomic,
	}, nil
}

// Path resolves a county data path against the data directory
func (s *Storage) Path(dataPath string) string {
	if filepath.IsAbs(dataPath) {
		return dataPath
	}
	return filepath.Join(s.dataDir, dataPath)
}

// Load reads the table stored at dataPath
func (s *Storage) Load(dataPath string) (*table.Table, error) {
	path := s.Path(dataPath)

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrPersistence, path, err)
	}
	defer f.Close()

	tbl, err := readTable(f)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %w", ErrPersistence, path, err)
	}
	return tbl, nil
}

// Save writes the whole table to dataPath, replacing its contents
func (s *Storage) Save(dataPath string, tbl *table.Table) error {
	path := s.Path(dataPath)

	var err error
	if s.atomic {
		err = s.saveAtomic(path, tbl)
	} else {
		err = s.saveInPlace(path, tbl)
	}
	if err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrPersistence, path, err)
	}
	return nil
}

func (s *Storage) saveInPlace(path string, tbl *table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := writeTable(f, tbl); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// saveAtomic writes to a temp file next to path and renames it into place
func (s *Storage) saveAtomic(path string, tbl *table.Table) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if err := writeTable(tmp, tbl); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if info, err := os.Stat(path); err == nil {
		if err := os.Chmod(tmpName, info.Mode().Perm()); err != nil {
			return err
		}
	}
	return os.Rename(tmpName, path)
}

func readTable(r io.Reader) (*table.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: file is empty", ErrSchema)
	}
	if err != nil {
		return nil, err
	}
	if err := checkHeader(header); err != nil {
		return nil, err
	}

	tbl := &table.Table{}
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		row, err := table.RowFromRecord(record)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		tbl.Append(row)
	}
	return tbl, nil
}

func checkHeader(header []string) error {
	if len(header) != len(table.Columns) {
		return fmt.Errorf("%w: got %v", ErrSchema, header)
	}
	for i, col := range table.Columns {
		// tolerate a UTF-8 BOM written by spreadsheet tools
		if strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff")) != col {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrSchema, i+1, header[i], col)
		}
	}
	return nil
}

func writeTable(w io.Writer, tbl *table.Table) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(table.Columns); err != nil {
		return err
	}
	for _, row := range tbl.Rows {
		if err := writer.Write(row.Record()); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
