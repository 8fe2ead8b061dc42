// Package history keeps a log of tailoring runs next to the generated applications.
package history

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// FileName is the log file kept in the applications directory.
const FileName = ".tailor-history.json"

const logVersion = "1.0.0"

// Record is one tailoring run.
type Record struct {
	ID        string    `json:"id"`
	Date      time.Time `json:"date"`
	JobTitle  string    `json:"job_title"`
	Company   string    `json:"company"`
	Location  string    `json:"location,omitempty"`
	WorkType  string    `json:"work_type,omitempty"`
	RoleLevel string    `json:"role_level"`
	Provider  string    `json:"provider,omitempty"`
	Status    string    `json:"status"`
	Pages     int       `json:"pages"`
	Steps     int       `json:"steps"`
	FitPct    int       `json:"fit_pct"`
	Band      string    `json:"band,omitempty"`
	Outputs   []string  `json:"outputs,omitempty"`
	Lessons   []string  `json:"lessons,omitempty"`
}

// Log is the on-disk document.
type Log struct {
	Records   []Record  `json:"records"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   string    `json:"version"`
}

// Store reads and appends run records.
type Store struct {
	dir  string
	path string
	mu   sync.Mutex
	now  func() time.Time
}

// NewStore creates a store rooted at the applications directory.
func NewStore(dir string) (store *Store, err error) {
	if dir == "" {
		err = errors.New("applications path is required")
		return store, err
	}

	store = &Store{
		dir:  dir,
		path: filepath.Join(dir, FileName),
		now:  time.Now,
	}
	return store, err
}

// Path returns the log file location.
func (s *Store) Path() (path string) {
	path = s.path
	return path
}

// Append stores rec, filling in its ID, date and role level when missing, and returns the stored record.
func (s *Store) Append(rec Record) (stored Record, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var log Log
	log, err = s.load()
	if err != nil {
		return stored, err
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.Date.IsZero() {
		rec.Date = s.now().UTC()
	}
	if rec.RoleLevel == "" {
		rec.RoleLevel = InferRoleLevel(rec.JobTitle)
	}

	log.Records = append(log.Records, rec)
	log.UpdatedAt = s.now().UTC()
	log.Version = logVersion

	err = s.write(log)
	if err != nil {
		return stored, err
	}

	stored = rec
	return stored, err
}

// List returns all records, oldest first.
func (s *Store) List() (records []Record, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var log Log
	log, err = s.load()
	if err != nil {
		return records, err
	}

	records = log.Records
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, err
}

func (s *Store) load() (log Log, err error) {
	var data []byte
	data, err = os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			log = Log{Records: []Record{}, Version: logVersion}
			err = nil
			return log, err
		}
		err = errors.Wrap(err, "failed to read history file")
		return log, err
	}

	err = json.Unmarshal(data, &log)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse history file: %s", s.path)
		return log, err
	}

	return log, err
}

// write replaces the log file via a temp file so a crash never leaves it half written.
func (s *Store) write(log Log) (err error) {
	err = os.MkdirAll(s.dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create applications directory: %s", s.dir)
		return err
	}

	var data []byte
	data, err = json.MarshalIndent(log, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal history")
		return err
	}

	tmp := s.path + ".tmp"
	err = os.WriteFile(tmp, data, 0600)
	if err != nil {
		err = errors.Wrap(err, "failed to write history file")
		return err
	}

	err = os.Rename(tmp, s.path)
	if err != nil {
		err = errors.Wrap(err, "failed to replace history file")
		return err
	}

	return err
}

// Columns is the CSV header.
//
//nolint:gochecknoglobals // Fixed export layout
var Columns = []string{"Date", "Job Title", "Company", "Location", "Work Type", "Fit %"}

// ExportCSV writes records as a spreadsheet-friendly CSV.
func ExportCSV(w io.Writer, records []Record) (err error) {
	cw := csv.NewWriter(w)

	err = cw.Write(Columns)
	if err != nil {
		err = errors.Wrap(err, "failed to write CSV header")
		return err
	}

	for _, rec := range records {
		err = cw.Write([]string{
			rec.Date.Format("2006-01-02"),
			rec.JobTitle,
			rec.Company,
			rec.Location,
			rec.WorkType,
			fmt.Sprintf("%d", rec.FitPct),
		})
		if err != nil {
			err = errors.Wrap(err, "failed to write CSV row")
			return err
		}
	}

	cw.Flush()
	err = cw.Error()
	if err != nil {
		err = errors.Wrap(err, "failed to flush CSV")
		return err
	}

	return err
}

// InferRoleLevel determines role level from title.
func InferRoleLevel(role string) (level string) {
	lower := strings.ToLower(role)
	words := make(map[string]bool)
	for _, word := range strings.FieldsFunc(lower, func(r rune) bool { return r < 'a' || r > 'z' }) {
		words[word] = true
	}

	switch {
	case words["cto"] || words["chief"]:
		level = "CTO"
	case words["vp"] || strings.Contains(lower, "vice president"):
		level = "VP"
	case words["director"]:
		level = "Director"
	case words["senior"] || words["sr"] || words["principal"]:
		level = "Senior IC"
	default:
		level = "IC"
	}

	return level
}
