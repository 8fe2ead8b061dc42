package history

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStoreRequiresDir(t *testing.T) {
	_, err := NewStore("")
	require.Error(t, err)
}

func TestAppendAndList(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "apps")
	store, err := NewStore(dir)
	require.NoError(t, err)

	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return clock }

	first, err := store.Append(Record{JobTitle: "Senior Platform Engineer", Company: "Acme", Status: "fits", FitPct: 82})
	require.NoError(t, err)

	_, err = uuid.Parse(first.ID)
	require.NoError(t, err)
	assert.Equal(t, clock, first.Date)
	assert.Equal(t, "Senior IC", first.RoleLevel)

	_, err = store.Append(Record{JobTitle: "Director of Engineering", Company: "Globex", Date: clock.Add(-time.Hour)})
	require.NoError(t, err)

	records, err := store.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Globex", records[0].Company)
	assert.Equal(t, "Acme", records[1].Company)

	_, err = os.Stat(filepath.Join(dir, FileName))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, FileName+".tmp"))
	assert.True(t, os.IsNotExist(err))
}

func TestListEmpty(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	records, err := store.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestListCorrupt(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte("{"), 0600))

	store, err := NewStore(dir)
	require.NoError(t, err)

	_, err = store.List()
	require.Error(t, err)
}

func TestExportCSV(t *testing.T) {
	records := []Record{
		{Date: time.Date(2026, 2, 3, 0, 0, 0, 0, time.UTC), JobTitle: "Engineer, Platform", Company: "Acme", Location: "Remote", WorkType: "Full-time", FitPct: 77},
	}

	var buf bytes.Buffer
	require.NoError(t, ExportCSV(&buf, records))

	assert.Equal(t, "Date,Job Title,Company,Location,Work Type,Fit %\n2026-02-03,\"Engineer, Platform\",Acme,Remote,Full-time,77\n", buf.String())
}

func TestInferRoleLevel(t *testing.T) {
	cases := []struct {
		role string
		want string
	}{
		{role: "CTO", want: "CTO"},
		{role: "VP Engineering", want: "VP"},
		{role: "Director of Platform", want: "Director"},
		{role: "Sr. Engineer", want: "Senior IC"},
		{role: "Principal Engineer", want: "Senior IC"},
		{role: "Staff Engineer", want: "IC"},
		{role: "Software Engineer", want: "IC"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, InferRoleLevel(tc.role), tc.role)
	}
}
