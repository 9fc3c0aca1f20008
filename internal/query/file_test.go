package query

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/arxiv-query/pkg/types"
)

const sampleQueryFile = `query:
  and:
    - or:
        - title: ai
        - title: llm
    - group:
        or:
          - category: cs.AI
          - category: cs.LG
submitted:
  from: "202412010000"
  to: "202412012359"
start: 10
max_results: 100
sort_by: submittedDate
sort_order: ascending
`

func TestQueryFileToSpec(t *testing.T) {
	var qf QueryFile
	require.NoError(t, yaml.Unmarshal([]byte(sampleQueryFile), &qf))

	spec, err := qf.ToSpec()
	require.NoError(t, err)

	assert.Equal(t,
		"ti:ai+OR+ti:llm+AND+%28cat:cs.AI+OR+cat:cs.LG%29+AND+submittedDate:[202412010000+TO+202412012359]",
		spec.SearchQuery())
	assert.Equal(t, 10, spec.Start)
	assert.Equal(t, 100, spec.MaxResults)
	assert.Equal(t, SortSubmittedDate, spec.SortBy)
	assert.Equal(t, SortAscending, spec.SortOrder)
}

func TestQueryFileRejectsInvalidNodes(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"two keys", "query:\n  title: a\n  author: b\n"},
		{"no keys", "query:\n  and:\n    - {}\n"},
		{"empty value", "query:\n  title: \"\"\n"},
		{"empty and list", "query:\n  and: []\n"},
		{"empty or list", "query:\n  or: []\n"},
		{"empty andnot list", "query:\n  andnot: []\n"},
		{"group of empty and", "query:\n  group:\n    and: []\n"},
		{"group without inner", "query:\n  group: {}\n"},
		{"null group", "query:\n  group:\n"},
		{"nested empty or", "query:\n  and:\n    - title: a\n    - or: []\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var qf QueryFile
			require.NoError(t, yaml.Unmarshal([]byte(tt.doc), &qf))
			_, err := qf.ToSpec()
			assert.ErrorIs(t, err, ErrInvalidPredicate)
		})
	}
}

func TestQueryFileRejectsBadDates(t *testing.T) {
	qf := QueryFile{Submitted: &DateBounds{From: "202501010000", To: "202401010000"}}
	_, err := qf.ToSpec()
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestNodeFromExprRoundTrip(t *testing.T) {
	expr := AndNot(
		Group(Or(MustTerm(FieldAuthor, "Hinton"), MustTerm(FieldAuthor, "LeCun"))),
		MustTerm(FieldCategory, "cs.CV"),
		MustTerm(FieldJournalRef, "Nature"),
	)
	back, err := NodeFromExpr(expr).ToExpr()
	require.NoError(t, err)
	assert.Equal(t, Render(expr), Render(back))
}

func TestWriteReadQueryFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.yaml")
	d, err := NewDateRange("202401010000", "202412312359")
	require.NoError(t, err)

	spec := Spec{
		Expr:       And(MustTerm(FieldTitle, "diffusion"), MustTerm(FieldCategory, "cs.CV")),
		Dates:      &d,
		MaxResults: 25,
		SortBy:     SortSubmittedDate,
	}
	page := &types.ResultPage{
		Papers:       []types.Paper{{ID: "2401.00001", Title: "Paper A", Published: time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)}},
		TotalResults: 40,
	}
	require.NoError(t, WriteQueryFile(path, spec, page))

	qf, err := ReadQueryFile(path)
	require.NoError(t, err)
	require.NotNil(t, qf.Summary)
	assert.Equal(t, 1, qf.Summary.Returned)
	assert.Equal(t, 40, qf.Summary.TotalResults)
	assert.Equal(t, spec.SearchQuery(), qf.Summary.SearchQuery)
	require.Len(t, qf.Results, 1)
	assert.Equal(t, "Paper A", qf.Results[0].Title)

	back, err := qf.ToSpec()
	require.NoError(t, err)
	assert.Equal(t, spec.SearchQuery(), back.SearchQuery())
	assert.Equal(t, 25, back.MaxResults)
	assert.Equal(t, SortSubmittedDate, back.SortBy)
	assert.Equal(t, SortDescending, back.SortOrder)
}

func TestReadQueryFileErrors(t *testing.T) {
	_, err := ReadQueryFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("query: [unclosed"), 0o644))
	_, err = ReadQueryFile(bad)
	assert.Error(t, err)
}

func TestWriteQueryFileLocked(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.yaml")
	spec := Spec{Expr: MustTerm(FieldAll, "x")}

	unlock, err := lockFile(path, true)
	require.NoError(t, err)

	old := LockTimeout
	LockTimeout = 150 * time.Millisecond
	defer func() { LockTimeout = old }()

	err = WriteQueryFile(path, spec, nil)
	assert.ErrorIs(t, err, ErrFileLocked)
	assert.NoFileExists(t, path)

	unlock()
	require.NoError(t, WriteQueryFile(path, spec, nil))
	qf, err := ReadQueryFile(path)
	require.NoError(t, err)
	assert.Nil(t, qf.Summary)
}
