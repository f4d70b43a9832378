package export

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"jobspace-backend/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestWriteCandidates(t *testing.T) {
	candidates := []domain.Candidate{
		{
			ID:         domain.NewRecordID("c1"),
			FirstName:  "Awa",
			LastName:   "Diop",
			Email:      "awa@example.sn",
			Experience: json.RawMessage(`"2 ans"`),
			Status:     domain.StatusAccepted,
			Files:      &domain.CandidateFiles{CV: strPtr("/uploads/cv-1-2.pdf"), Letter: strPtr("data:application/pdf;base64,AAA")},
		},
		{ID: domain.NewRecordID("c2"), LastName: "Fall", Experience: json.RawMessage(`3`)},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCandidates(&buf, candidates))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(candidatesSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, candidateHeaders, rows[0])
	assert.Equal(t, "c1", rows[1][0])
	assert.Equal(t, "2 ans", rows[1][9])
	assert.Equal(t, "Acceptée", rows[1][10])
	assert.Equal(t, "/uploads/cv-1-2.pdf", rows[1][11])
	assert.Equal(t, "fourni (intégré)", rows[1][13])
	assert.Equal(t, "3", rows[2][9])
	assert.Equal(t, "En attente", rows[2][10])

	total, err := f.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "2", total)
}

func TestWriteCandidatesEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCandidates(&buf, nil))
	assert.NotZero(t, buf.Len())
}
