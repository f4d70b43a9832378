package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCandidateEncodesMembersAsReceived(t *testing.T) {
	in := `{"id":"c1","nom":"Fall","cin":"","tel":"","experience":[],"note":null,
		"fichiers":{"cv":"/uploads/cv-1-2.pdf","lettre":null,"photo":"x"}}`

	var c Candidate
	require.NoError(t, json.Unmarshal([]byte(in), &c))
	assert.Equal(t, "Fall", c.LastName)
	require.NotNil(t, c.Files)
	require.NotNil(t, c.Files.CV)
	assert.Nil(t, c.Files.Diploma)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestTypedFieldOverridesReceivedMember(t *testing.T) {
	var c Candidate
	require.NoError(t, json.Unmarshal([]byte(`{"id":"c1","statut":""}`), &c))
	c.Status = StatusPending

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"c1","statut":"en_attente"}`, string(out))
}

func TestOfferKeepsNullAndEmptyLists(t *testing.T) {
	in := `{"id":2,"titre":"Dev","salary":null,"benefits":[],"skills":["Go"]}`

	var o Offer
	require.NoError(t, json.Unmarshal([]byte(in), &o))
	out, err := json.Marshal(o)
	require.NoError(t, err)
	assert.JSONEq(t, in, string(out))
}

func TestApplyPatch(t *testing.T) {
	var c Candidate
	require.NoError(t, json.Unmarshal([]byte(`{"id":"c1","nom":"Fall","adresse":"Dakar","quartier":"Médina"}`), &c))

	merged, err := ApplyPatch(c, Patch{"adresse": json.RawMessage(`""`), "tel": json.RawMessage(`"77"`)})
	require.NoError(t, err)
	out, err := json.Marshal(merged)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"c1","nom":"Fall","adresse":"","tel":"77","quartier":"Médina"}`, string(out))
}

func TestApplyPatchWrongType(t *testing.T) {
	var o Offer
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"skills":["Go"]}`), &o))

	_, err := ApplyPatch(o, Patch{"skills": json.RawMessage(`"Go"`)})
	assert.ErrorIs(t, err, ErrInvalidPatch)

	var c Candidate
	require.NoError(t, json.Unmarshal([]byte(`{"id":"c1"}`), &c))
	_, err = ApplyPatch(c, Patch{"nom": json.RawMessage(`5`)})
	assert.ErrorIs(t, err, ErrInvalidPatch)
}
