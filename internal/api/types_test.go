package api

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactAcceptsBothShapes(t *testing.T) {
	var model Model
	err := json.Unmarshal([]byte(`{
		"id": "deep-bot",
		"name": null,
		"basic_facts": {
			"city": "Lisbon",
			"job": {"value": "pilot", "status": "confirmed", "identification": "direct"}
		}
	}`), &model)
	require.NoError(t, err)

	assert.Equal(t, "Lisbon", model.BasicFacts["city"].Value)
	assert.Equal(t, "pilot", model.BasicFacts["job"].Value)
	assert.Equal(t, "confirmed", model.BasicFacts["job"].Status)
	assert.Equal(t, "<none>", model.DisplayName())

	// Re-encoding keeps each fact's shape
	out, err := json.Marshal(model.BasicFacts)
	require.NoError(t, err)
	assert.JSONEq(t, `{"city":"Lisbon","job":{"value":"pilot","status":"confirmed","identification":"direct"}}`, string(out))
}

func TestFactRejectsOtherShapes(t *testing.T) {
	var f Fact
	assert.Error(t, json.Unmarshal([]byte(`42`), &f))
}

func TestUpdateModelRequestEmpty(t *testing.T) {
	assert.True(t, UpdateModelRequest{}.Empty())
	assert.False(t, UpdateModelRequest{Name: "x"}.Empty())
	assert.False(t, UpdateModelRequest{DefaultTools: []string{"search"}}.Empty())
}

func TestPerspectiveValid(t *testing.T) {
	assert.True(t, FirstPerson.Valid())
	assert.True(t, ThirdPerson.Valid())
	assert.False(t, Perspective("second-person").Valid())
}

func TestUsagePages(t *testing.T) {
	assert.Equal(t, 3, UsageHistoryResponse{Total: 41, Limit: 20}.Pages())
	assert.Equal(t, 0, UsageHistoryResponse{Total: 41}.Pages())
}
