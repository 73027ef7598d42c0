package pricing

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptions_String(t *testing.T) {
	assert.Equal(t, "", Options{}.String())
	assert.Equal(t, "earlyRegistration,supplementary", Options{
		SupplementaryMaterials: true,
		EarlyRegistration:      true,
	}.String())
	assert.Equal(t,
		"earlyRegistration,groupEnrollment,intensiveCourse,supplementary,personalized,excursions,assessment,interactive",
		Options{true, true, true, true, true, true, true, true}.String(),
	)
}

func TestParseOptions(t *testing.T) {
	o, err := ParseOptions(" interactive, ,earlyRegistration ,")
	require.NoError(t, err)
	assert.Equal(t, Options{EarlyRegistration: true, InteractivePlatform: true}, o)

	o, err = ParseOptions("")
	require.NoError(t, err)
	assert.Equal(t, Options{}, o)

	_, err = ParseOptions("earlyRegistration,freeLunch")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownOption))
}

func TestOptions_TextForm(t *testing.T) {
	in := Options{GroupEnrollment: true, Excursions: true, LevelAssessment: true}
	b, err := json.Marshal(struct {
		Options Options `json:"options"`
	}{in})
	require.NoError(t, err)
	assert.JSONEq(t, `{"options":"groupEnrollment,excursions,assessment"}`, string(b))

	var out struct {
		Options Options `json:"options"`
	}
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, in, out.Options)
}
