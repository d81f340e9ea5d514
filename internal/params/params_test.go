package params

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInt(t *testing.T) {
	ps := Parameters{{Name: "missingCountValue", Value: "5"}, {Name: "zero", Value: "0"}}

	n, err := ps.Int("missingCountValue")
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	n, err = ps.Int("zero")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestInt_Missing(t *testing.T) {
	_, err := Parameters{}.Int("missingCountValue")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingParameter))
	assert.Contains(t, err.Error(), "missingCountValue")
}

func TestInt_Rejected(t *testing.T) {
	for _, raw := range []string{`"5"`, "'5'", "5.5", "five", "[5]", "", "-1"} {
		t.Run(raw, func(t *testing.T) {
			_, err := Parameters{{Name: "n", Value: raw}}.Int("n")
			var de *DecodeError
			require.ErrorAs(t, err, &de, "value %q", raw)
			assert.Equal(t, "n", de.Name)
		})
	}
}

func TestStringList(t *testing.T) {
	tcs := []struct {
		raw  string
		want []string
	}{
		{raw: "['N/A', '-']", want: []string{"N/A", "-"}},
		{raw: `["N/A","-"]`, want: []string{"N/A", "-"}},
		{raw: "['']", want: []string{""}},
		{raw: "[]", want: []string{}},
		{raw: "[0, 'none']", want: []string{"0", "none"}},
	}
	for _, tc := range tcs {
		t.Run(tc.raw, func(t *testing.T) {
			got, ok, err := Parameters{{Name: "missingValueMatch", Value: tc.raw}}.StringList("missingValueMatch")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestStringList_Absent(t *testing.T) {
	got, ok, err := Parameters{{Name: "other", Value: "1"}}.StringList("missingValueMatch")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
}

func TestStringList_Rejected(t *testing.T) {
	for _, raw := range []string{"'N/A'", "{a: b}", "[[a]]", "[null]", "['unterminated"} {
		t.Run(raw, func(t *testing.T) {
			_, ok, err := Parameters{{Name: "m", Value: raw}}.StringList("m")
			assert.True(t, ok)
			var de *DecodeError
			require.ErrorAs(t, err, &de)
		})
	}
}
