package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOptionListValidateCount(t *testing.T) {
	ten := make(OptionList, 0, MaxVariantOptions)
	for i := 0; i < MaxVariantOptions; i++ {
		ten = append(ten, Option{Name: fmt.Sprintf("Attr%d", i), Value: "x"})
	}
	assert.NoError(t, ten.Validate())

	eleven := append(ten, Option{Name: "OneTooMany", Value: "x"})
	assert.Error(t, eleven.Validate())
}

func TestOptionListValidateDuplicateNames(t *testing.T) {
	dup := OptionList{
		{Name: "Color", Value: "Red"},
		{Name: "color", Value: "Blue"},
	}
	assert.Error(t, dup.Validate(), "option names are case-insensitively unique")

	ok := OptionList{
		{Name: "Color", Value: "Red"},
		{Name: "Size", Value: "M"},
	}
	assert.NoError(t, ok.Validate())

	// Same value under different names is fine
	sameValue := OptionList{
		{Name: "Color", Value: "Red"},
		{Name: "Trim", Value: "Red"},
	}
	assert.NoError(t, sameValue.Validate())
}

func TestOptionListValueNeverNull(t *testing.T) {
	var nilList OptionList
	v, err := nilList.Value()
	require.NoError(t, err)
	assert.Equal(t, []byte("[]"), v)

	list := OptionList{{Name: "Size", Value: "L"}}
	v, err = list.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"name":"Size","value":"L"}]`, string(v.([]byte)))
}

func TestOptionListRoundTrip(t *testing.T) {
	original := OptionList{
		{Name: "Color", Value: "Navy"},
		{Name: "Size", Value: "42"},
	}

	v, err := original.Value()
	require.NoError(t, err)

	var restored OptionList
	require.NoError(t, restored.Scan(v))
	assert.Equal(t, original, restored)
}

func TestOptionListScanLeniency(t *testing.T) {
	cases := []struct {
		name string
		src  interface{}
	}{
		{"sql null", nil},
		{"json null", []byte("null")},
		{"object not list", []byte(`{"Color":"Red"}`)},
		{"scalar", []byte(`42`)},
		{"garbage", []byte(`{{{`)},
		{"unexpected driver type", 3.14},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var l OptionList
			require.NoError(t, l.Scan(tc.src))
			assert.Equal(t, OptionList{}, l)
		})
	}
}

func TestOptionListScanString(t *testing.T) {
	var l OptionList
	require.NoError(t, l.Scan(`[{"name":"Material","value":"Wool"}]`))
	assert.Equal(t, OptionList{{Name: "Material", Value: "Wool"}}, l)
}
