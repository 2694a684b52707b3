package catalog

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate_RejectsBrokenItems(t *testing.T) {
	cases := map[string]Dataset{
		"missing id":    {Items: []Item{{Title: "x"}}},
		"blank title":   {Items: []Item{{ID: 1, Title: "  "}}},
		"duplicate ids": {Items: []Item{{ID: 1, Title: "a"}, {ID: 1, Title: "b"}}},
	}

	for name, ds := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Validate(ds)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidDataset))

			_, err = NewStore(ds)
			assert.ErrorIs(t, err, ErrInvalidDataset)
		})
	}
}

func TestValidate_CountsDanglingIDs(t *testing.T) {
	r, err := Validate(Dataset{
		Items: []Item{{ID: 1, Title: "a"}},
		Categories: map[string][]int{
			"a": {1, 2, 3},
			"b": {1},
			"c": {9},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 1, r.Items)
	assert.Equal(t, 3, r.Categories)
	assert.Equal(t, map[string]int{"a": 2, "c": 1}, r.DanglingIDs)
	assert.Equal(t, 3, r.Dangling())
}
