package container

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/cabinet/pkg/types"
)

type stringer string

func (s stringer) String() string { return string(s) }

type badStringer struct{}

func (badStringer) String() string { panic("no text") }

func TestCheckName(t *testing.T) {
	c := New(WithReservedNames("reserved"))
	require.NoError(t, c.Set("taken", &item{}))
	nc := c.NameChooser()

	tests := []struct {
		name    string
		input   any
		wantErr error
	}{
		{"plain name", "fine", nil},
		{"bytes", []byte("also fine"), nil},
		{"unicode", "größe", nil},
		{"not text", 42, types.ErrInvalidKey},
		{"invalid utf-8", "\xff", types.ErrInvalidKey},
		{"empty", "", types.ErrInvalidKey},
		{"leading plus", "+x", types.ErrInvalidKey},
		{"leading at", "@x", types.ErrInvalidKey},
		{"slash", "a/b", types.ErrInvalidKey},
		{"reserved", "reserved", types.ErrNameReserved},
		{"in use", "taken", types.ErrKeyConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := nc.CheckName(tt.input, nil)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCheckNameKeyError(t *testing.T) {
	c := New()
	require.NoError(t, c.Set("taken", &item{}))
	var ke *types.KeyError
	require.True(t, errors.As(c.NameChooser().CheckName("taken", nil), &ke))
	assert.Equal(t, "taken", ke.Key)
}

func TestCheckNameCanonicalForm(t *testing.T) {
	c := New()
	// U+00E9 stored; U+0065 U+0301 checked.
	require.NoError(t, c.Set("caf\u00e9", &item{}))
	assert.ErrorIs(t, c.NameChooser().CheckName("cafe\u0301", nil), types.ErrKeyConflict)
}

func TestCheckNameReservedLookup(t *testing.T) {
	c := New()
	nc := NewNameChooser(c, WithReservedNamesLookup(func(any) []string {
		return []string{"index"}
	}))
	assert.ErrorIs(t, nc.CheckName("index", nil), types.ErrNameReserved)
	assert.NoError(t, nc.CheckName("other", nil))
}

func TestChooseName(t *testing.T) {
	c := New(WithReservedNames("reserved"))
	require.NoError(t, c.Set("foo.old.rst", &item{}))
	nc := c.NameChooser()

	t.Run("collisions get a counter before the extension", func(t *testing.T) {
		name, err := nc.ChooseName("foo.old.rst", nil)
		require.NoError(t, err)
		assert.Equal(t, "foo.old-2.rst", name)

		require.NoError(t, c.Set(name, &item{}))
		name, err = nc.ChooseName("foo.old.rst", nil)
		require.NoError(t, err)
		assert.Equal(t, "foo.old-3.rst", name)
	})

	t.Run("unused hint is kept", func(t *testing.T) {
		name, err := nc.ChooseName("fresh.txt", nil)
		require.NoError(t, err)
		assert.Equal(t, "fresh.txt", name)
	})

	t.Run("slashes and leading markers are cleaned", func(t *testing.T) {
		name, err := nc.ChooseName("+@a/b", nil)
		require.NoError(t, err)
		assert.Equal(t, "a-b", name)
	})

	t.Run("no extension", func(t *testing.T) {
		require.NoError(t, c.Set("readme", &item{}))
		name, err := nc.ChooseName("readme", nil)
		require.NoError(t, err)
		assert.Equal(t, "readme-2", name)
	})

	t.Run("empty hint falls back to the type name", func(t *testing.T) {
		name, err := nc.ChooseName("", &item{})
		require.NoError(t, err)
		assert.Equal(t, "item", name)

		name, err = nc.ChooseName(nil, []int{1})
		require.NoError(t, err)
		assert.Equal(t, "slice", name)

		name, err = nc.ChooseName("", nil)
		require.NoError(t, err)
		assert.Equal(t, "object", name)

		name, err = nc.ChooseName("", NewProxy(&folder{}))
		require.NoError(t, err)
		assert.Equal(t, "folder", name)
	})

	t.Run("hints that are not strings", func(t *testing.T) {
		name, err := nc.ChooseName(stringer("from-stringer"), nil)
		require.NoError(t, err)
		assert.Equal(t, "from-stringer", name)

		name, err = nc.ChooseName(12, nil)
		require.NoError(t, err)
		assert.Equal(t, "12", name)

		name, err = nc.ChooseName(badStringer{}, &item{})
		require.NoError(t, err)
		assert.Equal(t, "item", name)

		name, err = nc.ChooseName("\xff", &item{})
		require.NoError(t, err)
		assert.Equal(t, "item", name)
	})

	t.Run("reserved result is refused", func(t *testing.T) {
		_, err := nc.ChooseName("reserved", nil)
		assert.ErrorIs(t, err, types.ErrNameReserved)
	})
}
