package idx_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/aussiebroadwan/quizdesk/pkg/idx"
	"github.com/stretchr/testify/require"
)

func TestNewAndParse(t *testing.T) {
	t.Parallel()

	id := idx.New()
	require.False(t, id.IsZero())

	parsed, err := idx.Parse(id.String())
	require.NoError(t, err)
	require.Equal(t, id, parsed)
}

func TestParseRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "   ", "not-a-ulid", "01HQ7T3Z1MZ0JQ3M6MZQ1FQ3Z"} {
		_, err := idx.Parse(in)
		require.ErrorIs(t, err, idx.ErrInvalid, "input %q", in)
	}
}

func TestGeneratorIsMonotonic(t *testing.T) {
	t.Parallel()

	fixed := time.Unix(1700000000, 0).UTC()
	gen := idx.NewGenerator(bytes.NewReader(bytes.Repeat([]byte{7}, 4096)), func() time.Time { return fixed })

	prev := gen.New()
	for range 50 {
		next := gen.New()
		require.Less(t, prev.String(), next.String())
		prev = next
	}
}

func TestTimeExtraction(t *testing.T) {
	t.Parallel()

	tm := time.Unix(1700000000, 0).UTC()
	id := idx.NewAt(tm)
	require.WithinDuration(t, tm, id.Time(), time.Millisecond)
	require.True(t, idx.ID("junk").Time().IsZero())
}
