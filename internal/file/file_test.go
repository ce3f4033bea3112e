package file

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExists(t *testing.T) {
	require.True(t, Exists("file_test.go"))
	require.False(t, Exists("bogus.go"))
}
