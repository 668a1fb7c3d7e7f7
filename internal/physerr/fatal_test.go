package physerr_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/HiperSlug/cellular-physics/internal/physerr"
)

func TestFatal(t *testing.T) {
	for _, v := range []struct {
		err      error
		expected bool
	}{
		{physerr.Fatal("broken"), true},
		{physerr.Fatalf("broken %d", 42), true},
		{errors.New("error"), false},
	} {
		require.Equal(t, v.expected, physerr.IsFatal(v.err))
	}
}
