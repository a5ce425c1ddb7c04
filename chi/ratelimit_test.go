package chi_test

import (
	"testing"

	logofetchchi "github.com/fwojciec/logofetch/chi"
	"github.com/stretchr/testify/assert"
)

func TestClientLimiter_Allow(t *testing.T) {
	t.Parallel()

	t.Run("allows burst then blocks", func(t *testing.T) {
		t.Parallel()

		l := logofetchchi.NewClientLimiter(0.001, 3)

		assert.True(t, l.Allow("1.2.3.4"))
		assert.True(t, l.Allow("1.2.3.4"))
		assert.True(t, l.Allow("1.2.3.4"))
		assert.False(t, l.Allow("1.2.3.4"))
	})

	t.Run("tracks clients separately", func(t *testing.T) {
		t.Parallel()

		l := logofetchchi.NewClientLimiter(0.001, 1)

		assert.True(t, l.Allow("1.2.3.4"))
		assert.False(t, l.Allow("1.2.3.4"))
		assert.True(t, l.Allow("5.6.7.8"))
	})

	t.Run("burst below one is raised", func(t *testing.T) {
		t.Parallel()

		l := logofetchchi.NewClientLimiter(0.001, 0)

		assert.True(t, l.Allow("1.2.3.4"))
	})
}
