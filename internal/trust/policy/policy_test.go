package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEvaluate(t *testing.T) {
	t.Run("never flags below three feedbacks", func(t *testing.T) {
		for count := 0; count < 3; count++ {
			eval := Evaluate(0, count, 1, 0)
			assert.False(t, eval.ShouldFlag, "count=%d", count)
			assert.Empty(t, eval.Reasons)
		}
	})

	t.Run("healthy recruiter is not flagged", func(t *testing.T) {
		eval := Evaluate(80, 10, 4.5, 85)
		assert.False(t, eval.ShouldFlag)
	})

	t.Run("low trust score", func(t *testing.T) {
		eval := Evaluate(29, 3, 3, 50)
		assert.True(t, eval.ShouldFlag)
		assert.Equal(t, []string{ReasonLowTrust}, eval.Reasons)
	})

	t.Run("poor ratings", func(t *testing.T) {
		eval := Evaluate(50, 3, 1.9, 50)
		assert.True(t, eval.ShouldFlag)
		assert.Equal(t, []string{ReasonPoorRatings}, eval.Reasons)
	})

	t.Run("negative sentiment", func(t *testing.T) {
		eval := Evaluate(50, 3, 3, 19)
		assert.True(t, eval.ShouldFlag)
		assert.Equal(t, []string{ReasonNegativeTone}, eval.Reasons)
	})

	t.Run("reasons co-occur in rule order", func(t *testing.T) {
		// Three ratings of 1 with strongly negative comments.
		eval := Evaluate(12, 3, 1, 5)
		assert.True(t, eval.ShouldFlag)
		assert.Equal(t, []string{ReasonLowTrust, ReasonPoorRatings, ReasonNegativeTone}, eval.Reasons)
	})

	t.Run("thresholds are exclusive", func(t *testing.T) {
		eval := Evaluate(30, 3, 2.0, 20)
		assert.False(t, eval.ShouldFlag)
	})
}
