package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimeOfDayPattern(t *testing.T) {
	valid := []string{"00:00", "09:30", "18:00", "23:59"}
	for _, v := range valid {
		assert.True(t, CompiledPatterns.TimeOfDay.MatchString(v), v)
	}

	invalid := []string{"24:00", "9:30", "18:60", "18:5", "noon", "", "18:00:00"}
	for _, v := range invalid {
		assert.False(t, CompiledPatterns.TimeOfDay.MatchString(v), v)
	}
}

func TestUsernamePattern(t *testing.T) {
	valid := []string{"alice", "alice_42", "a_b_c", "42"}
	for _, v := range valid {
		assert.True(t, CompiledPatterns.Username.MatchString(v), v)
	}

	invalid := []string{"Alice", "alice 42", "alice-42", "alice!", ""}
	for _, v := range invalid {
		assert.False(t, CompiledPatterns.Username.MatchString(v), v)
	}
}

func TestEmailPattern(t *testing.T) {
	valid := []string{"alice@example.com", "a.b+c@sub.example.org"}
	for _, v := range valid {
		assert.True(t, CompiledPatterns.Email.MatchString(v), v)
	}

	invalid := []string{"alice", "alice@", "@example.com", "alice@example"}
	for _, v := range invalid {
		assert.False(t, CompiledPatterns.Email.MatchString(v), v)
	}
}

func TestSocialHandlePattern(t *testing.T) {
	valid := []string{"alice", "Alice_42", "a.b"}
	for _, v := range valid {
		assert.True(t, CompiledPatterns.SocialHandle.MatchString(v), v)
	}

	invalid := []string{"", "with space", "way_too_long_for_a_social_handle_field"}
	for _, v := range invalid {
		assert.False(t, CompiledPatterns.SocialHandle.MatchString(v), v)
	}
}
