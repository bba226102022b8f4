package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	assert.Equal(t, "alice@x.com", Normalize("  Alice@X.com "))
	assert.Equal(t, "", Normalize("   "))
}

func TestValid(t *testing.T) {
	valid := []string{"alice@x.com", "a.b+tag@sub.example.org", "x@y.z"}
	for _, v := range valid {
		assert.True(t, Valid(v), v)
	}

	invalid := []string{"", "alice", "alice@", "@x.com", "alice@xcom", "al ice@x.com", "a@b@c.com", "alice@x."}
	for _, v := range invalid {
		assert.False(t, Valid(v), v)
	}
}
