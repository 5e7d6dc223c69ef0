package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSystemClock_SatisfiesClock(t *testing.T) {
	var clock Clock = SystemClock{}
	assert.WithinDuration(t, time.Now(), clock.Now(), time.Second)
}
