package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCacheDisabledIsNoOp(t *testing.T) {
	// Sans Redis, tout passe en miss silencieux
	original := Client
	Client = nil
	defer func() { Client = original }()

	var dest map[string]int
	assert.False(t, GetJSON(DashboardKey, &dest))

	SetJSON(DashboardKey, map[string]int{"total": 1}, time.Minute)
	assert.False(t, GetJSON(DashboardKey, &dest))

	Invalidate(DashboardKey)
	InvalidateStats()
}
