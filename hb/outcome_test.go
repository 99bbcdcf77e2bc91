package hb

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutcomeCollector(t *testing.T) {
	collector := &OutcomeCollector{}

	var wg sync.WaitGroup
	for _, code := range []string{"div-1", "div-2", "div-1"} {
		wg.Add(1)
		go func(code string) {
			defer wg.Done()
			collector.AddBidResponse(code, Outcome{Status: StatusNoBid, Reason: "unknown"})
		}(code)
	}
	wg.Wait()

	assert.Len(t, collector.Outcomes(), 3)
	grouped := collector.ByPlacementCode()
	assert.Len(t, grouped["div-1"], 2)
	assert.Len(t, grouped["div-2"], 1)
	assert.True(t, grouped["div-2"][0].IsRejection())
	assert.Equal(t, "div-2", grouped["div-2"][0].PlacementCode)
}

func TestIsSupportedMediaType(t *testing.T) {
	assert.True(t, IsSupportedMediaType("video"))
	assert.True(t, IsSupportedMediaType("native"))
	assert.False(t, IsSupportedMediaType("banner"))
	assert.False(t, IsSupportedMediaType(""))
}

func TestEnvironmentViewport(t *testing.T) {
	env := Environment{InnerWidth: 1024, InnerHeight: 700}
	assert.Equal(t, int64(1024), env.ViewportWidth())
	assert.Equal(t, int64(700), env.ViewportHeight())

	env.ScreenWidth, env.ScreenHeight = 1920, 1080
	assert.Equal(t, int64(1920), env.ViewportWidth())
	assert.Equal(t, int64(1080), env.ViewportHeight())
}
