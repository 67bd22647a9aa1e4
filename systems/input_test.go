package systems

import (
	"sort"
	"testing"

	cfg "github.com/automoto/dojo-tanks/config"
	"github.com/automoto/dojo-tanks/shared/netconfig"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/stretchr/testify/assert"
)

type keyLog struct {
	down, up []netconfig.Key
}

func (k *keyLog) KeyDown(key netconfig.Key) { k.down = append(k.down, key) }
func (k *keyLog) KeyUp(key netconfig.Key)   { k.up = append(k.up, key) }

func keySet(keys ...ebiten.Key) func(ebiten.Key) bool {
	set := make(map[ebiten.Key]bool)
	for _, k := range keys {
		set[k] = true
	}
	return func(k ebiten.Key) bool { return set[k] }
}

func TestApplyKeyEdgesForwardsMovement(t *testing.T) {
	log := &keyLog{}
	edges := keyEdges{
		pressed:  keySet(ebiten.KeyW, ebiten.KeyArrowLeft, ebiten.KeyQ),
		released: keySet(ebiten.KeyD),
	}

	applyKeyEdges(edges, cfg.Input, log, nil)

	sort.Slice(log.down, func(i, j int) bool { return log.down[i] < log.down[j] })
	assert.Equal(t, []netconfig.Key{netconfig.KeyArrowLeft, netconfig.KeyW}, log.down)
	assert.Equal(t, []netconfig.Key{netconfig.KeyD}, log.up)
}

func TestApplyKeyEdgesFiresOncePerPress(t *testing.T) {
	shots := 0
	input := cfg.InputConfig{Fire: []ebiten.Key{ebiten.KeySpace, ebiten.KeyEnter}}
	edges := keyEdges{
		pressed:  keySet(ebiten.KeySpace, ebiten.KeyEnter),
		released: keySet(),
	}

	applyKeyEdges(edges, input, &keyLog{}, func() { shots++ })
	assert.Equal(t, 1, shots)
}
