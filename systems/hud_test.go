package systems

import (
	"testing"

	"github.com/automoto/dojo-tanks/network"
	"github.com/automoto/dojo-tanks/shared/gamemath"
	"github.com/automoto/dojo-tanks/shared/netconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHUDLines(t *testing.T) {
	lines := hudLines(HUDInfo{
		Account:    "0x1234567890abcdef",
		Connection: "joined",
		Predicted:  gamemath.Pose{X: 5.2, Y: 5, Heading: 90},
		Ledger:     gamemath.Pose{X: 5, Y: 5, Heading: 90},
		HasLedger:  true,
		LastBullet: 12,
		HasBullet:  true,
		Live:       1,
	})
	require.Len(t, lines, 4)
	assert.Equal(t, "Player 0x1234…cdef  relay joined", lines[0])
	assert.Equal(t, "Tank on ledger: (5, 5) 90°", lines[1])
	assert.Equal(t, "Predicted: (5.20, 5.00) 90°", lines[2])
	assert.Equal(t, "Last bullet ID: 12  in flight 1  awaiting 0", lines[3])
}

func TestHUDLinesBeforeSpawn(t *testing.T) {
	lines := hudLines(HUDInfo{Account: "0xab"})
	assert.Equal(t, "Tank on ledger: not spawned", lines[1])
	assert.Contains(t, lines[3], "Last bullet ID: none")
}

func TestTooltipText(t *testing.T) {
	assert.Equal(t, "Tile (3, 4): Wall", tooltipText(3, 4, network.CellView{Tile: netconfig.TileWall}))
	assert.Equal(t, "Tile (0, 0): Empty, tank", tooltipText(0, 0, network.CellView{Occupied: true}))
}
