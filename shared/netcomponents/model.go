package netcomponents

import "strconv"

// Kind tags a decoded ledger model.
type Kind int

const (
	KindGame Kind = iota
	KindMapTile
	KindTank
	KindProjectileFired
	KindTankMoved
	KindGameSpawned
)

// Model is the closed set of ledger models the client understands. Every
// implementation lives in this package.
type Model interface {
	Kind() Kind
	sealed()
}

func itoa(v int) string {
	return strconv.Itoa(v)
}
