package messages

// Entrypoints of the ledger's actions contract.
const (
	EntrypointSpawn            = "spawn"
	EntrypointValidatePosition = "validate_position"
	EntrypointShoot            = "shoot"
	EntrypointMoveTank         = "move_tank"
	EntrypointRotateTank       = "rotate_tank"
	EntrypointGotHit           = "got_hit"
)

// ActionHeader is stamped on every action by the submitting client.
type ActionHeader struct {
	RequestID uint64
	Account   string
}

// Action is a call into the ledger's actions contract. WithHeader returns a
// stamped copy so the value sent on the wire is always the concrete struct.
type Action interface {
	Entrypoint() string
	Head() ActionHeader
	WithHeader(h ActionHeader) Action
}

type Spawn struct {
	Header ActionHeader
}

func (a Spawn) Entrypoint() string { return EntrypointSpawn }
func (a Spawn) Head() ActionHeader { return a.Header }
func (a Spawn) WithHeader(h ActionHeader) Action {
	a.Header = h
	return a
}

// ValidatePosition asks the ledger to accept a predicted grid position.
type ValidatePosition struct {
	Header   ActionHeader
	GameID   uint32
	X, Y     uint32
	Rotation uint32
}

func (a ValidatePosition) Entrypoint() string { return EntrypointValidatePosition }
func (a ValidatePosition) Head() ActionHeader { return a.Header }
func (a ValidatePosition) WithHeader(h ActionHeader) Action {
	a.Header = h
	return a
}

type Shoot struct {
	Header ActionHeader
	GameID uint32
}

func (a Shoot) Entrypoint() string { return EntrypointShoot }
func (a Shoot) Head() ActionHeader { return a.Header }
func (a Shoot) WithHeader(h ActionHeader) Action {
	a.Header = h
	return a
}

// MoveTank steps the tank one cell. Direction: 0 up, 1 right, 2 down, 3 left.
type MoveTank struct {
	Header    ActionHeader
	GameID    uint32
	Direction uint32
}

func (a MoveTank) Entrypoint() string { return EntrypointMoveTank }
func (a MoveTank) Head() ActionHeader { return a.Header }
func (a MoveTank) WithHeader(h ActionHeader) Action {
	a.Header = h
	return a
}

type RotateTank struct {
	Header   ActionHeader
	GameID   uint32
	Rotation uint32
}

func (a RotateTank) Entrypoint() string { return EntrypointRotateTank }
func (a RotateTank) Head() ActionHeader { return a.Header }
func (a RotateTank) WithHeader(h ActionHeader) Action {
	a.Header = h
	return a
}

type GotHit struct {
	Header       ActionHeader
	GameID       uint32
	ProjectileID uint32
}

func (a GotHit) Entrypoint() string { return EntrypointGotHit }
func (a GotHit) Head() ActionHeader { return a.Header }
func (a GotHit) WithHeader(h ActionHeader) Action {
	a.Header = h
	return a
}

// ActionResult acknowledges or rejects a submitted action once its block is final.
type ActionResult struct {
	RequestID uint64
	Accepted  bool
	Reason    string
	Block     uint64
}
