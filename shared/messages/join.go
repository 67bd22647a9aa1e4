package messages

// JoinRequest is sent by a client after connecting to identify its account.
type JoinRequest struct {
	Version string
	Account string
}

// JoinAccepted is sent by the relay when a client's join request is accepted.
type JoinAccepted struct {
	ServerName      string
	GameID          uint32
	BlockIntervalMs int64
}

// JoinRejected is sent by the relay when a client's join request is rejected.
type JoinRejected struct {
	Reason string
}
