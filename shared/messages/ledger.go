package messages

// Eq is an equality filter on a model field, e.g. {"player", "0x..."}.
type Eq struct {
	Field string
	Value string
}

// Query selects entities holding a model in a namespace.
type Query struct {
	Namespace string
	Model     string
	Filters   []Eq
}

// ModelPayload is one msgpack encoded model inside an entity.
type ModelPayload struct {
	Name string
	Data []byte
}

// EntityUpdate is the latest state of one ledger entity.
type EntityUpdate struct {
	EntityID string
	Models   []ModelPayload
}

// Subscribe opens a live query; the relay answers with EntityBatch messages
// carrying the same SubscriptionID until Unsubscribe.
type Subscribe struct {
	SubscriptionID uint64
	Query          Query
}

type Unsubscribe struct {
	SubscriptionID uint64
}

// FetchEntities is a one-shot query answered by a single EntityBatch carrying
// RequestID.
type FetchEntities struct {
	RequestID uint64
	Query     Query
}

// EntityBatch delivers entities for a subscription or a fetch. A non-empty
// Error invalidates the whole batch.
type EntityBatch struct {
	SubscriptionID uint64
	RequestID      uint64
	Entities       []EntityUpdate
	Error          string
}
