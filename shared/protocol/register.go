// Package protocol encodes and decodes ledger models carried inside
// messages.ModelPayload. Both the client and the relay must use it so payloads
// round trip.
package protocol

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/automoto/dojo-tanks/shared/messages"
	"github.com/automoto/dojo-tanks/shared/netcomponents"
	"github.com/automoto/dojo-tanks/shared/netconfig"
	"github.com/hashicorp/go-msgpack/v2/codec"
)

// ErrUnknownModel is returned for payloads whose name is not registered.
var ErrUnknownModel = errors.New("unknown model")

type decodeFn func([]byte) (netcomponents.Model, error)

var decoders = map[string]decodeFn{
	netconfig.ModelGame:            decodeAs[netcomponents.GameData],
	netconfig.ModelMapTiles:        decodeAs[netcomponents.MapTileData],
	netconfig.ModelTank:            decodeAs[netcomponents.TankData],
	netconfig.ModelProjectileFired: decodeAs[netcomponents.ProjectileFiredData],
	netconfig.ModelTankMoved:       decodeAs[netcomponents.TankMovedData],
	netconfig.ModelGameSpawned:     decodeAs[netcomponents.GameSpawnedData],
}

var handle = &codec.MsgpackHandle{}

// ModelName returns the ledger name of a model.
func ModelName(m netcomponents.Model) string {
	switch m.Kind() {
	case netcomponents.KindGame:
		return netconfig.ModelGame
	case netcomponents.KindMapTile:
		return netconfig.ModelMapTiles
	case netcomponents.KindTank:
		return netconfig.ModelTank
	case netcomponents.KindProjectileFired:
		return netconfig.ModelProjectileFired
	case netcomponents.KindTankMoved:
		return netconfig.ModelTankMoved
	case netcomponents.KindGameSpawned:
		return netconfig.ModelGameSpawned
	}
	return ""
}

// EncodeModel packs a model into a named payload.
func EncodeModel(m netcomponents.Model) (messages.ModelPayload, error) {
	var out []byte
	if err := codec.NewEncoderBytes(&out, handle).Encode(m); err != nil {
		return messages.ModelPayload{}, fmt.Errorf("encode %s: %w", ModelName(m), err)
	}
	return messages.ModelPayload{Name: ModelName(m), Data: out}, nil
}

// DecodeModel unpacks a payload into its variant.
func DecodeModel(p messages.ModelPayload) (netcomponents.Model, error) {
	dec, ok := decoders[p.Name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, p.Name)
	}
	m, err := dec(p.Data)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", p.Name, err)
	}
	return m, nil
}

func decodeAs[T netcomponents.Model](data []byte) (netcomponents.Model, error) {
	var v T
	if len(data) == 0 {
		return nil, errors.New("empty payload")
	}
	if err := codec.NewDecoderBytes(data, handle).Decode(&v); err != nil {
		return nil, err
	}
	return v, nil
}

// FieldValue returns the string form of a filterable model field. Only the
// fields queries filter on are exposed: "player" and "game_id".
func FieldValue(m netcomponents.Model, field string) (string, bool) {
	switch v := m.(type) {
	case netcomponents.TankData:
		if field == "player" {
			return v.Player, true
		}
	case netcomponents.ProjectileFiredData:
		if field == "player" {
			return v.Player, true
		}
	case netcomponents.TankMovedData:
		switch field {
		case "player":
			return v.Player, true
		case "game_id":
			return strconv.FormatUint(uint64(v.GameID), 10), true
		}
	case netcomponents.GameSpawnedData:
		switch field {
		case "player":
			return v.Player, true
		case "game_id":
			return strconv.FormatUint(uint64(v.GameID), 10), true
		}
	case netcomponents.MapTileData:
		if field == "game_id" {
			return strconv.FormatUint(uint64(v.GameID), 10), true
		}
	case netcomponents.GameData:
		if field == "game_id" {
			return strconv.FormatUint(uint64(v.GameID), 10), true
		}
	}
	return "", false
}

// Matches reports whether a model satisfies a query.
func Matches(q messages.Query, m netcomponents.Model) bool {
	if q.Namespace != "" && q.Namespace != netconfig.Namespace {
		return false
	}
	if q.Model != ModelName(m) {
		return false
	}
	for _, f := range q.Filters {
		v, ok := FieldValue(m, f.Field)
		if !ok || v != f.Value {
			return false
		}
	}
	return true
}
