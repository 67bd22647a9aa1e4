package network

import (
	"context"
	"fmt"
	"log"

	"github.com/automoto/dojo-tanks/shared/messages"
	"github.com/automoto/dojo-tanks/shared/netcomponents"
	"github.com/automoto/dojo-tanks/shared/netconfig"
	"github.com/automoto/dojo-tanks/shared/protocol"
)

// OwnTankQuery selects the Tank owned by account.
func OwnTankQuery(account string) messages.Query {
	return messages.Query{
		Namespace: netconfig.Namespace,
		Model:     netconfig.ModelTank,
		Filters:   []messages.Eq{{Field: "player", Value: account}},
	}
}

// FetchOwnTank runs a one-shot query for the local tank. ok is false when the
// account has no tank yet.
func FetchOwnTank(ctx context.Context, sub Subscriber, account string) (netcomponents.TankData, bool, error) {
	entities, err := sub.Fetch(ctx, OwnTankQuery(account))
	if err != nil {
		return netcomponents.TankData{}, false, err
	}
	for _, e := range entities {
		for _, p := range e.Models {
			m, err := protocol.DecodeModel(p)
			if err != nil {
				log.Printf("[spawn] skipping %s in entity %s: %v", p.Name, e.EntityID, err)
				continue
			}
			if t, ok := m.(netcomponents.TankData); ok && t.Player == account {
				return t, true, nil
			}
		}
	}
	return netcomponents.TankData{}, false, nil
}

// SpawnTank submits Spawn and then fetches the resulting tank so the battle
// starts with the ledger's pose.
func SpawnTank(ctx context.Context, submitter Submitter, sub Subscriber, account string, gameID uint32) (netcomponents.TankData, error) {
	if err := submitter.Submit(ctx, messages.Spawn{}); err != nil {
		return netcomponents.TankData{}, fmt.Errorf("spawn in game %d: %w", gameID, err)
	}
	tank, ok, err := FetchOwnTank(ctx, sub, account)
	if err != nil {
		return netcomponents.TankData{}, fmt.Errorf("fetch spawned tank: %w", err)
	}
	if !ok {
		return netcomponents.TankData{}, fmt.Errorf("spawn in game %d: tank not found after spawn", gameID)
	}
	return tank, nil
}
