package systems

import (
	"encoding/hex"
	"encoding/json"
	"log"
	"strings"

	"github.com/quasilyte/gdata"
	"github.com/segmentio/ksuid"
)

const profileKey = "profile"

// SavedProfile is the local identity and the last relay the player used.
type SavedProfile struct {
	Account       string `json:"account"`
	ServerAddress string `json:"serverAddress"`
}

// itemStore is the subset of *gdata.Manager persistence needs.
type itemStore interface {
	LoadItem(itemKey string) ([]byte, error)
	SaveItem(itemKey string, data []byte) error
}

var store itemStore

// InitPersistence initializes the gdata manager for profile storage
func InitPersistence() error {
	m, err := gdata.Open(gdata.Config{
		AppName: "dojo_tanks",
	})
	if err != nil {
		log.Printf("Warning: Could not initialize persistence: %v", err)
		return err
	}
	store = m
	return nil
}

// LoadProfile loads the profile from disk. It returns nil when nothing is
// saved or persistence is unavailable.
func LoadProfile() (*SavedProfile, error) {
	if store == nil {
		return nil, nil
	}

	data, err := store.LoadItem(profileKey)
	if err != nil {
		log.Printf("Warning: Could not load profile: %v", err)
		return nil, nil
	}
	if len(data) == 0 {
		return nil, nil
	}

	var p SavedProfile
	if err := json.Unmarshal(data, &p); err != nil {
		log.Printf("Warning: Could not parse saved profile: %v", err)
		return nil, err
	}
	return &p, nil
}

// SaveProfile saves the profile to disk
func SaveProfile(p *SavedProfile) error {
	if store == nil {
		return nil
	}

	data, err := json.Marshal(p)
	if err != nil {
		log.Printf("Warning: Could not serialize profile: %v", err)
		return err
	}
	if err := store.SaveItem(profileKey, data); err != nil {
		log.Printf("Warning: Could not save profile: %v", err)
		return err
	}
	return nil
}

// NewAccountAddress generates a local account address: 0x followed by the
// hex of a fresh KSUID.
func NewAccountAddress() string {
	id := ksuid.New()
	return "0x" + hex.EncodeToString(id.Bytes())
}

// EnsureProfile loads the saved profile, filling in and persisting a new
// account address and the default server when they are missing.
func EnsureProfile(defaultServer string) *SavedProfile {
	p, _ := LoadProfile()
	if p == nil {
		p = &SavedProfile{}
	}
	changed := false
	if !strings.HasPrefix(p.Account, "0x") {
		p.Account = NewAccountAddress()
		changed = true
	}
	if p.ServerAddress == "" {
		p.ServerAddress = defaultServer
		changed = true
	}
	if changed {
		_ = SaveProfile(p)
	}
	return p
}
