// Package save implements JSON serialization and deserialization of run
// state, including the rng stream positions needed for exact replay.
package save

import (
	"encoding/json"

	"github.com/nathoo/lootcore/types"
)

// FormatVersion identifies the save file layout.
const FormatVersion = "1"

// Data is the JSON-serializable save format.
type Data struct {
	Version string           `json:"version"`
	State   types.RunState   `json:"state"`
	Streams map[string]int64 `json:"streams"`
}

// Save serializes a run state and the stream positions to JSON bytes.
func Save(s *types.RunState, positions map[string]int64) ([]byte, error) {
	data := Data{
		Version: FormatVersion,
		State:   *s,
		Streams: positions,
	}
	return json.MarshalIndent(data, "", "  ")
}

// Load deserializes JSON bytes into save data.
func Load(data []byte) (*Data, error) {
	var sd Data
	if err := json.Unmarshal(data, &sd); err != nil {
		return nil, err
	}
	// Ensure maps and slices are never nil after load.
	if sd.State.Perks == nil {
		sd.State.Perks = map[string]int{}
	}
	if sd.State.Inventory == nil {
		sd.State.Inventory = []types.RolledThing{}
	}
	if sd.State.CommandLog == nil {
		sd.State.CommandLog = []string{}
	}
	if sd.Streams == nil {
		sd.Streams = map[string]int64{}
	}
	return &sd, nil
}

// ApplySave copies loaded save data onto a run state. Stream restoration
// is the caller's job: re-derive from sd.State.Seed and advance to
// sd.Streams.
func ApplySave(s *types.RunState, sd *Data) {
	*s = sd.State
}
