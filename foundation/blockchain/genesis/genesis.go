// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"time"
)

// Set of default chain parameters used when no genesis file exists.
const (
	DefaultDifficulty   = 2
	DefaultMiningReward = 10
	DefaultMiningSender = "MINING"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date         time.Time `json:"date"`
	Difficulty   uint16    `json:"difficulty"`    // How many leading hex zeros solve the work problem.
	MiningReward float64   `json:"mining_reward"` // Reward for mining a block.
	MiningSender string    `json:"mining_sender"` // Reserved sender id of the reward transaction.
}

// Default returns the genesis information used when no file is provided.
func Default() Genesis {
	return Genesis{
		Difficulty:   DefaultDifficulty,
		MiningReward: DefaultMiningReward,
		MiningSender: DefaultMiningSender,
	}
}

// =============================================================================

// Load opens and consumes the genesis file. A missing file yields the
// default genesis and fields left out of the file take their defaults.
func Load(path string) (Genesis, error) {
	gen := Default()

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return gen, nil
		}
		return Genesis{}, err
	}

	if err := json.Unmarshal(content, &gen); err != nil {
		return Genesis{}, err
	}

	if gen.Difficulty == 0 {
		gen.Difficulty = DefaultDifficulty
	}
	if gen.MiningSender == "" {
		gen.MiningSender = DefaultMiningSender
	}

	return gen, nil
}
