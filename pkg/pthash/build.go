package pthash

import (
	"github.com/aelaguiz/pthash-go/internal/builder"
	"github.com/aelaguiz/pthash-go/internal/core"
)

// Build constructs a PHF over keys, retrying with successive seeds up to
// maxSeedAttempts when a chosen seed fails to resolve every bucket (§4.11).
func Build(keys []uint64, config core.BuildConfig, maxSeedAttempts int) (*PHF, error) {
	res, err := builder.BuildWithRetry(keys, config, maxSeedAttempts)
	if err != nil {
		return nil, err
	}
	res.FreeSlots.SetFlags(true, false)
	return &PHF{
		seed:      res.Seed,
		numKeys:   res.NumKeys,
		tableSize: res.TableSize,
		m128:      res.M128,
		m64:       res.M64,
		search:    config.Search,
		minimal:   config.Minimal,
		bucketer:  res.Bucketer,
		pilots:    res.Pilots,
		freeSlots: res.FreeSlots,
	}, nil
}
