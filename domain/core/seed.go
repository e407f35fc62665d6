package core

import (
	"hash/fnv"
)

// Seed is the base seed for a bootstrap run. Every random draw in the engine is
// derived from it, so a run is reproducible from (Seed, inputs) alone.
type Seed int64

// ObservedStreamID tags the seed stream used for the observed (unresampled)
// statistic evaluation of a group.
const ObservedStreamID = -1

// DeriveSeed maps (base seed, group, replicate index) to a substream seed.
// The mapping is a pure function of its arguments, so replicate i of a group
// draws identical values no matter which worker evaluates it or in what order.
func DeriveSeed(base Seed, group GroupID, replicate int) int64 {
	h := fnv.New64a()
	h.Write([]byte(group))
	mixed := h.Sum64() ^ uint64(base)
	return int64(splitmix64(mixed + uint64(replicate) + 1))
}

// splitmix64 is the finalizer from the SplitMix64 generator. It decorrelates
// consecutive replicate indices into well-separated seeds.
func splitmix64(x uint64) uint64 {
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	return x ^ (x >> 31)
}
