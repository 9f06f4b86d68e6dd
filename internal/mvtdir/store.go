// Package mvtdir implements the MVT directory layer (spec §4.10): a
// Z/X/Y tile tree opened through an abstract TileStore rather than
// direct filesystem calls, so the core stays free of I/O concerns
// exactly as spec.md's scope section requires of the MVT reader.
package mvtdir

// TileStore is the abstract directory listing the directory layer
// consumes; a concrete filesystem-backed implementation lives in
// cmd/mvtdump.
type TileStore interface {
	// ReadTile returns the raw (possibly gzip-framed) bytes for tile
	// (z,x,y), and ok=false if no such tile exists.
	ReadTile(z, x, y int) (data []byte, ok bool, err error)

	// ListY returns every Y present under the (z,x) directory, or
	// ok=false when the store can't produce an efficient listing (e.g.
	// the directory holds more than MaxFilesPerDir entries) — callers
	// then fall back to an integer-indexed existence scan.
	ListY(z, x int) (ys []int, ok bool, err error)
}

// MaxFilesPerDir is the cap past which a directory listing is considered
// too large to enumerate directly; above it, OpenDirectory scans
// Y∈[0,2^Z) by probing ReadTile instead of trusting a full listing
// (spec §4.10).
const MaxFilesPerDir = 10000

// listTileAddrs enumerates every (x,y) with a tile present at zoom z,
// using ListY's fast path per x when available and falling back to an
// integer-indexed scan otherwise, then reorders the result along the
// same Hilbert curve the teacher's PMTiles directory sorts archive
// entries by (hilbert.go): OpenDirectory samples only a prefix of this
// list to discover its union schema (spec §4.10's
// tile_count_to_establish_feature_defn), so a spatially clustered prefix
// is a more representative sample of a tile tree than an arbitrary
// row-major one, and per-layer iteration visits nearby tiles back to
// back instead of sweeping whole rows at a time.
func listTileAddrs(store TileStore, z int) ([][2]int, error) {
	n := 1 << uint(z)
	var addrs [][2]int
	for x := 0; x < n; x++ {
		ys, ok, err := store.ListY(z, x)
		if err != nil {
			return nil, err
		}
		if ok && len(ys) <= MaxFilesPerDir {
			sortInts(ys)
			for _, y := range ys {
				if y < 0 || y >= n {
					continue
				}
				addrs = append(addrs, [2]int{x, y})
			}
			continue
		}
		for y := 0; y < n; y++ {
			_, exists, err := store.ReadTile(z, x, y)
			if err != nil {
				return nil, err
			}
			if exists {
				addrs = append(addrs, [2]int{x, y})
			}
		}
	}
	sortByHilbert(addrs, z)
	return addrs, nil
}

// sortByHilbert reorders addrs (each a (x,y) pair at zoom z) by their
// Hilbert curve index, an insertion sort matching sortInts' style since
// directory listings are small enough that quadratic sorting is fine.
func sortByHilbert(addrs [][2]int, z int) {
	key := func(xy [2]int) uint64 { return zxyToID(z, xy[0], xy[1]) }
	for i := 1; i < len(addrs); i++ {
		for j := i; j > 0 && key(addrs[j-1]) > key(addrs[j]); j-- {
			addrs[j-1], addrs[j] = addrs[j], addrs[j-1]
		}
	}
}

func sortInts(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j-1] > xs[j]; j-- {
			xs[j-1], xs[j] = xs[j], xs[j-1]
		}
	}
}
