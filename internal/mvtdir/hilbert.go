package mvtdir

// Hilbert-curve tile ordering, adapted from the teacher's PMTiles v3
// directory encoding (internal/pmtiles/directory.go in the source repo):
// there it orders an archive's tile entries for prefix-compressible
// storage; here store.go's listTileAddrs uses the same ordering so that
// OpenDirectory's sampled schema-discovery prefix (spec §4.10's
// tile_count_to_establish_feature_defn) and per-layer feature iteration
// both visit spatially nearby tiles back to back instead of sweeping one
// row of the tile grid at a time.

// zxyToID maps a (z, x, y) tile address to a single monotonically increasing
// key: the count of all tiles at lower zoom levels, plus this tile's Hilbert
// index within its own zoom level's n×n grid.
func zxyToID(z, x, y int) uint64 {
	if z == 0 {
		return 0
	}
	var acc uint64
	for i := 0; i < z; i++ {
		n := uint64(1) << uint(i)
		acc += n * n
	}
	n := uint64(1) << uint(z)
	return acc + xyToHilbert(uint64(x), uint64(y), n)
}

// idToZXY is the inverse of zxyToID.
func idToZXY(id uint64) (z, x, y int) {
	var acc uint64
	z = 0
	for {
		n := uint64(1) << uint(z)
		count := n * n
		if acc+count > id {
			break
		}
		acc += count
		z++
	}
	n := uint64(1) << uint(z)
	hx, hy := hilbertToXY(id-acc, n)
	return z, int(hx), int(hy)
}

// xyToHilbert converts (x, y) to a Hilbert curve index for an n x n grid.
// n must be a power of two.
func xyToHilbert(x, y, n uint64) uint64 {
	var d uint64
	s := n / 2
	for s > 0 {
		var rx, ry uint64
		if (x & s) > 0 {
			rx = 1
		}
		if (y & s) > 0 {
			ry = 1
		}
		d += s * s * ((3 * rx) ^ ry)
		if ry == 0 {
			if rx == 1 {
				x = s*2 - 1 - x
				y = s*2 - 1 - y
			}
			x, y = y, x
		}
		s /= 2
	}
	return d
}

// hilbertToXY is the inverse of xyToHilbert.
func hilbertToXY(d, n uint64) (x, y uint64) {
	var rx, ry uint64
	s := uint64(1)
	for s < n {
		rx = 1 & (d / 2)
		ry = 1 & (d ^ rx)
		if ry == 0 {
			if rx == 1 {
				x = s - 1 - x
				y = s - 1 - y
			}
			x, y = y, x
		}
		x += s * rx
		y += s * ry
		d /= 4
		s *= 2
	}
	return x, y
}
