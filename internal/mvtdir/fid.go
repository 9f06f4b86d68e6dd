package mvtdir

// synthesizeFID packs a tile address and a feature's position within
// that tile into one stable id, per spec §4.10:
// (feature_id_within_tile << 2Z) | (Y << Z) | X.
func synthesizeFID(z, x, y, localFID int) uint64 {
	return uint64(localFID)<<uint(2*z) | uint64(y)<<uint(z) | uint64(x)
}

// decomposeFID is the inverse of synthesizeFID.
func decomposeFID(fid uint64, z int) (x, y, localFID int) {
	mask := uint64(1)<<uint(z) - 1
	x = int(fid & mask)
	y = int((fid >> uint(z)) & mask)
	localFID = int(fid >> uint(2*z))
	return
}
