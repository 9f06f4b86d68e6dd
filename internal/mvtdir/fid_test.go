package mvtdir

import "testing"

func TestFIDRoundTrip(t *testing.T) {
	cases := []struct {
		z, x, y, local int
	}{
		{0, 0, 0, 0},
		{4, 5, 9, 0},
		{4, 15, 15, 123},
		{10, 0, 1023, 999999},
	}
	for _, c := range cases {
		fid := synthesizeFID(c.z, c.x, c.y, c.local)
		gotX, gotY, gotLocal := decomposeFID(fid, c.z)
		if gotX != c.x || gotY != c.y || gotLocal != c.local {
			t.Errorf("z=%d round trip (%d,%d,%d) -> fid=%d -> (%d,%d,%d)",
				c.z, c.x, c.y, c.local, fid, gotX, gotY, gotLocal)
		}
	}
}
