package speck

// sentinelPixel marks a removed List of Insignificant Pixels entry
// without shifting the rest of the slice; it's a flat index no volume
// can ever produce.
const sentinelPixel = -1

// lisGarbageRatio is the fraction of garbage-tagged entries in a single
// List of Insignificant Sets level that triggers compaction.
const lisGarbageRatio = 0.8

// cleanLIS compacts every level of lis whose garbage ratio has crossed
// lisGarbageRatio, dropping tombstoned entries in place.
func cleanLIS(lis [][]Set3D) {
	for lvl, sets := range lis {
		if len(sets) == 0 {
			continue
		}
		garbage := 0
		for _, s := range sets {
			if s.Garbage {
				garbage++
			}
		}
		if float64(garbage) < lisGarbageRatio*float64(len(sets)) {
			continue
		}
		kept := sets[:0]
		for _, s := range sets {
			if !s.Garbage {
				kept = append(kept, s)
			}
		}
		lis[lvl] = kept
	}
}

// cleanLIP compacts a List of Insignificant Pixels, dropping sentinel
// entries in place.
func cleanLIP(lip []int) []int {
	kept := lip[:0]
	for _, p := range lip {
		if p != sentinelPixel {
			kept = append(kept, p)
		}
	}
	return kept
}

// ensureLevel grows lis so that index lvl is valid.
func ensureLevel(lis [][]Set3D, lvl int) [][]Set3D {
	for len(lis) <= lvl {
		lis = append(lis, nil)
	}
	return lis
}
