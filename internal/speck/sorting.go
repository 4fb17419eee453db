package speck

// sortingPassEncode processes the List of Insignificant Pixels, then
// the List of Insignificant Sets from finest partition level to
// coarsest, testing everything still tracked against threshold.
func (c *coder) sortingPassEncode(threshold float64) error {
	for i, idx := range c.lip {
		if idx == sentinelPixel {
			continue
		}
		sig := c.coeffs[idx] >= threshold
		if err := c.emitBit(sig); err != nil {
			return err
		}
		if !sig {
			continue
		}
		if err := c.emitBit(c.signs[idx]); err != nil {
			return err
		}
		c.recon[idx] = threshold
		c.lspNew = append(c.lspNew, idx)
		c.lip[i] = sentinelPixel
	}
	c.lip = cleanLIP(c.lip)

	for lvl := len(c.lis) - 1; lvl >= 0; lvl-- {
		sets := c.lis[lvl]
		for i := range sets {
			if sets[i].Garbage {
				continue
			}
			s := sets[i]
			sig := c.setSignificant(s, threshold)
			if err := c.emitBit(sig); err != nil {
				return err
			}
			if !sig {
				continue
			}
			sets[i].Garbage = true
			if err := c.processSetEncode(s, threshold); err != nil {
				return err
			}
		}
	}
	cleanLIS(c.lis)

	return nil
}

// processSetEncode partitions a newly-significant set into up to 8
// octants and codes each: pixels go straight to the LIP or LSP, other
// non-empty subsets are tested for significance and either recursed
// into or parked in the LIS.
func (c *coder) processSetEncode(s Set3D, threshold float64) error {
	for _, ss := range partition(s, true, true, true) {
		if ss.IsPixel() {
			idx := c.idx(ss.X, ss.Y, ss.Z)
			sig := c.coeffs[idx] >= threshold
			if err := c.emitBit(sig); err != nil {
				return err
			}
			if !sig {
				c.lip = append(c.lip, idx)
				continue
			}
			if err := c.emitBit(c.signs[idx]); err != nil {
				return err
			}
			c.recon[idx] = threshold
			c.lspNew = append(c.lspNew, idx)
			continue
		}

		sig := c.setSignificant(ss, threshold)
		if err := c.emitBit(sig); err != nil {
			return err
		}
		if !sig {
			c.lis = ensureLevel(c.lis, ss.PartLevel)
			c.lis[ss.PartLevel] = append(c.lis[ss.PartLevel], ss)
			continue
		}
		if err := c.processSetEncode(ss, threshold); err != nil {
			return err
		}
	}
	return nil
}

// sortingPassDecode mirrors sortingPassEncode bit-for-bit, reading
// instead of testing.
func (c *coder) sortingPassDecode(threshold float64) error {
	for i, idx := range c.lip {
		if idx == sentinelPixel {
			continue
		}
		sig, err := c.readBit()
		if err != nil {
			return err
		}
		if !sig {
			continue
		}
		signBit, err := c.readBit()
		if err != nil {
			return err
		}
		c.signs[idx] = signBit
		// The true coefficient lies in [threshold, 2*threshold); the
		// midpoint is the best estimate until a refinement bit narrows it.
		c.recon[idx] = threshold * 1.5
		c.lspNew = append(c.lspNew, idx)
		c.lip[i] = sentinelPixel
	}
	c.lip = cleanLIP(c.lip)

	for lvl := len(c.lis) - 1; lvl >= 0; lvl-- {
		sets := c.lis[lvl]
		for i := range sets {
			if sets[i].Garbage {
				continue
			}
			s := sets[i]
			sig, err := c.readBit()
			if err != nil {
				return err
			}
			if !sig {
				continue
			}
			sets[i].Garbage = true
			if err := c.processSetDecode(s, threshold); err != nil {
				return err
			}
		}
	}
	cleanLIS(c.lis)

	return nil
}

func (c *coder) processSetDecode(s Set3D, threshold float64) error {
	for _, ss := range partition(s, true, true, true) {
		if ss.IsPixel() {
			idx := c.idx(ss.X, ss.Y, ss.Z)
			sig, err := c.readBit()
			if err != nil {
				return err
			}
			if !sig {
				c.lip = append(c.lip, idx)
				continue
			}
			signBit, err := c.readBit()
			if err != nil {
				return err
			}
			c.signs[idx] = signBit
			c.recon[idx] = threshold * 1.5
			c.lspNew = append(c.lspNew, idx)
			continue
		}

		sig, err := c.readBit()
		if err != nil {
			return err
		}
		if !sig {
			c.lis = ensureLevel(c.lis, ss.PartLevel)
			c.lis[ss.PartLevel] = append(c.lis[ss.PartLevel], ss)
			continue
		}
		if err := c.processSetDecode(ss, threshold); err != nil {
			return err
		}
	}
	return nil
}
