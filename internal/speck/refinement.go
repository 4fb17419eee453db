package speck

// refinementPassEncode emits one bit per List of Significant Pixels
// entry carried over from earlier iterations, narrowing its
// reconstruction estimate by one bitplane.
func (c *coder) refinementPassEncode(threshold float64) error {
	for _, idx := range c.lspOld {
		bit := c.coeffs[idx]-c.recon[idx] >= threshold
		if err := c.emitBit(bit); err != nil {
			return err
		}
		if bit {
			c.recon[idx] += threshold
		}
	}
	return nil
}

// refinementPassDecode mirrors refinementPassEncode's bit sequence, but
// reconstructs a bin midpoint rather than a lower bound: c.recon[idx]
// already holds the midpoint of its current uncertainty interval (set
// to 1.5*threshold when the pixel first became significant), and each
// refinement bit halves that interval by nudging the estimate up or
// down by half of this bitplane's threshold.
func (c *coder) refinementPassDecode(threshold float64) error {
	half := threshold / 2
	for _, idx := range c.lspOld {
		bit, err := c.readBit()
		if err != nil {
			return err
		}
		if bit {
			c.recon[idx] += half
		} else {
			c.recon[idx] -= half
		}
	}
	return nil
}
