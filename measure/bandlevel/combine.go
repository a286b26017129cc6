package bandlevel

import (
	"fmt"

	"github.com/cwbudde/algo-acoustics/dsp/filter/bank"
	"github.com/cwbudde/algo-acoustics/dsp/octave"
	"github.com/cwbudde/algo-acoustics/measure/level"
)

// CombineBands regroups 1/fine-octave results into 1/coarse-octave bands by
// summing band energies, e.g. third-octave into octave bands. fine must be
// an odd multiple of coarse so that every coarse band holds whole fine
// bands. A coarse band is only partially measured when one of its members
// was dropped; it then carries that member's status and the energy of the
// remaining members. Grid options must match those the fine bands came
// from.
func CombineBands(results []BandResult, fine, coarse int, cfg level.Config, opts ...octave.Option) ([]BandResult, error) {
	if fine <= 0 || coarse <= 0 || fine%coarse != 0 || (fine/coarse)%2 == 0 {
		return nil, fmt.Errorf("%w: cannot combine 1/%d into 1/%d octave bands", ErrInvalidConfig, fine, coarse)
	}

	ratio := fine / coarse

	var (
		out   []BandResult
		index = make(map[int]int)
	)

	for _, r := range results {
		if r.Band == nil {
			continue
		}

		if r.Band.Fraction != fine {
			return nil, fmt.Errorf("%w: band %v is not 1/%d octave", ErrInvalidConfig, r.Band, fine)
		}

		m := floorDiv(r.Band.Index+ratio/2, ratio)

		i, ok := index[m]
		if !ok {
			band, err := octave.BandAt(m, coarse, opts...)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
			}

			i = len(out)
			index[m] = i

			out = append(out, BandResult{
				Result: level.Result{Band: &band, Reference: cfg.Reference, Window: r.Window},
				Status: bank.StatusOK,
			})
		}

		c := &out[i]
		if r.Dropped() {
			c.Status, c.Err = r.Status, r.Err

			continue
		}

		c.MeanSquare += r.MeanSquare
	}

	for i := range out {
		c := &out[i]
		c.Result = cfg.NewResult(c.Band, c.MeanSquare, c.Window)
	}

	return out, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}

	return q
}
