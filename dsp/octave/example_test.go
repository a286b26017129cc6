package octave_test

import (
	"fmt"

	"github.com/cwbudde/algo-acoustics/dsp/octave"
)

func ExampleGrid() {
	bands, err := octave.Grid(1, 100, 1000)
	if err != nil {
		panic(err)
	}

	for _, b := range bands {
		fmt.Printf("%6g Hz  %7.2f .. %7.2f\n", b.Nominal, b.Lower, b.Upper)
	}

	// Output:
	//    125 Hz    88.39 ..  176.78
	//    250 Hz   176.78 ..  353.55
	//    500 Hz   353.55 ..  707.11
	//   1000 Hz   707.11 .. 1414.21
}
