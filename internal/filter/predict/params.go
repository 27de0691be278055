// seehuhn.de/go/pdfedit - structural editing of PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package predict undoes the TIFF and PNG predictors which can be combined
// with the FlateDecode and LZWDecode filters.
package predict

import (
	"errors"
	"fmt"
)

const maxColumns = 1 << 20

// Params holds the predictor related entries of a /DecodeParms dictionary.
type Params struct {
	// Colors is the number of color components per pixel.
	Colors int

	// BitsPerComponent is the number of bits used to represent each color
	// component.  Valid values are 1, 2, 4, 8, or 16.
	BitsPerComponent int

	// Columns is the number of samples in each row.
	Columns int

	// Predictor is the prediction algorithm to use.
	// Valid values:
	//   1: No prediction
	//   2: TIFF horizontal differencing
	//  10-15: PNG predictors, the algorithm is chosen per row
	Predictor int
}

// DefaultParams returns the parameter values which apply when
// the corresponding entries are missing from the /DecodeParms dictionary.
func DefaultParams() *Params {
	return &Params{
		Colors:           1,
		BitsPerComponent: 8,
		Columns:          1,
		Predictor:        1,
	}
}

// Validate checks whether the parameters are consistent.
func (p *Params) Validate() error {
	if p.Predictor == 1 {
		return nil
	}

	if p.Colors < 1 || p.Colors > 256 || p.Predictor == 2 && p.Colors > 60 {
		return fmt.Errorf("invalid Colors value %d", p.Colors)
	}

	switch p.BitsPerComponent {
	case 1, 2, 4, 8, 16:
		// pass
	default:
		return fmt.Errorf("BitsPerComponent must be 1, 2, 4, 8, or 16, got %d", p.BitsPerComponent)
	}

	bitsPerPixel := p.Colors * p.BitsPerComponent
	maxCols := min(maxColumns, (1<<31-1)/bitsPerPixel)
	if p.Columns < 1 || p.Columns > maxCols {
		return errors.New("invalid Columns value")
	}

	switch p.Predictor {
	case 2, 10, 11, 12, 13, 14, 15:
		// pass
	default:
		return fmt.Errorf("Predictor must be 1, 2, or 10-15, got %d", p.Predictor)
	}

	return nil
}

func (p *Params) bytesPerRow() int {
	return (p.Colors*p.BitsPerComponent*p.Columns + 7) / 8
}

func (p *Params) bytesPerPixel() int {
	return (p.Colors*p.BitsPerComponent + 7) / 8
}
