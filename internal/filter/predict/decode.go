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

package predict

import (
	"errors"
	"fmt"
)

// Decode reverses the prediction described by p.  An incomplete last row
// is decoded as far as possible.
func Decode(data []byte, p *Params) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	switch {
	case p.Predictor == 1:
		return data, nil
	case p.Predictor == 2:
		return decodeTIFF(data, p)
	default:
		return decodePNG(data, p)
	}
}

func decodeTIFF(data []byte, p *Params) ([]byte, error) {
	if p.BitsPerComponent != 8 {
		return nil, fmt.Errorf("TIFF predictor with %d bits per component not supported",
			p.BitsPerComponent)
	}

	rowSize := p.bytesPerRow()
	res := make([]byte, len(data))
	copy(res, data)
	for start := 0; start < len(res); start += rowSize {
		row := res[start:min(start+rowSize, len(res))]
		for i := p.Colors; i < len(row); i++ {
			row[i] += row[i-p.Colors]
		}
	}
	return res, nil
}

func decodePNG(data []byte, p *Params) ([]byte, error) {
	rowSize := p.bytesPerRow()
	bpp := p.bytesPerPixel()

	prev := make([]byte, rowSize)
	res := make([]byte, 0, len(data)/(rowSize+1)*rowSize)
	for start := 0; start < len(data); start += rowSize + 1 {
		end := min(start+rowSize+1, len(data))
		if end-start < 2 {
			break
		}
		tag := data[start]
		in := data[start+1 : end]
		row := make([]byte, len(in))

		for i, c := range in {
			var left, up, upLeft byte
			if i >= bpp {
				left = row[i-bpp]
				upLeft = prev[i-bpp]
			}
			up = prev[i]

			switch tag {
			case 0:
				row[i] = c
			case 1:
				row[i] = c + left
			case 2:
				row[i] = c + up
			case 3:
				row[i] = c + byte((int(left)+int(up))/2)
			case 4:
				row[i] = c + paeth(left, up, upLeft)
			default:
				return nil, errInvalidTag
			}
		}

		res = append(res, row...)
		copy(prev, row)
	}
	return res, nil
}

// paeth implements the Paeth predictor from the PNG specification.
func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa := abs(p - int(a))
	pb := abs(p - int(b))
	pc := abs(p - int(c))
	if pa <= pb && pa <= pc {
		return a
	} else if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

var errInvalidTag = errors.New("invalid PNG predictor tag")
