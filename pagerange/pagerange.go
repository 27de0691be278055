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

// Package pagerange parses the textual page selections accepted by the
// command line tool and the web service.
//
// Page lists use the grammar
//
//	LIST  := RANGE ("," RANGE)*
//	RANGE := N | N "-" M
//
// where N and M are positive integers with M >= N.  Rotations are written as
// comma separated "page:angle" pairs, for example "1:90,3:180".
package pagerange

import (
	"errors"
	"strconv"
	"strings"
)

// MaxPage is the largest page number accepted by the parsers.
const MaxPage = 1_000_000

// ErrNoPages is returned when the input selects no pages at all.
var ErrNoPages = errors.New("no pages specified")

// InvalidRangeError is returned for a malformed "N-M" range.
type InvalidRangeError struct {
	Text string
}

func (err *InvalidRangeError) Error() string {
	return "invalid page range " + strconv.Quote(err.Text)
}

// InvalidPageNumberError is returned for a malformed page number.
type InvalidPageNumberError struct {
	Text string
}

func (err *InvalidPageNumberError) Error() string {
	return "invalid page number " + strconv.Quote(err.Text)
}

// InvalidAngleError is returned for a rotation angle other than 90, 180
// or 270.
type InvalidAngleError struct {
	Text string
}

func (err *InvalidAngleError) Error() string {
	return "invalid rotation angle " + strconv.Quote(err.Text) +
		" (allowed values: 90, 180, 270)"
}

// Rotation asks for page Page to be rotated clockwise by Angle degrees.
type Rotation struct {
	Page  int
	Angle int
}

// ValidAngle reports whether angle is one of 90, 180 and 270.
func ValidAngle(angle int) bool {
	return angle == 90 || angle == 180 || angle == 270
}

// Parse parses a page list like "1, 3, 5-7".  The result lists every
// selected page once, in order of first occurrence.
func Parse(text string) ([]int, error) {
	var pages []int
	seen := make(map[int]bool)
	add := func(n int) {
		if !seen[n] {
			seen[n] = true
			pages = append(pages, n)
		}
	}

	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		first, last, isRange := strings.Cut(part, "-")
		if !isRange {
			n, err := parsePage(part)
			if err != nil {
				return nil, &InvalidPageNumberError{Text: part}
			}
			add(n)
			continue
		}

		a, err1 := parsePage(strings.TrimSpace(first))
		b, err2 := parsePage(strings.TrimSpace(last))
		if err1 != nil || err2 != nil || a > b {
			return nil, &InvalidRangeError{Text: part}
		}
		for n := a; n <= b; n++ {
			add(n)
		}
	}

	if len(pages) == 0 {
		return nil, ErrNoPages
	}
	return pages, nil
}

// ParseOrder parses a comma separated list of page numbers, like "3,1,2".
// Ranges are not allowed and duplicates are kept, so that the caller can
// report them.
func ParseOrder(text string) ([]int, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrNoPages
	}

	parts := strings.Split(text, ",")
	order := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		n, err := parsePage(part)
		if err != nil {
			return nil, &InvalidPageNumberError{Text: part}
		}
		order = append(order, n)
	}
	return order, nil
}

// ParseRotations parses a list like "1:90, 3:180".  Empty entries are
// ignored.  If the list is empty, ErrNoPages is returned.
func ParseRotations(text string) ([]Rotation, error) {
	var res []Rotation
	for _, part := range strings.Split(text, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		pageText, angleText, _ := strings.Cut(part, ":")
		page, err := parsePage(strings.TrimSpace(pageText))
		if err != nil {
			return nil, &InvalidPageNumberError{Text: part}
		}
		angleText = strings.TrimSpace(angleText)
		angle, err := strconv.Atoi(angleText)
		if err != nil || !ValidAngle(angle) {
			return nil, &InvalidAngleError{Text: angleText}
		}
		res = append(res, Rotation{Page: page, Angle: angle})
	}

	if len(res) == 0 {
		return nil, ErrNoPages
	}
	return res, nil
}

func parsePage(text string) (int, error) {
	if text == "" || text[0] == '+' {
		return 0, strconv.ErrSyntax
	}
	n, err := strconv.Atoi(text)
	if err != nil {
		return 0, err
	}
	if n < 1 || n > MaxPage {
		return 0, strconv.ErrRange
	}
	return n, nil
}
