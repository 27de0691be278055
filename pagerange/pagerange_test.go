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

package pagerange

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse(t *testing.T) {
	cases := []struct {
		in  string
		out []int
	}{
		{"1", []int{1}},
		{"1, 3, 5-7, 10", []int{1, 3, 5, 6, 7, 10}},
		{"3,1", []int{3, 1}},
		{"2-4,3,1-2", []int{2, 3, 4, 1}},
		{" 5 - 5 ", []int{5}},
		{"1,,2,", []int{1, 2}},
	}
	for _, test := range cases {
		got, err := Parse(test.in)
		if err != nil {
			t.Errorf("%q: %v", test.in, err)
			continue
		}
		if d := cmp.Diff(test.out, got); d != "" {
			t.Errorf("%q (-want +got):\n%s", test.in, d)
		}
	}
}

func TestParseErrors(t *testing.T) {
	var rangeErr *InvalidRangeError
	var numErr *InvalidPageNumberError

	for _, in := range []string{"", " ", ",", " , "} {
		_, err := Parse(in)
		if !errors.Is(err, ErrNoPages) {
			t.Errorf("%q: expected ErrNoPages, got %v", in, err)
		}
	}
	for _, in := range []string{"5-3", "a-3", "1-", "-2", "0-2", "1-2-3"} {
		_, err := Parse(in)
		if !errors.As(err, &rangeErr) {
			t.Errorf("%q: expected InvalidRangeError, got %v", in, err)
		}
	}
	for _, in := range []string{"x", "0", "1.5", "+1", "1,two", "99999999999"} {
		_, err := Parse(in)
		if !errors.As(err, &numErr) {
			t.Errorf("%q: expected InvalidPageNumberError, got %v", in, err)
		}
	}
	_, err := Parse("1,z")
	if !errors.As(err, &numErr) || numErr.Text != "z" {
		t.Errorf("wrong error text: %v", err)
	}
}

func TestParseOrder(t *testing.T) {
	got, err := ParseOrder(" 3, 1 ,2")
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]int{3, 1, 2}, got); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}

	got, err = ParseOrder("2,2")
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]int{2, 2}, got); d != "" {
		t.Errorf("duplicates must be kept (-want +got):\n%s", d)
	}

	var numErr *InvalidPageNumberError
	for _, in := range []string{"1,,2", "1-3", "a"} {
		_, err = ParseOrder(in)
		if !errors.As(err, &numErr) {
			t.Errorf("%q: expected InvalidPageNumberError, got %v", in, err)
		}
	}
	_, err = ParseOrder("  ")
	if !errors.Is(err, ErrNoPages) {
		t.Errorf("expected ErrNoPages, got %v", err)
	}
}

func TestParseRotations(t *testing.T) {
	got, err := ParseRotations("1:90, 3 : 180,,5:270")
	if err != nil {
		t.Fatal(err)
	}
	expected := []Rotation{{1, 90}, {3, 180}, {5, 270}}
	if d := cmp.Diff(expected, got); d != "" {
		t.Errorf("(-want +got):\n%s", d)
	}

	var angleErr *InvalidAngleError
	for _, in := range []string{"1:45", "1:0", "1:360", "1:-90", "1", "1:x"} {
		_, err := ParseRotations(in)
		if !errors.As(err, &angleErr) {
			t.Errorf("%q: expected InvalidAngleError, got %v", in, err)
		}
	}
	var numErr *InvalidPageNumberError
	for _, in := range []string{"0:90", "a:90", ":90"} {
		_, err := ParseRotations(in)
		if !errors.As(err, &numErr) {
			t.Errorf("%q: expected InvalidPageNumberError, got %v", in, err)
		}
	}
	_, err = ParseRotations(" , ")
	if !errors.Is(err, ErrNoPages) {
		t.Errorf("expected ErrNoPages, got %v", err)
	}
}

func FuzzParse(f *testing.F) {
	f.Add("1, 3, 5-7")
	f.Add("2-2,1")
	f.Add(" , 4 ")
	f.Add("3-1")

	f.Fuzz(func(t *testing.T, text string) {
		pages, err := Parse(text)
		if err != nil {
			return
		}
		if len(pages) == 0 {
			t.Fatal("no pages and no error")
		}
		seen := make(map[int]bool)
		for _, n := range pages {
			if n < 1 || n > MaxPage {
				t.Errorf("page %d out of range", n)
			}
			if seen[n] {
				t.Errorf("page %d listed twice", n)
			}
			seen[n] = true
		}
	})
}
