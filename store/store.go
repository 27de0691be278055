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

package store

import (
	"errors"
	"strconv"

	"golang.org/x/exp/slices"
)

// Store is an in-memory PDF document: a collection of indirect objects,
// keyed by their references, together with the trailer information
// needed to serialize the document.
//
// Objects which are stored under a reference may refer to other objects
// in the same store.  References are only meaningful within the store
// which defines them.
type Store struct {
	// Version is the PDF version from the file header.
	Version Version

	// Objects holds the indirect objects of the document.
	// A nil value represents the null object.
	Objects map[Reference]Object

	// MaxNumber is the highest object number which has been used or
	// allocated in this store.
	MaxNumber int

	Trailer Trailer
}

// Trailer holds the document-level entries of the trailer dictionary.
type Trailer struct {
	// Root refers to the document catalog.
	Root Reference

	// Info optionally refers to the document information dictionary.
	Info Reference

	// Size is one greater than the highest object number in the file.
	Size int
}

// New allocates an empty store.
func New(ver Version) *Store {
	return &Store{
		Version: ver,
		Objects: make(map[Reference]Object),
	}
}

// Alloc allocates a fresh object number.  The returned reference
// always has generation 0.
func (s *Store) Alloc() Reference {
	s.MaxNumber++
	return Reference{Number: s.MaxNumber}
}

// Put stores obj under the given reference, replacing any previous object.
func (s *Store) Put(ref Reference, obj Object) {
	s.Objects[ref] = obj
	if ref.Number > s.MaxNumber {
		s.MaxNumber = ref.Number
	}
}

// Get returns the object stored under ref.
func (s *Store) Get(ref Reference) (Object, bool) {
	obj, ok := s.Objects[ref]
	return obj, ok
}

// GetDict returns the dictionary stored under ref.  For streams, the
// stream dictionary is returned.
func (s *Store) GetDict(ref Reference) (Dict, bool) {
	switch obj := s.Objects[ref].(type) {
	case Dict:
		return obj, true
	case *Stream:
		return obj.Dict, true
	}
	return nil, false
}

// maxChain bounds the length of reference chains followed by Resolve.
const maxChain = 32

// Resolve follows references until a direct object is found.
// Dangling references and over-long chains resolve to nil.
func (s *Store) Resolve(obj Object) Object {
	for i := 0; i < maxChain; i++ {
		ref, ok := obj.(Reference)
		if !ok {
			return obj
		}
		obj = s.Objects[ref]
	}
	return nil
}

// Refs returns the references of all objects in the store,
// in increasing order of object number.
func (s *Store) Refs() []Reference {
	refs := make([]Reference, 0, len(s.Objects))
	for ref := range s.Objects {
		refs = append(refs, ref)
	}
	slices.SortFunc(refs, compareRefs)
	return refs
}

// Highest returns the highest object number actually present in the store.
func (s *Store) Highest() int {
	highest := 0
	for ref := range s.Objects {
		if ref.Number > highest {
			highest = ref.Number
		}
	}
	return highest
}

// SetRoot points the trailer at the given catalog and updates the
// trailer /Size entry.
func (s *Store) SetRoot(catalog Reference) {
	s.Trailer.Root = catalog
	s.Trailer.Size = s.MaxNumber + 1
}

// Version represent the version of PDF standard used in a file.
type Version int

// Constants for the known PDF versions.
const (
	_ Version = iota
	V1_0
	V1_1
	V1_2
	V1_3
	V1_4
	V1_5
	V1_6
	V1_7
	V2_0
	tooHighVersion
)

// ParseVersion parses a PDF version string like "1.7".
func ParseVersion(verString string) (Version, error) {
	switch verString {
	case "1.0":
		return V1_0, nil
	case "1.1":
		return V1_1, nil
	case "1.2":
		return V1_2, nil
	case "1.3":
		return V1_3, nil
	case "1.4":
		return V1_4, nil
	case "1.5":
		return V1_5, nil
	case "1.6":
		return V1_6, nil
	case "1.7":
		return V1_7, nil
	case "2.0":
		return V2_0, nil
	}
	return 0, errVersion
}

// ToString returns the string representation of ver, e.g. "1.7".
// If ver does not correspond to a supported PDF version, an error is
// returned.
func (ver Version) ToString() (string, error) {
	switch {
	case ver >= V1_0 && ver <= V1_7:
		return "1." + string([]byte{byte(ver - V1_0 + '0')}), nil
	case ver == V2_0:
		return "2.0", nil
	}
	return "", errVersion
}

func (ver Version) String() string {
	versionString, err := ver.ToString()
	if err != nil {
		versionString = "store.Version(" + strconv.Itoa(int(ver)) + ")"
	}
	return versionString
}

var errVersion = errors.New("unsupported PDF version")
