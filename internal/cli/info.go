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

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"seehuhn.de/go/pdfedit/codec"
	"seehuhn.de/go/pdfedit/pagetree"
	"seehuhn.de/go/pdfedit/store"
	"seehuhn.de/go/pdfedit/walker"
)

// docInfo summarizes the structure of a PDF file.
type docInfo struct {
	Version     string            `json:"version"`
	Objects     int               `json:"objects"`
	Pages       int               `json:"pages"`
	Metadata    map[string]string `json:"metadata,omitempty"`
	Rotated     []rotatedPage     `json:"rotated,omitempty"`
	Unreachable int               `json:"unreachable"`
	Dangling    int               `json:"dangling"`
}

type rotatedPage struct {
	Page   int `json:"page"`
	Rotate int `json:"rotate"`
}

var errNoPageTree = errors.New("page tree root not found")

// metadataKeys lists the entries of the document information dictionary
// which are shown, in order.
var metadataKeys = []store.Name{"Title", "Author", "Subject", "Keywords", "Creator", "Producer"}

// NewInfoCommand creates the info command.
func NewInfoCommand(rootOpts *RootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "info <file.pdf>",
		Short: "Show the structure of a PDF file",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			info, err := describe(data)
			if err != nil {
				return &ExitError{Code: ExitFailure, Message: args[0], Err: err}
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			return info.writeText(cmd.OutOrStdout())
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "write the result as JSON")
	return cmd
}

func describe(data []byte) (*docInfo, error) {
	st, err := codec.Decode(data)
	if err != nil {
		return nil, err
	}

	info := &docInfo{
		Version:     st.Version.String(),
		Objects:     len(st.Objects),
		Unreachable: len(walker.Unreachable(st)),
		Dangling:    len(walker.Dangling(st)),
	}

	if dict, ok := st.GetDict(st.Trailer.Info); ok {
		for _, key := range metadataKeys {
			s, ok := st.Resolve(dict[key]).(store.String)
			if !ok {
				continue
			}
			if info.Metadata == nil {
				info.Metadata = make(map[string]string)
			}
			info.Metadata[strings.ToLower(string(key))] = s.Text()
		}
	}

	root, ok := pagetree.FindRoot(st)
	if !ok {
		return nil, errNoPageTree
	}
	pages, err := pagetree.Pages(st, root)
	if err != nil {
		return nil, err
	}
	info.Pages = len(pages)
	for i, ref := range pages {
		dict, _ := st.GetDict(ref)
		rotate, _ := st.Resolve(dict["Rotate"]).(store.Integer)
		if rotate != 0 {
			info.Rotated = append(info.Rotated, rotatedPage{Page: i + 1, Rotate: int(rotate)})
		}
	}
	return info, nil
}

func (info *docInfo) writeText(w io.Writer) error {
	line := func(key, value string) {
		fmt.Fprintf(w, "%-13s %s\n", key+":", value)
	}

	line("version", info.Version)
	line("objects", strconv.Itoa(info.Objects))
	line("pages", strconv.Itoa(info.Pages))
	for _, key := range metadataKeys {
		name := strings.ToLower(string(key))
		if val, ok := info.Metadata[name]; ok {
			line(name, val)
		}
	}
	if len(info.Rotated) == 0 {
		line("rotated", "none")
	} else {
		parts := make([]string, len(info.Rotated))
		for i, r := range info.Rotated {
			parts[i] = strconv.Itoa(r.Page) + ":" + strconv.Itoa(r.Rotate)
		}
		line("rotated", strings.Join(parts, ", "))
	}
	line("unreachable", strconv.Itoa(info.Unreachable))
	line("dangling", strconv.Itoa(info.Dangling))
	return nil
}
