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
	"strconv"

	"github.com/spf13/cobra"

	"seehuhn.de/go/pdfedit"
	"seehuhn.de/go/pdfedit/pagerange"
)

// NewMergeCommand creates the merge command.
func NewMergeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &outputOptions{}
	cmd := &cobra.Command{
		Use:   "merge <file.pdf> <file.pdf>...",
		Short: "Concatenate PDF files",
		Args:  minArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs := make([][]byte, len(args))
			for i, fname := range args {
				data, err := readInput(cmd, fname)
				if err != nil {
					return err
				}
				docs[i] = data
			}
			return run(cmd, opts, &pdfedit.Request{Kind: pdfedit.KindMerge, Docs: docs})
		},
	}
	addOutputFlags(cmd, opts, "merged.pdf")
	return cmd
}

// NewExtractCommand creates the extract command.
func NewExtractCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &outputOptions{}
	cmd := &cobra.Command{
		Use:   "extract <file.pdf> <pages>",
		Short: "Copy selected pages into a new file",
		Long: `Copy selected pages into a new file.

Pages are given as a comma separated list of page numbers and ranges,
e.g. "1,3,5-7".  The pages appear in the output in the order given.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pages, err := pagerange.Parse(args[1])
			if err != nil {
				return usageError("%v", err)
			}
			if !cmd.Flags().Changed("output") && len(pages) == 1 {
				opts.Output = "page_" + strconv.Itoa(pages[0]) + ".pdf"
			}
			return runSingle(cmd, opts, args[0], &pdfedit.Request{
				Kind:  pdfedit.KindExtract,
				Pages: pages,
			})
		},
	}
	addOutputFlags(cmd, opts, "extracted.pdf")
	return cmd
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &outputOptions{}
	cmd := &cobra.Command{
		Use:   "delete <file.pdf> <pages>",
		Short: "Remove pages from a file",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			pages, err := pagerange.Parse(args[1])
			if err != nil {
				return usageError("%v", err)
			}
			return runSingle(cmd, opts, args[0], &pdfedit.Request{
				Kind:  pdfedit.KindDelete,
				Pages: pages,
			})
		},
	}
	addOutputFlags(cmd, opts, "deleted.pdf")
	return cmd
}

// NewReorderCommand creates the reorder command.
func NewReorderCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &outputOptions{}
	cmd := &cobra.Command{
		Use:   "reorder <file.pdf> <order>",
		Short: "Change the order of pages",
		Long: `Change the order of pages.

The new order lists every page number exactly once, e.g. "3,1,2" moves
the last page of a three-page document to the front.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			order, err := pagerange.ParseOrder(args[1])
			if err != nil {
				return usageError("%v", err)
			}
			return runSingle(cmd, opts, args[0], &pdfedit.Request{
				Kind:  pdfedit.KindReorder,
				Order: order,
			})
		},
	}
	addOutputFlags(cmd, opts, "reordered.pdf")
	return cmd
}

// NewRotateCommand creates the rotate command.
func NewRotateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &outputOptions{}
	cmd := &cobra.Command{
		Use:   "rotate <file.pdf> <page:angle,...>",
		Short: "Rotate pages clockwise",
		Long: `Rotate pages clockwise.

Rotations are given as a comma separated list of page:angle pairs,
e.g. "1:90,3:180".  Valid angles are 90, 180 and 270.`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rot, err := pagerange.ParseRotations(args[1])
			if err != nil {
				return usageError("%v", err)
			}
			return runSingle(cmd, opts, args[0], &pdfedit.Request{
				Kind:      pdfedit.KindRotate,
				Rotations: rot,
			})
		},
	}
	addOutputFlags(cmd, opts, "rotated.pdf")
	return cmd
}

func runSingle(cmd *cobra.Command, opts *outputOptions, fname string, req *pdfedit.Request) error {
	data, err := readInput(cmd, fname)
	if err != nil {
		return err
	}
	req.Docs = [][]byte{data}
	return run(cmd, opts, req)
}

func run(cmd *cobra.Command, opts *outputOptions, req *pdfedit.Request) error {
	out, err := pdfedit.Apply(req, opts.engineOptions())
	if err != nil {
		return opError(req.Kind.String(), err)
	}
	return writeOutput(cmd, opts, out)
}
