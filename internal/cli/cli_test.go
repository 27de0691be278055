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
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"seehuhn.de/go/pdfedit/internal/testpdf"
)

// execute runs the command line tool with the given arguments.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd := NewRootCommand()
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func writeDoc(t *testing.T, dir, name string, l testpdf.Layout) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, testpdf.Encode(t, l), 0o644))
	return path
}

func readLabels(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return testpdf.Labels(t, data)
}

func TestMergeCommand(t *testing.T) {
	dir := t.TempDir()
	a := writeDoc(t, dir, "a.pdf", testpdf.Layout{Name: "A", Pages: 2})
	b := writeDoc(t, dir, "b.pdf", testpdf.Layout{Name: "B", Pages: 2, Compress: true})
	out := filepath.Join(dir, "out.pdf")

	_, err := execute(t, "merge", b, a, "-o", out)
	require.NoError(t, err)
	assert.Equal(t, []string{"B1", "B2", "A1", "A2"}, readLabels(t, out))

	_, err = execute(t, "merge", a)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestEditCommands(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "doc.pdf", testpdf.Layout{Name: "A", Pages: 4, Fanout: 2})

	cases := []struct {
		args     []string
		expected []string
	}{
		{[]string{"extract", doc, "4,1-2"}, []string{"A4", "A1", "A2"}},
		{[]string{"delete", doc, "2-3"}, []string{"A1", "A4"}},
		{[]string{"reorder", doc, "2,1,4,3"}, []string{"A2", "A1", "A4", "A3"}},
		{[]string{"rotate", doc, "1:90,1:90"}, []string{"A1", "A2", "A3", "A4"}},
	}
	for _, c := range cases {
		t.Run(c.args[0], func(t *testing.T) {
			out := filepath.Join(dir, c.args[0]+".pdf")
			_, err := execute(t, append(c.args, "-o", out)...)
			require.NoError(t, err)
			assert.Equal(t, c.expected, readLabels(t, out))
		})
	}

	data, err := os.ReadFile(filepath.Join(dir, "rotate.pdf"))
	require.NoError(t, err)
	_, pages := testpdf.Decode(t, data)
	assert.Equal(t, 180, pages[0].Rotate)
}

func TestDefaultOutputName(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "doc.pdf", testpdf.Layout{Name: "A", Pages: 3})
	t.Chdir(dir)

	_, err := execute(t, "extract", doc, "2")
	require.NoError(t, err)
	assert.Equal(t, []string{"A2"}, readLabels(t, "page_2.pdf"))

	_, err = execute(t, "extract", doc, "2-3")
	require.NoError(t, err)
	assert.Equal(t, []string{"A2", "A3"}, readLabels(t, "extracted.pdf"))
}

func TestOutputExists(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "doc.pdf", testpdf.Layout{Name: "A", Pages: 2})
	out := filepath.Join(dir, "out.pdf")
	require.NoError(t, os.WriteFile(out, []byte("keep me"), 0o644))

	_, err := execute(t, "delete", doc, "1", "-o", out)
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, err.Error(), "already exists")

	_, err = execute(t, "delete", doc, "1", "-o", out, "-f")
	require.NoError(t, err)
	assert.Equal(t, []string{"A2"}, readLabels(t, out))
}

func TestStdout(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "doc.pdf", testpdf.Layout{Name: "A", Pages: 2})

	out, err := execute(t, "reorder", doc, "2,1", "-o", "-")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "%PDF-"))
	assert.Equal(t, []string{"A2", "A1"}, testpdf.Labels(t, []byte(out)))
}

func TestSpoolFlags(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "doc.pdf", testpdf.Layout{Name: "A", Pages: 2})
	tmp := t.TempDir()
	out := filepath.Join(dir, "out.pdf")

	_, err := execute(t, "extract", doc, "2", "-o", out, "--spool", "--temp-dir", tmp)
	require.NoError(t, err)
	assert.Equal(t, []string{"A2"}, readLabels(t, out))

	entries, err := os.ReadDir(tmp)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestErrors(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "doc.pdf", testpdf.Layout{Name: "A", Pages: 2})
	bad := filepath.Join(dir, "bad.pdf")
	require.NoError(t, os.WriteFile(bad, []byte("%PDF-1.4\nnothing here\n"), 0o644))
	out := filepath.Join(dir, "out.pdf")

	cases := []struct {
		args []string
		code int
	}{
		{[]string{"extract", doc}, ExitCommandError},
		{[]string{"extract", doc, "x", "-o", out}, ExitCommandError},
		{[]string{"extract", doc, "3", "-o", out}, ExitCommandError},
		{[]string{"delete", doc, "1-2", "-o", out}, ExitCommandError},
		{[]string{"reorder", doc, "1,1", "-o", out}, ExitCommandError},
		{[]string{"rotate", doc, "1:30", "-o", out}, ExitCommandError},
		{[]string{"extract", filepath.Join(dir, "missing.pdf"), "1", "-o", out}, ExitCommandError},
		{[]string{"extract", bad, "1", "-o", out}, ExitFailure},
		{[]string{"extract", doc, "1", "--no-such-flag"}, ExitCommandError},
		{[]string{"--log-format", "xml", "version"}, ExitCommandError},
	}
	for _, c := range cases {
		_, err := execute(t, c.args...)
		assert.Error(t, err, c.args)
		assert.Equal(t, c.code, GetExitCode(err), c.args)
	}

	_, err := os.Stat(out)
	assert.True(t, os.IsNotExist(err), "output written despite errors")
}

func TestInfo(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "doc.pdf", testpdf.Layout{Name: "A", Pages: 3})
	rotated := filepath.Join(dir, "rotated.pdf")
	_, err := execute(t, "rotate", doc, "3:270,2:90", "-o", rotated)
	require.NoError(t, err)

	out, err := execute(t, "info", rotated)
	require.NoError(t, err)

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "info", []byte(out))
}

func TestInfoJSON(t *testing.T) {
	dir := t.TempDir()
	doc := writeDoc(t, dir, "doc.pdf", testpdf.Layout{Name: "A", Pages: 2})

	out, err := execute(t, "info", "--json", doc)
	require.NoError(t, err)

	var info docInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "1.7", info.Version)
	assert.Equal(t, 2, info.Pages)
	assert.Equal(t, "document A", info.Metadata["title"])
	assert.Empty(t, info.Rotated)
	assert.Zero(t, info.Dangling)
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "pdfedit "))
}

func TestServeConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pdfedit.yaml")
	require.NoError(t, os.WriteFile(path, []byte("workers: 2\naddr: \":9000\"\n"), 0o644))

	parse := func(args ...string) (*cobra.Command, *serveOptions) {
		cmd := &cobra.Command{}
		opts := &serveOptions{}
		addServeFlags(cmd, opts)
		require.NoError(t, cmd.ParseFlags(args))
		return cmd, opts
	}

	cfg, err := serveConfig(parse("--config", path))
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Workers)
	assert.Equal(t, ":9000", cfg.Addr)

	cfg, err = serveConfig(parse("--config", path, "--addr", "127.0.0.1:1234", "--spool"))
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:1234", cfg.Addr)
	assert.Equal(t, 2, cfg.Workers)
	assert.True(t, cfg.Spool)

	cfg, err = serveConfig(parse())
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Addr)

	_, err = serveConfig(parse("--workers", "0"))
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
