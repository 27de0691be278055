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

// Licensify adds the GPL license header to all Go source files below the
// current directory which do not have a license header yet.
//
// With -check, no files are modified.  Instead, the files without a header
// are listed and the exit status is non-zero if there are any.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const headerTemplate = `// seehuhn.de/go/pdfedit - structural editing of PDF files
// Copyright (C) YEAR  Jochen Voss <voss@seehuhn.de>
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

`

// existingHeader matches the first lines of a header, for any year.
var existingHeader = regexp.MustCompile(`^// seehuhn\.de/go/pdfedit - .*\n// Copyright \(C\) \d{4}`)

func header(year int) []byte {
	return []byte(strings.Replace(headerTemplate, "YEAR", strconv.Itoa(year), 1))
}

// skipDir reports whether a directory should not be processed.
func skipDir(name string) bool {
	return name != "." && (strings.HasPrefix(name, "_") ||
		strings.HasPrefix(name, ".") || name == "testdata")
}

func main() {
	check := flag.Bool("check", false, "only list files without license header")
	flag.Parse()

	hdr := header(time.Now().Year())
	var missing []string
	err := filepath.WalkDir(".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if skipDir(d.Name()) {
				return fs.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".go") {
			return nil
		}

		body, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if existingHeader.Match(body) {
			return nil
		}
		missing = append(missing, path)
		if *check {
			return nil
		}
		if !bytes.HasPrefix(body, []byte("package ")) && !bytes.HasPrefix(body, []byte("//")) {
			fmt.Println("ATTENTION " + path)
			return nil
		}

		fmt.Println("updating " + path)
		return os.WriteFile(path, append(bytes.Clone(hdr), body...), 0o644)
	})
	if err != nil {
		log.Fatal(err)
	}

	if *check {
		for _, path := range missing {
			fmt.Println(path)
		}
		if len(missing) > 0 {
			os.Exit(1)
		}
	}
}
