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

package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the settings of the HTTP server.
type Config struct {
	// Addr is the TCP address to listen on.
	Addr string `yaml:"addr"`

	// MaxFileSize is the maximum size of an uploaded PDF file, in bytes.
	MaxFileSize int64 `yaml:"max_file_size"`

	// MaxFiles is the maximum number of files for a merge request.
	MaxFiles int `yaml:"max_files"`

	// MaxFieldSize is the maximum size of a text field, in bytes.
	MaxFieldSize int64 `yaml:"max_field_size"`

	// MaxExtractPages limits the number of pages of an extract request.
	MaxExtractPages int `yaml:"max_extract_pages"`

	// Workers is the number of operations which may run concurrently.
	Workers int `yaml:"workers"`

	// TempDir and Spool are passed to the operations, see
	// [pdfedit.Options].
	TempDir string `yaml:"temp_dir"`
	Spool   bool   `yaml:"spool"`

	// LogLevel is one of "debug", "info", "warn" and "error".
	LogLevel string `yaml:"log_level"`
}

// DefaultConfig returns the default settings.
func DefaultConfig() *Config {
	return &Config{
		Addr:            ":8080",
		MaxFileSize:     1 << 30,
		MaxFiles:        20,
		MaxFieldSize:    1024,
		MaxExtractPages: 500,
		Workers:         4,
		LogLevel:        "info",
	}
}

// LoadConfig reads a YAML configuration file.  Settings which are not
// present in the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := DefaultConfig()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err = dec.Decode(cfg)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	err = cfg.Validate()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks that all settings are usable.
func (cfg *Config) Validate() error {
	switch {
	case cfg.Addr == "":
		return errors.New("addr must not be empty")
	case cfg.MaxFileSize <= 0:
		return fmt.Errorf("invalid max_file_size %d", cfg.MaxFileSize)
	case cfg.MaxFiles < 2:
		return fmt.Errorf("max_files must be at least 2, got %d", cfg.MaxFiles)
	case cfg.MaxFieldSize <= 0:
		return fmt.Errorf("invalid max_field_size %d", cfg.MaxFieldSize)
	case cfg.MaxExtractPages <= 0:
		return fmt.Errorf("invalid max_extract_pages %d", cfg.MaxExtractPages)
	case cfg.Workers <= 0:
		return fmt.Errorf("invalid number of workers %d", cfg.Workers)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log_level %q", cfg.LogLevel)
	}
	return nil
}
