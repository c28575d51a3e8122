// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
)

// 🔌 Parser is the interface for config parsers
type Parser interface {
	// 📝 Parse parses the config from bytes; filename is used in diagnostics
	Parse(ctx context.Context, filename string, data []byte) (*Config, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// LoadConfig loads a configuration file from the given path.
// The format is determined by the file extension:
// - .json for JSON
// - .yaml or .yml for YAML
// - .hcl for HCL
// - .rewriterc will try YAML first, then HCL
func LoadConfig(ctx context.Context, path string) (*Config, error) {
	zerolog.Ctx(ctx).Debug().Str("path", path).Msg("loading configuration")

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading config file: %w", err)
	}

	cfg, err := Parse(ctx, path, data)
	if err != nil {
		return nil, err
	}
	cfg.location = path
	return cfg, nil
}

// Parse parses and validates config data, picking the format from filename
func Parse(ctx context.Context, filename string, data []byte) (*Config, error) {
	var cfg *Config
	var err error

	if filepath.Base(filename) == ".rewriterc" || filepath.Ext(filename) == ".rewriterc" {
		cfg, err = (&YAMLParser{}).Parse(ctx, filename, data)
		if err != nil {
			zerolog.Ctx(ctx).Debug().Err(err).Msg("not yaml, trying hcl")
			cfg, err = (&HCLParser{}).Parse(ctx, filename, data)
			if err != nil {
				return nil, errors.Errorf("failed to parse %s as YAML or HCL: %w", filename, err)
			}
		}
	} else {
		p := GetParser(filename)
		if p == nil {
			return nil, errors.Errorf("unsupported file extension %q", filepath.Ext(filename))
		}
		cfg, err = p.Parse(ctx, filename, data)
		if err != nil {
			return nil, err
		}
	}

	if err := Validate(ctx, cfg); err != nil {
		return nil, errors.Errorf("validating config: %w", err)
	}
	return cfg, nil
}
