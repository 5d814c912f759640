// Package config holds engine settings: the remote alias token, a default
// author name, and whether output should be colorized. Load and Save read
// and write them as an optional TOML file in a repository's .dvcs
// directory. No other package calls Load: the engine and the CLI use the
// DefaultRemoteAlias constant directly, and Author and Color are not read
// anywhere else.
package config

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/danwg/dvcs/pkg/fsutil"
)

// DefaultRemoteAlias is the literal path token that resolves to
// "<repo-root>/.remote", the peer repository used by diff/merge/push/pull
// when no explicit path is given.
const DefaultRemoteAlias = ".remote"

// FileName is the name of the optional per-repository config file.
const FileName = "config.toml"

// EngineConfig is the set of settings stored in config.toml. repo.Repo
// does not carry one.
type EngineConfig struct {
	RemoteAlias string `toml:"remote_alias"`
	Author      string `toml:"author"`
	Color       bool   `toml:"color"`
}

// onDiskConfig mirrors EngineConfig but uses a pointer for Color so Load
// can tell "absent from the file" apart from "explicitly set to false".
type onDiskConfig struct {
	RemoteAlias string `toml:"remote_alias"`
	Author      string `toml:"author"`
	Color       *bool  `toml:"color"`
}

// Default returns the configuration used when no config file is present.
func Default() EngineConfig {
	return EngineConfig{
		RemoteAlias: DefaultRemoteAlias,
		Author:      "",
		Color:       true,
	}
}

// Load reads "<dvcsDir>/config.toml" if present, overlaying any set
// fields onto Default(). A missing file is not an error.
func Load(dvcsDir string) (EngineConfig, error) {
	cfg := Default()
	path := filepath.Join(dvcsDir, FileName)
	if !fsutil.IsFile(path) {
		return cfg, nil
	}

	var onDisk onDiskConfig
	if _, err := toml.DecodeFile(path, &onDisk); err != nil {
		return EngineConfig{}, fmt.Errorf("load config %s: %w", path, err)
	}
	if onDisk.RemoteAlias != "" {
		cfg.RemoteAlias = onDisk.RemoteAlias
	}
	if onDisk.Author != "" {
		cfg.Author = onDisk.Author
	}
	if onDisk.Color != nil {
		cfg.Color = *onDisk.Color
	}
	return cfg, nil
}

// Save writes cfg to "<dvcsDir>/config.toml".
func Save(dvcsDir string, cfg EngineConfig) error {
	path := filepath.Join(dvcsDir, FileName)
	data, err := tomlMarshal(cfg)
	if err != nil {
		return fmt.Errorf("save config %s: %w", path, err)
	}
	return fsutil.WriteFile(path, data)
}

func tomlMarshal(cfg EngineConfig) ([]byte, error) {
	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(cfg); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
