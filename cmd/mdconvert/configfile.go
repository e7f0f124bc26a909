package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jmault/go-mdconvert/internal/config"
	"github.com/jmault/go-mdconvert/internal/fileutil"
	"github.com/jmault/go-mdconvert/internal/yamlutil"
)

// Sentinel errors for config file loading.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config file")
)

// configExtensions are tried in order when resolving a bare config name.
var configExtensions = []string{".yaml", ".yml", ".toml", ".json"}

// loadConfigFile loads a configuration layer from a file path or config
// name. If nameOrPath contains a path separator, it's treated as a file
// path. Otherwise, it's treated as a config name and searched in the
// current directory and the user config directory.
// Returns error if the file is not found (no silent fallback).
func loadConfigFile(nameOrPath string) (config.Layer, error) {
	var configPath string
	var err error

	if fileutil.IsFilePath(nameOrPath) {
		configPath = nameOrPath
	} else {
		configPath, err = resolveConfigPath(nameOrPath)
		if err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	layer, err := parseConfigData(data, filepath.Ext(configPath))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, configPath, err)
	}
	return layer, nil
}

// parseConfigData decodes config file contents by extension.
func parseConfigData(data []byte, ext string) (config.Layer, error) {
	layer := config.Layer{}
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal(data, &layer); err != nil {
			return nil, err
		}
	case ".json":
		if err := json.Unmarshal(data, &layer); err != nil {
			return nil, err
		}
	default: // yaml
		if err := yamlutil.Unmarshal(data, &layer); err != nil {
			return nil, err
		}
	}
	return layer, nil
}

// resolveConfigPath searches for a config file by name in standard locations.
// Tries extensions in order: .yaml, .yml, .toml, .json
// Tries locations in order: current directory, ~/.config/mdconvert/
func resolveConfigPath(name string) (string, error) {
	triedPaths := make([]string, 0, len(configExtensions)*2) // 2 locations

	// Try current directory first (all extensions)
	for _, ext := range configExtensions {
		localPath := name + ext
		if fileutil.FileExists(localPath) {
			return localPath, nil
		}
		triedPaths = append(triedPaths, localPath)
	}

	// Try user config directory (all extensions)
	userConfigDir, err := os.UserConfigDir()
	if err == nil {
		for _, ext := range configExtensions {
			userPath := filepath.Join(userConfigDir, "mdconvert", name+ext)
			if fileutil.FileExists(userPath) {
				return userPath, nil
			}
			triedPaths = append(triedPaths, userPath)
		}
	}

	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(triedPaths, ", "))
}
