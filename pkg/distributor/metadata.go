package distributor

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
)

const gameMetadataFilename = "game_metadata.json"

// gameMetadataPath returns <gamesRoot>/<gameName>/game_metadata.json.
func gameMetadataPath(gamesRoot, gameName string) string {
	return filepath.Join(gamesRoot, gameName, gameMetadataFilename)
}

// readGameMetadata loads the installed-version record for a game. A missing
// file is not an error: it returns (nil, nil), meaning "not installed"
// (spec.md §4.6.1 "Status computation").
func readGameMetadata(gamesRoot, gameName string) (*LocalGameMetadata, error) {
	path := gameMetadataPath(gamesRoot, gameName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var meta LocalGameMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// writeGameMetadata persists meta at <gamesRoot>/<gameName>/game_metadata.json,
// creating the game directory if needed.
func writeGameMetadata(gamesRoot, gameName string, meta LocalGameMetadata) error {
	dir := filepath.Join(gamesRoot, gameName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(gameMetadataPath(gamesRoot, gameName), data)
}

const clientMetadataFilename = "client_metadata.json"

// readClientMetadata loads the cached client-software version record. A
// missing file is treated as version "0.0.0" per spec.md §4.6.2.
func readClientMetadata(cacheDir string) (ClientMetadata, error) {
	path := filepath.Join(cacheDir, clientMetadataFilename)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ClientMetadata{Version: "0.0.0"}, nil
		}
		return ClientMetadata{}, err
	}
	var meta ClientMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return ClientMetadata{}, err
	}
	return meta, nil
}

func writeClientMetadata(cacheDir string, meta ClientMetadata) error {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(filepath.Join(cacheDir, clientMetadataFilename), data)
}

// writeFileAtomic writes data to path via a temp file plus rename, so a
// crash mid-write leaves either the old file or the new one, never a
// truncated one (spec.md §9 "a hardened rewrite should write to <path>.tmp
// and rename").
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
