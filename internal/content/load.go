package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"travella/internal/model"
	"travella/internal/nlp"
)

// File names inside the data directory
const (
	GazetteerFile    = "cities_nepal.txt"
	TablesFile       = "content.yaml"
	DestinationsFile = "destinations.yaml"
)

// Load reads a full snapshot from dir. The gazetteer and content tables are
// required; the destinations file is optional.
func Load(dir, defaultCity string) (*Snapshot, error) {
	f, err := os.Open(filepath.Join(dir, GazetteerFile))
	if err != nil {
		return nil, fmt.Errorf("failed to open gazetteer: %w", err)
	}
	defer f.Close()

	g, err := nlp.LoadGazetteer(f)
	if err != nil {
		return nil, err
	}

	var tables Tables
	if err := readYAML(filepath.Join(dir, TablesFile), &tables); err != nil {
		return nil, err
	}

	details := map[string]model.CityDetail{}
	err = readYAML(filepath.Join(dir, DestinationsFile), &details)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	return NewSnapshot(g, tables, details, defaultCity), nil
}

func readYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
