package auroraux

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/soypat/aurora"
)

// LoadConfig decodes a JSON configuration over [aurora.DefaultConfig] and validates it.
// Fields absent in the JSON keep their default value.
func LoadConfig(r io.Reader) (aurora.Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return aurora.Config{}, err
	}
	cfg, err := aurora.DefaultConfig().Patch(data)
	if err != nil {
		return aurora.Config{}, fmt.Errorf("decoding config: %w", err)
	}
	err = cfg.Validate()
	if err != nil {
		return aurora.Config{}, err
	}
	return cfg, nil
}

// LoadConfigFile reads a configuration file, see [LoadConfig].
func LoadConfigFile(filename string) (aurora.Config, error) {
	fp, err := os.Open(filename)
	if err != nil {
		return aurora.Config{}, err
	}
	defer fp.Close()
	cfg, err := LoadConfig(fp)
	if err != nil {
		return aurora.Config{}, fmt.Errorf("%s: %w", filename, err)
	}
	return cfg, nil
}

// WriteConfig writes cfg as indented JSON.
func WriteConfig(w io.Writer, cfg aurora.Config) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "\t")
	return enc.Encode(cfg)
}
