package storage

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// Codec serializes stored records.
type Codec struct {
	Name      string
	Extension string
	Marshal   func(v any) ([]byte, error)
	Unmarshal func(data []byte, v any) error
}

var (
	CodecJSON = Codec{
		Name:      "json",
		Extension: ".json",
		Marshal: func(v any) ([]byte, error) {
			return sonic.ConfigStd.MarshalIndent(v, "", "  ")
		},
		Unmarshal: sonic.ConfigStd.Unmarshal,
	}
	CodecYAML = Codec{
		Name:      "yaml",
		Extension: ".yaml",
		Marshal:   yaml.Marshal,
		Unmarshal: func(data []byte, v any) error {
			return yaml.Unmarshal(data, v)
		},
	}
	CodecTOML = Codec{
		Name:      "toml",
		Extension: ".toml",
		Marshal:   toml.Marshal,
		Unmarshal: toml.Unmarshal,
	}
)

// ParseCodec returns the codec named s.
func ParseCodec(s string) (Codec, error) {
	switch strings.ToLower(s) {
	case "", "json":
		return CodecJSON, nil
	case "yaml", "yml":
		return CodecYAML, nil
	case "toml":
		return CodecTOML, nil
	}
	return Codec{}, fmt.Errorf("unknown output format %q", s)
}
