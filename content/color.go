package content

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// YAMLColor decodes "#RRGGBB" or "#RRGGBBAA".
type YAMLColor struct {
	color.NRGBA
}

func (c *YAMLColor) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.ScalarNode {
		return fmt.Errorf("color must be a string")
	}
	parsed, err := ParseHex(value.Value)
	if err != nil {
		return err
	}
	c.NRGBA = parsed
	return nil
}

func ParseHex(v string) (color.NRGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(v), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color format: %s", v)
	}

	var out [4]uint8
	out[3] = 255
	for i := 0; i < len(s)/2; i++ {
		n, err := strconv.ParseUint(s[i*2:i*2+2], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid color format: %s", v)
		}
		out[i] = uint8(n)
	}
	return color.NRGBA{R: out[0], G: out[1], B: out[2], A: out[3]}, nil
}
