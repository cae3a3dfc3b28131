package damage

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// UnmarshalYAML decodes a mapping of channel name to value, e.g. {physical: 10, fire: 2}.
func (v *Vector) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]int
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("decoding damage vector: %w", err)
	}
	var out Vector
	for name, n := range raw {
		c, err := ParseChannel(name)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		out[c] = n
	}
	*v = out
	return nil
}

// MarshalYAML encodes only the nonzero channels.
func (v Vector) MarshalYAML() (interface{}, error) {
	out := make(map[string]int)
	for c, n := range v {
		if n != 0 {
			out[channelNames[c]] = n
		}
	}
	return out, nil
}

// UnmarshalYAML decodes a mapping of stat name to value, e.g. {strength: 12}.
func (s *Stats) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]int
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("decoding stats: %w", err)
	}
	var out Stats
	for name, n := range raw {
		st, err := ParseStat(name)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		out[st] = n
	}
	*s = out
	return nil
}

// UnmarshalYAML decodes a nested mapping, e.g. {fire: {intellect: 2}}.
func (sc *Scalars) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]Stats
	if err := node.Decode(&raw); err != nil {
		return fmt.Errorf("decoding damage scalars: %w", err)
	}
	var out Scalars
	for name, st := range raw {
		c, err := ParseChannel(name)
		if err != nil {
			return fmt.Errorf("line %d: %w", node.Line, err)
		}
		out[c] = st
	}
	*sc = out
	return nil
}
