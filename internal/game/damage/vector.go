// Package damage implements the six-channel damage vector and the pure arithmetic used
// to scale, combine and mitigate it.
package damage

import "fmt"

// Channel names one damage type.
type Channel int

const (
	Physical Channel = iota
	Fire
	Frost
	Lightning
	Shadow
	Light
)

// NumChannels is the fixed width of a Vector.
const NumChannels = 6

var channelNames = [NumChannels]string{"physical", "fire", "frost", "lightning", "shadow", "light"}

// String returns the lower-case channel name used in content files.
func (c Channel) String() string {
	if c < 0 || int(c) >= NumChannels {
		return fmt.Sprintf("channel(%d)", int(c))
	}
	return channelNames[c]
}

// ParseChannel maps a content-file channel name to a Channel.
//
// Postcondition: Returns an error iff name is not one of the six channel names.
func ParseChannel(name string) (Channel, error) {
	for i, n := range channelNames {
		if n == name {
			return Channel(i), nil
		}
	}
	return 0, fmt.Errorf("unknown damage channel %q", name)
}

// Channels returns every channel in index order.
func Channels() []Channel {
	out := make([]Channel, NumChannels)
	for i := range out {
		out[i] = Channel(i)
	}
	return out
}

// Vector holds one integer per damage channel.
// It is used for damage payloads as well as for flat and percentage bonuses and armor.
type Vector [NumChannels]int

// Get returns the value for channel c.
func (v Vector) Get(c Channel) int { return v[c] }

// With returns a copy of v with channel c set to n.
func (v Vector) With(c Channel, n int) Vector {
	v[c] = n
	return v
}

// Add returns v + o channel by channel.
func (v Vector) Add(o Vector) Vector {
	for i := range v {
		v[i] += o[i]
	}
	return v
}

// Sub returns v - o channel by channel.
func (v Vector) Sub(o Vector) Vector {
	for i := range v {
		v[i] -= o[i]
	}
	return v
}

// Scale returns v with every channel multiplied by n.
func (v Vector) Scale(n int) Vector {
	for i := range v {
		v[i] *= n
	}
	return v
}

// ScalePercent returns v with every channel multiplied by pct/100 using integer division.
func (v Vector) ScalePercent(pct int) Vector {
	for i := range v {
		v[i] = v[i] * pct / 100
	}
	return v
}

// IsZero reports whether every channel is zero.
func (v Vector) IsZero() bool {
	return v == Vector{}
}

// Total returns the sum over all channels.
func (v Vector) Total() int {
	total := 0
	for _, n := range v {
		total += n
	}
	return total
}
