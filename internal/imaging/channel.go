package imaging

import (
	"fmt"
	"image"

	"github.com/anthonynsimon/bild/channel"
)

// Channel names accepted by ExtractChannel.
const (
	ChannelAlpha = "A"
	ChannelRed   = "R"
	ChannelGreen = "G"
	ChannelBlue  = "B"
)

var channelMap = map[string]channel.Channel{
	ChannelAlpha: channel.Alpha,
	ChannelRed:   channel.Red,
	ChannelGreen: channel.Green,
	ChannelBlue:  channel.Blue,
}

// ValidChannel reports whether name is a recognized channel selector.
func ValidChannel(name string) bool {
	_, ok := channelMap[name]
	return ok
}

// ExtractChannel returns the named channel of an image as a
// single-channel grayscale image.
func ExtractChannel(src image.Image, name string) (*image.Gray, error) {
	ch, ok := channelMap[name]
	if !ok {
		return nil, fmt.Errorf("unknown channel %q", name)
	}
	return channel.Extract(src, ch), nil
}
