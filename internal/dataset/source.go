package dataset

import (
	"strings"

	"spend-insights-go/internal/types"
)

// Source is the channel/platform identity of one export file.
type Source struct {
	Channel  types.Channel
	Platform types.Platform
}

// DetectSource reads the identity from the filename alone. Exports are named
// by convention ("... Meta_SL-web_.csv", "... Google_SL-app.csv"); the file
// content is never consulted.
func DetectSource(filename string) Source {
	name := strings.ToLower(filename)
	src := Source{Channel: types.ChannelGoogle, Platform: types.PlatformApp}
	if strings.Contains(name, "meta") {
		src.Channel = types.ChannelMeta
	}
	if strings.Contains(name, "web") {
		src.Platform = types.PlatformWeb
	}
	return src
}

func (s Source) String() string {
	return string(s.Channel) + "/" + string(s.Platform)
}
