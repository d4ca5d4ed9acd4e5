package auth

import (
	"fmt"
	"io"
	"strings"

	"parsifly/pkg/profile"
)

var developerPortals = map[profile.Platform]string{
	profile.TikTok:    "https://developers.tiktok.com",
	profile.Instagram: "https://developers.facebook.com/docs/instagram-platform",
	profile.YouTube:   "https://console.cloud.google.com/apis/library/youtube.googleapis.com",
}

// WriteKeyGuide writes where to obtain an API key for platform and how
// parsifly picks it up
func WriteKeyGuide(w io.Writer, platform profile.Platform) {
	fmt.Fprintln(w, strings.Repeat("=", 60))
	fmt.Fprintf(w, "API KEY FOR %s\n", strings.ToUpper(string(platform)))
	fmt.Fprintln(w, strings.Repeat("=", 60))
	if portal, ok := developerPortals[platform]; ok {
		fmt.Fprintf(w, "  1. Create an app at %s\n", portal)
	}
	fmt.Fprintln(w, "  2. Copy the API key or access token it issues")
	fmt.Fprintln(w, "  3. Paste it below; it is stored in the system keychain")
	fmt.Fprintln(w, "     or an encrypted file, never in plain text")
	fmt.Fprintf(w, "\n  Alternatively export %s\n", EnvVar(platform))
	fmt.Fprintln(w)
}
