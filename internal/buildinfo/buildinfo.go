package buildinfo

import "net/http"

// Set at build time with -ldflags "-X".
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// UserAgent returns the User-Agent sent with outbound requests.
func UserAgent() string {
	return "mediaweb/" + Version
}

// AttachUserAgentHeader sets the User-Agent header on req.
func AttachUserAgentHeader(req *http.Request) {
	req.Header.Set("User-Agent", UserAgent())
}
