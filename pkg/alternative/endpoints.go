package alternative

import (
	"net/url"
	"strings"
)

// DefaultBaseURL is the public user API used when none is configured
const DefaultBaseURL = "https://api.github.com"

// UsersEndpoint is the path prefix of the user lookup
const UsersEndpoint = "/users/"

// UserURL builds the lookup URL for username under baseURL
func UserURL(baseURL, username string) string {
	return strings.TrimRight(baseURL, "/") + UsersEndpoint + url.PathEscape(username)
}
