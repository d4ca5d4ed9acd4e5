package alternative

// User is the subset of the public user record we map into a profile
type User struct {
	Login       string `json:"login"`
	AvatarURL   string `json:"avatar_url"`
	Followers   int64  `json:"followers"`
	PublicRepos int64  `json:"public_repos"`
}

// Scaling applied to the public record so the numbers land in a
// platform-like range.
const (
	FollowersMultiplier = 75
	LikesMultiplier     = 10_000
	ViewsMultiplier     = 500
)
