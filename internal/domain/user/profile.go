package user

// Profile is the result of a GitHub profile lookup. It is produced fresh on
// every creation request and never persisted on its own.
type Profile struct {
	Name      string // Display name published on the profile
	AvatarURL string // Profile picture URL
	Email     string // Public email address; empty when the account publishes none
}
