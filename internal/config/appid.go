package config

const (
	// AppID is the fixed identifier used for config and state paths.
	// Even if the app display name changes, keep this value to
	// maintain compatibility with existing user data.
	AppID = "peek"
)
