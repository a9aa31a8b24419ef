// Package version contains the nimbus-cli version.
package version

// Version is the nimbus-cli version.
const Version = "0.4.0"

// UserAgent is the User-Agent header we send.
const UserAgent = "nimbus-cli/" + Version
