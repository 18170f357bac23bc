package util

import "os"

// containerMarkers are created by docker and podman respectively
var containerMarkers = []string{"/.dockerenv", "/run/.containerenv"}

// IsRunningInContainer reports whether the process runs inside a container,
// the sqlite file then has to live on a mounted volume
func IsRunningInContainer() bool {
	for _, m := range containerMarkers {
		if _, err := os.Stat(m); err == nil {
			return true
		}
	}

	return false
}
