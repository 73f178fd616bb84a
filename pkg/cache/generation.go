package cache

// Version is the cache generation version token. Bump it whenever a shell
// asset changes to force a full refresh on the next activation.
const Version = "v3"

const (
	staticPrefix  = "webedge-static-"
	runtimePrefix = "webedge-runtime-"
)

// StaticGeneration returns the name of the current static generation,
// holding the precached shell assets.
func StaticGeneration() string {
	return staticPrefix + Version
}

// RuntimeGeneration returns the name of the current runtime generation,
// holding responses cached while browsing.
func RuntimeGeneration() string {
	return runtimePrefix + Version
}

// IsCurrent reports whether a generation name belongs to the live version.
// Generations that are not current are purged on activation.
func IsCurrent(name string) bool {
	return name == StaticGeneration() || name == RuntimeGeneration()
}
