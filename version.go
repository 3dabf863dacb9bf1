package sharedptr

import "github.com/kolkov/sharedptr/kind"

// Version information for sharedptr.
const (
	// Version is the current library version.
	Version = "0.3.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 3

	// VersionPatch is the patch version number.
	VersionPatch = 0

	// MinGoVersion is the oldest Go release the library builds with
	// (generic type aliases, runtime.AddCleanup, maphash.Comparable).
	MinGoVersion = "1.24"
)

// Info provides build and runtime information about the library.
type Info struct {
	// Version is the library version string.
	Version string

	// MinGo is the minimum supported Go version.
	MinGo string

	// Kinds lists the built-in pointer kinds.
	Kinds []string

	// Tracking reports whether debug tracking is active.
	Tracking bool
}

// GetInfo returns information about the library.
//
// Example:
//
//	info := sharedptr.GetInfo()
//	fmt.Printf("sharedptr %s (kinds: %v)\n", info.Version, info.Kinds)
func GetInfo() Info {
	o := CurrentOptions()
	return Info{
		Version:  Version,
		MinGo:    MinGoVersion,
		Kinds:    []string{kind.Name[RcK](), kind.Name[ArcK](), kind.Name[ArcTK]()},
		Tracking: o.CheckOwner || o.TrackLeaks,
	}
}
