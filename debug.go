package sharedptr

import (
	"io"
	"log/slog"
	"os"

	"github.com/kolkov/sharedptr/internal/track"
)

// EnvDebug names the environment variable read at init to configure
// debug tracking, e.g. SHAREDPTR_DEBUG=owner,leaks,panic.
const EnvDebug = "SHAREDPTR_DEBUG"

// Options configures debug tracking. The zero value disables it.
//
// Tracking slows every allocation and every RcK operation. It is meant
// for tests and debugging sessions, not production.
//
//   - CheckOwner: RcK pointers remember the goroutine that allocated them;
//     use from any other goroutine is a violation, logged at Error level.
//   - TrackLeaks: every allocation is recorded with its stack until the
//     final Drop. See LiveCells and WriteLeakReport.
//   - PanicOnViolation: violations panic instead of only logging.
//   - Logger: destination for violations; nil keeps the current logger.
//
// Pointers allocated before tracking was enabled are never tracked.
type Options = track.Options

// Record describes a live tracked allocation.
type Record = track.Record

// Statistics holds tracking counters.
type Statistics = track.Stats

// OwnerError is the panic value of an owner violation when
// PanicOnViolation is set.
type OwnerError = track.OwnerError

func init() {
	if v := os.Getenv(EnvDebug); v != "" {
		track.Configure(track.ParseEnv(v))
	}
}

// ParseDebug parses a SHAREDPTR_DEBUG style list: comma separated words
// among owner, leaks, panic and all (owner and leaks). Unknown words are
// ignored.
func ParseDebug(s string) Options {
	return track.ParseEnv(s)
}

// Configure replaces the debug tracking options.
func Configure(o Options) {
	track.Configure(o)
}

// CurrentOptions returns the active debug tracking options.
func CurrentOptions() Options {
	return track.Current()
}

// SetLogger installs the logger used for owner violations, allocations
// collected without a final Drop and release-hook failures. nil restores
// the default, which discards everything.
func SetLogger(l *slog.Logger) {
	track.SetLogger(l)
}

// LiveCells returns the tracked allocations that have not been released,
// oldest first. Empty unless TrackLeaks or CheckOwner is on.
func LiveCells() []Record {
	return track.Live()
}

// WriteLeakReport writes one report block per live tracked allocation,
// with its allocation stack when TrackLeaks is on. It returns the number
// of leaks reported.
//
// Example:
//
//	func TestMain(m *testing.M) {
//		sharedptr.Configure(sharedptr.Options{TrackLeaks: true})
//		code := m.Run()
//		if sharedptr.WriteLeakReport(os.Stderr) > 0 && code == 0 {
//			code = 1
//		}
//		os.Exit(code)
//	}
func WriteLeakReport(w io.Writer) int {
	r := track.NewLeakReport()
	if r.Len() == 0 {
		return 0
	}
	r.Format(w)
	return r.Len()
}

// Stats returns the tracking counters.
func Stats() Statistics {
	return track.Snapshot()
}

// ResetTracking forgets every tracked allocation and zeroes the counters.
func ResetTracking() {
	track.Reset()
}
