package sharedptr_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/sharedptr"
)

func withTracking(t *testing.T, o sharedptr.Options) *bytes.Buffer {
	t.Helper()

	prev := sharedptr.CurrentOptions()
	var buf bytes.Buffer
	o.Logger = slog.New(slog.NewTextHandler(&buf, nil))
	sharedptr.Configure(o)
	sharedptr.ResetTracking()

	t.Cleanup(func() {
		sharedptr.Configure(prev)
		sharedptr.ResetTracking()
	})
	return &buf
}

func TestLeakReport(t *testing.T) {
	withTracking(t, sharedptr.Options{TrackLeaks: true})

	kept := sharedptr.NewRc("kept")
	gone := sharedptr.NewArc(7)
	gone.Drop()

	live := sharedptr.LiveCells()
	require.Len(t, live, 1)
	assert.Equal(t, "RcK", live[0].Kind)
	assert.Equal(t, "string", live[0].Type)

	var buf bytes.Buffer
	n := sharedptr.WriteLeakReport(&buf)
	assert.Equal(t, 1, n)
	assert.Contains(t, buf.String(), "WARNING: LEAKED SHARED POINTER")
	assert.Contains(t, buf.String(), "RcK[string]")
	assert.Contains(t, buf.String(), "TestLeakReport")

	st := sharedptr.Stats()
	assert.Equal(t, uint64(2), st.Allocated)
	assert.Equal(t, uint64(1), st.Released)
	assert.Equal(t, 1, st.Live)

	kept.Drop()
	buf.Reset()
	assert.Zero(t, sharedptr.WriteLeakReport(&buf))
	assert.Empty(t, buf.String())
}

func TestLeakReportTryUnwrap(t *testing.T) {
	withTracking(t, sharedptr.Options{TrackLeaks: true})

	p := sharedptr.NewArcT(1)
	_, ok := p.TryUnwrap()
	require.True(t, ok)

	assert.Empty(t, sharedptr.LiveCells())
}

func TestLeakReportMakeMut(t *testing.T) {
	withTracking(t, sharedptr.Options{TrackLeaks: true})

	p := sharedptr.NewArc(1)
	q := p.Clone()
	*q.MakeMut() = 2
	assert.Len(t, sharedptr.LiveCells(), 2)

	p.Drop()
	q.Drop()
	assert.Empty(t, sharedptr.LiveCells())
}

func TestOwnerViolationLogged(t *testing.T) {
	logs := withTracking(t, sharedptr.Options{CheckOwner: true})

	p := sharedptr.NewRc(1)
	defer p.Drop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = p.StrongCount()
	}()
	<-done

	assert.Equal(t, uint64(1), sharedptr.Stats().Violations)
	out := logs.String()
	assert.Contains(t, out, "non-atomic pointer used across goroutines")
	assert.Contains(t, out, "op=StrongCount")
	assert.Contains(t, out, "kind=RcK")
}

func TestOwnerViolationPanics(t *testing.T) {
	withTracking(t, sharedptr.Options{CheckOwner: true, PanicOnViolation: true})

	p := sharedptr.NewRc([]int{1})
	defer p.Drop()

	got := make(chan any, 1)
	go func() {
		got <- catch(func() { p.Deref() })
	}()

	err, ok := (<-got).(*sharedptr.OwnerError)
	require.True(t, ok)
	assert.Equal(t, "Deref", err.Op)
	assert.True(t, strings.HasPrefix(err.Error(), "sharedptr: Deref on RcK[[]int]"))
}

func TestUntrackedBeforeConfigure(t *testing.T) {
	p := sharedptr.NewRc(1)
	defer p.Drop()

	withTracking(t, sharedptr.Options{CheckOwner: true, PanicOnViolation: true})

	got := make(chan any, 1)
	go func() {
		got <- catch(func() { p.Deref() })
	}()
	assert.Nil(t, <-got)
}

func TestGetInfo(t *testing.T) {
	info := sharedptr.GetInfo()

	assert.Equal(t, sharedptr.Version, info.Version)
	assert.Equal(t, []string{"RcK", "ArcK", "ArcTK"}, info.Kinds)
	assert.Equal(t, sharedptr.MinGoVersion, info.MinGo)
}
