// Copyright 2025 The sharedptr Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package modcheck

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCheckData(t *testing.T) {
	tests := []struct {
		name     string
		gomod    string
		wantOK   bool
		wantGo   string
		wantReq  string
		problems int
	}{
		{
			name:    "compatible",
			gomod:   "module example.com/app\n\ngo 1.24.0\n\nrequire github.com/kolkov/sharedptr v0.3.0\n",
			wantOK:  true,
			wantGo:  "1.24.0",
			wantReq: "v0.3.0",
		},
		{
			name:     "old go",
			gomod:    "module example.com/app\n\ngo 1.21\n\nrequire github.com/kolkov/sharedptr v0.3.0\n",
			wantGo:   "1.21",
			wantReq:  "v0.3.0",
			problems: 1,
		},
		{
			name:     "not required",
			gomod:    "module example.com/app\n\ngo 1.25\n",
			wantGo:   "1.25",
			problems: 1,
		},
		{
			name:     "no go directive",
			gomod:    "module example.com/app\n\nrequire github.com/kolkov/sharedptr v0.2.0\n",
			wantReq:  "v0.2.0",
			problems: 1,
		},
		{
			name:   "the library itself",
			gomod:  "module github.com/kolkov/sharedptr\n\ngo 1.24.0\n",
			wantOK: true,
			wantGo: "1.24.0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := CheckData("/work/go.mod", []byte(tt.gomod), "1.24")
			if err != nil {
				t.Fatalf("CheckData() error = %v", err)
			}
			if r.OK() != tt.wantOK {
				t.Errorf("OK() = %v, want %v (problems %v)", r.OK(), tt.wantOK, r.Problems)
			}
			if r.Go != tt.wantGo {
				t.Errorf("Go = %q, want %q", r.Go, tt.wantGo)
			}
			if r.Required != tt.wantReq {
				t.Errorf("Required = %q, want %q", r.Required, tt.wantReq)
			}
			if len(r.Problems) != tt.problems {
				t.Errorf("len(Problems) = %d, want %d: %v", len(r.Problems), tt.problems, r.Problems)
			}
		})
	}
}

func TestCheckDataReplace(t *testing.T) {
	gomod := `module example.com/app

go 1.24

require (
	github.com/kolkov/sharedptr v0.3.0 // indirect
	golang.org/x/mod v0.30.0
)

replace github.com/kolkov/sharedptr => ../sharedptr

replace github.com/kolkov/sharedptr v0.2.0 => github.com/fork/sharedptr v0.2.1

replace golang.org/x/mod => ./mod
`
	dir := t.TempDir()
	path := filepath.Join(dir, "go.mod")

	r, err := CheckData(path, []byte(gomod), "1.24")
	if err != nil {
		t.Fatalf("CheckData() error = %v", err)
	}
	if !r.Indirect {
		t.Error("Indirect = false, want true")
	}
	if len(r.Replaces) != 2 {
		t.Fatalf("len(Replaces) = %d, want 2", len(r.Replaces))
	}

	local := r.Replaces[0]
	wantLocal := filepath.Join(filepath.Dir(dir), "sharedptr")
	if !local.Local || local.New != wantLocal {
		t.Errorf("Replaces[0] = %+v, want local %s", local, wantLocal)
	}

	fork := r.Replaces[1]
	if fork.Local || fork.OldVersion != "v0.2.0" || fork.New != "github.com/fork/sharedptr" || fork.NewVersion != "v0.2.1" {
		t.Errorf("Replaces[1] = %+v", fork)
	}
}

func TestCheckDataParseError(t *testing.T) {
	if _, err := CheckData("go.mod", []byte("module\n\ngo !!\n"), "1.24"); err == nil {
		t.Error("CheckData() error = nil, want parse error")
	}
}

func TestFindGoMod(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	want := filepath.Join(root, "go.mod")
	if err := os.WriteFile(want, []byte("module example.com/x\n\ngo 1.24\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	got, err := FindGoMod(nested)
	if err != nil {
		t.Fatalf("FindGoMod() error = %v", err)
	}
	if got != want {
		t.Errorf("FindGoMod() = %s, want %s", got, want)
	}

	r, err := Check(got, "1.24")
	if err != nil {
		t.Fatalf("Check() error = %v", err)
	}
	if r.Module != "example.com/x" {
		t.Errorf("Module = %s, want example.com/x", r.Module)
	}
}

func TestFindGoModMissing(t *testing.T) {
	// Temp dirs normally have no go.mod above them; skip if this one does.
	dir := t.TempDir()
	if _, err := FindGoMod(dir); err != nil {
		if !errors.Is(err, ErrNoGoMod) {
			t.Errorf("FindGoMod() error = %v, want ErrNoGoMod", err)
		}
		return
	}
	t.Skip("a go.mod exists above the temp dir")
}

func TestCompareGo(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.24", "1.24", 0},
		{"1.24.0", "1.24", 0},
		{"1.25", "1.24", 1},
		{"1.21.5", "1.24", -1},
		{"1.9", "1.24", -1},
	}
	for _, tt := range tests {
		if got := compareGo(tt.a, tt.b); got != tt.want {
			t.Errorf("compareGo(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestIsLocalPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"./x", true},
		{"../x", true},
		{"/abs/x", true},
		{`C:\x`, true},
		{"github.com/a/b", false},
		{"example.com/mod", false},
	}
	for _, tt := range tests {
		if got := isLocalPath(tt.path); got != tt.want {
			t.Errorf("isLocalPath(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}
