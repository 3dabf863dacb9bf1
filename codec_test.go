package sharedptr_test

import (
	"encoding/json"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/kolkov/sharedptr"
)

type book struct {
	Title string `json:"title" yaml:"title" cbor:"title"`
	Pages int    `json:"pages" yaml:"pages" cbor:"pages"`
}

type shelf struct {
	Name  string                   `json:"name" yaml:"name" cbor:"name"`
	Cover sharedptr.Arc[book]      `json:"cover" yaml:"cover" cbor:"cover"`
	Notes sharedptr.Rc[[]string]   `json:"notes" yaml:"notes" cbor:"notes"`
	Spare sharedptr.ArcT[struct{}] `json:"spare" yaml:"spare" cbor:"spare"`
}

func newShelf() shelf {
	return shelf{
		Name:  "sci-fi",
		Cover: sharedptr.NewArc(book{Title: "Dune", Pages: 412}),
		Notes: sharedptr.NewRc([]string{"signed"}),
	}
}

func (s *shelf) drop() {
	s.Cover.Drop()
	s.Notes.Drop()
	s.Spare.Drop()
}

func TestJSON(t *testing.T) {
	in := newShelf()
	defer in.drop()

	data, err := json.Marshal(in)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"name":"sci-fi","cover":{"title":"Dune","pages":412},"notes":["signed"],"spare":null}`,
		string(data))

	var out shelf
	require.NoError(t, json.Unmarshal(data, &out))
	defer out.drop()

	assert.Equal(t, *in.Cover.Deref(), *out.Cover.Deref())
	assert.Equal(t, []string{"signed"}, out.Notes.Load())
	assert.Equal(t, 1, out.Cover.StrongCount())
	assert.False(t, sharedptr.PtrEq(in.Cover, out.Cover))
}

func TestUnmarshalReplacesShare(t *testing.T) {
	p := sharedptr.NewArc(book{Title: "old"})
	keep := p.Clone()
	defer keep.Drop()

	require.NoError(t, json.Unmarshal([]byte(`{"title":"new"}`), &p))
	defer p.Drop()

	assert.Equal(t, "new", p.Deref().Title)
	assert.Equal(t, "old", keep.Deref().Title)
	assert.Equal(t, 1, keep.StrongCount())
}

func TestUnmarshalJSONError(t *testing.T) {
	p := sharedptr.NewRc(1)
	defer p.Drop()

	require.Error(t, json.Unmarshal([]byte(`"x"`), &p))
	assert.Equal(t, 1, p.Load())
}

func TestCBOR(t *testing.T) {
	in := newShelf()
	defer in.drop()

	data, err := cbor.Marshal(in)
	require.NoError(t, err)

	var out shelf
	require.NoError(t, cbor.Unmarshal(data, &out))
	defer out.drop()

	assert.Equal(t, "Dune", out.Cover.Deref().Title)
	assert.Equal(t, 412, out.Cover.Deref().Pages)
	assert.Equal(t, []string{"signed"}, out.Notes.Load())
}

func TestYAML(t *testing.T) {
	in := newShelf()
	defer in.drop()

	data, err := yaml.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(data), "title: Dune")

	var out shelf
	require.NoError(t, yaml.Unmarshal(data, &out))
	defer out.drop()

	assert.Equal(t, book{Title: "Dune", Pages: 412}, out.Cover.Load())
	assert.Equal(t, []string{"signed"}, out.Notes.Load())
}

func TestContentHash(t *testing.T) {
	a := sharedptr.NewRc(map[string]int{"a": 1, "b": 2})
	b := sharedptr.NewArcT(map[string]int{"b": 2, "a": 1})
	c := sharedptr.NewArc(map[string]int{"a": 1})
	defer func() {
		a.Drop()
		b.Drop()
		c.Drop()
	}()

	ha, err := a.ContentHash()
	require.NoError(t, err)
	hb, err := b.ContentHash()
	require.NoError(t, err)
	hc, err := c.ContentHash()
	require.NoError(t, err)

	assert.Equal(t, ha, hb)
	assert.NotEqual(t, ha, hc)
}
