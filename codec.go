package sharedptr

import (
	"encoding/json"

	"github.com/fxamacker/cbor/v2"
	"gopkg.in/yaml.v3"

	"github.com/kolkov/sharedptr/internal/codec"
)

// Pointers encode as their value in JSON, CBOR and YAML. A pointer that
// owns nothing encodes as null. Decoding into a pointer drops its current
// share, if any, and installs a fresh allocation of the decoded value with
// the same kind.

var (
	_ json.Marshaler   = SharedPointer[int, ArcK]{}
	_ json.Unmarshaler = (*SharedPointer[int, ArcK])(nil)
	_ cbor.Marshaler   = SharedPointer[int, ArcK]{}
	_ cbor.Unmarshaler = (*SharedPointer[int, ArcK])(nil)
	_ yaml.Marshaler   = SharedPointer[int, ArcK]{}
	_ yaml.Unmarshaler = (*SharedPointer[int, ArcK])(nil)
)

// MarshalJSON implements json.Marshaler.
func (p SharedPointer[T, K]) MarshalJSON() ([]byte, error) {
	v := p.ptr()
	if v == nil {
		return []byte("null"), nil
	}
	return json.Marshal(v)
}

// UnmarshalJSON implements json.Unmarshaler.
func (p *SharedPointer[T, K]) UnmarshalJSON(data []byte) error {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	p.replace(v)
	return nil
}

// MarshalCBOR implements cbor.Marshaler using core deterministic encoding.
func (p SharedPointer[T, K]) MarshalCBOR() ([]byte, error) {
	v := p.ptr()
	if v == nil {
		return codec.Marshal(nil)
	}
	return codec.Marshal(v)
}

// UnmarshalCBOR implements cbor.Unmarshaler.
func (p *SharedPointer[T, K]) UnmarshalCBOR(data []byte) error {
	var v T
	if err := codec.Unmarshal(data, &v); err != nil {
		return err
	}
	p.replace(v)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (p SharedPointer[T, K]) MarshalYAML() (any, error) {
	v := p.ptr()
	if v == nil {
		return nil, nil
	}
	return v, nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (p *SharedPointer[T, K]) UnmarshalYAML(node *yaml.Node) error {
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	p.replace(v)
	return nil
}

// ContentHash returns the BLAKE3 digest of the value's deterministic CBOR
// encoding. Pointers to equal values have equal digests, whatever their
// kind or allocation.
func (p SharedPointer[T, K]) ContentHash() ([32]byte, error) {
	return codec.Hash(p.Deref())
}

func (p *SharedPointer[T, K]) replace(v T) {
	p.Drop()
	*p = New[T, K](v)
}
