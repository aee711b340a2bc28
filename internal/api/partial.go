package api

import (
	"github.com/tidwall/sjson"
)

// partial builds a JSON object holding only the fields that were set.
type partial struct {
	body []byte
	err  error
}

func newPartial() *partial { return &partial{body: []byte(`{}`)} }

func setField[T any](p *partial, path string, v *T) *partial {
	if p.err != nil || v == nil {
		return p
	}
	p.body, p.err = sjson.SetBytes(p.body, path, *v)
	return p
}

func (p *partial) bytes() ([]byte, error) { return p.body, p.err }
