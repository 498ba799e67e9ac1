// SPDX-License-Identifier: MIT
package bds

import (
	"io"

	"github.com/katalvlaran/polycore/ascicodec"
	"github.com/katalvlaran/polycore/rational"
)

// status word encoding for the ASCII codec's integer Status field, stable
// across versions since it is part of the on-disk format (spec §6, §9).
const (
	wireZeroDimUniverse = 0
	wireEmpty           = 1
	wireGenericOpen     = 2
	wireGenericClosed   = 3
	wireGenericReduced  = 4
)

func (s Status) wire() int {
	switch {
	case s.kind == kindZeroDimUniverse:
		return wireZeroDimUniverse
	case s.kind == kindEmpty:
		return wireEmpty
	case s.reduced:
		return wireGenericReduced
	case s.closed:
		return wireGenericClosed
	default:
		return wireGenericOpen
	}
}

func statusFromWire(w int) Status {
	switch w {
	case wireZeroDimUniverse:
		return zeroDimUniverseStatus()
	case wireEmpty:
		return emptyStatus()
	case wireGenericClosed:
		return genericStatus(true, false)
	case wireGenericReduced:
		return genericStatus(true, true)
	default:
		return genericStatus(false, false)
	}
}

// Dump writes s to w in the shared ASCII format (spec §6).
func (s *BDShape) Dump(w io.Writer) error {
	if s == nil {
		return ErrNilShape
	}
	doc := ascicodec.Document{
		SpaceDim: s.SpaceDimension(),
		Status:   s.status.wire(),
		Entries:  append([]rational.Ext(nil), s.m.data...),
	}
	return ascicodec.Dump(w, doc)
}

// Load reads a BDShape previously written by Dump.
func Load(r io.Reader, opts ...Option) (*BDShape, error) {
	doc, err := ascicodec.Load(r, func(spaceDim int) int { return spaceDim + 1 })
	if err != nil {
		return nil, err
	}
	s := Universe(doc.SpaceDim, opts...)
	copy(s.m.data, doc.Entries)
	s.status = statusFromWire(doc.Status)
	return s, nil
}
