// Package ascicodec implements the single ASCII dump/load textual format
// shared by bds.BDShape and octagon.OctagonalShape (spec §6, §9: "Make the
// dump/load routine the authoritative invariant: every state reachable at
// runtime must be dumpable and loadable without semantic change").
//
// Format (spec §6):
//
//	space_dim N
//	<status bitset>
//	<matrix rows in row-major order, one entry per line, in N's canonical
//	 textual form: "+inf" for infinity, integers or p/q for rationals>
//
// Both shapes store a square matrix of rational.Ext of known order; the
// codec is deliberately generic over that shape so neither shape package
// has to re-derive the round-trip guarantee independently.
package ascicodec

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/polycore/rational"
)

// Document is the decoded form of a dump: the declared space dimension, the
// raw status word (interpretation is owned by the caller: bds and octagon
// each map this integer to their own Status type), and the matrix entries
// in row-major order.
type Document struct {
	SpaceDim int
	Status   int
	Entries  []rational.Ext // length must be order*order for the caller's order
}

// Dump writes doc in the stable textual format to w.
func Dump(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "space_dim %d\n", doc.SpaceDim); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(bw, "%d\n", doc.Status); err != nil {
		return err
	}
	for _, e := range doc.Entries {
		if _, err := fmt.Fprintln(bw, e.String()); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Load reads a Document previously produced by Dump. order is the matrix's
// expected row/column count (n+1 for a DBM, 2n for an octagon matrix); the
// caller knows its own order from SpaceDim before the matrix body is
// consumed, so Load takes a callback to resolve it instead of guessing.
func Load(r io.Reader, orderFromSpaceDim func(spaceDim int) int) (Document, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	if !sc.Scan() {
		return Document{}, ErrMalformed
	}
	header := strings.Fields(sc.Text())
	if len(header) != 2 || header[0] != "space_dim" {
		return Document{}, ErrMalformed
	}
	spaceDim, err := strconv.Atoi(header[1])
	if err != nil {
		return Document{}, fmt.Errorf("ascicodec: space_dim: %w", ErrMalformed)
	}

	if !sc.Scan() {
		return Document{}, ErrMalformed
	}
	status, err := strconv.Atoi(strings.TrimSpace(sc.Text()))
	if err != nil {
		return Document{}, fmt.Errorf("ascicodec: status: %w", ErrMalformed)
	}

	order := orderFromSpaceDim(spaceDim)
	want := order * order
	entries := make([]rational.Ext, 0, want)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		e, perr := rational.Parse(line)
		if perr != nil {
			return Document{}, fmt.Errorf("ascicodec: entry %d: %w", len(entries), ErrMalformed)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return Document{}, err
	}
	if len(entries) != want {
		return Document{}, ErrSizeMismatch
	}

	return Document{SpaceDim: spaceDim, Status: status, Entries: entries}, nil
}
