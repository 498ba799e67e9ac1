// SPDX-License-Identifier: MIT
package ascicodec

import "errors"

var (
	// ErrMalformed is returned by Load when the input does not match the
	// stable textual layout Dump produces.
	ErrMalformed = errors.New("ascicodec: malformed input")

	// ErrSizeMismatch is returned by Load when the declared matrix order
	// does not match the number of data rows actually present.
	ErrSizeMismatch = errors.New("ascicodec: declared size does not match row count")
)
