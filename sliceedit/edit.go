// Copyright 2023 Jesus Ruiz. All rights reserved.
// Use of this source code is governed by an Apache-2.0
// license that can be found in the LICENSE file.

// Package sliceedit extends the functionalities of rsc.io/edit to
// implement eficient buffered editing of byte slices.
// Edits are queued against the original data and applied in one pass.
package sliceedit

import (
	"bytes"
	"sort"

	"rsc.io/edit"
)

// A Buffer is a queue of edits to apply to a given byte slice.
type Buffer struct {
	ed  *edit.Buffer
	buf []byte

	// Byte ranges already claimed by a queued edit
	claimed []span
}

type span struct {
	start, end int
}

// NewBuffer returns a new buffer to accumulate changes to an initial data slice.
// The returned buffer maintains a reference to the data, so the caller must ensure
// the data is not modified until after the Buffer is done being used.
func NewBuffer(buf []byte) *Buffer {
	return &Buffer{
		ed:  edit.NewBuffer(buf),
		buf: buf,
	}
}

// FindAll finds all non-overlapping instances of item in buf.
func FindAll(buf []byte, item string) []int {
	found := []int{}

	if len(item) == 0 {
		return found
	}

	realOffset := 0

	for {
		i := bytes.Index(buf, []byte(item))
		if i == -1 {
			return found
		}
		found = append(found, i+realOffset)
		buf = buf[i+len(item):]
		realOffset = realOffset + i + len(item)
	}
}

// overlaps reports whether [start, end) intersects an already queued edit.
func (b *Buffer) overlaps(start, end int) bool {
	i := sort.Search(len(b.claimed), func(i int) bool {
		return b.claimed[i].end > start
	})
	return i < len(b.claimed) && b.claimed[i].start < end
}

func (b *Buffer) claim(start, end int) {
	i := sort.Search(len(b.claimed), func(i int) bool {
		return b.claimed[i].start >= start
	})
	b.claimed = append(b.claimed, span{})
	copy(b.claimed[i+1:], b.claimed[i:])
	b.claimed[i] = span{start, end}
}

// ReplaceAllString replaces every instance of old with new. Instances that
// overlap a previously queued edit are left alone.
// It returns the number of replacements queued.
func (b *Buffer) ReplaceAllString(old string, new string) int {
	count := 0
	for _, hit := range FindAll(b.buf, old) {
		if b.overlaps(hit, hit+len(old)) {
			continue
		}
		b.claim(hit, hit+len(old))
		b.ed.Replace(hit, hit+len(old), new)
		count++
	}
	return count
}

// Bytes returns a new byte slice containing the original data
// with the queued edits applied.
func (b *Buffer) Bytes() []byte {
	return b.ed.Bytes()
}

// String returns a string containing the original data
// with the queued edits applied.
func (b *Buffer) String() string {
	return string(b.ed.Bytes())
}
