// Package tagstore provides in-place reading and rewriting of the ID3v2 tag
// region inside audio files.
//
// tagstore is the storage layer a tag editor sits on: it treats the tag as
// an opaque byte region at the front of the file and guarantees that the
// audio data around it survives every rewrite byte for byte. Frame parsing
// belongs to the caller; splicing belongs here.
//
// # Quick Start
//
// Replacing a tag's payload:
//
//	tag, err := tagstore.Open("song.mp3")
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer tag.Close()
//
//	if err := tag.Replace(frames, tagstore.WithPadding(2048)); err != nil {
//		log.Fatal(err)
//	}
//
// # Architecture
//
// The package is layered, leaf first:
//
//	[StorageFile] - random-access capability: *os.File or *MemFile
//	  └─ [Storage]  - a [Start, End) region plus its backing file
//	       ├─ [Reader]  - io.ReadSeeker clamped to the region
//	       └─ [Writer]  - buffered io.WriteSeeker; commit grows or
//	                      shrinks the region, relocating what follows
//	[unsynch]     - synchsafe integers and the byte-stuffing codec
//	[Tag]         - envelope scanning wired to a Storage
//
// When a committed buffer is larger or smaller than the region, the Writer
// moves the trailing file content by exactly the difference, in bounded
// 64 KiB chunks ordered so that no chunk overwrites bytes still to be
// moved. Growth copies tail first, shrinkage head first.
//
// # Guarantees and Limits
//
// Commit is a pure splice: bytes outside the region before a commit equal
// the bytes outside the new region after it, shifted by the size delta.
// There is no journal, though - an I/O error in the middle of a relocation
// leaves the file partially shifted. Callers that need crash atomicity
// should write to a temporary file and rename over the original.
//
// A Storage issues one Reader or Writer at a time, and nothing coordinates
// separate processes touching the same file. Single writer is the contract.
//
// # Unsynchronisation
//
// The unsynch subpackage implements the ID3v2 defense against false MPEG
// sync markers: synchsafe 28-bit integers and the 0xFF 0x00 byte-stuffing
// filter, available standalone or via the WithUnsynchronisation option.
package tagstore
