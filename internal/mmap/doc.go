// Package mmap maps snapshot files read-only into memory.
//
// Unix systems use mmap(2) and honour access hints through madvise(2);
// Windows uses CreateFileMapping/MapViewOfFile and ignores the hints.
// Empty files are represented by a Mapping with no data.
package mmap
