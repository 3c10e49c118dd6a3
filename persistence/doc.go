// Package persistence provides a compact binary snapshot format for a traced
// skeleton: classified nulls, the separatrix mesh and the spines.
//
// A snapshot is a fixed little-endian FileHeader followed by a single payload.
// The payload may be compressed with LZ4 or ZSTD and is protected by a CRC32
// checksum recorded in the header. Floats are stored as raw IEEE-754 bits, so
// a write/read cycle is exact.
package persistence
