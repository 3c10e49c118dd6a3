// Package spine traces the two spine field lines of classified nulls.
package spine
