// Package debug exposes the debug build flag consulted across linopt
// components. The flag is set by building (or testing) with -tags=debug.
package debug
