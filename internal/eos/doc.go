// Package eos is an out-of-core dependency per spec.md: the mercurana
// integrator supplies the D and K callbacks this package composes, and
// never reaches into particle or shell state itself.
package eos
