// Package deps reports the availability of Gainhound's external tools and
// directories before a run mutates anything.
package deps
