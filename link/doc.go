// Package link merges CPU8 relocatable objects into a flat ROM image:
// it plans section placement, builds the global symbol table under the
// one-definition rule, patches all ABS16 relocations, and validates
// the entry point.
package link
