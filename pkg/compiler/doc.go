// Package compiler drives the topology pre-processing pipeline: it loads
// YAML documents into configuration trees, optionally pre-validates them
// against CUE schemas, defines classes and instantiates objects, and can
// watch the source paths to recompile on change.
package compiler
