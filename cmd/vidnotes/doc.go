// Package main hosts the vidnotes CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into channel batch runs,
// single-video pipeline runs, state inspection, history queries, dependency
// checks and configuration scaffolding. It owns configuration resolution and
// logger setup so the commands themselves stay declarative.
//
// New behaviour belongs in the internal packages first; this package only
// wires it up and renders results.
package main
