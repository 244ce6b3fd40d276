// Package orchestrator wires the definition loader, form builder, prompt
// session and renderer registry into a single Generate call for consumers
// that prefer one entry point.
package orchestrator
