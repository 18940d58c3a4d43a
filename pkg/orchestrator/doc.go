// Package orchestrator turns a stored canvas layout into rendered output:
// repository lookup, model building, optional transformers, theme
// resolution and the renderer registry.
package orchestrator
