// Package template defines the template engine seam used by the HTML
// renderers. The pongo subpackage provides the default implementation.
package template
