// Package views renders the HTML pages of the petition site.
//
// Templates and static assets are embedded in the binary. For development a
// Renderer can read templates from a directory instead and re-parse them
// whenever a file changes (see Watch).
package views
