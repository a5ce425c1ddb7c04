// Package logofetch extracts logo and brand images from web pages.
// It fetches a page, locates candidate logo images in its markup with
// keyword heuristics, downloads each candidate and returns the surviving
// assets as self-contained data URLs.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, http/, rod/, chi/).
package logofetch
