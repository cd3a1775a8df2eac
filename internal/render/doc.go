// Package render rasterizes page chunks of a models.Table into bitmaps.
//
// The layout follows a plotted table: a fixed-width figure whose height grows
// with the row count, equal column widths, a thin black grid on white and
// centered cell text at a fixed font size. The finished canvas is cropped to
// the drawn table plus a small padding before it is handed to the PDF writer.
package render
