// Package web bundles the product table's templates and browser assets into
// the binary.
package web

import "embed"

// Templates holds layouts, partials and pages parsed by the view engine.
//
//go:embed templates/layouts/*.html templates/partials/*.html templates/pages/*.html
var Templates embed.FS

// Static holds the stylesheet and the autosubmit script.
//
//go:embed static/css/*.css static/js/*.js
var Static embed.FS
