// Package file stores margin's settings in ~/.margin/config.toml.
//
// Values from the file are overlaid with MARGIN_* environment variables on
// every Load; Save writes only the file. Colours are written as #rrggbb,
// with an alpha byte appended when not opaque.
package file
