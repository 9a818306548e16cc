// Package pixel implements the 16-bit colour packing used by ST7735 style TFT panels.
//
// Colours are packed into R5·G6·B5 words by truncation. The package provides the
// packing itself ([Colour.Pack], [Convert]), 565 colour types compatible with Go's
// native [color.Color] interface and packed images compatible with [draw.Image].
package pixel
