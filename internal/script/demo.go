package script

import _ "embed"

// Demo is a script that exercises the drawing commands.
//
//go:embed demo.tft
var Demo string
