package api

import _ "embed"

// Instructions contains the embedded guidance document served by the
// get_instructions tool.
//
//go:embed instructions.md
var Instructions []byte
