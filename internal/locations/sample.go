package locations

import _ "embed"

// SampleDocument is the bundled demo document loaded when the configured
// document URL cannot be fetched. It holds 4 sources and 5 destinations.
//
//go:embed sample.xml
var SampleDocument string
