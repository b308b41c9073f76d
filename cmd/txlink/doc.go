/*
Command txlink links the modules of a textX grammar into one grammar file.

Usage:

    txlink [root]                      build, print the output path
    txlink [root] --watch              rebuild whenever a module changes
    txlink [root] --verify             build, then compile the result with textX
    txlink check GRAMMAR [MODEL]       compile a grammar (and parse a model) with textX
    txlink inspect [root]              explore the linked grammar interactively

root defaults to the current directory. Modules are expected in the modules
directory of the manifest ("New Speech" by default), which is also where the
consolidated grammar is written to. Use --manifest to read the module order
and the extendable rules from a YAML or HCL file.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/

package main

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'txlink.cli'
func tracer() tracing.Trace {
	return tracing.Select("txlink.cli")
}

// traceKeys are the trace keys of all txlink packages.
var traceKeys = []string{
	"txlink.cli",
	"txlink.engine",
	"txlink.link",
	"txlink.manifest",
	"txlink.module",
	"txlink.rules",
	"txlink.scanner",
}
