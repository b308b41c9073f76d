/*
Package module parses grammar modules written in the authoring dialect.

A module is a textX grammar fragment with three additions:

    module Actions                 // header, dropped

    extend ActorItemExtension:     // contributes alternatives to a placeholder rule
        | MoveAction
        | WaitAction
    ;

    terminal NUM: /[0-9]+/;        // legacy terminal declaration, rewritten to NUM: /[0-9]+/;

Parse returns the module body, i.e. the grammar text with headers and extend
blocks removed and terminal declarations normalized, together with the
contributions of all extend blocks.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package module

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'txlink.module'.
func tracer() tracing.Trace {
	return tracing.Select("txlink.module")
}

// Keywords of the authoring dialect.
const (
	HeaderKeyword   = "module"
	ExtendKeyword   = "extend"
	TerminalKeyword = "terminal"
)
