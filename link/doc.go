/*
Package link assembles grammar modules into one consolidated textX grammar.

Linking happens in four steps:

■ every module is parsed (package module), yielding its body and the
contributions of its extend blocks;

■ contributions are aggregated in module order (Aggregate);

■ module bodies are concatenated in module order (Assemble);

■ every extendable rule of the Registry is rewritten to the disjunction of
its contributions, or removed together with its use-site if it is the
remove-when-empty rule and nobody contributed to it (Inject).

Link performs these steps on in-memory sources and has no side effects. Build
reads the modules listed in a manifest and writes the result next to them;
Watch rebuilds whenever a module changes.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package link

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'txlink.link'.
func tracer() tracing.Trace {
	return tracing.Select("txlink.link")
}
