/*
Package txlink links modular textX grammars.

Grammars for larger DSLs are easier to maintain when split into modules. The
authoring dialect adds two conveniences textX itself does not understand:
`module` headers and `extend <Rule>:` blocks, which collect additional
alternatives for placeholder rules declared elsewhere. txlink reads all
modules in a fixed order and emits a single grammar document which textX
compiles directly. Package structure is as follows:

■ module: Package module parses a single authoring-dialect file into a grammar
body and its rule contributions.

■ scanner: Package scanner tokenizes grammar text.

■ rules: Package rules indexes the rule definitions of a grammar text.

■ link: Package link assembles modules, injects contributions and writes the
consolidated grammar.

■ manifest: Package manifest holds the build configuration.

■ engine: Package engine talks to the external grammar engine.

Command txlink (in cmd/txlink) builds, watches, checks and inspects grammars.

The base package contains data types which are used throughout all the other packages.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2021 Norbert Pillmayer <norbert@pillmayer.com>

*/
package txlink
