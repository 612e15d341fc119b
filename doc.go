// # apiref
//
// `apiref` generates a Markdown API reference for a compiled object-oriented
// library. It reads the library's type metadata and the documentation-comment
// XML file the compiler emitted alongside it, and writes one page per
// top-level type.
//
// Key capabilities:
//
//   - compute documentation identifiers (`T:Ns.Type`, `M:Ns.Type.Method(System.Int32)`)
//     for every visible type and member, including generics, arrays, pointers,
//     by-reference parameters, operators and conversions.
//   - render each entity as a source-like, one-line declaration inside a
//     `csharp` code block.
//   - translate documentation tags (`<summary>`, `<param>`, `<returns>`,
//     `<exception>`, `<remarks>`, `<example>`, `<see>`, `<seealso>`, `<c>`,
//     `<code>`, `<para>`, `<list>`) to Markdown.
//   - resolve `cref` cross-references to relative links between pages, and
//     render unresolvable ones as `[Not found!]`.
//   - write a `README.md` table of contents grouped by namespace.
//
// ## Usage
//
//	apiref [flags] <manifest>
//
// The manifest is a YAML description of the library's types. The
// documentation file is looked up next to it: same directory, same base name,
// `.xml` extension. A missing documentation file is not an error; pages then
// carry declarations only.
//
// Examples:
//
//   - Document the public API into ./api:
//
//     apiref -o ./api Acme.Widgets.yaml
//
//   - Include internal and private members, with links rooted at "ref":
//
//     apiref --all --root ref -o ./docs/ref Acme.Widgets.yaml
//
// ## Supported Flags
//
//   - `-o`, `--output DIR`: output directory (default: working directory).
//     Its base name becomes the link root unless `--root` is given; when
//     writing to the working directory the link root is `api`.
//   - `--all`: document every type and member instead of the public API.
//   - `--root NAME`: directory name prefixed to cross-reference links.
//   - `--toc`: write `README.md` (default true; `--toc=false` disables it).
//   - `--log-level`, `--log-format`: diagnostics on stderr (`console` or `json`).
//   - `--config FILE`: read settings from FILE instead of `./.apiref.yaml`.
//
// Single-dash long flags (`-all`, `-output=DIR`) are accepted as well.
// Every setting may also come from an `APIREF_*` environment variable.
//
// ## Shell Completion
//
//	apiref completion bash        # bash
//	apiref completion zsh         # zsh
//	apiref completion fish | source
//	apiref completion powershell | Out-String | Invoke-Expression
//
// ## CLI Docs
//
//	apiref gen-docs ./docs/cli
//	apiref gen-docs --format man ./man/man1
//
// Every command becomes its own file under the provided directory:
// Markdown by default, or man pages and YAML with `--format`.
package main
