// Package compiler runs one compilation of C-minus source: scanning, parsing
// and code generation interleaved token by token.
//
// Pipeline: source → scanner tokens → parser steps → semantic actions →
// three-address program plus lexical, syntax and semantic diagnostics.
package compiler
