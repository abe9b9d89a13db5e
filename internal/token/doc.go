// Package token defines lexical token kinds and trivia for the Rust item
// subset the generator reads.
// Invariants:
//   - Token.Text is a slice of the original source (no copies).
//   - Token.Span matches Text exactly (Begin..End).
//   - Attributes are lexed as '#' (Kind: Pound) + optional '!' + '[' ...; no
//     per-attribute token kinds.
//   - Raw identifiers keep their "r#" prefix in Text; Token.Ident strips it.
//   - Primitive type names (u8, usize, bool, ...) and contextual words such
//     as "union" are identifiers. They are recognized by the parser and the
//     type resolver, not the lexer.
package token
