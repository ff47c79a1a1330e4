// Package utils provides small helpers shared by loqet's commands.
//
// # Editor and Pager
//
// RunEditor opens a file in the user's editor. Page prints content through
// the user's pager when stdout is a terminal and writes it directly
// otherwise. Both run programs through RunCommand, which tests replace.
//
// # Terminal and I/O
//
//   - IsTerminal, IsOutputTerminal: terminal detection via golang.org/x/term
//   - ReadStdin: reads piped input such as a key for `loqet init --key -`
//
// # Formatting
//
//   - FormatPaths: formats file paths for human-readable output
//   - Plural: "1 namespace", "2 namespaces"
package utils
