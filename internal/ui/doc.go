// Package ui provides semantic text formatting for loqet's CLI output.
//
// Formatters render content by kind. When colors are available the text is
// colorized. When NO_COLOR is set or the terminal does not support colors,
// text decorations are used instead:
//
//	ui.Code.Sprint("loqet context set link")  // `loqet context set link`
//	ui.Highlight.Sprint("inventory")          // 'inventory'
//	ui.Muted.Sprint("active")                 // (active)
//
// Path, Flag, Success, Error, Warning and Info carry no decoration.
//
// Aligned renders the two column listings used by `loqet context list`.
package ui
