// Package cli provides the terminal user interface components for dcc.
//
// The package uses [Bubbletea] for building interactive terminal UIs and
// [Lipgloss] for styling. All UI components follow the standard Bubbletea
// Model-View-Update (MVU) architecture.
//
// # Components
//
//   - CleanerList: filterable picker used when a command is run without a
//     cleaner id
//   - Clean: spinner shown while a cleaner runs, cancelable with ctrl+c
//
// Both are only used when stdout is a terminal; the cmd package falls back
// to plain output otherwise.
//
// [Bubbletea]: https://github.com/charmbracelet/bubbletea
// [Lipgloss]: https://github.com/charmbracelet/lipgloss
package cli
