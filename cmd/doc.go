// Package cmd wires the cobra-based CLI commands for releasectl.
//
// The command tree mirrors the release workflow: repos sync inspects the
// sibling repositories, manifest reports what is already published, and
// release plans and checks the next tag cut. The lint and formatting
// infrastructure is established up front so every addition must comply with
// the strict rules defined in .golangci.yml.
package cmd
