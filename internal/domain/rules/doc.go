// Package rules holds the static lookup tables shared by the safety,
// nutrition, summary and chat engines. Every table is keyed by normalized
// (trimmed, lowercase) terms and is read-only after package initialization.
package rules
