// Package driven defines the outbound ports of the verification core:
// the embedding and classification capabilities, the evidence store, the
// per-format text extractors, and the prompt store. Adapters under
// internal/adapters/driven implement these interfaces.
package driven
