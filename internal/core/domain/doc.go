// Package domain holds the entities every other layer is written in
// terms of: Document and its Sections, ClassificationResult, Taxonomy,
// the per-stage StageResult log, pipeline and application settings,
// and the sentinel errors adapters translate into.
//
// Domain sits at the centre of the hexagon. It imports only the
// standard library; adapters and services depend on it, never the
// reverse.
package domain
