// Package services implements the driving ports: running single papers
// through the pipeline, fanning out over batches, extraction without
// classification, and settings management. Services depend only on
// domain types and driven ports, never on concrete adapters.
package services
