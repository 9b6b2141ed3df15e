// Package domain contains the core types of the satsync pipeline:
// the raw modeling-server entities (entities, entity types, categories),
// the resolved snapshot output (products tree and parts list), and the
// materialized-document types the reconciler diffs against.
//
// Domain types carry no behaviour beyond parsing, normalization and
// comparison; all orchestration lives in the services package.
package domain
