// Package services implements the satsync core pipeline: the entity graph
// builder, the inheritance-aware property resolver, the products/parts
// tree builder, the snapshot generator and the reconciler.
package services
