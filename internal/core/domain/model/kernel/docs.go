// Package kernel holds the value objects shared by every aggregate of the dispatch domain:
// UUID identifiers and the ShopID tenant partition key.
//
// Both are immutable and invalid as zero values; construct them through their
// constructors and call Validate on values restored from outside the domain.
package kernel
