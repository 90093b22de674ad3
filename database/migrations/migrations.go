// Package migrations holds the storefront schema. Each file registers its
// migrations from init(); cmd/storefront imports the package for that side
// effect.
package migrations
