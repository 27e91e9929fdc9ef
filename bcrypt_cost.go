//go:build !race

package auth

// passwordHashCost is deliberately above the library default; the hash digest
// self-describes algorithm and cost, so raising it later needs no migration.
func passwordHashCost() int {
	return 14
}
