// Command gqlint lints GraphQL embedded in JavaScript, TypeScript and HTML
// tagged template literals.
package main

import (
	"os"
)

func main() {
	os.Exit(execute(os.Args[1:], os.Stdout, os.Stderr))
}
