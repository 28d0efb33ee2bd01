// xattr_sweeper deletes files tagged with a reserved expiration xattr.
package main

import (
	"log"

	"xattr_sweeper/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}
