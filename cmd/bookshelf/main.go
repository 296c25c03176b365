// Command bookshelf serves the authors and books collections over GraphQL.
package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
