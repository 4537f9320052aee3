// Command token-hash prints the bcrypt hash of each static bearer token given
// on the command line, for use in TASKAPI_AUTH_USER_TOKEN_HASH and
// TASKAPI_AUTH_ADMIN_TOKEN_HASH.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/task-api/internal/service/auth"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "token-hash: %v\n", err)
		os.Exit(1)
	}
}

func run(tokens []string, out io.Writer) error {
	if len(tokens) == 0 {
		return fmt.Errorf("usage: token-hash TOKEN [TOKEN...]")
	}

	for _, token := range tokens {
		if token == "" {
			return fmt.Errorf("empty token")
		}
		hash, err := auth.HashToken(token)
		if err != nil {
			return fmt.Errorf("hashing token: %w", err)
		}
		if _, err := fmt.Fprintln(out, hash); err != nil {
			return err
		}
	}
	return nil
}
