package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/atelier-dev/portfolio-server-go/internal/password"
)

func main() {
	scheme := flag.String("scheme", string(password.SchemeBcrypt), "hash scheme: bcrypt or pbkdf2_sha256")
	cost := flag.Int("cost", 12, "bcrypt cost")
	rounds := flag.Int("rounds", 29000, "pbkdf2 rounds")
	flag.Parse()

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: go run scripts/hash-password.go [-scheme bcrypt|pbkdf2_sha256] <password>\n")
		os.Exit(1)
	}

	hasher := password.NewHasher(password.Options{
		Preferred:    password.Scheme(*scheme),
		BcryptCost:   *cost,
		PBKDF2Rounds: *rounds,
	})
	if string(hasher.Scheme()) != *scheme {
		fmt.Fprintf(os.Stderr, "Warning: %s unavailable, using %s\n", *scheme, hasher.Scheme())
	}

	hash, err := hasher.Hash(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println(hash)
}
