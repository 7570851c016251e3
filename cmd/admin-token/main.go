package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/dynbilliards/backend/internal/admin"
)

// Generates the bcrypt hash for ADMIN_TOKEN_HASH from a plaintext token.
func main() {
	token := flag.String("token", "", "plaintext admin token to hash")
	flag.Parse()

	if *token == "" {
		log.Fatal("usage: admin-token -token <plaintext>")
	}

	hash, err := admin.HashToken(*token)
	if err != nil {
		log.Fatalf("Failed to hash token: %v", err)
	}

	fmt.Printf("ADMIN_TOKEN_HASH=%s\n", hash)
}
