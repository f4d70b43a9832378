// Command genhash prints an ADMIN_ACCOUNTS / RECRUITER_ACCOUNTS entry.
//
//	go run ./scripts admin@example.com 'mot de passe'
package main

import (
	"fmt"
	"os"

	"jobspace-backend/pkg/security"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: genhash <email> <password>")
		os.Exit(2)
	}
	email, password := os.Args[1], os.Args[2]

	hash, err := security.HashPassword(password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	fmt.Printf("%s:%s\n", email, hash)
}
