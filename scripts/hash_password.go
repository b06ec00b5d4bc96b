package main

import (
	"fmt"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// Quick utility to generate a bcrypt hash for seeding person records
// Usage: go run scripts/hash_password.go <password>
func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run scripts/hash_password.go <password>")
		os.Exit(1)
	}

	password := os.Args[1]

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		fmt.Printf("Error generating hash: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Password: %s\n", password)
	fmt.Printf("Bcrypt Hash: %s\n", string(hashedPassword))
	fmt.Printf("\nTo set it on a person record, run:\n")
	fmt.Printf("db.people.updateOne(\n")
	fmt.Printf("  {\"person.email\": \"<email>\"},\n")
	fmt.Printf("  {$set: {\"person.password\": \"%s\"}}\n", string(hashedPassword))
	fmt.Printf(")\n")
}
