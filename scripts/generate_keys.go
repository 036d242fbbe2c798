//go:build ignore

// This script generates secure random keys and a sample admin token.
// Run with: go run scripts/generate_keys.go [-subject ops] [-ttl 24h]
package main

import (
	"crypto/rand"
	"encoding/base64"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/guttosm/coupon-service/internal/middleware"
	"github.com/guttosm/coupon-service/internal/service"
)

func generateSecureKey(length int) (string, error) {
	bytes := make([]byte, length)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(bytes), nil
}

func exitOnError(what string, err error) {
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error generating %s: %v\n", what, err)
		os.Exit(1)
	}
}

func main() {
	subject := flag.String("subject", "ops", "subject of the sample token")
	issuer := flag.String("issuer", "coupon-service", "JWT issuer, must match JWT_ISSUER")
	ttl := flag.Duration("ttl", 24*time.Hour, "lifetime of the sample token")
	flag.Parse()

	fmt.Println("=== Coupon Service Key Generator ===")
	fmt.Println()

	// 32 bytes = 256 bits for HS256
	jwtSecret, err := generateSecureKey(32)
	exitOnError("JWT secret", err)

	apiKey, err := generateSecureKey(24)
	exitOnError("API key", err)

	token, err := service.NewTokenService(jwtSecret, *issuer).
		IssueToken(*subject, []string{middleware.RoleAdmin}, *ttl)
	exitOnError("sample token", err)

	fmt.Println("Add these to your .env file:")
	fmt.Println()
	fmt.Println("# JWT Configuration")
	fmt.Println("JWT_ENABLED=true")
	fmt.Printf("JWT_SECRET_KEY=%s\n", jwtSecret)
	fmt.Printf("JWT_ISSUER=%s\n", *issuer)
	fmt.Println()
	fmt.Println("# API Key (optional, for API key authentication)")
	fmt.Printf("API_KEYS=%s\n", apiKey)
	fmt.Println()
	fmt.Printf("# Sample %s token for %q, valid for %s\n", middleware.RoleAdmin, *subject, *ttl)
	fmt.Printf("Authorization: Bearer %s\n", token)
	fmt.Println()
	fmt.Println("=== IMPORTANT ===")
	fmt.Println("- Never commit these keys to version control")
	fmt.Println("- Use different keys for each environment (dev, staging, prod)")
	fmt.Println("- Store production keys in a secure secret manager")
}
