package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/justinabrahms/zombiechess/internal/auth"
)

func main() {
	var out string
	flag.StringVar(&out, "out", "", "Write the private key to this file instead of stdout")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	key, err := auth.GenerateKey()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to generate private key")
	}
	keyPEM, err := auth.EncodeKeyPEM(key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode private key")
	}

	jwk := auth.PublicJWK(key, "zombiechess-"+uuid.NewString()[:8])
	jwkJSON, err := json.MarshalIndent(jwk, "", "  ")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to encode public key")
	}

	if out != "" {
		if err := os.WriteFile(out, keyPEM, 0o600); err != nil {
			log.Fatal().Err(err).Str("path", out).Msg("Failed to write private key")
		}
		log.Info().Str("path", out).Msg("Private key written")
	} else {
		fmt.Println("=== PRIVATE KEY (Keep this secret!) ===")
		fmt.Println("Save this to a file and point auth.key_file (or ZOMBIECHESS_AUTH_KEY_FILE) at it:")
		fmt.Println()
		fmt.Print(string(keyPEM))
		fmt.Println()
	}

	fmt.Println("=== PUBLIC KEY (JWK) ===")
	fmt.Println("Clients verify player tokens with:")
	fmt.Println()
	fmt.Println(string(jwkJSON))
	fmt.Println()
	fmt.Println("=== IMPORTANT SECURITY NOTES ===")
	fmt.Println("1. NEVER commit the private key to version control")
	fmt.Println("2. Set appropriate file permissions (chmod 600) on the private key file")
}
