package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/passvault/internal/flagx"
)

var serverFlags = []string{
	"-a", "-grpc", "-d", "-s", "-m", "-salt", "-t", "-cost",
	"-log-format", "-log-level", "-u", "-p", "-b", "-r", "-e", "-totp-issuer",
}

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string            HTTP bind address (e.g., ":8080")
//	-grpc string         gRPC health bind address (e.g., ":50051")
//	-d string            PostgreSQL DSN
//	-s string            JWT HMAC secret key
//	-m string            master key passphrase
//	-salt string         master key salt
//	-t int               access token validity, minutes
//	-cost int            bcrypt cost
//	-log-format string   json, text or zap
//	-log-level string    debug, info, warn, error
//	-u / -p string       S3 root user / password
//	-b string            S3 bucket name
//	-r string            S3 region
//	-e string            S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-totp-issuer string  issuer label for authenticator apps
//
// Only these flags are picked out of os.Args, so -c/-config (read by
// parseJson) does not trip the parser.
func parseFlags(config *Config) error {
	args := flagx.Pick(os.Args[1:], serverFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run HTTP server")
	fs.StringVar(&config.EndpointAddrGRPC, "grpc", config.EndpointAddrGRPC, "address and port to run gRPC health server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "JWT secret key")
	fs.StringVar(&config.MasterKey, "m", config.MasterKey, "master key passphrase")
	fs.StringVar(&config.MasterKeySalt, "salt", config.MasterKeySalt, "master key salt")

	accessTokenValidityDuration := fs.Int("t", int(config.AccessTokenValidityDuration.Minutes()), "access_token_validity_duration (in minutes)")

	fs.IntVar(&config.BcryptCost, "cost", config.BcryptCost, "bcrypt cost")
	fs.StringVar(&config.LogFormat, "log-format", config.LogFormat, "log format (json|text|zap)")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")
	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "r", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.TOTPIssuer, "totp-issuer", config.TOTPIssuer, "TOTP issuer")

	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// only override the duration when -t was given, so sub-minute values
	// from earlier layers survive
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			config.AccessTokenValidityDuration = time.Duration(*accessTokenValidityDuration) * time.Minute
		}
	})
	return nil
}
