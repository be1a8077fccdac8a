package config

import (
	"flag"
	"os"
	"time"

	"github.com/recordvault/recordvault/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-s string   identity-token HMAC secret
//	-t int      default share-link lifetime, seconds
//	-m int      maximum upload size, bytes
//	-u string   S3 root user
//	-p string   S3 root password
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// Args are filtered through flagx.FilterArgs first, so flags owned by
// other components (like -config) do not trip the flag set.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-t", "-m", "-u", "-p", "-b", "-g", "-e"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.IdentitySecret, "s", config.IdentitySecret, "identity token secret")

	defaultShareTTL := fs.Int("t", int(config.DefaultShareTTL.Seconds()), "default share link lifetime (in seconds)")
	fs.Int64Var(&config.MaxUploadBytes, "m", config.MaxUploadBytes, "maximum upload size (in bytes)")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.DefaultShareTTL = time.Duration(*defaultShareTTL) * time.Second
}
