package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/stockjournal/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   journal server bind address (e.g., ":8080")
//	-n string   notes server bind address (e.g., ":5000")
//	-d string   PostgreSQL DSN
//	-u string   S3 access key
//	-p string   S3 secret key
//	-b string   S3 bucket name
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000")
//	-o string   public base URL for stored objects
//	-q string   quote API base URL
//
// The arguments are first filtered with flagx.FilterArgs so the settings
// file's -c/-config flag (and anything else) does not collide with this set.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-n", "-d", "-u", "-p", "-b", "-g", "-e", "-o", "-q"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.JournalAddr, "a", config.JournalAddr, "journal server address")
	fs.StringVar(&config.NotesAddr, "n", config.NotesAddr, "notes server address")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3PublicBaseURL, "o", config.S3PublicBaseURL, "public base URL for stored objects")
	fs.StringVar(&config.QuoteBaseURL, "q", config.QuoteBaseURL, "quote API base URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
