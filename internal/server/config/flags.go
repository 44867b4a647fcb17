package config

import (
	"flag"
	"os"
	"time"

	"github.com/avelkov/draftforge/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN (empty runs in-memory)
//	-m string   model catalog JSON path
//	-t int      comparison per-member timeout, seconds
//	-r int      per-provider requests per minute
//	-b int      per-provider rate-limit burst
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes
//     using flagx.FilterArgs, avoiding collisions with other components.
//   - The timeout flag is accepted as an integer in seconds and then
//     converted to a time.Duration.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-m", "-t", "-r", "-b"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrHTTP, "a", config.EndpointAddrHTTP, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.ModelCatalogPath, "m", config.ModelCatalogPath, "model catalog JSON path")

	compareTaskTimeout := fs.Int("t", int(config.CompareTaskTimeout.Seconds()), "comparison task timeout (in seconds)")

	fs.IntVar(&config.RequestsPerMinute, "r", config.RequestsPerMinute, "per-provider requests per minute")
	fs.IntVar(&config.RateBurst, "b", config.RateBurst, "per-provider rate-limit burst")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.CompareTaskTimeout = time.Duration(*compareTaskTimeout) * time.Second
}
