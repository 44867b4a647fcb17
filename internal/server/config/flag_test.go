package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_parseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Run("overrides from flags", func(t *testing.T) {
		os.Args = []string{"testbin", "-a", ":9191", "-d", "postgres://localhost/df", "-t", "10", "-r", "30"}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFlags(cfg)

		assert.Equal(t, ":9191", cfg.EndpointAddrHTTP)
		assert.Equal(t, "postgres://localhost/df", cfg.DatabaseDSN)
		assert.Equal(t, 10*time.Second, cfg.CompareTaskTimeout)
		assert.Equal(t, 30, cfg.RequestsPerMinute)
		assert.Equal(t, 10, cfg.RateBurst)
	})

	t.Run("unknown flags are ignored", func(t *testing.T) {
		os.Args = []string{"testbin", "-z", "whatever", "-a", ":7777"}

		cfg := &Config{}
		cfg.LoadDefaults()
		parseFlags(cfg)

		assert.Equal(t, ":7777", cfg.EndpointAddrHTTP)
	})
}
