package commands

import (
	"github.com/gaborage/go-bricks-actionlog/config"
)

const (
	grpcAddressKey = "grpc.address"
	demoStockKey   = "demo.stock"
)

// stockFunc decides the initial stock once the configuration is loaded.
type stockFunc func(cfg *config.Config) (map[string]int, error)

// fixedStock ignores the configuration.
func fixedStock(levels map[string]int) stockFunc {
	return func(*config.Config) (map[string]int, error) { return levels, nil }
}

// configuredStock reads the demo.stock section, or stocks every product with fallback
// units when the section is absent.
func configuredStock(fallback int, products ...string) stockFunc {
	return func(cfg *config.Config) (map[string]int, error) {
		if cfg.Exists(demoStockKey) {
			var levels map[string]int
			if err := cfg.Unmarshal(demoStockKey, &levels); err != nil {
				ce := config.NewValidationError(demoStockKey, "expected product: units pairs")
				ce.Cause = err
				return nil, ce
			}
			return levels, nil
		}
		levels := make(map[string]int, len(products))
		for _, p := range products {
			levels[p] = fallback
		}
		return levels, nil
	}
}

// grpcAddress returns the flag value, else grpc.address, else a not-configured error.
func grpcAddress(cfg *config.Config, flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if addr := cfg.GetString(grpcAddressKey, ""); addr != "" {
		return addr, nil
	}
	return "", config.NewNotConfiguredError(grpcAddressKey)
}
