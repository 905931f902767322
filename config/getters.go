package config

import "errors"

var errNotInitialized = errors.New("configuration not initialized")

// Exists reports whether key is present, including sections outside the typed Config.
func (c *Config) Exists(key string) bool {
	return c != nil && c.k != nil && c.k.Exists(key)
}

// GetString returns the string at key, or def when the key is absent.
func (c *Config) GetString(key, def string) string {
	if !c.Exists(key) {
		return def
	}
	return c.k.String(key)
}

// Unmarshal decodes the section at key into out.
func (c *Config) Unmarshal(key string, out any) error {
	if c == nil || c.k == nil {
		return errNotInitialized
	}
	return c.k.Unmarshal(key, out)
}
