package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Overrides is a flat per-site key/value store loaded from the `overrides`
// block of the config file. Keys address one audit option for one site:
//
//	overrides:
//	  "site:home:audit:allowPrintersOnMainNetwork": "true"
//	  "site:office:audit:unusedPortDays": "14"
//
// Lookups are case-insensitive; viper lowercases map keys on read anyway.
type Overrides struct {
	values map[string]string
}

// LoadOverrides reads the overrides block from the given config file. An
// empty path yields an empty store, which is a valid no-override setup.
func LoadOverrides(configPath string) (*Overrides, error) {
	o := &Overrides{values: make(map[string]string)}
	if configPath == "" {
		return o, nil
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	for key, value := range v.GetStringMapString("overrides") {
		o.values[strings.ToLower(key)] = value
	}
	return o, nil
}

// Get returns the raw override value for the key, reporting whether it was
// set at all.
func (o *Overrides) Get(_ context.Context, key string) (string, bool, error) {
	value, ok := o.values[strings.ToLower(key)]
	return value, ok, nil
}
