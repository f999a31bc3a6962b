// Package profile loads the shop profile shown in the till header and footer.
package profile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Profile is the shop identity printed around the cart.
type Profile struct {
	Name    string
	Address string
	Footer  string
}

// Default returns the profile used when no file or override is present.
func Default() Profile {
	return Profile{
		Name:    "Shopping Cart",
		Address: "Counter 1",
		Footer:  "Thank you for shopping",
	}
}

// DefaultPaths are tried in order when Load is called with an empty path.
var DefaultPaths = []string{"till.yaml", "configs/till.yaml"}

type fileConfig struct {
	Shop struct {
		Name    string `yaml:"name"`
		Address string `yaml:"address"`
	} `yaml:"shop"`
	Receipt struct {
		Footer string `yaml:"footer"`
	} `yaml:"receipt"`
}

// Load reads path (or the first existing DefaultPaths entry when path is empty),
// merges it over Default and applies TILL_* environment overrides.
// An explicit path that does not exist is an error.
func Load(path string) (Profile, error) {
	p := Default()

	var (
		data []byte
		err  error
	)
	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return Profile{}, fmt.Errorf("read profile: %w", err)
		}
	} else {
		for _, candidate := range DefaultPaths {
			data, err = os.ReadFile(candidate)
			if err == nil {
				path = candidate
				break
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return Profile{}, fmt.Errorf("read profile %s: %w", candidate, err)
			}
			data = nil
		}
	}

	if data != nil {
		parsed, err := Parse(data)
		if err != nil {
			return Profile{}, fmt.Errorf("profile %s: %w", path, err)
		}
		p = Merge(p, parsed)
	}

	return ApplyEnvOverrides(p, os.Getenv), nil
}

// Parse decodes a YAML profile. Fields missing from the document stay empty.
func Parse(data []byte) (Profile, error) {
	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Profile{}, fmt.Errorf("parse yaml: %w", err)
	}
	return Profile{
		Name:    strings.TrimSpace(cfg.Shop.Name),
		Address: strings.TrimSpace(cfg.Shop.Address),
		Footer:  strings.TrimSpace(cfg.Receipt.Footer),
	}, nil
}

// Merge returns base with every non-empty field of override applied.
func Merge(base, override Profile) Profile {
	if override.Name != "" {
		base.Name = override.Name
	}
	if override.Address != "" {
		base.Address = override.Address
	}
	if override.Footer != "" {
		base.Footer = override.Footer
	}
	return base
}

// ApplyEnvOverrides applies TILL_SHOP_NAME, TILL_SHOP_ADDRESS and TILL_FOOTER.
func ApplyEnvOverrides(p Profile, getenv func(string) string) Profile {
	if getenv == nil {
		return p
	}
	return Merge(p, Profile{
		Name:    strings.TrimSpace(getenv("TILL_SHOP_NAME")),
		Address: strings.TrimSpace(getenv("TILL_SHOP_ADDRESS")),
		Footer:  strings.TrimSpace(getenv("TILL_FOOTER")),
	})
}
