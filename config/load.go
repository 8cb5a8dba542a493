package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/lixenwraith/softbody/toml"
)

// EnvPrefix starts every environment override: SOFTBODY_<SECTION>_<KEY>
const EnvPrefix = "SOFTBODY_"

// Source selects where Load reads from
type Source struct {
	// File is a TOML path; empty skips the file layer
	File string
	// EnvFile is a dotenv path; a missing file is skipped
	EnvFile string
	// LookupEnv reads process variables, os.LookupEnv when nil
	LookupEnv func(string) (string, bool)
}

// Load builds the configuration: defaults, TOML file, dotenv file, process
// environment, then validation
func Load(src Source) (*Config, error) {
	cfg := Default()

	if src.File != "" {
		data, err := os.ReadFile(src.File)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := toml.UnmarshalStrict(data, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", src.File, err)
		}
		log.Printf("config: loaded %s", src.File)
	}

	dotenv := map[string]string{}
	if src.EnvFile != "" {
		m, err := godotenv.Read(src.EnvFile)
		switch {
		case err == nil:
			dotenv = m
			log.Printf("config: loaded %d variables from %s", len(m), src.EnvFile)
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("read env file %s: %w", src.EnvFile, err)
		}
	}

	lookup := src.LookupEnv
	if lookup == nil {
		lookup = os.LookupEnv
	}
	// Process environment wins over the dotenv file
	merged := func(key string) (string, bool) {
		if v, ok := lookup(key); ok {
			return v, true
		}
		v, ok := dotenv[key]
		return v, ok
	}
	if err := applyEnv(cfg, merged); err != nil {
		return nil, fmt.Errorf("environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// EnvName returns the override variable for a section key, e.g. SOFTBODY_PHYSICS_HZ
func EnvName(section, key string) string {
	return EnvPrefix + strings.ToUpper(section) + "_" + strings.ToUpper(key)
}

// applyEnv renders matching variables as a TOML fragment and decodes it over cfg
// Table sections only; [[bodies]] placements are file-only
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	var doc strings.Builder
	rt := reflect.TypeOf(*cfg)

	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.Type.Kind() != reflect.Struct {
			continue
		}
		section := tagName(sf)
		header := false

		for j := 0; j < sf.Type.NumField(); j++ {
			kf := sf.Type.Field(j)
			key := tagName(kf)
			raw, ok := lookup(EnvName(section, key))
			if !ok {
				continue
			}
			if !header {
				fmt.Fprintf(&doc, "[%s]\n", section)
				header = true
			}
			if kf.Type.Kind() == reflect.String || kf.Type == reflect.TypeOf(time.Duration(0)) {
				raw = strconv.Quote(raw)
			}
			fmt.Fprintf(&doc, "%s = %s\n", key, raw)
		}
	}

	if doc.Len() == 0 {
		return nil
	}
	return toml.UnmarshalStrict([]byte(doc.String()), cfg)
}

func tagName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
	if name == "" {
		return f.Name
	}
	return name
}

// Write encodes cfg as TOML, suitable as a starting config file
func Write(w io.Writer, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = w.Write(data)
	return err
}
