// Package config loads typed configuration from environment variables.
//
// Config structs declare their variables with caarlos0/env tags:
//
//	type Config struct {
//	    AdminEmail string `env:"CONTACT_ADMIN_EMAIL,required"`
//	    Policy     string `env:"CONTACT_POLICY" envDefault:"strict"`
//	}
//
// Load parses a struct once per type and serves later calls from a cache, so
// packages can ask for their own config independently. A .env file in the
// working directory is read on first use when present; LoadEnvFiles reads
// explicit files instead. Values already set in the process environment win
// over file values.
package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var (
	ErrParsingConfig = errors.New("failed to parse environment variables into config")
	ErrNilPointer    = errors.New("nil pointer provided to config loader")
	ErrEnvFile       = errors.New("failed to read env file")
)

var (
	cache          sync.Map // reflect.Type -> *entry
	dotenvOnce     sync.Once
	explicitDotenv bool
	dotenvMu       sync.Mutex
)

type entry struct {
	once  sync.Once
	value any
	err   error
}

// LoadEnvFiles reads the given files into the process environment. It
// replaces the implicit ./.env lookup and must run before the first Load.
func LoadEnvFiles(paths ...string) error {
	dotenvMu.Lock()
	defer dotenvMu.Unlock()

	explicitDotenv = true
	if len(paths) == 0 {
		return nil
	}
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrEnvFile, err)
	}
	return nil
}

func loadDefaultDotenv() {
	dotenvOnce.Do(func() {
		dotenvMu.Lock()
		defer dotenvMu.Unlock()
		if !explicitDotenv {
			// the file is optional
			_ = godotenv.Load()
		}
	})
}

// Load fills v from the environment. Each config type is parsed at most once
// per process; later calls copy the cached value.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	loadDefaultDotenv()

	key := reflect.TypeFor[T]()
	actual, _ := cache.LoadOrStore(key, &entry{})
	e := actual.(*entry)

	e.once.Do(func() {
		parsed, err := Parse[T]()
		if err != nil {
			e.err = err
			return
		}
		e.value = parsed
	})

	if e.err != nil {
		// allow a retry after the environment has been fixed
		cache.CompareAndDelete(key, e)
		return e.err
	}
	*v = e.value.(T)
	return nil
}

// Parse reads a fresh T from the environment without caching.
func Parse[T any]() (T, error) {
	var v T
	if err := env.Parse(&v); err != nil {
		return v, errors.Join(ErrParsingConfig, err)
	}
	return v, nil
}

// MustLoad is Load for values the process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
