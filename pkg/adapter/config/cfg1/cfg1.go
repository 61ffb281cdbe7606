// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package cfg1 makes it possible to load configuration settings with
// version 1.x.y since all minor and patch versions (which are known)
// with the same major version, can be loaded with one implementation.
// When trying to serialize and write out settings, the latest known
// minor and patch version will be used since older versions (with the
// same major version) can ignore the extra fields too.
//
// Secrets are never read from the configuration file. They are taken
// from the environment variables by the Load function, so the file may
// be kept in a version control system.
package cfg1

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/momeni/carweb/pkg/adapter/auth/github"
	"github.com/momeni/carweb/pkg/adapter/auth/session"
	"github.com/momeni/carweb/pkg/adapter/config/settings"
	"github.com/momeni/carweb/pkg/adapter/config/vers"
	"github.com/momeni/carweb/pkg/adapter/db/postgres"
	"github.com/momeni/carweb/pkg/adapter/db/postgres/migration"
	"github.com/momeni/carweb/pkg/adapter/hash/scram"
	"github.com/momeni/carweb/pkg/adapter/imagekit"
	"github.com/momeni/carweb/pkg/adapter/inference"
	"github.com/momeni/carweb/pkg/adapter/restful/gin"
	"github.com/momeni/carweb/pkg/core/model"
	"github.com/momeni/carweb/pkg/core/repo"
	"github.com/momeni/carweb/pkg/core/usecase/browseuc"
	"github.com/momeni/carweb/pkg/core/usecase/carsuc"
	"github.com/momeni/carweb/pkg/core/usecase/migrationuc"
	"gopkg.in/yaml.v3"
)

// These constants define the major, minor, and patch version of the
// configuration settings which are supported by the Config struct.
const (
	Major = 1
	Minor = 0
	Patch = 0
)

// Version is the semantic version of Config struct.
var Version = model.SemVer{Major, Minor, Patch}

// Names of the environment variables which provide the secrets.
const (
	EnvDatabaseURL   = "DATABASE_URL"
	EnvSessionSecret = "CARWEB_SESSION_SECRET"
	EnvGitHubSecret  = "GITHUB_CLIENT_SECRET"
	EnvImageKitKey   = "IMAGEKIT_PRIVATE_KEY"
	EnvInferenceKey  = "INFERENCE_API_KEY"
)

// Default values of the optional settings.
const (
	DefaultIssuer           = "carweb"
	DefaultSessionLifetime  = 24 * time.Hour
	DefaultImageKitTimeout  = time.Minute
	DefaultInferenceTimeout = 30 * time.Second
)

// Config contains all settings which are required by different parts
// of the project following the v1.x.y format, such as adapters or
// use cases. It is preferred to implement Config with primitive fields
// or other structs which are defined locally, not models or structs
// which are defined in lower layers, so the configuration can be
// versioned and kept intact while other layers can change freely.
type Config struct {
	Database  Database  // PostgreSQL database connection settings
	Gin       Gin       // Gin-Gonic instantiation settings
	Auth      Auth      // Session and GitHub sign-in settings
	ImageKit  ImageKit  `yaml:"imagekit"` // Image generation and storage
	Inference Inference // Text inference service settings
	Usecases  Usecases  // Configuration settings for supported use cases

	// Vers contains the configuration file and database schema version
	// strings corresponding to this Config instance and its Database
	// target.
	Vers vers.Config `yaml:",inline"`
}

// Database contains the database related configuration settings.
type Database struct {
	Host    string // domain name or IP address of the DBMS server
	Port    int    // port number of the DBMS server
	Name    string // database name, like carweb
	PassDir string `yaml:"pass-dir"` // path of the passwords dir

	// URL is taken from the DATABASE_URL environment variable and
	// if it is not empty, it is used instead of the above fields.
	URL string `yaml:"-"`
}

// ConnectionPool creates a database connection pool using the
// connection information which are kept in the `c` settings.
// It reifies the migrationuc.Settings interface.
func (c *Config) ConnectionPool(ctx context.Context) (repo.Pool, error) {
	return c.rolePool(ctx, repo.NormalRole)
}

// AdminConnectionPool creates a database connection pool for the
// repo.AdminRole. Since the DATABASE_URL environment variable only
// identifies one role, it returns migrationuc.ErrNoAdminRole when it
// is set. It reifies the migrationuc.Settings interface.
func (c *Config) AdminConnectionPool(
	ctx context.Context,
) (repo.Pool, error) {
	if c.Database.URL != "" {
		return nil, fmt.Errorf(
			"%s is set: %w", EnvDatabaseURL, migrationuc.ErrNoAdminRole,
		)
	}
	return c.rolePool(ctx, repo.AdminRole)
}

func (c *Config) rolePool(
	ctx context.Context, r repo.Role,
) (repo.Pool, error) {
	p, err := c.Database.ConnectionPool(ctx, r)
	if err != nil {
		return nil, fmt.Errorf(
			"connecting to %s at %s:%d as %s: %w",
			c.Database.Name, c.Database.Host, c.Database.Port, r, err,
		)
	}
	return p, nil
}

// RolePassword returns the password of the `r` role from the pgpass
// file of the database settings.
// It reifies the migrationuc.Settings interface.
func (c *Config) RolePassword(r repo.Role) (string, error) {
	return c.Database.Password(r, c.Database.PassFile())
}

// NewSchemaRepo instantiates a fresh Schema repository which hashes
// the role passwords with SCRAM-SHA-256.
func (c *Config) NewSchemaRepo() repo.Schema {
	return migration.New(scram.SHA256())
}

// SchemaVersion returns the semantic version of the database schema
// which its connection information are kept by this Config struct.
// There is no direct dependency between the configuration file and
// database schema versions.
func (c *Config) SchemaVersion() model.SemVer {
	return c.Vers.Versions.Database
}

// PassFile returns the path of the .pgpass file in d.PassDir.
func (d Database) PassFile() string {
	return filepath.Join(d.PassDir, ".pgpass")
}

// ConnectionPool creates a database connection pool for the `r` role.
// If d.URL is set, it is used as is. Otherwise, the .pgpass file in the
// d.PassDir folder is consulted which should conform with the pgpass
// format with lines like this:
//
//	host:port:dbname:role:password
func (d Database) ConnectionPool(
	ctx context.Context, r repo.Role,
) (*postgres.Pool, error) {
	u := d.URL
	if u == "" {
		path := d.PassFile()
		var err error
		u, err = d.ConnectionURL(r, path)
		if err != nil {
			return nil, fmt.Errorf("using %q pass-file: %w", path, err)
		}
	}
	return postgres.NewPool(ctx, u)
}

// Password reads the password of the `r` role from the `path` pgpass
// file, matching the host, port, and database name of `d` too.
// The `path` file may contain empty or `#`-commented lines in addition
// to the password specifying lines.
func (d Database) Password(r repo.Role, path string) (string, error) {
	passLines, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading pass-file: %w", err)
	}
	prfx := fmt.Sprintf("%s:%d:%s:%s:", d.Host, d.Port, d.Name, r)
	for _, line := range strings.Split(string(passLines), "\n") {
		if line == "" || line[0] == '#' {
			continue
		}
		if pass, ok := strings.CutPrefix(line, prfx); ok && pass != "" {
			return pass, nil
		}
	}
	return "", fmt.Errorf("no matching password line for %q", r)
}

// ConnectionURL returns the database connection URL embedding the host,
// port, role name, database name, and password value. These items are
// directly taken from the `d` settings, but the role name which is
// specified by the `r` argument and the password value which is read
// from the given `path` file. Returned URL has the postgresql scheme.
func (d Database) ConnectionURL(
	r repo.Role, path string,
) (string, error) {
	pass, err := d.Password(r, path)
	if err != nil {
		return "", err
	}
	u := url.URL{
		Scheme: "postgresql",
		User:   url.UserPassword(string(r), pass),
		Host:   fmt.Sprintf("%s:%d", d.Host, d.Port),
		Path:   d.Name,
	}
	return u.String(), nil
}

// ValidateAndNormalize validates the database settings and returns an
// error if they were not acceptable.
func (d *Database) ValidateAndNormalize() error {
	if d.URL != "" {
		return nil
	}
	switch {
	case d.Host == "":
		return errors.New("database host is empty")
	case d.Port <= 0 || d.Port > 65535:
		return fmt.Errorf("invalid database port: %d", d.Port)
	case d.Name == "":
		return errors.New("database name is empty")
	}
	return nil
}

// Gin contains the gin-gonic related configuration settings.
// Fields are defined as pointers, so it is possible to detect if they
// are or are not initialized and fill them by their default values.
type Gin struct {
	Logger   *bool // Whether to register the access log middleware
	Recovery *bool // Whether to register the gin.Recovery() middleware

	// PublicURL is the externally visible base URL, like
	// https://cars.example.com, which prefixes the sitemap locations.
	// If it is empty, the requests host is used.
	PublicURL string `yaml:"public-url,omitempty"`
}

// NewEngine instantiates a new gin-gonic engine instance based on
// the `g` settings.
func (g Gin) NewEngine() *gin.Engine {
	middlewares := make([]gin.HandlerFunc, 0, 2)
	if *g.Logger {
		middlewares = append(middlewares, gin.Logger())
	}
	if *g.Recovery {
		middlewares = append(middlewares, gin.Recovery())
	}
	return gin.New(middlewares...)
}

// Auth contains the session and sign-in settings.
type Auth struct {
	Issuer          *string
	SessionLifetime *settings.Duration `yaml:"session-lifetime"`
	SecureCookies   *bool              `yaml:"secure-cookies"`
	GitHub          GitHub             `yaml:"github"`

	secret string // from CARWEB_SESSION_SECRET
}

// GitHub contains the GitHub OAuth application settings.
// The sign-in routes are disabled when ClientID is empty.
type GitHub struct {
	ClientID    string `yaml:"client-id"`
	CallbackURL string `yaml:"callback-url"`

	secret string // from GITHUB_CLIENT_SECRET
}

// SessionManager instantiates the session tokens manager.
func (a Auth) SessionManager() (*session.Manager, error) {
	return session.New(
		a.secret, *a.Issuer, time.Duration(*a.SessionLifetime),
	)
}

// GitHubProvider instantiates the GitHub sign-in provider or returns
// nil if GitHub sign-in is not configured.
func (a Auth) GitHubProvider() *github.Provider {
	g := a.GitHub
	if g.ClientID == "" {
		return nil
	}
	return github.New(g.ClientID, g.secret, g.CallbackURL)
}

// ImageKit contains the image generation and storage settings.
type ImageKit struct {
	URLEndpoint string             `yaml:"url-endpoint"`
	UploadURL   string             `yaml:"upload-url,omitempty"`
	Folder      string             `yaml:"folder"`
	Timeout     *settings.Duration `yaml:"timeout"`

	privateKey string // from IMAGEKIT_PRIVATE_KEY
}

// NewClient instantiates the ImageKit client.
func (ik ImageKit) NewClient() (*imagekit.Client, error) {
	return imagekit.New(imagekit.Config{
		URLEndpoint: ik.URLEndpoint,
		UploadURL:   ik.UploadURL,
		Folder:      ik.Folder,
		PrivateKey:  ik.privateKey,
		Timeout:     time.Duration(*ik.Timeout),
	})
}

// Inference contains the text inference service settings.
type Inference struct {
	BaseURL string             `yaml:"base-url"`
	Timeout *settings.Duration `yaml:"timeout"`

	apiKey string // from INFERENCE_API_KEY
}

// NewClient instantiates the inference client.
func (inf Inference) NewClient() (*inference.Client, error) {
	return inference.New(inference.Config{
		BaseURL: inf.BaseURL,
		APIKey:  inf.apiKey,
		Timeout: time.Duration(*inf.Timeout),
	})
}

// Usecases contains the configuration settings for all use cases.
type Usecases struct {
	Cars   Cars   // cars use cases related settings
	Browse Browse // browsing client related settings
}

// Cars contains the configuration settings for the cars use cases.
type Cars struct {
	// CacheTTL indicates the maximum staleness of the cached listing
	// pages. A nil value lets the use cases layer select a default.
	CacheTTL *settings.Duration `yaml:"cache-ttl"`
	// MinCacheTTL is the inclusive minimum acceptable value for the
	// CacheTTL setting. A missing value indicates no lower bound.
	MinCacheTTL *settings.Duration `yaml:"cache-ttl-minimum"`
	// MaxCacheTTL is the inclusive maximum acceptable value for the
	// CacheTTL setting. A missing value indicates no upper bound.
	MaxCacheTTL *settings.Duration `yaml:"cache-ttl-maximum"`
}

// NewUseCase instantiates a new cars use case based on the settings
// in the `c` struct.
func (c Cars) NewUseCase(
	p repo.Pool, cars repo.Cars, contacts repo.Contacts,
	cache carsuc.Cache,
) (*carsuc.UseCase, error) {
	opts := make([]carsuc.Option, 0, 1)
	if c.CacheTTL != nil {
		opts = append(opts, carsuc.WithCacheTTL(time.Duration(*c.CacheTTL)))
	}
	return carsuc.New(p, cars, contacts, cache, opts...)
}

// Browse contains the browsing client settings.
type Browse struct {
	// FilterDebounce is the quiet period of the type filter. A nil
	// value lets the use cases layer select a default.
	FilterDebounce *settings.Duration `yaml:"filter-debounce"`
}

// Options returns the filter controller options.
func (b Browse) Options() []browseuc.Option {
	if b.FilterDebounce == nil {
		return nil
	}
	return []browseuc.Option{
		browseuc.WithDebounce(time.Duration(*b.FilterDebounce)),
	}
}

// Load unmarshals the data byte slice and loads a Config instance
// assuming that it contains the Config settings. Extra items in the
// data will be ignored and missing items will take their default
// values. The secrets are read from the environment variables using
// the getenv function (which is normally os.Getenv). Thereafter,
// loaded Config will be validated and normalized in order to ensure
// that provided settings are acceptable.
func Load(data []byte, getenv func(string) string) (*Config, error) {
	c := &Config{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("unmarshalling yaml: %w", err)
	}
	c.Database.URL = getenv(EnvDatabaseURL)
	c.Auth.secret = getenv(EnvSessionSecret)
	c.Auth.GitHub.secret = getenv(EnvGitHubSecret)
	c.ImageKit.privateKey = getenv(EnvImageKitKey)
	c.Inference.apiKey = getenv(EnvInferenceKey)
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	if err := c.Vers.Validate(Major, Minor); err != nil {
		return fmt.Errorf(
			"expecting version v%d.%d: %w", Major, Minor, err,
		)
	}
	settings.Nil2Zero(&c.Gin.Logger)
	settings.Nil2Zero(&c.Gin.Recovery)
	settings.Nil2Zero(&c.Auth.SecureCookies)
	settings.Default(&c.Auth.Issuer, DefaultIssuer)
	settings.Default(
		&c.Auth.SessionLifetime, settings.Duration(DefaultSessionLifetime),
	)
	settings.Default(
		&c.ImageKit.Timeout, settings.Duration(DefaultImageKitTimeout),
	)
	settings.Default(
		&c.Inference.Timeout, settings.Duration(DefaultInferenceTimeout),
	)
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	if *c.Auth.SessionLifetime <= 0 {
		return errors.New("session lifetime is not positive")
	}
	if err := settings.VerifyRange(
		&c.Usecases.Cars.CacheTTL,
		c.Usecases.Cars.MinCacheTTL,
		c.Usecases.Cars.MaxCacheTTL,
	); err != nil {
		return fmt.Errorf(
			"VerifyRange(cache ttl=%v, minb=%v, maxb=%v): %w",
			err.Value,
			c.Usecases.Cars.MinCacheTTL,
			c.Usecases.Cars.MaxCacheTTL,
			err,
		)
	}
	return nil
}

// Settings returns the settings which are visible by end-users.
func (c *Config) Settings() model.Settings {
	s := model.Settings{
		Listing: model.ListingSettings{
			PageSize: model.ListingPageSize,
			CacheTTL: carsuc.DefaultCacheTTL,
		},
		Browse: model.BrowseSettings{
			FilterDebounce: browseuc.DefaultDebounce,
		},
		Logger: *c.Gin.Logger,
	}
	if ttl := c.Usecases.Cars.CacheTTL; ttl != nil {
		s.Listing.CacheTTL = time.Duration(*ttl)
	}
	if d := c.Usecases.Browse.FilterDebounce; d != nil {
		s.Browse.FilterDebounce = time.Duration(*d)
	}
	return s
}

// Marshalled struct contains a field for each one of the Config struct
// fields. The field names may be different for simplicity, but the
// yaml tag of fields are chosen to have consistent names after the
// serialization operation. The types of those fields are the same if
// their default serialization format is acceptable, otherwise, they
// will be serialized manually using the Marshal method and their
// target primitive types will be used in the Marshalled struct.
type Marshalled struct {
	Database Database
	Gin      Gin
	Auth     struct {
		Issuer          *string
		SessionLifetime *string `yaml:"session-lifetime"`
		SecureCookies   *bool   `yaml:"secure-cookies"`
		GitHub          GitHub  `yaml:"github"`
	}
	ImageKit struct {
		URLEndpoint string  `yaml:"url-endpoint"`
		UploadURL   string  `yaml:"upload-url,omitempty"`
		Folder      string  `yaml:"folder"`
		Timeout     *string `yaml:"timeout"`
	} `yaml:"imagekit"`
	Inference struct {
		BaseURL string  `yaml:"base-url"`
		Timeout *string `yaml:"timeout"`
	}
	Usecases struct {
		Cars struct {
			CacheTTL    *string `yaml:"cache-ttl,omitempty"`
			MinCacheTTL *string `yaml:"cache-ttl-minimum,omitempty"`
			MaxCacheTTL *string `yaml:"cache-ttl-maximum,omitempty"`
		}
		Browse struct {
			FilterDebounce *string `yaml:"filter-debounce,omitempty"`
		}
	}
	Vers *vers.Marshalled `yaml:",inline"`
}

// MarshalYAML computes an instance of the Marshalled struct, as created
// by the Marshal method, so it may be marshalled instead of the `c`
// Config instance. The secrets are not included.
func (c *Config) MarshalYAML() (interface{}, error) {
	return c.Marshal(), nil
}

// Marshal creates an instance of the Marshalled struct and fills it
// with the `c` Config instance contents. Any field which requires
// a specific marshaling logic is replaced by a primitive data type,
// so it can contain the properly serialized version of that field.
func (c *Config) Marshal() *Marshalled {
	m := &Marshalled{}
	m.Database = c.Database
	m.Gin = c.Gin
	m.Auth.Issuer = c.Auth.Issuer
	m.Auth.SessionLifetime = c.Auth.SessionLifetime.Marshal()
	m.Auth.SecureCookies = c.Auth.SecureCookies
	m.Auth.GitHub = c.Auth.GitHub
	m.ImageKit.URLEndpoint = c.ImageKit.URLEndpoint
	m.ImageKit.UploadURL = c.ImageKit.UploadURL
	m.ImageKit.Folder = c.ImageKit.Folder
	m.ImageKit.Timeout = c.ImageKit.Timeout.Marshal()
	m.Inference.BaseURL = c.Inference.BaseURL
	m.Inference.Timeout = c.Inference.Timeout.Marshal()
	cars := c.Usecases.Cars
	m.Usecases.Cars.CacheTTL = cars.CacheTTL.Marshal()
	m.Usecases.Cars.MinCacheTTL = cars.MinCacheTTL.Marshal()
	m.Usecases.Cars.MaxCacheTTL = cars.MaxCacheTTL.Marshal()
	m.Usecases.Browse.FilterDebounce =
		c.Usecases.Browse.FilterDebounce.Marshal()
	m.Vers = c.Vers.Marshal()
	return m
}

// Version returns the semantic version of this Config struct contents
// which its major version is equal to 1.
func (c *Config) Version() model.SemVer {
	return c.Vers.Versions.Config
}
