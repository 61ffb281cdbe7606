// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

package cfg1_test

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/momeni/carweb/pkg/adapter/config/cfg1"
	"github.com/momeni/carweb/pkg/adapter/config/settings"
	"github.com/momeni/carweb/pkg/core/repo"
	"github.com/momeni/carweb/pkg/core/usecase/migrationuc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sample = `
versions:
  database: 1.0.0
  config: 1.0.0
database:
  host: 127.0.0.1
  port: 5432
  name: carweb
  pass-dir: /tmp/carweb
gin:
  logger: true
imagekit:
  url-endpoint: https://ik.imagekit.io/demo
  folder: cars
inference:
  base-url: http://localhost:9000
usecases:
  cars:
    cache-ttl: 1h30m
    cache-ttl-minimum: 1m
`

func noEnv(string) string {
	return ""
}

func ExampleConfig_Marshal() {
	c, err := cfg1.Load([]byte(sample), noEnv)
	if err != nil {
		fmt.Println(err)
		return
	}
	b, err := yaml.Marshal(c)
	fmt.Println(err)
	fmt.Print(string(b))
	// Output:
	// <nil>
	// database:
	//     host: 127.0.0.1
	//     port: 5432
	//     name: carweb
	//     pass-dir: /tmp/carweb
	// gin:
	//     logger: true
	//     recovery: false
	// auth:
	//     issuer: carweb
	//     session-lifetime: 24h
	//     secure-cookies: false
	//     github:
	//         client-id: ""
	//         callback-url: ""
	// imagekit:
	//     url-endpoint: https://ik.imagekit.io/demo
	//     folder: cars
	//     timeout: 1m
	// inference:
	//     base-url: http://localhost:9000
	//     timeout: 30s
	// usecases:
	//     cars:
	//         cache-ttl: 1h30m
	//         cache-ttl-minimum: 1m
	//     browse: {}
	// versions:
	//     database: 1.0.0
	//     config: 1.0.0
}

func ExampleConfig_Settings() {
	c, err := cfg1.Load([]byte(sample), noEnv)
	if err != nil {
		fmt.Println(err)
		return
	}
	s := c.Settings()
	fmt.Println(s.Listing.PageSize, s.Listing.CacheTTL)
	fmt.Println(s.Browse.FilterDebounce, s.Logger)
	// Output:
	// 8 1h30m0s
	// 800ms true
}

func TestLoadReadsSecretsFromEnv(t *testing.T) {
	env := map[string]string{
		cfg1.EnvDatabaseURL:   "postgresql://u:p@db:5432/carweb",
		cfg1.EnvSessionSecret: "0123456789abcdef0123",
		cfg1.EnvImageKitKey:   "private_key",
	}
	c, err := cfg1.Load([]byte(`
versions:
  database: 1.0.0
  config: 1.0.0
auth:
  session-lifetime: 2h
imagekit:
  url-endpoint: https://ik.imagekit.io/demo
`), func(k string) string { return env[k] })
	require.NoError(t, err)
	assert.Equal(t, env[cfg1.EnvDatabaseURL], c.Database.URL)

	m, err := c.Auth.SessionManager()
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, m.Lifetime())
	assert.Nil(t, c.Auth.GitHubProvider(), "github is not configured")

	_, err = c.ImageKit.NewClient()
	assert.NoError(t, err)
	_, err = c.Inference.NewClient()
	assert.Error(t, err, "inference base url is missing")

	b, err := yaml.Marshal(c)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "private_key")
	assert.NotContains(t, string(b), "0123456789abcdef")
}

func TestLoadRejectsInvalidSettings(t *testing.T) {
	for name, data := range map[string]string{
		"newer minor": `
versions: {database: 1.0.0, config: 1.1.0}
database: {host: h, port: 5432, name: n}`,
		"other major": `
versions: {database: 1.0.0, config: 2.0.0}
database: {host: h, port: 5432, name: n}`,
		"missing host": `
versions: {database: 1.0.0, config: 1.0.0}
database: {port: 5432, name: n}`,
		"ttl out of range": `
versions: {database: 1.0.0, config: 1.0.0}
database: {host: h, port: 5432, name: n}
usecases: {cars: {cache-ttl: 1s, cache-ttl-minimum: 1m}}`,
		"invalid duration": `
versions: {database: 1.0.0, config: 1.0.0}
database: {host: h, port: 5432, name: n}
usecases: {cars: {cache-ttl: soon}}`,
	} {
		_, err := cfg1.Load([]byte(data), noEnv)
		assert.Error(t, err, name)
	}
}

func TestVerifyRangeClampsValue(t *testing.T) {
	v := settings.Duration(time.Second)
	pv := &v
	minb := settings.Duration(time.Minute)
	err := settings.VerifyRange(&pv, &minb, nil)
	require.NotNil(t, err)
	assert.True(t, err.LessThanMin)
	assert.Equal(t, minb, *pv)
}

func TestConnectionURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".pgpass")
	require.NoError(t, os.WriteFile(path, []byte(`# comment
db:5432:carweb:other:nope
db:5432:carweb:carweb:s3cr:et
`), 0o600))
	d := cfg1.Database{Host: "db", Port: 5432, Name: "carweb"}
	u, err := d.ConnectionURL(repo.NormalRole, path)
	require.NoError(t, err)
	assert.Equal(t, "postgresql://carweb:s3cr%3Aet@db:5432/carweb", u)

	d.Name = "missing"
	_, err = d.ConnectionURL(repo.NormalRole, path)
	assert.Error(t, err)
}

func TestRolePassword(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".pgpass"), []byte(`
db:5432:carweb:admin:adm1n
db:5432:carweb:carweb:
db:5432:carweb:carweb:n0rmal
`), 0o600))
	c := &cfg1.Config{Database: cfg1.Database{
		Host: "db", Port: 5432, Name: "carweb", PassDir: dir,
	}}
	pass, err := c.RolePassword(repo.NormalRole)
	require.NoError(t, err)
	assert.Equal(t, "n0rmal", pass, "empty passwords must be skipped")
	pass, err = c.RolePassword(repo.AdminRole)
	require.NoError(t, err)
	assert.Equal(t, "adm1n", pass)
	_, err = c.RolePassword("other")
	assert.Error(t, err)
}

func TestAdminConnectionPoolNeedsPassFile(t *testing.T) {
	c := &cfg1.Config{Database: cfg1.Database{
		URL: "postgresql://carweb:x@db:5432/carweb",
	}}
	_, err := c.AdminConnectionPool(context.Background())
	assert.ErrorIs(t, err, migrationuc.ErrNoAdminRole)
}
