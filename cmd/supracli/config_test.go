package main

import (
	"io/ioutil"
	"path/filepath"
	"testing"
	"time"

	"github.com/iov-one/suprasig/client"
	"github.com/iov-one/suprasig/suprasigtest/assert"
	"github.com/iov-one/suprasig/tx"
)

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	cfg, err := loadConfig()
	assert.Nil(t, err)
	assert.Equal(t, "testnet", cfg.Network)
	assert.Equal(t, tx.DefaultExpiration, cfg.Expiration)
	assert.Equal(t, uint64(0), cfg.MaxGas)
	assert.Equal(t, client.TestnetURL, cfg.nodeURL())
}

func TestLoadConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "supracli.yaml")
	content := []byte(`
network: mainnet
max_gas: 2000
gas_unit_price: 150
expiration: 90s
`)
	assert.Nil(t, ioutil.WriteFile(path, content, 0600))
	t.Setenv("SUPRACLI_CONFIG", path)

	cfg, err := loadConfig()
	assert.Nil(t, err)
	assert.Equal(t, client.MainnetURL, cfg.nodeURL())
	assert.Equal(t, uint64(2000), cfg.MaxGas)
	assert.Equal(t, uint64(150), cfg.GasUnitPrice)
	assert.Equal(t, 90*time.Second, cfg.Expiration)

	t.Setenv("SUPRACLI_RPC_URL", "http://localhost:27001")
	cfg, err = loadConfig()
	assert.Nil(t, err)
	assert.Equal(t, "http://localhost:27001", cfg.nodeURL())
}

func TestLoadConfigHomeFile(t *testing.T) {
	isolate(t)
	home := t.TempDir()
	t.Setenv("HOME", home)
	assert.Nil(t, ioutil.WriteFile(filepath.Join(home, ".supracli.yaml"), []byte("rpc_url: http://node:8080\n"), 0600))

	cfg, err := loadConfig()
	assert.Nil(t, err)
	assert.Equal(t, "http://node:8080", cfg.nodeURL())
}

func TestLoadConfigMissingFile(t *testing.T) {
	isolate(t)
	t.Setenv("SUPRACLI_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	if _, err := loadConfig(); err == nil {
		t.Fatal("want error")
	}
}
