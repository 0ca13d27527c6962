package cmd

import (
	"testing"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TEENet-io/bridge-federator/common"
	"github.com/TEENet-io/bridge-federator/federator"
)

func randKeyHex(t *testing.T) string {
	sk, err := crypto.GenerateKey()
	require.NoError(t, err)
	return "0x" + ethcommon.Bytes2Hex(crypto.FromECDSA(sk))
}

func validViper(t *testing.T) *viper.Viper {
	v := viper.New()
	v.Set(KEY_SOURCE_RPC_URL, "http://127.0.0.1:8545")
	v.Set(KEY_SOURCE_BRIDGE_ADDR, common.RandEthAddress().Hex())
	v.Set(KEY_SOURCE_FROM_BLOCK, "120")
	v.Set(KEY_DEST_RPC_URL, "http://127.0.0.1:8546")
	v.Set(KEY_DEST_FEDERATION_ADDR, common.RandEthAddress().Hex())
	v.Set(KEY_FEDERATOR_PRIVATE_KEY, randKeyHex(t))
	return v
}

func TestLoadFederatorConfigDefaults(t *testing.T) {
	cfg, err := LoadFederatorConfig(validViper(t))
	require.NoError(t, err)

	assert.Equal(t, uint64(120), cfg.SourceFromBlock)
	assert.Equal(t, "./db", cfg.StoragePath)
	assert.Equal(t, "file", cfg.CheckpointBackend)
	assert.Equal(t, time.Minute, cfg.RunInterval)
	assert.Equal(t, 2*time.Minute, cfg.ReceiptTimeout)
	assert.Equal(t, 1.2, cfg.GasMultiplier)
	assert.Equal(t, "0.0.0.0", cfg.HttpIp)
	assert.Equal(t, "8080", cfg.HttpPort)
}

func TestLoadFederatorConfigOverrides(t *testing.T) {
	v := validViper(t)
	v.Set(KEY_RUN_INTERVAL, "30s")
	v.Set(KEY_RECEIPT_TIMEOUT, "0s")
	v.Set(KEY_GAS_MULTIPLIER, "1.5")
	v.Set(KEY_CHECKPOINT_BACKEND, "sqlite")
	v.Set(KEY_STORAGE_PATH, "/var/lib/federator")

	cfg, err := LoadFederatorConfig(v)
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.RunInterval)
	assert.Equal(t, time.Duration(0), cfg.ReceiptTimeout)
	assert.Equal(t, 1.5, cfg.GasMultiplier)
	assert.Equal(t, "sqlite", cfg.CheckpointBackend)
	assert.Equal(t, "/var/lib/federator", cfg.StoragePath)
}

func TestFederatorConfigValidate(t *testing.T) {
	for name, tc := range map[string]struct {
		key   string
		value string
	}{
		"missing source url":      {KEY_SOURCE_RPC_URL, ""},
		"missing dest url":        {KEY_DEST_RPC_URL, ""},
		"bad bridge address":      {KEY_SOURCE_BRIDGE_ADDR, "0x1234"},
		"zero federation address": {KEY_DEST_FEDERATION_ADDR, "0x0000000000000000000000000000000000000000"},
		"bad side bridge address": {KEY_DEST_BRIDGE_ADDR, "bridge"},
		"missing key":             {KEY_FEDERATOR_PRIVATE_KEY, ""},
		"non hex key":             {KEY_FEDERATOR_PRIVATE_KEY, "0xnothex"},
		"unknown backend":         {KEY_CHECKPOINT_BACKEND, "redis"},
		"zero interval":           {KEY_RUN_INTERVAL, "0s"},
		"small gas multiplier":    {KEY_GAS_MULTIPLIER, "0.9"},
	} {
		t.Run(name, func(t *testing.T) {
			v := validViper(t)
			v.Set(tc.key, tc.value)

			_, err := LoadFederatorConfig(v)
			require.Error(t, err)
			assert.ErrorIs(t, err, federator.ErrConfiguration)

			var ferr *federator.Error
			require.ErrorAs(t, err, &ferr)
			assert.Equal(t, tc.key, ferr.Op)
		})
	}
}

func TestPrivateKeyNotInError(t *testing.T) {
	v := validViper(t)
	v.Set(KEY_FEDERATOR_PRIVATE_KEY, "0xsecretzz")
	_, err := LoadFederatorConfig(v)
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "secret")
}
