package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/TEENet-io/bridge-federator/common"
	"github.com/TEENet-io/bridge-federator/ethtxmanager"
	"github.com/TEENet-io/bridge-federator/federator"
	"github.com/TEENet-io/bridge-federator/state"
)

// Configuration keys, read from the config file or the environment.
const (
	ENV_CONFIG_FILE_PATH = "FEDERATOR_CONFIG"

	KEY_SOURCE_RPC_URL        = "SOURCE_RPC_URL"
	KEY_SOURCE_BRIDGE_ADDR    = "SOURCE_BRIDGE_ADDR"
	KEY_SOURCE_FROM_BLOCK     = "SOURCE_FROM_BLOCK"
	KEY_DEST_RPC_URL          = "DEST_RPC_URL"
	KEY_DEST_BRIDGE_ADDR      = "DEST_BRIDGE_ADDR"
	KEY_DEST_FEDERATION_ADDR  = "DEST_FEDERATION_ADDR"
	KEY_FEDERATOR_PRIVATE_KEY = "FEDERATOR_PRIVATE_KEY"
	KEY_STORAGE_PATH          = "STORAGE_PATH"
	KEY_CHECKPOINT_BACKEND    = "CHECKPOINT_BACKEND"
	KEY_RUN_INTERVAL          = "RUN_INTERVAL"
	KEY_RECEIPT_TIMEOUT       = "RECEIPT_TIMEOUT"
	KEY_GAS_MULTIPLIER        = "GAS_MULTIPLIER"
	KEY_HTTP_IP               = "HTTP_IP"
	KEY_HTTP_PORT             = "HTTP_PORT"
	KEY_LOG_LEVEL             = "LOG_LEVEL"
)

const defaultRunInterval = time.Minute

// Keep the configuration's fields as "text" as possible.
// Its easier to load it from env vars or a config file.
type FederatorConfig struct {
	// source side
	SourceRpcUrl     string // json rpc url
	SourceBridgeAddr string // bridge contract emitting Cross events
	SourceFromBlock  uint64 // floor block, never scanned below

	// destination side
	DestRpcUrl          string // json rpc url
	DestBridgeAddr      string // side bridge, informational
	DestFederationAddr  string // federation contract receiving votes
	FederatorPrivateKey string // hex key of the voting account

	// state side
	StoragePath       string // directory of the checkpoint
	CheckpointBackend string // "file" or "sqlite"

	// scheduling and sending
	RunInterval    time.Duration
	ReceiptTimeout time.Duration
	GasMultiplier  float64

	// Http side
	HttpIp   string // eg. 0.0.0.0
	HttpPort string // eg. 8080

	LogLevel string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KEY_STORAGE_PATH, "./db")
	v.SetDefault(KEY_CHECKPOINT_BACKEND, state.BackendFile)
	v.SetDefault(KEY_RUN_INTERVAL, defaultRunInterval)
	v.SetDefault(KEY_RECEIPT_TIMEOUT, ethtxmanager.DefaultConfig().ReceiptTimeout)
	v.SetDefault(KEY_GAS_MULTIPLIER, ethtxmanager.DefaultConfig().GasMultiplier)
	v.SetDefault(KEY_HTTP_IP, "0.0.0.0")
	v.SetDefault(KEY_HTTP_PORT, "8080")
}

// LoadFederatorConfig reads the configuration from v, after the config file
// (if any) was read and the environment bound.
func LoadFederatorConfig(v *viper.Viper) (*FederatorConfig, error) {
	setDefaults(v)

	cfg := &FederatorConfig{
		SourceRpcUrl:        v.GetString(KEY_SOURCE_RPC_URL),
		SourceBridgeAddr:    v.GetString(KEY_SOURCE_BRIDGE_ADDR),
		SourceFromBlock:     v.GetUint64(KEY_SOURCE_FROM_BLOCK),
		DestRpcUrl:          v.GetString(KEY_DEST_RPC_URL),
		DestBridgeAddr:      v.GetString(KEY_DEST_BRIDGE_ADDR),
		DestFederationAddr:  v.GetString(KEY_DEST_FEDERATION_ADDR),
		FederatorPrivateKey: v.GetString(KEY_FEDERATOR_PRIVATE_KEY),
		StoragePath:         v.GetString(KEY_STORAGE_PATH),
		CheckpointBackend:   v.GetString(KEY_CHECKPOINT_BACKEND),
		RunInterval:         v.GetDuration(KEY_RUN_INTERVAL),
		ReceiptTimeout:      v.GetDuration(KEY_RECEIPT_TIMEOUT),
		GasMultiplier:       v.GetFloat64(KEY_GAS_MULTIPLIER),
		HttpIp:              v.GetString(KEY_HTTP_IP),
		HttpPort:            v.GetString(KEY_HTTP_PORT),
		LogLevel:            v.GetString(KEY_LOG_LEVEL),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func configErr(key string, err error) error {
	return federator.NewError(federator.KindConfiguration, key, err)
}

var (
	errMissing        = errors.New("missing")
	errInvalidAddress = errors.New("not a valid address")
	errInvalidKey     = errors.New("not a hex private key")
)

// Validate returns a configuration error naming the first bad key.
func (cfg *FederatorConfig) Validate() error {
	required := []struct {
		key, value string
	}{
		{KEY_SOURCE_RPC_URL, cfg.SourceRpcUrl},
		{KEY_DEST_RPC_URL, cfg.DestRpcUrl},
		{KEY_STORAGE_PATH, cfg.StoragePath},
	}
	for _, r := range required {
		if r.value == "" {
			return configErr(r.key, errMissing)
		}
	}

	addrs := []struct {
		key, value string
		optional   bool
	}{
		{KEY_SOURCE_BRIDGE_ADDR, cfg.SourceBridgeAddr, false},
		{KEY_DEST_FEDERATION_ADDR, cfg.DestFederationAddr, false},
		{KEY_DEST_BRIDGE_ADDR, cfg.DestBridgeAddr, true},
	}
	for _, a := range addrs {
		if a.value == "" && a.optional {
			continue
		}
		if !common.IsAddress(a.value) {
			return configErr(a.key, fmt.Errorf("%w: %q", errInvalidAddress, a.value))
		}
	}

	if !common.IsHexString(cfg.FederatorPrivateKey) {
		return configErr(KEY_FEDERATOR_PRIVATE_KEY, errInvalidKey)
	}

	switch cfg.CheckpointBackend {
	case "", state.BackendFile, state.BackendSQLite:
	default:
		return configErr(KEY_CHECKPOINT_BACKEND, fmt.Errorf("%w: %q", state.ErrUnknownBackend, cfg.CheckpointBackend))
	}

	if cfg.RunInterval <= 0 {
		return configErr(KEY_RUN_INTERVAL, errors.New("must be positive"))
	}
	if cfg.ReceiptTimeout < 0 {
		return configErr(KEY_RECEIPT_TIMEOUT, errors.New("must not be negative"))
	}
	if cfg.GasMultiplier < 1 {
		return configErr(KEY_GAS_MULTIPLIER, ethtxmanager.ErrInvalidGasMultiplier)
	}

	return nil
}
