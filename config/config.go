package config

import (
	"encoding/hex"
	"os"

	"github.com/BurntSushi/toml"

	"multisigengine/crypto"
)

// Config holds the deployment knobs for the illustrative multisigd host
// binary. The engine itself (package multisig) takes no configuration of
// its own; everything it needs is passed explicitly by the host per call.
type Config struct {
	DataDir string `toml:"DataDir"`
	// OperatorKey is a hex-encoded private key, generated when absent.
	// multisigd only logs it (masked); nothing signs with it, and it plays
	// no role in multisig quorum accounting.
	OperatorKey string `toml:"OperatorKey"`
	// NonceSearchWindow is loaded and defaulted to 256, but no multisigd
	// command reads it: nonce search goes through
	// multisig.FindSigningIdentity, which always tries all 256 candidates.
	NonceSearchWindow int `toml:"NonceSearchWindow"`
}

// Load loads the configuration from path, creating a default file with a
// freshly generated operator key if none exists yet.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return createDefault(path)
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, err
	}

	if cfg.OperatorKey == "" {
		key, err := crypto.GeneratePrivateKey()
		if err != nil {
			return nil, err
		}
		cfg.OperatorKey = hex.EncodeToString(key.Bytes())

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_TRUNC, os.ModePerm)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		if err := toml.NewEncoder(f).Encode(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.NonceSearchWindow <= 0 {
		cfg.NonceSearchWindow = 256
	}
	return cfg, nil
}

// createDefault creates and saves a default configuration file.
func createDefault(path string) (*Config, error) {
	key, err := crypto.GeneratePrivateKey()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DataDir:           "./multisigd-data",
		OperatorKey:       hex.EncodeToString(key.Bytes()),
		NonceSearchWindow: 256,
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := toml.NewEncoder(f).Encode(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
