// Package config loads the on-disk description of a demo peer: where its
// static key lives, what address it listens on, who it expects to talk to,
// and how loud to log. The noise handshake core has no configuration beyond
// its own typed Config struct - this package exists purely to get that
// struct's inputs from a YAML file into memory.
package config

import (
	"encoding/hex"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bolt8/noise"
)

// PeerConfig describes one side of a BOLT #8 connection.
type PeerConfig struct {
	StaticKeyPath string `yaml:"static_key_path"`
	ListenAddr    string `yaml:"listen_addr"`
	RemotePubKey  string `yaml:"remote_pubkey"`
	LogLevel      string `yaml:"log_level"`
}

// DefaultPeerConfig returns a config with sensible defaults for local
// development.
func DefaultPeerConfig() *PeerConfig {
	return &PeerConfig{
		StaticKeyPath: "./noise_static.key",
		ListenAddr:    "127.0.0.1:9735",
		LogLevel:      "info",
	}
}

// LoadPeerConfig loads a PeerConfig from a YAML file, overlaying it onto the
// defaults.
func LoadPeerConfig(path string) (*PeerConfig, error) {
	cfg := DefaultPeerConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}

// LoadStaticKey reads the 32-byte hex-encoded private scalar at
// StaticKeyPath and builds the corresponding DH keypair.
func (c *PeerConfig) LoadStaticKey() (noise.DHKey, error) {
	data, err := os.ReadFile(c.StaticKeyPath)
	if err != nil {
		return noise.DHKey{}, fmt.Errorf("config: reading static key %s: %w", c.StaticKeyPath, err)
	}
	priv, err := hex.DecodeString(string(trimNewline(data)))
	if err != nil {
		return noise.DHKey{}, fmt.Errorf("config: decoding static key %s: %w", c.StaticKeyPath, err)
	}
	key, err := noise.NewStaticKey(priv)
	if err != nil {
		return noise.DHKey{}, fmt.Errorf("config: building static key from %s: %w", c.StaticKeyPath, err)
	}
	return key, nil
}

// RemoteStaticKey decodes the configured remote compressed public key, if
// any was set.
func (c *PeerConfig) RemoteStaticKey() ([]byte, error) {
	if c.RemotePubKey == "" {
		return nil, nil
	}
	pub, err := hex.DecodeString(c.RemotePubKey)
	if err != nil {
		return nil, fmt.Errorf("config: decoding remote_pubkey: %w", err)
	}
	return pub, nil
}

func trimNewline(b []byte) []byte {
	for len(b) > 0 && (b[len(b)-1] == '\n' || b[len(b)-1] == '\r') {
		b = b[:len(b)-1]
	}
	return b
}
