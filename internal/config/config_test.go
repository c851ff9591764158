package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadPeerConfigOverlaysDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "peer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen_addr: 0.0.0.0:9736\nlog_level: debug\n"), 0o600))

	cfg, err := LoadPeerConfig(path)
	require.NoError(t, err)
	require.Equal(t, "0.0.0.0:9736", cfg.ListenAddr)
	require.Equal(t, "debug", cfg.LogLevel)
	require.Equal(t, "./noise_static.key", cfg.StaticKeyPath)
}

func TestLoadStaticKey(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "static.key")
	require.NoError(t, os.WriteFile(path, []byte("1111111111111111111111111111111111111111111111111111111111111111\n"), 0o600))

	cfg := &PeerConfig{StaticKeyPath: path}
	key, err := cfg.LoadStaticKey()
	require.NoError(t, err)
	require.Len(t, key.Public, 33)
}

func TestRemoteStaticKeyEmptyWhenUnset(t *testing.T) {
	cfg := &PeerConfig{}
	pub, err := cfg.RemoteStaticKey()
	require.NoError(t, err)
	require.Nil(t, pub)
}
