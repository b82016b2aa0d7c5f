package app

import (
	"bytes"
	"strings"
	"testing"

	"github.com/arenainfra/podctl/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(apiKey string) config.Config {
	return config.Config{
		Runpod: config.RunpodConfig{APIKey: config.SecretValue(apiKey), Endpoint: "http://127.0.0.1:1/graphql"},
		Kill:   config.KillConfig{Timeout: config.DefaultKillTimeout},
		Keys:   config.KeysConfig{MaxParallel: 3, SSHTimeout: config.DefaultSSHTimeout},
	}
}

func TestBuildServiceWithProvider(t *testing.T) {
	streams := Streams{In: strings.NewReader(""), Out: &bytes.Buffer{}}
	svc, metrics, err := BuildService(ServiceModule(testConfig("rpa_test"), streams, ProviderModule()))
	require.NoError(t, err)
	require.NotNil(t, svc)
	require.NotNil(t, metrics)

	assert.NotNil(t, svc.Provider)
	assert.NotNil(t, svc.Confirmer)
	assert.NotNil(t, svc.Executor)
	assert.NotNil(t, svc.Clock)
	assert.Same(t, metrics, svc.Metrics)
	assert.Same(t, streams.Out, svc.Out)
	assert.Equal(t, config.DefaultKillTimeout, svc.KillConfig.Timeout)
	assert.Equal(t, 3, svc.KeysConfig.MaxParallel)
}

func TestBuildServiceWithoutProvider(t *testing.T) {
	streams := Streams{In: strings.NewReader(""), Out: &bytes.Buffer{}}
	svc, _, err := BuildService(ServiceModule(testConfig(""), streams))
	require.NoError(t, err)
	assert.Nil(t, svc.Provider)
	assert.NotNil(t, svc.Executor)
}

func TestBuildServiceMissingCredential(t *testing.T) {
	streams := Streams{In: strings.NewReader(""), Out: &bytes.Buffer{}}
	_, _, err := BuildService(ServiceModule(testConfig(""), streams, ProviderModule()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RUNPOD_API_KEY environment variable not set")
}
