package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// envPrefix scopes all runtime environment variables: APICLI_API_KEY,
// APICLI_BASE_URL, APICLI_TREE, APICLI_TIMEOUT.
const envPrefix = "APICLI"

// RuntimeConfig is the ambient configuration a single invocation needs to
// reach the service. It is resolved once and passed explicitly into request
// building and execution.
type RuntimeConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

func newEnv() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	v.SetDefault("timeout", 30)
	v.SetDefault("tree", "command_tree.json")
	return v
}

// LoadRuntimeConfig reads the credential and base URL from the environment.
// Both are required; absence is a configuration error reported before any
// request is attempted.
func LoadRuntimeConfig() (*RuntimeConfig, error) {
	v := newEnv()

	key := strings.TrimSpace(v.GetString("api-key"))
	if key == "" {
		return nil, fmt.Errorf("%s_API_KEY missing", envPrefix)
	}
	base := strings.TrimSpace(v.GetString("base-url"))
	if base == "" {
		return nil, fmt.Errorf("%s_BASE_URL missing", envPrefix)
	}

	timeout := v.GetInt("timeout")
	if timeout <= 0 {
		timeout = 30
	}

	return &RuntimeConfig{
		APIKey:  key,
		BaseURL: base,
		Timeout: time.Duration(timeout) * time.Second,
	}, nil
}

// TreePath returns where the compiled command tree is loaded from,
// overridable via APICLI_TREE.
func TreePath() string {
	return newEnv().GetString("tree")
}
