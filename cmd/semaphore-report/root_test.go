package cmd

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"

	"github.com/redhat-openshift-ecosystem/semaphore-report/internal/semaphore"
)

func TestRootCommands(t *testing.T) {
	names := []string{}
	for _, c := range rootCmd.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"report", "get", "adm", "version"})
}

func TestRootFlagDefaults(t *testing.T) {
	assert.Equal(t, "info", viper.GetString("log-level"))
	assert.Equal(t, semaphore.DefaultAPIURL, viper.GetString("api-url"))
	assert.Equal(t, 0, viper.GetInt("timeout"))
}

func TestInitConfigReadsEnv(t *testing.T) {
	t.Setenv("SEMAPHORE_REPORT_AUTH_TOKEN", "from-env")
	initConfig()
	assert.Equal(t, "from-env", viper.GetString("auth-token"))
}
