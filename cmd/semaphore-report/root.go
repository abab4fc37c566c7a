package cmd

import (
	"fmt"
	"os"
	"strings"

	log "github.com/sirupsen/logrus"
	logwriter "github.com/sirupsen/logrus/hooks/writer"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/redhat-openshift-ecosystem/semaphore-report/internal/semaphore"
	"github.com/redhat-openshift-ecosystem/semaphore-report/pkg"
	"github.com/redhat-openshift-ecosystem/semaphore-report/pkg/cmd/adm"
	"github.com/redhat-openshift-ecosystem/semaphore-report/pkg/cmd/get"
	"github.com/redhat-openshift-ecosystem/semaphore-report/pkg/cmd/report"
	"github.com/redhat-openshift-ecosystem/semaphore-report/pkg/version"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "semaphore-report",
	Short: "Semaphore CI thread report",
	Long:  `semaphore-report fetches the thread logs of a Semaphore CI build, merges them and reports the test totals, the most common output lines and the failing test numbers`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		var err error

		// Validate logging level
		loglevel := viper.GetString("log-level")
		logrusLevel, err := log.ParseLevel(loglevel)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)

		// Additional log options
		log.SetFormatter(&log.TextFormatter{
			FullTimestamp: true,
		})

		log.SetOutput(os.Stdout)
		fdLog, err := os.OpenFile(pkg.LogFile, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0644)
		if err != nil {
			log.Errorf("error opening file %s: %v", pkg.LogFile, err)
		} else {
			log.AddHook(&logwriter.Hook{
				Writer: fdLog,
				LogLevels: []log.Level{
					log.PanicLevel,
					log.FatalLevel,
					log.ErrorLevel,
					log.WarnLevel,
					log.InfoLevel,
					log.DebugLevel,
				},
			})
		}
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func initBindFlag(flag string) {
	err := viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag))
	if err != nil {
		log.Warnf("Unable to bind flag %s\n", flag)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.SilenceErrors = true

	rootCmd.PersistentFlags().String("log-level", "info", "logging level")
	rootCmd.PersistentFlags().String("api-url", semaphore.DefaultAPIURL, "Semaphore API base URL")
	rootCmd.PersistentFlags().Int("timeout", 0, "timeout in seconds of every API request, 0 disables it")
	rootCmd.PersistentFlags().String("auth-token", "", "Semaphore API token, used when the command doesn't take it as argument")
	initBindFlag("log-level")
	initBindFlag("api-url")
	initBindFlag("timeout")
	initBindFlag("auth-token")

	// Link in child commands
	rootCmd.AddCommand(report.NewCmdReport())
	rootCmd.AddCommand(get.NewCmdGet())
	rootCmd.AddCommand(adm.NewCmdAdm())
	rootCmd.AddCommand(version.NewCmdVersion())
}

// initConfig reads in ENV variables if set.
func initConfig() {
	viper.SetEnvPrefix(pkg.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}
