package cmd

import (
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/radiofrance/dagspec/internal/logger"
)

const (
	defaultLogLevel    = "info"
	defaultConcurrency = 4
)

var (
	workingDir string
	cfgFile    string
)

func init() {
	cobra.OnInitialize(initConfig, initLogLevel)
}

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use: "dagspec",
		CompletionOptions: cobra.CompletionOptions{
			HiddenDefaultCmd: true,
		},
		Short: "Verify and inspect DAG plan definitions",
		Long: `dagspec verifies DAG plan definitions before they are submitted to a cluster scheduler

Run dagspec --help for more information`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default is $HOME/.config/.dagspec.yaml)")
	rootCmd.PersistentFlags().StringP("log-level", "l", defaultLogLevel,
		`Log level. Can be any standard log-level ("info", "debug", etc...)`)
	rootCmd.PersistentFlags().String("s3-region", "",
		"AWS region of the buckets plan definitions are read from (s3://bucket/key locations).")

	bindPFlagsSnakeCase(rootCmd.PersistentFlags())

	rootCmd.AddCommand(versionCommand())
	rootCmd.AddCommand(verifyCommand())
	rootCmd.AddCommand(listCommand())
	rootCmd.AddCommand(graphCommand())
	rootCmd.AddCommand(hashCommand())
	rootCmd.AddCommand(docgenCommand(rootCmd))

	return rootCmd
}

// Execute runs the CLI, and exits with a non-zero code when the command fails.
func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		logger.Fatalf("%v", err)
	}
}

func initConfig() {
	var err error

	workingDir, err = os.Getwd()
	cobra.CheckErr(err)

	viper.SetConfigType("yaml")

	if cfgFile != "" {
		// Use config file from the flag.
		setConfigFile(cfgFile)
	} else if val := os.Getenv("DAGSPEC_CONFIG"); val != "" {
		// Use config file from the env variable.
		setConfigFile(val)
	} else {
		// Add $HOME/.config and current directory as paths for Viper to search for the config file in.
		homeDir, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(path.Join(homeDir, ".config"))
		viper.AddConfigPath(workingDir)

		// Search config file with name ".dagspec.yaml" or ".dagspec.yml".
		viper.SetConfigName(".dagspec")
	}

	// Env vars starting with the DAGSPEC_ prefix can override any configuration.
	// e.g. DAGSPEC_LOG_LEVEL, DAGSPEC_S3_REGION, etc...
	viper.SetEnvPrefix("dagspec")
	// Allows to override any sub-level in file config.
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// Read in environment variables that match.
	viper.AutomaticEnv()

	// If a config file is found, read it in.
	err = viper.ReadInConfig()
	if err != nil {
		// Non-blocking, because no command requires a config file.
		logger.Debugf("%s", err)
	} else {
		logger.Infof("Using config file: %s", viper.ConfigFileUsed())
	}
}

func initLogLevel() {
	if err := logger.SetLevel(viper.GetString("log_level")); err != nil {
		logger.Warnf("%v, keeping level %s", err, logger.Get().Level)
	}
}

func setConfigFile(name string) {
	_, err := os.Stat(name)
	if err != nil {
		cobra.CheckErr(fmt.Errorf("config file %q not found", name))
	}

	viper.SetConfigFile(name)
}

// hydrateOptsFromViper copies all the viper values into our config struct.
// The mapping between viper identifiers and struct field names
// is ensured by `mapstructure` struct tags.
func hydrateOptsFromViper(opts any) {
	_ = viper.Unmarshal(opts)
}

// bindPFlagsSnakeCase binds the flags with viper values. The identifier of the viper value
// is the name of the flag with dashes replaced by underscores. This is required so we can
// retrieve values from viper with the same behaviour with config coming from files
// (my_config: "value") or from flags (--my-config=value).
func bindPFlagsSnakeCase(flags *pflag.FlagSet) {
	flags.VisitAll(func(flag *pflag.Flag) {
		_ = viper.BindPFlag(strings.ReplaceAll(flag.Name, "-", "_"), flag)
	})
}
