// main.go sets up the command-line interface for the warden appliance
// tooling using the Cobra library. It defines the root command and the
// maintenance subcommands (provision, status, validate-token) that operate
// on the appliance data volume directly, without going through the HTTP
// layer.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/wardend/warden"
	"github.com/wardend/warden/jwt"
	"github.com/wardend/warden/record"
)

var version = "dev" // this will be set by the linker
var cfgFile string

func main() {
	if err := rootCmd.Execute(); err != nil {
		// The error is already printed by Cobra on failure.
		os.Exit(1)
	}
}

var rootCmd *cobra.Command

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd = newRootCmd()

	viper.SetDefault("paths.account_record", "/db/user.json")
	viper.SetDefault("paths.entropy_seed", "/db/warden-seed/seed")
	viper.SetDefault("paths.jwt_private_key", "/db/jwt-private-key/jwt.key")
	viper.SetDefault("paths.jwt_public_key", "/db/jwt-public-key/jwt.pem")
	viper.SetDefault("paths.status_dir", "/statuses")
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wardenctl",
		Short: "wardenctl manages the identity core of a warden appliance.",
		Long: `wardenctl operates on the appliance data volume: it provisions the
session signing keypair, inspects registration state, and checks tokens.
It is a maintenance tool; normal account operations go through the API.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(newProvisionCmd())
	cmd.AddCommand(newStatusCmd())
	cmd.AddCommand(newValidateTokenCmd())

	cmd.Version = version

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is /etc/wardenctl.yaml or ./wardenctl.yaml)")
	cmd.PersistentFlags().String("data-dir", "", "override all data paths to live under this directory")

	_ = viper.BindPFlag("data_dir", cmd.PersistentFlags().Lookup("data-dir"))

	return cmd
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath("/etc")
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("wardenctl")
	}

	viper.SetEnvPrefix("WARDEN")
	viper.AutomaticEnv()

	// Missing config file is fine; defaults and env cover it.
	_ = viper.ReadInConfig()
}

func pathsFromViper() warden.PathsConfig {
	paths := warden.PathsConfig{
		AccountRecord: viper.GetString("paths.account_record"),
		EntropySeed:   viper.GetString("paths.entropy_seed"),
		JWTPrivateKey: viper.GetString("paths.jwt_private_key"),
		JWTPublicKey:  viper.GetString("paths.jwt_public_key"),
		StatusDir:     viper.GetString("paths.status_dir"),
	}
	if dir := viper.GetString("data_dir"); dir != "" {
		paths = warden.PathsConfig{
			AccountRecord: dir + "/db/user.json",
			EntropySeed:   dir + "/db/warden-seed/seed",
			JWTPrivateKey: dir + "/db/jwt-private-key/jwt.key",
			JWTPublicKey:  dir + "/db/jwt-public-key/jwt.pem",
			StatusDir:     dir + "/statuses",
		}
	}
	return paths
}

func buildEngine() (*warden.Engine, error) {
	cfg := warden.DefaultConfig()
	cfg.Paths = pathsFromViper()
	return warden.New().
		WithConfig(cfg).
		WithTrigger(noopTrigger{}).
		Build()
}

func newProvisionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "Generate the session signing keypair if it does not exist yet.",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths := pathsFromViper()
			_, publicPEM, err := jwt.LoadOrGenerate(paths.JWTPrivateKey, paths.JWTPublicKey)
			if err != nil {
				return fmt.Errorf("provisioning signing keys: %w", err)
			}
			cmd.Printf("signing keypair ready at %s\n", paths.JWTPrivateKey)
			cmd.Print(string(publicPEM))
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Report registration and second-factor state.",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			registered, err := engine.IsRegistered()
			if err != nil {
				return err
			}
			cmd.Printf("registered: %v\n", registered)

			if registered {
				info, err := engine.Info()
				if err != nil {
					return err
				}
				cmd.Printf("name: %s\n", info.Name)
				cmd.Printf("installed apps: %d\n", len(info.InstalledApps))
			}

			enabled, err := engine.TOTPEnabled()
			if err != nil {
				return err
			}
			cmd.Printf("totp enabled: %v\n", enabled)

			paths := pathsFromViper()
			cmd.Printf("entropy seed present: %v\n", record.Exists(paths.EntropySeed))
			return nil
		},
	}
}

func newValidateTokenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-token <token>",
		Short: "Verify a session token against the appliance signing key.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := buildEngine()
			if err != nil {
				return err
			}
			defer engine.Close()

			subject, err := engine.ValidateToken(args[0])
			if err != nil {
				return err
			}
			cmd.Printf("valid token for subject %q\n", subject)
			return nil
		},
	}
}

// noopTrigger satisfies the trigger dependency for read-only maintenance
// commands; none of them notify the OS layer.
type noopTrigger struct{}

func (noopTrigger) Notify(_ context.Context, _ string) error {
	return nil
}
