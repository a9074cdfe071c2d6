package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/bootstrap"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/config"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/fieldcipher"
	"github.com/CMPGPT/vidalsignrealaihealthcheck-sub002/pkg/storage"
)

var Version = "dev"

// env is what every subcommand operates on.
type env struct {
	Store  storage.Storage
	Cipher *fieldcipher.Cipher
}

type envLoader func(ctx context.Context) (*env, error)

func main() {
	if err := newRootCmd(loadEnv).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func loadEnv(ctx context.Context) (*env, error) {
	config.LoadDotEnv()

	cfg, err := config.Load(config.GroupCipher, config.GroupTables)
	if err != nil {
		return nil, err
	}
	cipher, err := cfg.Cipher()
	if err != nil {
		return nil, err
	}
	awsCfg, err := bootstrap.AWS(ctx)
	if err != nil {
		return nil, err
	}
	return &env{Store: bootstrap.Store(cfg, awsCfg), Cipher: cipher}, nil
}

func newRootCmd(load envLoader) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "linkadmin",
		Short:         "Operate on secure links, payment claims and encrypted fields",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(issueCmd(load))
	rootCmd.AddCommand(countCmd(load))
	rootCmd.AddCommand(validateCmd(load))
	rootCmd.AddCommand(releaseClaimCmd(load))
	rootCmd.AddCommand(decryptCmd(load))
	rootCmd.AddCommand(createAdminCmd(load))

	return rootCmd
}
