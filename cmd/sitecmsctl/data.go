// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sitecms/internal/backend"
	"sitecms/internal/config"
	"sitecms/internal/datadir"
	"sitecms/internal/persist"
	"sitecms/internal/rebuild"
	"sitecms/internal/store"
)

var dataFlags struct {
	dir   string
	out   string
	name  string
	email string
}

var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Write the pages manifest into a data directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := datadir.PageNames(dataFlags.dir)
		if err != nil {
			return err
		}
		if err := datadir.WriteManifest(dataFlags.dir, names); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d pages: %s\n", len(names), strings.Join(names, ", "))
		return nil
	},
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Copy a data directory into the built site with its pages manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		names, err := datadir.Publish(dataFlags.dir, dataFlags.out)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "published %d pages to %s\n", len(names), dataFlags.out)
		return nil
	},
}

var pushCmd = &cobra.Command{
	Use:   "push",
	Short: "Write a data directory to the configured content backend",
	Long: `push saves every document of the data directory through the same
path as an editor save: conditional writes, the save log, the pages
manifest and the rebuild hook.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		batch, err := datadir.ReadBatch(dataFlags.dir)
		if err != nil {
			return err
		}

		cfg, db, err := openDB()
		if err != nil {
			return err
		}
		defer db.Close()

		content, err := backend.Open(cfg, db)
		if err != nil {
			return err
		}

		opts := []persist.Option{persist.WithRecorder(store.NewSaveLogStore(db)), persist.WithManifest()}
		if cfg.BuildHookURL != "" {
			opts = append(opts, persist.WithNotifier(rebuild.New(rebuild.WithHook(cfg.BuildHookURL, nil))))
		}
		service := persist.NewService(content, opts...)

		committer := persist.Committer{Name: dataFlags.name, Email: dataFlags.email}
		results, err := service.Apply(context.Background(), committer, batch)
		for _, r := range results {
			fmt.Fprintf(cmd.OutOrStdout(), "%-8s %s\n", r.Status, r.File)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "pushed %d documents to the %s backend\n", len(results), backendName(cfg))
		return nil
	},
}

func backendName(cfg *config.Config) string {
	if cfg.ContentBackend == config.BackendGitHub {
		return cfg.ContentBackend + " (" + cfg.GitHubRepo + "@" + cfg.GitHubBranch + ")"
	}
	return cfg.ContentBackend
}

func init() {
	for _, c := range []*cobra.Command{manifestCmd, publishCmd, pushCmd} {
		c.Flags().StringVar(&dataFlags.dir, "data", "src/data", "data directory")
	}
	publishCmd.Flags().StringVar(&dataFlags.out, "out", "public/data", "output directory")
	pushCmd.Flags().StringVar(&dataFlags.name, "name", "CMS Editor", "commit author name")
	pushCmd.Flags().StringVar(&dataFlags.email, "email", "cms@sitecms.local", "commit author email")

	rootCmd.AddCommand(manifestCmd, publishCmd, pushCmd)
}
