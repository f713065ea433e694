// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"github.com/spf13/cobra"
)

// rootOptions holds the flags of the root command.
type rootOptions struct {
	configPath string
	transcript string
	watch      bool
	autoplay   bool
	theme      string
}

// NewRootCmd builds the tailchat command tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "tailchat",
		Short:         "Terminal chat feed that follows new messages",
		Long:          "tailchat renders a growing chat feed and keeps it scrolled to the newest\nmessage until you scroll away. Press End to jump back.",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, opts)
		},
	}

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "config file (default ~/.tailchat/config.toml)")

	flags := root.Flags()
	flags.StringVarP(&opts.transcript, "transcript", "t", "", "TOML transcript that scripts the replies")
	flags.BoolVarP(&opts.watch, "watch", "w", false, "reload the transcript when it changes")
	flags.BoolVarP(&opts.autoplay, "autoplay", "a", false, "send the transcript's user turns automatically")
	flags.StringVar(&opts.theme, "theme", "", "color theme: auto, dark or light")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newConfigCmd(opts))
	return root
}
