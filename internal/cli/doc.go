// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides the tailchat command line.
//
// # Commands
//
//   - tailchat: start the chat screen
//   - tailchat version: print version information
//   - tailchat config init|show|path|get|set: manage ~/.tailchat/config.toml
//
// # Usage
//
//	root := cli.NewRootCmd()
//	root.SetArgs(os.Args[1:])
//	err := root.ExecuteContext(ctx)
package cli
