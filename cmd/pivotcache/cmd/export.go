// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/xuri/pivotcache/codec"
	"go.uber.org/zap"
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export FILE",
	Short: "Write a snapshot of a pivot cache",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("output")
		c, err := codec.ForFormat(format)
		if err != nil {
			return err
		}
		f, pc, err := openCache(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		b, err := c.Encode(pc.Snapshot())
		if err != nil {
			return err
		}
		if out == "" || out == "-" {
			_, err = cmd.OutOrStdout().Write(b)
			return err
		}
		if err = os.WriteFile(out, b, 0o644); err != nil {
			return err
		}
		logger.Info("snapshot written", zap.String("path", out), zap.String("format", format), zap.Int("bytes", len(b)))
		return nil
	},
}

func init() {
	RootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringP("format", "F", "json", "Snapshot format: json, msgpack or cbor.")
	exportCmd.Flags().StringP("output", "o", "", "Output file, standard output when empty.")
}
