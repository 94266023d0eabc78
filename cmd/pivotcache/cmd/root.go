// Copyright 2016 - 2025 The excelize Authors. All rights reserved. Use of
// this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

// Package cmd implements the pivotcache command line interface.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/xuri/excelize/v2"
	"github.com/xuri/pivotcache"
	zapadapter "github.com/xuri/pivotcache/log/zap"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const envPrefix = "PIVOTCACHE"

var (
	cfgFile string
	logger  = zap.NewNop()
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "pivotcache",
	Short: "Builds and inspects pivot caches over Excel workbooks",
	Long: `Builds pivot caches over the source ranges of .xlsx workbooks.

The source is a worksheet range (--sheet and --ref), a table (--table) or a
defined name (--name). Every flag can also be set in the config file or in
an environment variable prefixed with PIVOTCACHE_, e.g. PIVOTCACHE_SHEET.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := newLogger(viper.GetString("log-level"), viper.GetString("log-file"), cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.pivotcache.yaml)")
	flags.String("log-level", "warn", "Log level: debug, info, warn or error.")
	flags.String("log-file", "", "Write logs to a rotated file instead of stderr.")
	flags.StringP("sheet", "s", "", "Worksheet holding the source range.")
	flags.StringP("ref", "r", "", "Source range on the worksheet, e.g. A1:D20.")
	flags.String("table", "", "Source table name.")
	flags.String("name", "", "Source defined name.")
	for _, key := range []string{"log-level", "log-file", "sheet", "ref", "table", "name"} {
		_ = viper.BindPFlag(key, flags.Lookup(key))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigName(".pivotcache")
	}
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.ReadInConfig(); err == nil {
		logger.Info("using config file", zap.String("path", viper.ConfigFileUsed()))
	}
}

// newLogger returns a zap logger at the given level writing JSON entries to
// a rotated log file, or console entries to w when file is empty.
func newLogger(level, file string, w io.Writer) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %s: %w", level, err)
	}
	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	if file == "" {
		core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(w), lvl)
		return zap.New(core), nil
	}
	rotator := &lumberjack.Logger{
		Filename:   file,
		MaxSize:    10,
		MaxBackups: 3,
		MaxAge:     28,
		Compress:   true,
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(rotator), lvl)
	return zap.New(core, zap.AddCaller()), nil
}

// source returns the pivot cache source selected by the flags.
func source() (pivotcache.Source, error) {
	switch {
	case viper.GetString("table") != "":
		return pivotcache.TableSource(viper.GetString("table")), nil
	case viper.GetString("name") != "":
		return pivotcache.NamedRangeSource(viper.GetString("name")), nil
	case viper.GetString("sheet") != "" && viper.GetString("ref") != "":
		return pivotcache.WorksheetSource(viper.GetString("sheet"), viper.GetString("ref")), nil
	}
	return pivotcache.Source{}, fmt.Errorf("%w: set --sheet and --ref, --table or --name", pivotcache.ErrInvalidSource)
}

// openCache opens the workbook and builds a pivot cache over the selected
// source. The caller closes the returned workbook.
func openCache(fileName string) (*excelize.File, *pivotcache.PivotCache, error) {
	src, err := source()
	if err != nil {
		return nil, nil, err
	}
	f, err := excelize.OpenFile(fileName)
	if err != nil {
		return nil, nil, err
	}
	opts := pivotcache.Options{Logger: zapadapter.ZapLogger{L: logger.With(zap.String("file", fileName))}}
	pc, err := pivotcache.NewPivotCache(pivotcache.NewExcelizeReader(f, opts), src, opts)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return f, pc, nil
}
