// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"

	"github.com/bitmark-inc/auctiond/configuration"
	"github.com/bitmark-inc/auctiond/faction"
	"github.com/bitmark-inc/auctiond/rpc"
)

// basic defaults (directories and files are relative to the
// "data_directory" from the configuration file)
const (
	defaultDataDirectory = "" // this will error; use "." for the same directory as the config file
	defaultPidFile       = "" // no PID file by default

	defaultLevelDBDirectory = "data"
	defaultDatabase         = "auction.leveldb"

	defaultLogDirectory = "log"
	defaultLogFile      = "auctiond.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size

	defaultRPCClients = 100

	defaultConsignmentRate = 0.05 // faction houses
	defaultNeutralRate     = 0.15 // goblin houses charge triple
	defaultGlobalCutRate   = 1.0
)

// RatesType - configuration file data for house money policy
type RatesType struct {
	Alliance  float64 `gluamapper:"alliance" json:"alliance"`
	Horde     float64 `gluamapper:"horde" json:"horde"`
	Neutral   float64 `gluamapper:"neutral" json:"neutral"`
	GlobalCut float64 `gluamapper:"global_cut" json:"global_cut"`
}

// DatabaseType - configuration file data for the storage pool
type DatabaseType struct {
	Directory string `gluamapper:"directory" json:"directory"`
	Name      string `gluamapper:"name" json:"name"`
}

// Configuration - the full configuration file mapping
type Configuration struct {
	DataDirectory string `gluamapper:"data_directory" json:"data_directory"`
	PidFile       string `gluamapper:"pidfile" json:"pidfile"`
	ReadOnly      bool   `gluamapper:"read_only" json:"read_only"`
	CatalogFile   string `gluamapper:"catalog_file" json:"catalog_file"`

	Database DatabaseType `gluamapper:"database" json:"database"`

	Rates RatesType `gluamapper:"rates" json:"rates"`

	ClientRPC rpc.Configuration    `gluamapper:"client_rpc" json:"client_rpc"`
	Logging   logger.Configuration `gluamapper:"logging" json:"logging"`
}

// ConsignmentRates - per house rates in faction order
func (c *Configuration) ConsignmentRates() [faction.Count]float64 {
	return [faction.Count]float64{
		faction.Alliance: c.Rates.Alliance,
		faction.Horde:    c.Rates.Horde,
		faction.Neutral:  c.Rates.Neutral,
	}
}

// will read decode and verify the configuration
func getConfiguration(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if nil != err {
		return nil, err
	}

	// absolute path to the main directory
	dataDirectory, _ := filepath.Split(configurationFileName)

	options := &Configuration{

		DataDirectory: defaultDataDirectory,
		PidFile:       defaultPidFile,

		Database: DatabaseType{
			Directory: defaultLevelDBDirectory,
			Name:      defaultDatabase,
		},

		Rates: RatesType{
			Alliance:  defaultConsignmentRate,
			Horde:     defaultConsignmentRate,
			Neutral:   defaultNeutralRate,
			GlobalCut: defaultGlobalCutRate,
		},

		ClientRPC: rpc.Configuration{
			MaximumConnections: defaultRPCClients,
		},

		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels: map[string]string{
				logger.DefaultTag: "critical",
			},
		},
	}

	if err := configuration.ParseConfigurationFile(configurationFileName, options); nil != err {
		return nil, err
	}

	// ensure absolute data directory
	if "" == options.DataDirectory || "~" == options.DataDirectory {
		return nil, fmt.Errorf("path: %q is not a valid directory", options.DataDirectory)
	} else if "." == options.DataDirectory {
		options.DataDirectory = dataDirectory // same directory as the configuration file
	} else {
		options.DataDirectory = filepath.Clean(options.DataDirectory)
	}

	// this directory must exist - i.e. must be created prior to running
	if fileInfo, err := os.Stat(options.DataDirectory); nil != err {
		return nil, err
	} else if !fileInfo.IsDir() {
		return nil, fmt.Errorf("path: %q is not a directory", options.DataDirectory)
	}

	// force all relevant items to be absolute paths, relative ones
	// are joined onto the data directory
	mustBeAbsolute := []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	}
	for _, f := range mustBeAbsolute {
		*f = ensureAbsolute(options.DataDirectory, *f)
	}
	if "" != options.PidFile {
		options.PidFile = ensureAbsolute(options.DataDirectory, options.PidFile)
	}
	if "" != options.CatalogFile {
		options.CatalogFile = ensureAbsolute(options.DataDirectory, options.CatalogFile)
	}

	// fail if any of these are not simple file names i.e. must
	// not contain path separator, then add the correct directory
	// prefix, file item is first and corresponding directory is
	// second
	mustNotBePaths := [][2]string{
		{options.Database.Name, options.Database.Directory},
	}
	for _, f := range mustNotBePaths {
		switch filepath.Dir(f[0]) {
		case ".", "/":
		default:
			return nil, fmt.Errorf("file: %q is not plain name", f[0])
		}
	}
	options.Database.Name = filepath.Join(options.Database.Directory, options.Database.Name)

	// make absolute and create directories if they do not already exist
	for _, d := range []*string{
		&options.Database.Directory,
		&options.Logging.Directory,
	} {
		*d = ensureAbsolute(options.DataDirectory, *d)
		if err := os.MkdirAll(*d, 0700); nil != err {
			return nil, err
		}
	}

	return options, nil
}

// ensureAbsolute - prepend the directory to a relative path
func ensureAbsolute(directory string, filePath string) string {
	if !filepath.IsAbs(filePath) {
		filePath = filepath.Join(directory, filePath)
	}
	return filepath.Clean(filePath)
}
