// Copyright (C) 2025-2026 CardinalHQ, Inc
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, version 3.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program. If not, see <http://www.gnu.org/licenses/>.

package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	sqlitePath      string
	definitionsFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "propstore",
	Short: "Query component settings and group membership",
	Long: `Read component settings and group membership from the configuration database.

PostgreSQL is used by default, configured through CONFIGDB_URL or the
CONFIGDB_HOST, CONFIGDB_PORT, CONFIGDB_USER, CONFIGDB_PASSWORD, CONFIGDB_DBNAME
and CONFIGDB_SSLMODE variables. Pass --sqlite to use a local SQLite file instead.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&sqlitePath, "sqlite", "", "Path to a SQLite database to use instead of PostgreSQL")
	rootCmd.PersistentFlags().StringVar(&definitionsFile, "definitions", "", "Property definitions YAML file, or env:NAME")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
