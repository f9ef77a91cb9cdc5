package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	env        string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "compass",
	Short: "Compass - 이커머스 운영 분석 엔진",
	Long: `Compass Unified CLI

이커머스 운영 대시보드의 분석 백엔드.
판매 이력으로부터 재고/가격/마케팅/교차판매 추천과 비즈니스 인사이트를 생성.

Usage:
  go run ./cmd/compass [command]

Examples:
  go run ./cmd/compass api
  go run ./cmd/compass analyze
  go run ./cmd/compass test-db
  go run ./cmd/compass test-logger`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().StringVar(&env, "env", "development", "environment (development|staging|production)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
