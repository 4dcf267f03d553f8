package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "easyswap-engine",
	Short: "EasySwap in-memory NFT order book engine.",
	Long:  "EasySwap in-memory NFT order book engine with escrow vault, fee split and market mirror.",
}

// Execute 程序入口，解析命令行并执行子命令
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "./config/config.toml", "config file path")
}

// initConfig 定位配置文件并装载进 viper
// 环境变量以 ESENGINE_ 前缀覆盖同名配置项
func initConfig() {
	viper.SetConfigFile(cfgFile)
	viper.SetConfigType("toml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix("ESENGINE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
}
