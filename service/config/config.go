package config

import (
	"strings"

	"github.com/spf13/viper"

	"github.com/ProjectsTask/EasySwapEngine/logger"
	"github.com/ProjectsTask/EasySwapEngine/model"
)

// Config 应用全局配置
type Config struct {
	Api        *Api            `toml:"api" mapstructure:"api" json:"api"`                         // HTTP 服务配置
	Monitor    *Monitor        `toml:"monitor" mapstructure:"monitor" json:"monitor"`             // 监控配置
	Log        *logger.LogConf `toml:"log" mapstructure:"log" json:"log"`                         // 日志配置
	Kv         *KvConf         `toml:"kv" mapstructure:"kv" json:"kv"`                            // KV 存储配置 (Redis)
	DB         *model.Config   `toml:"db" mapstructure:"db" json:"db"`                            // 数据库配置 (MySQL)
	ChainCfg   ChainCfg        `toml:"chain_cfg" mapstructure:"chain_cfg" json:"chain_cfg"`       // 链信息，决定镜像表后缀
	EngineCfg  EngineCfg       `toml:"engine_cfg" mapstructure:"engine_cfg" json:"engine_cfg"`    // 撮合引擎配置
	ProjectCfg ProjectCfg      `toml:"project_cfg" mapstructure:"project_cfg" json:"project_cfg"` // 项目名称配置
}

// Api HTTP 服务配置
type Api struct {
	Port string `toml:"port" mapstructure:"port" json:"port"` // 监听端口, 形如 :9000
}

// ChainCfg 链基本信息
type ChainCfg struct {
	Name string `toml:"name" mapstructure:"name" json:"name"` // 链名称 (如 eth, sepolia)
	ID   int64  `toml:"id" mapstructure:"id" json:"id"`       // Chain ID
}

// EngineCfg 撮合引擎配置
type EngineCfg struct {
	AdminAddress  string `toml:"admin_address" mapstructure:"admin_address" json:"admin_address"`    // 管理员地址
	VaultAddress  string `toml:"vault_address" mapstructure:"vault_address" json:"vault_address"`    // 托管账户地址
	ProtocolShare int64  `toml:"protocol_share" mapstructure:"protocol_share" json:"protocol_share"` // 协议费率 (万分比)
}

// Monitor 监控配置
type Monitor struct {
	PprofEnable bool  `toml:"pprof_enable" mapstructure:"pprof_enable" json:"pprof_enable"`
	PprofPort   int64 `toml:"pprof_port" mapstructure:"pprof_port" json:"pprof_port"`
}

// ProjectCfg 项目配置
type ProjectCfg struct {
	Name string `toml:"name" mapstructure:"name" json:"name"`
}

// KvConf Key-Value 存储配置
type KvConf struct {
	Redis []*Redis `toml:"redis" json:"redis"`
}

// Redis 连接配置
type Redis struct {
	Host string `toml:"host" json:"host"`
	Type string `toml:"type" json:"type"`
	Pass string `toml:"pass" json:"pass"`
}

// UnmarshalConfig 加载并解析指定路径的配置文件
func UnmarshalConfig(configFilePath string) (*Config, error) {
	viper.SetConfigFile(configFilePath)
	viper.SetConfigType("toml")
	viper.AutomaticEnv()
	viper.SetEnvPrefix("ESENGINE")
	replacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(replacer)

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// UnmarshalCmdConfig 解析 cobra 侧已经定位好的配置文件
func UnmarshalCmdConfig() (*Config, error) {
	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var c Config
	if err := viper.Unmarshal(&c); err != nil {
		return nil, err
	}
	return &c, nil
}
