package logger

// LogConf 日志配置
type LogConf struct {
	ServiceName string `toml:"service_name" mapstructure:"service_name" json:"service_name"` // 服务名，写入每条日志
	Mode        string `toml:"mode" mapstructure:"mode" json:"mode"`                         // console 或 file
	Path        string `toml:"path" mapstructure:"path" json:"path"`                         // file 模式下的日志目录
	Level       string `toml:"level" mapstructure:"level" json:"level"`                      // debug/info/warn/error
	Compress    bool   `toml:"compress" mapstructure:"compress" json:"compress"`             // 是否压缩轮转文件
	KeepDays    int    `toml:"keep_days" mapstructure:"keep_days" json:"keep_days"`          // 轮转文件保留天数
	MaxSize     int    `toml:"max_size" mapstructure:"max_size" json:"max_size"`             // 单个日志文件上限 (MB)
}
