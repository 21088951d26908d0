package serverconfig

import (
	"os"

	"WorldMap/internal/shared/config"
)

const defaultConfigRelPath = "configs/conf.yml"

// DefaultReloadChannel 是 redis.channel 未配置时的重新加载通知频道。
const DefaultReloadChannel = "worldmap:atlas:reload"

var Conf Config

// Load 加载全局配置，cfgName 为空时使用默认路径。
func Load(cfgName string, onChange ...func()) {
	if cfgName == "" {
		cfgName = defaultConfigRelPath
	}
	config.Load(cfgName, &Conf, onChange...)
	applyEnv(&Conf)
}

// Read 读取到独立的 Config，不修改全局 Conf。
func Read(path string) (Config, error) {
	var c Config
	if err := config.Read(path, &c); err != nil {
		return Config{}, err
	}
	applyEnv(&c)
	return c, nil
}

func applyEnv(c *Config) {
	// 环境变量优先；若未设置则回填配置中的 jwt_secret，兼容本地开发场景。
	if os.Getenv("JWT_SECRET") == "" && c.Security.JWTSecret != "" {
		_ = os.Setenv("JWT_SECRET", c.Security.JWTSecret)
	}
	if c.Atlas.Source == "" {
		c.Atlas.Source = SourceFile
	}
	if c.Redis.Addr != "" && c.Redis.Channel == "" {
		c.Redis.Channel = DefaultReloadChannel
	}
}
