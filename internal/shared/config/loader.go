package config

import (
	"fmt"
	"log"
	"os"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const defaultConfigRelPath = "configs/conf.yml"

// 热更新时与首次加载共用一把锁，避免 Unmarshal 写到一半被并发读。
var mu sync.Mutex

func decodeHook() viper.DecoderConfigOption {
	return viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
}

func load(configPath string, out any, watch bool, onChange ...func()) (*viper.Viper, error) {
	if !fileExist(configPath) {
		return nil, fmt.Errorf("config file not exist, configPath=%v", configPath)
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	mu.Lock()
	err := v.Unmarshal(out, decodeHook())
	mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("viper unmarshal config data: %w", err)
	}

	if watch {
		v.OnConfigChange(func(e fsnotify.Event) {
			log.Println("配置文件变更", e.Name)
			mu.Lock()
			err := v.Unmarshal(out, decodeHook())
			mu.Unlock()
			if err != nil {
				// 新配置无效时保留旧值
				log.Println("配置文件解析失败", err)
				return
			}
			for _, fn := range onChange {
				fn()
			}
		})
		v.WatchConfig()
	}
	return v, nil
}

func fileExist(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
