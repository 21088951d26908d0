package config

import (
	"os"
	"path/filepath"
)

// Load 读取配置到 out（指针）并监听文件变化，失败直接 panic。
//
// 约定：
//  1. 传入 cfgName（相对/绝对路径）则优先使用；
//  2. 否则从当前目录开始向上查找 `configs/conf.yml`。
func Load(cfgName string, out any, onChange ...func()) {
	curDir, err := os.Getwd()
	if err != nil {
		panic(err)
	}

	path := cfgName
	switch {
	case cfgName == "":
		path = findConfigUpward(curDir, defaultConfigRelPath)
	case !filepath.IsAbs(cfgName):
		path = filepath.Join(curDir, cfgName)
		if !fileExist(path) {
			path = findConfigUpward(curDir, cfgName)
		}
	}

	if _, err = load(path, out, true, onChange...); err != nil {
		panic(err)
	}
}

// Read 只读取一次，不监听，供命令行工具与测试使用。
func Read(path string, out any) error {
	_, err := load(path, out, false)
	return err
}

func findConfigUpward(startDir, rel string) string {
	dir := startDir
	for {
		candidate := filepath.Join(dir, rel)
		if fileExist(candidate) {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			panic("config file not exist, searched " + rel + " from: " + startDir)
		}
		dir = parent
	}
}
