// atlasctl 是地图数据的命令行工具：检查、导出、生成 BBCode、发布到数据源。
package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"WorldMap/internal/shared/logs"
	"WorldMap/internal/shared/serverconfig"
)

type command struct {
	usage string
	run   func(args []string, stdout io.Writer) error
}

var commands = map[string]command{
	"normalize": {"输出标准化后的图层（json/yaml）", runNormalize},
	"validate":  {"检查数据问题，--strict 时有问题返回非 0", runValidate},
	"bbcode":    {"生成据点 BBCode，--copy 复制到剪贴板", runBBCode},
	"coord":     {"世界坐标与地图坐标互转", runCoord},
	"token":     {"签发管理接口使用的 JWT", runToken},
	"publish":   {"把本地 json 发布到配置的数据源", runPublish},
}

func main() {
	_ = logs.Init("atlasctl", serverconfig.LogConfig{Level: "warn"})

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(2)
	}
	cmd, ok := commands[os.Args[1]]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", os.Args[1])
		usage(os.Stderr)
		os.Exit(2)
	}
	if err := cmd.run(os.Args[2:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: atlasctl <command> [flags]")
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-10s %s\n", name, commands[name].usage)
	}
}
