package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"WorldMap/internal/atlas/app"
	"WorldMap/internal/atlas/domain"
	"WorldMap/internal/atlas/infra/notify"
	"WorldMap/internal/atlas/infra/source"
	"WorldMap/internal/atlas/infra/source/file"
	"WorldMap/internal/atlas/infra/source/provider"
	"WorldMap/internal/atlas/interfaces/handler"
	"WorldMap/internal/shared/logs"
	"WorldMap/internal/shared/security"
	"WorldMap/internal/shared/serverconfig"
	"WorldMap/modules/kit/logx"

	"github.com/spf13/pflag"
	"golang.design/x/clipboard"
	"gopkg.in/yaml.v3"
)

var errIssuesFound = errors.New("data issues found")

type dataFlags struct {
	mapFile        string
	settlementFile string
}

func (d *dataFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&d.mapFile, "map", "data/map.json", "map.json 路径")
	fs.StringVar(&d.settlementFile, "settlement", "data/settlement.json", "settlement.json 路径")
}

// load 从本地文件构建一次快照，settlement 缺失时按空列表处理。
func (d *dataFlags) load(ctx context.Context, opts app.Options) (*app.AtlasService, *app.Snapshot, error) {
	repo := source.NewRepo(file.NewStore(d.mapFile, d.settlementFile))
	svc := app.NewAtlasService(repo, logx.NewZapLogger(logs.Logger()), opts)
	snap, err := svc.Reload(ctx)
	if err != nil {
		return nil, nil, err
	}
	return svc, snap, nil
}

func newFlagSet(name string) *pflag.FlagSet {
	return pflag.NewFlagSet(name, pflag.ContinueOnError)
}

func runNormalize(args []string, stdout io.Writer) error {
	fs := newFlagSet("normalize")
	var data dataFlags
	data.bind(fs)
	format := fs.StringP("format", "f", "json", "输出格式：json|yaml")
	zoom := fs.Int("zoom", 0, "只输出该缩放级别可见的分组")
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc, _, err := data.load(context.Background(), app.Options{})
	if err != nil {
		return err
	}
	var z *int
	if fs.Changed("zoom") {
		z = zoom
	}
	view := handler.MapLayersView(svc.MapLayers(z))

	switch *format {
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	case "yaml":
		out, err := toYAML(view)
		if err != nil {
			return err
		}
		_, err = stdout.Write(out)
		return err
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
}

// toYAML 经 JSON 转成 yaml.Node，保留字段顺序，再改为块风格输出。
func toYAML(v any) ([]byte, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var node yaml.Node
	if err = yaml.Unmarshal(raw, &node); err != nil {
		return nil, err
	}
	clearStyle(&node)
	return yaml.Marshal(&node)
}

func clearStyle(n *yaml.Node) {
	n.Style = 0
	for _, c := range n.Content {
		clearStyle(c)
	}
}

func runValidate(args []string, stdout io.Writer) error {
	fs := newFlagSet("validate")
	var data dataFlags
	data.bind(fs)
	strict := fs.Bool("strict", false, "存在问题时返回非 0")
	format := fs.StringP("format", "f", "text", "输出格式：text|yaml")
	if err := fs.Parse(args); err != nil {
		return err
	}

	_, snap, err := data.load(context.Background(), app.Options{})
	if err != nil {
		return err
	}
	if err = printIssues(stdout, snap.Issues, *format); err != nil {
		return err
	}
	if *strict && len(snap.Issues) != 0 {
		return errIssuesFound
	}
	return nil
}

func printIssues(w io.Writer, issues []domain.Issue, format string) error {
	if format == "yaml" {
		if issues == nil {
			issues = []domain.Issue{}
		}
		return yaml.NewEncoder(w).Encode(issues)
	}
	if len(issues) == 0 {
		_, err := fmt.Fprintln(w, "ok")
		return err
	}
	for _, is := range issues {
		if _, err := fmt.Fprintln(w, is.String()); err != nil {
			return err
		}
	}
	return nil
}

func runBBCode(args []string, stdout io.Writer) error {
	fs := newFlagSet("bbcode")
	var data dataFlags
	data.bind(fs)
	name := fs.StringP("name", "n", "", "只输出指定据点")
	copyOut := fs.Bool("copy", false, "同时复制到剪贴板")
	if err := fs.Parse(args); err != nil {
		return err
	}

	svc, _, err := data.load(context.Background(), app.Options{})
	if err != nil {
		return err
	}
	var out string
	if *name != "" {
		out, err = svc.SettlementBBCode(*name)
	} else {
		out, err = svc.AllSettlementsBBCode()
	}
	if err != nil {
		return err
	}
	if _, err = fmt.Fprintln(stdout, out); err != nil {
		return err
	}

	if *copyOut {
		if err = clipboard.Init(); err != nil {
			return fmt.Errorf("clipboard unavailable: %w", err)
		}
		// 返回的 channel 在剪贴板被他人覆盖时才关闭，不等待
		clipboard.Write(clipboard.FmtText, []byte(out))
		fmt.Fprintln(os.Stderr, "copied to clipboard")
	}
	return nil
}

func runCoord(args []string, stdout io.Writer) error {
	fs := newFlagSet("coord")
	toWorld := fs.Bool("to-world", false, "输入为地图坐标 lat lng，输出世界坐标")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return errors.New("need exactly two numbers")
	}
	a, err := strconv.ParseFloat(fs.Arg(0), 64)
	if err != nil {
		return err
	}
	b, err := strconv.ParseFloat(fs.Arg(1), 64)
	if err != nil {
		return err
	}

	if *toWorld {
		p := domain.FromMapCoord(domain.LatLng{a, b})
		_, err = fmt.Fprintf(stdout, "%g %g\n", p.X, p.Y)
		return err
	}
	ll := domain.ToMapCoord(a, b)
	_, err = fmt.Fprintf(stdout, "%g %g\n", ll.Lat(), ll.Lng())
	return err
}

func runToken(args []string, stdout io.Writer) error {
	fs := newFlagSet("token")
	cfgPath := fs.StringP("config", "c", "", "读取 security.jwt_secret 的配置文件")
	uid := fs.Int("uid", 0, "签发给的 uid，默认取 security.admin_uid")
	ttl := fs.Duration("ttl", 24*time.Hour, "有效期")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *cfgPath != "" {
		conf, err := serverconfig.Read(*cfgPath)
		if err != nil {
			return err
		}
		if !fs.Changed("uid") {
			*uid = conf.Security.AdminUid
		}
	}
	token, err := security.Award(*uid, security.ScopeAdmin, *ttl)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, token)
	return err
}

func runPublish(args []string, stdout io.Writer) error {
	fs := newFlagSet("publish")
	var data dataFlags
	data.bind(fs)
	cfgPath := fs.StringP("config", "c", "configs/conf.yml", "目标数据源所在的配置文件")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	// 先在本地完整解析一遍，坏数据不发布
	if _, _, err := data.load(ctx, app.Options{StrictValidation: true}); err != nil {
		return err
	}

	conf, err := serverconfig.Read(*cfgPath)
	if err != nil {
		return err
	}
	dataset, err := provider.Open(ctx, conf)
	if err != nil {
		return err
	}
	defer dataset.Close(ctx)

	var (
		mapVersion string
		published  []string
	)
	for _, item := range []struct {
		name app.DatasetName
		path string
	}{
		{app.DatasetMap, data.mapFile},
		{app.DatasetSettlement, data.settlementFile},
	} {
		payload, err := os.ReadFile(item.path)
		if err != nil {
			return err
		}
		var head struct {
			Version string `json:"version"`
		}
		_ = json.Unmarshal(payload, &head)
		if err = dataset.Publisher.Publish(ctx, item.name, head.Version, payload); err != nil {
			return err
		}
		if item.name == app.DatasetMap {
			mapVersion = head.Version
		}
		published = append(published, string(item.name))
		if _, err = fmt.Fprintf(stdout, "published %s version=%s to %s\n", item.name, head.Version, conf.Atlas.Source); err != nil {
			return err
		}
	}

	if conf.Redis.Addr == "" {
		return nil
	}
	bus, err := notify.Open(ctx, conf.Redis, logx.NewZapLogger(logs.Logger()))
	if err != nil {
		return err
	}
	defer bus.Close()
	n, err := bus.Announce(ctx, notify.Event{MapVersion: mapVersion, Datasets: published})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "notified %d instance(s)\n", n)
	return err
}
