package app

import (
	"bytes"
	"strconv"
	"strings"
	"text/template"

	"WorldMap/internal/atlas/domain"
)

// Placeholders 是缺少图片时使用的占位图地址。
type Placeholders struct {
	Settlement string
	Landmark   string
	Action     string
}

var DefaultPlaceholders = Placeholders{
	Settlement: "https://placehold.co/300x225.png",
	Landmark:   "https://placehold.co/200x75.png",
	Action:     "https://placehold.co/200x50.png",
}

const (
	bbcodeSpacer = "[div]　　[/div]"
	// 多个据点之间的分隔：两行空白、分割线、两行空白
	bbcodeSettlementSeparator = bbcodeSpacer + bbcodeSpacer + "[hr]" + bbcodeSpacer + bbcodeSpacer
)

// 模板中的换行与制表符在输出前全部去掉，只为可读性保留。
const settlementTemplate = `
[div]
[table width=95% cellspacing=0 cellpadding=0 border=0]
[tr]
[td align=center valign=top width=300 rowspan=2][img={{img .ImgSrc $.Placeholders.Settlement}}][/td]
[td align=center valign=top colspan=2 height=28][size=5][color=#2897a6][b]{{.Name}} {{.SubName}}[/b][/color][/size][/td]
[/tr]
[tr]
[td align=left valign=top]
{{range $i, $line := lines .Description}}{{if $i}}` + bbcodeSpacer + `{{end}}[div][size=3]{{$line}}[/size][/div]{{end}}
[/td]
[/tr]
[tr]
[td align=left valign=top colspan=2]
[/td]
[/tr]
[tr]
[td align=center valign=top colspan=2]
[table align=center cellspacing=0 cellpadding=0 border=0]
[tr]
[td align=center][size=2]位置: {{.Metadata.Position}}[/size][/td]
[td align=center][size=2]．[/size][/td]
[td align=center][size=2]隸屬: {{.Metadata.Country}}[/size][/td]
[td align=center][size=2]．[/size][/td]
[td align=center][size=2]類型: {{.Metadata.Type}}[/size][/td]
[td align=center][size=2]．[/size][/td]
[td align=center][size=2]人口: {{.Metadata.Population}}[/size][/td]
[/tr]
[/table]
[/td]
[/tr]
[tr]
[td align=left valign=top colspan=2]
[/td]
[/tr]
[tr]
[td align=left valign=top colspan=2]
{{range $i, $lm := .Landmarks}}{{if $i}}` + bbcodeSpacer + `{{end}}
[table width=100% cellspacing=0 cellpadding=0 border=1]
[tr]
[td bgcolor=#2897a6 valign=center]
[table width=100% cellspacing=0 cellpadding=0 border=0]
[tr]
[td align=left]
[div][size=4][color=#ffffff][b]{{$lm.Name}}[/b][/color][/size][/div]
{{range lines $lm.Description}}[div][size=1][color=#f2f2f2]{{.}}[/color][/size][/div]
{{end}}
[/td]
[td align=right]
[img={{img $lm.ImgSrc $.Placeholders.Landmark}}]
[/td]
[/tr]
[/table]
[/td]
[/tr]
[tr]
[td valign=top]
[table width=100% cellspacing=0 cellpadding=0 border=0]
{{range $j, $act := $lm.Actions}}
[tr]
[td align=left valign=center{{rowColor $j}}]
[div][size=3][color=#464646]└ [b][color=#eb3434]{{ap $act.APCost}}[/color][/b] {{$act.Title}}[/color][/size][/div]
[div][size=1][color=#636363]　　　　　{{$act.Description}}[/color][/size][/div]
[/td]
[td align=right valign=center{{rowColor $j}}]
[img={{img $act.ImgSrc $.Placeholders.Action}}]
[/td]
[/tr]
{{end}}
[/table]
[/td]
[/tr]
[/table]
{{end}}
[/td]
[/tr]
[tr]
[td align=left valign=top colspan=2]
` + bbcodeSpacer + `
[table width=100% cellspacing=0 cellpadding=0 border=1]
[tr]
[td bgcolor=#8a6f5b valign=center]
[table width=100% cellspacing=0 cellpadding=0 border=0]
[tr]
[td align=left]
[div][size=4][color=#ffffff][b]移動[/b][/color][/size][/div]
[/td]
[td align=right]
[/td]
[/tr]
[/table]
[/td]
[/tr]
[tr]
[td valign=top]
[table width=100% cellspacing=0 cellpadding=0 border=0]
{{range .Connections}}
[tr]
[td align=left valign=center bgcolor=#d4c8bc]
[div][size=3][color=#464646]→ [b][color=#eb3434]{{apValue .APCost}}[/color][/b] 前往 [b]{{.Name}}[/b][/color][/size][/div]
{{if .Remarks}}[div][size=1]　　　　　{{.Remarks}}[/size][/div]{{end}}
[/td]
[/tr]
{{end}}
[/table]
[/td]
[/tr]
[/table]
[/td]
[/tr]
[/table]
[/div]
`

var bbcodeFuncs = template.FuncMap{
	"lines": func(s string) []string { return strings.Split(s, "\n") },
	"img": func(src, fallback string) string {
		if src == "" {
			return fallback
		}
		return src
	},
	"rowColor": func(i int) string {
		if i%2 == 1 {
			return " bgcolor=#9fcad1"
		}
		return " bgcolor=#c1dade"
	},
	"ap": func(cost *int) string {
		if cost == nil {
			return ""
		}
		return apTag(*cost)
	},
	"apValue": apTag,
}

// apTag 为 0 时不显示；方括号用实体转义，避免被当成 BBCode 标签。
func apTag(cost int) string {
	if cost == 0 {
		return ""
	}
	return "&#91;" + strconv.Itoa(cost) + "AP&#93;"
}

var bbcodeTmpl = template.Must(template.New("settlement").Funcs(bbcodeFuncs).Parse(settlementTemplate))

var bbcodeMinifier = strings.NewReplacer("\t", "", "\n", "")

// BBCodeRenderer 把据点渲染为论坛用的 BBCode。
type BBCodeRenderer struct {
	placeholders Placeholders
}

func NewBBCodeRenderer(p Placeholders) *BBCodeRenderer {
	if p.Settlement == "" {
		p.Settlement = DefaultPlaceholders.Settlement
	}
	if p.Landmark == "" {
		p.Landmark = DefaultPlaceholders.Landmark
	}
	if p.Action == "" {
		p.Action = DefaultPlaceholders.Action
	}
	return &BBCodeRenderer{placeholders: p}
}

type bbcodeData struct {
	domain.SettlementView
	Placeholders Placeholders
}

// Render 渲染单个据点。
func (r *BBCodeRenderer) Render(s domain.SettlementView) (string, error) {
	var buf bytes.Buffer
	if err := bbcodeTmpl.Execute(&buf, bbcodeData{SettlementView: s, Placeholders: r.placeholders}); err != nil {
		return "", ErrInternalServer.WithData("settlement", s.Name).WithCause(err)
	}
	return bbcodeMinifier.Replace(buf.String()), nil
}

// RenderAll 渲染全部据点并用分隔线连接。
func (r *BBCodeRenderer) RenderAll(list []domain.SettlementView) (string, error) {
	parts := make([]string, 0, len(list))
	for _, s := range list {
		out, err := r.Render(s)
		if err != nil {
			return "", err
		}
		parts = append(parts, out)
	}
	return strings.Join(parts, bbcodeSettlementSeparator), nil
}
