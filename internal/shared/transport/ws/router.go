package ws

import (
	"context"
	"sort"
	"strings"

	"WorldMap/internal/shared/transport"
	"WorldMap/modules/kit/logx"
)

type HandlerFunc func(ctx context.Context, req *WsMsgReq, resp *WsMsgResp)

// Router 以 "组.名" 为 key 保存处理器，只在启动阶段注册。
type Router struct {
	routes map[string]HandlerFunc
	log    logx.Logger
}

// Group 是同一前缀下的注册入口。
type Group struct {
	prefix string
	r      *Router
}

func NewRouter(l logx.Logger) *Router {
	if l == nil {
		l = logx.Nop()
	}
	return &Router{routes: make(map[string]HandlerFunc), log: l}
}

func (r *Router) Group(prefix string) Group {
	return Group{prefix: prefix, r: r}
}

func (g Group) Handle(name string, h HandlerFunc) {
	g.r.routes[g.prefix+"."+name] = h
}

// Routes 返回已注册的消息名，按字典序。
func (r *Router) Routes() []string {
	names := make([]string, 0, len(r.routes))
	for name := range r.routes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch 按 req.Body.Name 找到处理器执行，并写一条访问日志。
// handler 未设置 Code 时按系统错误返回。
func (r *Router) Dispatch(parent context.Context, req *WsMsgReq, resp *WsMsgResp) {
	if resp == nil || resp.Body == nil {
		return
	}
	name := ""
	if req != nil && req.Body != nil {
		name = req.Body.Name
	}
	ctx := transport.NewContext(parent, "ws", "WS "+routeLabel(name))
	resp.Body.Code = transport.SystemError
	resp.Body.Msg = nil

	defer func() {
		transport.SetBizCode(ctx, transport.BizCode(resp.Body.Code))
		transport.WriteAccessLog(ctx, r.log)
	}()

	if req == nil || req.Body == nil {
		fail(resp, transport.InvalidParam, "参数有误")
		return
	}
	if !validRouteName(name) {
		fail(resp, transport.InvalidParam, "路由参数有误")
		return
	}
	h, ok := r.routes[name]
	if !ok {
		fail(resp, transport.NotFound, "路由不存在")
		return
	}
	h(ctx, req, resp)
}

func routeLabel(name string) string {
	if name == "" {
		return "unknown"
	}
	return name
}

// validRouteName 要求恰好一个点，两侧非空。
func validRouteName(name string) bool {
	prefix, rest, ok := strings.Cut(name, ".")
	return ok && prefix != "" && rest != "" && !strings.Contains(rest, ".")
}

func fail(resp *WsMsgResp, code int, msg string) {
	resp.Body.Code = code
	resp.Body.Msg = msg
}

// Registrar 由业务模块实现，向 Router 注册消息处理器。
type Registrar interface {
	WsRegister(r *Router)
}
