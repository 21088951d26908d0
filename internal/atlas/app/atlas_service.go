package app

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"WorldMap/internal/atlas/app/model"
	"WorldMap/internal/atlas/domain"
	"WorldMap/modules/kit/logx"

	"go.uber.org/zap"
)

type Options struct {
	// StrictValidation 为 true 时，存在任何数据问题都拒绝发布新快照。
	StrictValidation bool
	Placeholders     Placeholders
}

// ReloadListener 在新快照发布后被调用。
type ReloadListener func(ctx context.Context, snap *Snapshot)

type AtlasService struct {
	repo     DatasetRepo
	log      Logger
	opts     Options
	renderer *BBCodeRenderer
	now      func() time.Time

	current  atomic.Pointer[Snapshot]
	version  atomic.Uint64
	reloadMu sync.Mutex

	listenerMu sync.RWMutex
	listeners  []ReloadListener
}

func NewAtlasService(repo DatasetRepo, log Logger, opts Options) *AtlasService {
	if log == nil {
		log = logx.Nop()
	}
	s := &AtlasService{
		repo:     repo,
		log:      log,
		opts:     opts,
		renderer: NewBBCodeRenderer(opts.Placeholders),
		now:      time.Now,
	}
	s.current.Store(emptySnapshot())
	return s
}

// OnReload 注册快照更新回调。
func (s *AtlasService) OnReload(l ReloadListener) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	s.listeners = append(s.listeners, l)
}

// Snapshot 返回当前快照，启动阶段未加载时为空快照。
func (s *AtlasService) Snapshot() *Snapshot {
	return s.current.Load()
}

// Reload 重新加载两份数据并整体替换快照。
//
// 地图数据加载失败时保留旧快照；据点数据失败只记入 Degraded，地图部分照常发布。
// 严格模式下据点失败同样整体拒绝。
func (s *AtlasService) Reload(ctx context.Context) (*Snapshot, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	var (
		wg             sync.WaitGroup
		mapInfo        *domain.MapInfo
		mapErr         error
		settlementInfo *domain.SettlementInfo
		settlementErr  error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		mapInfo, mapErr = s.repo.LoadMapInfo(ctx)
	}()
	go func() {
		defer wg.Done()
		settlementInfo, settlementErr = s.repo.LoadSettlementInfo(ctx)
	}()
	wg.Wait()

	if mapErr == nil && mapInfo == nil {
		mapErr = errors.New("map info is nil")
	}
	if mapErr != nil {
		return nil, ErrUnavailable.WithReason(ReasonMapLoadFail).WithCause(mapErr)
	}

	l := s.log.WithContext(ctx)
	var degraded []string
	if settlementErr != nil || settlementInfo == nil {
		if s.opts.StrictValidation {
			if settlementErr == nil {
				settlementErr = errors.New("settlement info is nil")
			}
			return nil, ErrDatasetRejected.WithReason(ReasonSettlementLoadFail).
				WithData("dataset", string(DatasetSettlement)).
				WithCause(settlementErr)
		}
		l.Warn("据点数据加载失败，据点列表置空",
			zap.String("reason", ReasonSettlementLoadFail.Code),
			zap.Error(settlementErr),
		)
		settlementInfo = nil
		degraded = append(degraded, string(DatasetSettlement))
	}

	issues := domain.Validate(*mapInfo)
	if settlementInfo != nil {
		issues = append(issues, domain.ValidateSettlements(*settlementInfo, mapInfo.Data.MapObjects)...)
	}
	if s.opts.StrictValidation && len(issues) != 0 {
		return nil, ErrDatasetRejected.WithReason(ReasonStrictValidation).
			WithData("issues", len(issues)).
			WithData("first", issues[0].String())
	}
	for _, is := range issues {
		l.Warn("数据问题", zap.String("kind", string(is.Kind)), zap.String("subject", is.Subject), zap.String("detail", is.Detail))
	}

	snap := BuildSnapshot(ctx, mapInfo, settlementInfo, s.log)
	snap.Issues = issues
	snap.Degraded = degraded
	snap.LoadedAt = s.now()
	snap.Version = s.version.Add(1)
	s.current.Store(snap)

	l.Info("地图快照已更新",
		zap.Uint64("version", snap.Version),
		zap.String("map_version", snap.MapVersion),
		zap.Int("objects", len(snap.Objects)),
		zap.Int("connections", len(snap.Connections)),
		zap.Int("settlements", len(snap.Settlements)),
		zap.Int("issues", len(issues)),
	)

	s.listenerMu.RLock()
	listeners := append([]ReloadListener(nil), s.listeners...)
	s.listenerMu.RUnlock()
	for _, fn := range listeners {
		fn(ctx, snap)
	}
	return snap, nil
}

// Info 汇总当前快照。
func (s *AtlasService) Info() model.SnapshotInfo {
	return Summarize(s.Snapshot())
}

func Summarize(snap *Snapshot) model.SnapshotInfo {
	issues := snap.Issues
	if issues == nil {
		issues = []domain.Issue{}
	}
	return model.SnapshotInfo{
		Version:     snap.Version,
		MapVersion:  snap.MapVersion,
		LoadedAt:    snap.LoadedAt,
		Objects:     len(snap.Objects),
		Connections: len(snap.Connections),
		Settlements: len(snap.Settlements),
		Issues:      issues,
		Degraded:    snap.Degraded,
	}
}

// MapLayers 返回分组后的图层；zoom 非空时只保留该缩放下可见的分组。
func (s *AtlasService) MapLayers(zoom *int) model.MapLayers {
	snap := s.Snapshot()
	out := model.MapLayers{
		Version:     snap.Version,
		MapVersion:  snap.MapVersion,
		Zoom:        zoom,
		Metadata:    snap.Metadata,
		Objects:     snap.ObjectLayers,
		Connections: snap.ConnectionLayers,
	}
	if zoom != nil {
		out.Objects = domain.VisibleGroups(snap.ObjectLayers, *zoom)
		out.Connections = domain.VisibleGroups(snap.ConnectionLayers, *zoom)
	}
	return out
}

func (s *AtlasService) FindObject(id string) (domain.NormalizedObject, error) {
	if id == "" {
		return domain.NormalizedObject{}, ErrInvalidArgument.WithData("reason", "id 不能为空")
	}
	o, ok := s.Snapshot().Object(id)
	if !ok {
		return domain.NormalizedObject{}, domain.ErrObjectNotFound.WithData("id", id)
	}
	return o, nil
}

// LocateClick 把一次点击换算为世界坐标并找出命中的对象。
func (s *AtlasService) LocateClick(lat, lng float64) (model.LocateResult, error) {
	if !finite(lat) || !finite(lng) {
		return model.LocateResult{}, ErrInvalidArgument.WithData("reason", "坐标非法")
	}
	at := domain.LatLng{lat, lng}
	world, hits := domain.Locate(s.Snapshot().Objects, at)
	return model.LocateResult{At: at, World: world, Hits: hits}, nil
}

// Coord 把世界坐标换算为地图坐标。
func (s *AtlasService) Coord(x, y float64) (model.CoordResult, error) {
	if !finite(x) || !finite(y) {
		return model.CoordResult{}, ErrInvalidArgument.WithData("reason", "坐标非法")
	}
	return model.CoordResult{World: domain.Point{X: x, Y: y}, Map: domain.ToMapCoord(x, y)}, nil
}

func (s *AtlasService) Settlements() []domain.SettlementView {
	return s.Snapshot().Settlements
}

func (s *AtlasService) Settlement(name string) (domain.SettlementView, error) {
	v, ok := s.Snapshot().Settlement(name)
	if !ok {
		return domain.SettlementView{}, domain.ErrSettlementNotFound.WithData("name", name)
	}
	return v, nil
}

func (s *AtlasService) SettlementBBCode(name string) (string, error) {
	v, err := s.Settlement(name)
	if err != nil {
		return "", err
	}
	out, err := s.renderer.Render(v)
	if err != nil {
		return "", ErrInternalServer.WithReason(ReasonRenderFail).WithCause(err)
	}
	return out, nil
}

// AllSettlementsBBCode 渲染全部据点，没有据点时返回空串。
func (s *AtlasService) AllSettlementsBBCode() (string, error) {
	out, err := s.renderer.RenderAll(s.Snapshot().Settlements)
	if err != nil {
		return "", ErrInternalServer.WithReason(ReasonRenderFail).WithCause(err)
	}
	return out, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
