package domain

import "fmt"

type IssueKind string

const (
	IssueMissingID           IssueKind = "missing_id"
	IssueDuplicateID         IssueKind = "duplicate_id"
	IssueInvertedArea        IssueKind = "inverted_area"
	IssueUnresolvedRef       IssueKind = "unresolved_reference"
	IssueUnknownSettlement   IssueKind = "unknown_settlement_object"
	IssueDuplicateSettlement IssueKind = "duplicate_settlement"
	// 单条记录无法解码，已跳过
	IssueMalformedEntry      IssueKind = "malformed_entry"
)

// Issue 是一条数据质量问题。
type Issue struct {
	Kind    IssueKind `json:"kind" yaml:"kind"`
	Subject string    `json:"subject" yaml:"subject"`
	Detail  string    `json:"detail" yaml:"detail"`
}

func (i Issue) String() string {
	return fmt.Sprintf("%s %s: %s", i.Kind, i.Subject, i.Detail)
}

// Validate 检查地图数据的引用完整性与包围盒方向，不修改数据。
func Validate(info MapInfo) []Issue {
	issues := append([]Issue(nil), info.Rejected...)
	seen := make(map[string]int)
	for i, o := range info.Data.MapObjects {
		subject := o.ID
		if subject == "" {
			subject = fmt.Sprintf("mapObjects[%d]", i)
			issues = append(issues, Issue{Kind: IssueMissingID, Subject: subject, Detail: fmt.Sprintf("title=%q", o.Title)})
		} else if first, dup := seen[o.ID]; dup {
			issues = append(issues, Issue{Kind: IssueDuplicateID, Subject: o.ID, Detail: fmt.Sprintf("first at mapObjects[%d], again at mapObjects[%d]", first, i)})
		} else {
			seen[o.ID] = i
		}
		if o.Coord.Inverted() {
			issues = append(issues, Issue{Kind: IssueInvertedArea, Subject: subject, Detail: fmt.Sprintf("start=(%v,%v) end=(%v,%v)", o.Coord.AreaStartX, o.Coord.AreaStartY, o.Coord.AreaEndX, o.Coord.AreaEndY)})
		}
	}
	for i, c := range info.Data.MapConnections {
		for _, ref := range c.Sequence() {
			id, ok := ref.ID()
			if !ok {
				continue
			}
			if _, found := seen[id]; !found {
				issues = append(issues, Issue{Kind: IssueUnresolvedRef, Subject: fmt.Sprintf("mapConnections[%d]", i), Detail: fmt.Sprintf("id=%q", id)})
			}
		}
	}
	return issues
}

// ValidateSettlements 检查据点与地图对象的关联。
func ValidateSettlements(info SettlementInfo, objects []MapObject) []Issue {
	known := make(map[string]struct{}, len(objects))
	for _, o := range objects {
		known[o.ID] = struct{}{}
	}
	issues := append([]Issue(nil), info.Rejected...)
	linked := make(map[string]int)
	for i, s := range info.Data.Settlements {
		if s.MapObjectID == "" {
			continue
		}
		subject := fmt.Sprintf("settlements[%d]", i)
		if _, ok := known[s.MapObjectID]; !ok {
			issues = append(issues, Issue{Kind: IssueUnknownSettlement, Subject: subject, Detail: fmt.Sprintf("mapObjectId=%q", s.MapObjectID)})
		}
		if first, dup := linked[s.MapObjectID]; dup {
			issues = append(issues, Issue{Kind: IssueDuplicateSettlement, Subject: subject, Detail: fmt.Sprintf("mapObjectId=%q already used by settlements[%d]", s.MapObjectID, first)})
			continue
		}
		linked[s.MapObjectID] = i
	}
	return issues
}
