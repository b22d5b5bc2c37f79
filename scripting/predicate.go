package scripting

import (
	"github.com/dop251/goja"

	"github.com/wudi/docflow/document"
	"github.com/wudi/docflow/layout"
	"github.com/wudi/docflow/measure"
)

// PageBreakPredicate compiles a JavaScript function
//
//	function(currentNode, followingNodesOnPage, nodesOnNextPage, previousNodesOnPage) { ... }
//
// into a layout predicate. Node summaries are exposed to the script as
// plain objects. A script error counts as "no break".
func PageBreakPredicate(src string) (layout.PageBreakPredicate, error) {
	engine := NewGojaEngine()
	fn, err := engine.compileFunction(src)
	if err != nil {
		return nil, err
	}
	vm := engine.vm

	return func(current *layout.NodeSummary, following, onNextPage, previous []*layout.NodeSummary) bool {
		val, err := fn(goja.Undefined(),
			vm.ToValue(summaryValue(current)),
			vm.ToValue(summaryValues(following)),
			vm.ToValue(summaryValues(onNextPage)),
			vm.ToValue(summaryValues(previous)))
		if err != nil {
			return false
		}
		return val.ToBoolean()
	}, nil
}

// DynamicContent compiles a JavaScript function
//
//	function(currentPage, pageCount, pageSize) { ... }
//
// into a per-page content source for headers, footers and backgrounds.
// The returned value is converted to a node tree; returning null or
// undefined skips the page.
func DynamicContent(src string) (layout.NodeSource, error) {
	engine := NewGojaEngine()
	fn, err := engine.compileFunction(src)
	if err != nil {
		return nil, err
	}
	vm := engine.vm

	return func(pageNumber, pageCount int, pageSize layout.PageSize) *document.Node {
		val, err := fn(goja.Undefined(),
			vm.ToValue(pageNumber),
			vm.ToValue(pageCount),
			vm.ToValue(map[string]interface{}{
				"width":       pageSize.Width,
				"height":      pageSize.Height,
				"orientation": string(pageSize.Orientation),
			}))
		if err != nil {
			return nil
		}
		if goja.IsUndefined(val) || goja.IsNull(val) {
			return nil
		}
		node, err := measure.FromValue(val.Export())
		if err != nil {
			return nil
		}
		return node
	}, nil
}

func summaryValue(s *layout.NodeSummary) map[string]interface{} {
	if s == nil {
		return nil
	}
	m := map[string]interface{}{
		"kind":        s.Kind.String(),
		"id":          s.ID,
		"text":        s.Text,
		"pageNumbers": s.PageNumbers,
		"pages":       s.Pages,
		"stack":       s.Stack,
	}
	if p := s.StartPosition; p != nil {
		m["startPosition"] = map[string]interface{}{
			"pageNumber":      p.PageNumber,
			"pageOrientation": string(p.PageOrientation),
			"left":            p.X,
			"top":             p.Y,
		}
	}
	return m
}

func summaryValues(summaries []*layout.NodeSummary) []map[string]interface{} {
	out := make([]map[string]interface{}, len(summaries))
	for i, s := range summaries {
		out[i] = summaryValue(s)
	}
	return out
}
