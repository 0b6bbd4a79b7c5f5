package marshal

import (
	"reflect"
	"sort"

	"github.com/polyglotsoft/jsonx/internal/cache"
	"github.com/polyglotsoft/jsonx/internal/tagutil"
	"github.com/viant/xunsafe"
)

type structPlan struct {
	rType  reflect.Type
	fields []planField
}

type planField struct {
	key        string
	keyLit     []byte // quoted key plus colon, escaped once at plan build
	index      []int
	rType      reflect.Type
	kind       reflect.Kind
	scalar     bool
	timeLayout string
	xField     *xunsafe.Field
}

var planCache = cache.New[reflect.Type, *structPlan](512)

// planFor returns the serialization plan for rType, building it on first
// use. A concurrent build of the same type is idempotent.
func planFor(rType reflect.Type) *structPlan {
	if plan, ok := planCache.Get(rType); ok {
		return plan
	}
	plan := buildPlan(rType)
	planCache.Set(rType, plan)
	return plan
}

func buildPlan(rType reflect.Type) *structPlan {
	plan := &structPlan{rType: rType}
	seen := map[string]bool{}
	collectFields(rType, nil, seen, plan)
	sort.Slice(plan.fields, func(i, j int) bool {
		return plan.fields[i].key < plan.fields[j].key
	})
	return plan
}

func collectFields(rType reflect.Type, index []int, seen map[string]bool, plan *structPlan) {
	for i := 0; i < rType.NumField(); i++ {
		sf := rType.Field(i)
		chain := append(append([]int(nil), index...), i)
		if sf.Anonymous {
			fType := sf.Type
			if fType.Kind() == reflect.Ptr {
				fType = fType.Elem()
			}
			if fType.Kind() == reflect.Struct && fType != timeType {
				// composed fields flatten into the outer plan; an embed of
				// an unexported struct type still promotes its exported
				// fields
				collectFields(fType, chain, seen, plan)
				continue
			}
		}
		if sf.PkgPath != "" {
			continue
		}
		meta := tagutil.Resolve(sf)
		if meta.Ignore || seen[meta.Key] {
			continue
		}
		seen[meta.Key] = true
		fp := planField{
			key:        meta.Key,
			keyLit:     append(appendQuotedString(nil, meta.Key), ':'),
			index:      chain,
			rType:      sf.Type,
			kind:       sf.Type.Kind(),
			timeLayout: meta.TimeLayout,
		}
		fp.scalar = isScalarKind(fp.kind)
		if len(chain) == 1 {
			fp.xField = xunsafe.NewField(sf)
		}
		plan.fields = append(plan.fields, fp)
	}
}

func isScalarKind(kind reflect.Kind) bool {
	switch kind {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64,
		reflect.String:
		return true
	}
	return false
}
