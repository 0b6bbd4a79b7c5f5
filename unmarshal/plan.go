package unmarshal

import (
	"reflect"
	"sort"
	"time"
	"unsafe"

	"github.com/polyglotsoft/jsonx/internal/cache"
	"github.com/polyglotsoft/jsonx/internal/tagutil"
	"github.com/viant/xunsafe"
)

var timeType = reflect.TypeOf(time.Time{})

// typePlan is the introspected field descriptor table for one target struct
// type: exactly one descriptor per resolved member key. Plans are immutable
// once published.
type typePlan struct {
	rType  reflect.Type
	fields []*fieldPlan
}

type fieldPlan struct {
	name       string // Go field name
	key        string // resolved member key
	rType      reflect.Type
	timeLayout string // set when the field tag declares a layout
	resolve    func(root unsafe.Pointer) unsafe.Pointer
}

var planCache = cache.New[reflect.Type, *typePlan](512)

// planFor returns the plan for rType, building it on first use. Concurrent
// first builds race harmlessly: both produce the same immutable plan and
// either may be published.
func planFor(rType reflect.Type) *typePlan {
	if rType.Kind() == reflect.Ptr {
		rType = rType.Elem()
	}
	if p, ok := planCache.Get(rType); ok {
		return p
	}
	p := buildPlan(rType)
	planCache.Set(rType, p)
	return p
}

func buildPlan(rType reflect.Type) *typePlan {
	p := &typePlan{rType: rType}
	if rType.Kind() != reflect.Struct {
		return p
	}
	seen := map[string]bool{}

	var collect func(t reflect.Type, parent []*xunsafe.Field)
	collect = func(t reflect.Type, parent []*xunsafe.Field) {
		for i := 0; i < t.NumField(); i++ {
			sf := t.Field(i)
			if sf.Anonymous {
				embedded := sf.Type
				if embedded.Kind() == reflect.Ptr {
					embedded = embedded.Elem()
				}
				if embedded.Kind() == reflect.Struct && embedded != timeType {
					// composed fields flatten into the outer plan; an embed
					// of an unexported struct type still promotes its
					// exported fields
					xf := xunsafe.NewField(sf)
					collect(embedded, append(append([]*xunsafe.Field{}, parent...), xf))
					continue
				}
			}
			if sf.PkgPath != "" {
				continue
			}
			xf := xunsafe.NewField(sf)
			chain := append(append([]*xunsafe.Field{}, parent...), xf)
			resolved := tagutil.Resolve(sf)
			if resolved.Ignore || seen[resolved.Key] {
				continue
			}
			seen[resolved.Key] = true
			p.fields = append(p.fields, &fieldPlan{
				name:       sf.Name,
				key:        resolved.Key,
				rType:      sf.Type,
				timeLayout: resolved.TimeLayout,
				resolve:    buildResolver(chain),
			})
		}
	}
	collect(rType, nil)
	sort.Slice(p.fields, func(i, j int) bool { return p.fields[i].key < p.fields[j].key })
	return p
}

// buildResolver flattens an access chain into a single pointer walk,
// allocating intermediate nil pointers on demand.
func buildResolver(chain []*xunsafe.Field) func(unsafe.Pointer) unsafe.Pointer {
	if len(chain) == 1 {
		f := chain[0]
		return func(root unsafe.Pointer) unsafe.Pointer { return f.Pointer(root) }
	}
	return func(root unsafe.Pointer) unsafe.Pointer {
		current := root
		for i, f := range chain {
			ptr := f.Pointer(current)
			if i == len(chain)-1 {
				return ptr
			}
			if f.Type.Kind() == reflect.Ptr {
				next := (*unsafe.Pointer)(ptr)
				if *next == nil {
					alloc := reflect.New(f.Type.Elem())
					*next = unsafe.Pointer(alloc.Pointer())
				}
				current = *next
			} else {
				current = ptr
			}
		}
		return current
	}
}
