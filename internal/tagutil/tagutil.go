// Package tagutil resolves wire keys and per-field attributes from struct
// tags. The same resolution drives both the writer and the mapper, so a
// value serialized with default settings parses back into the same type.
package tagutil

import (
	"reflect"
	"strings"
	"sync"

	"github.com/iancoleman/strcase"
	"github.com/viant/tagly/format"
	ftime "github.com/viant/tagly/format/time"
)

// Field carries the resolved attributes compiled into type plans.
type Field struct {
	Key        string // member key on the wire
	Ignore     bool
	TimeLayout string // non-empty when a format tag declares one
}

// Resolve merges the json tag with the tagly format tag. Precedence:
// explicit json name, then format tag name, then the bean-style lowerCamel
// form of the Go field name. json:"-" and format ignore both exclude the
// field.
func Resolve(sf reflect.StructField) Field {
	key := strcase.ToLowerCamel(sf.Name)
	explicit := false
	if raw := sf.Tag.Get("json"); raw != "" {
		name := strings.Split(raw, ",")[0]
		if name == "-" {
			return Field{Key: key, Ignore: true}
		}
		if name != "" {
			key = name
			explicit = true
		}
	}
	attrs := formatAttributes(string(sf.Tag))
	if attrs.ignore {
		return Field{Key: key, Ignore: true}
	}
	if !explicit && attrs.name != "" {
		key = attrs.name
	}
	layout := attrs.timeLayout
	if layout == "" && attrs.dateFormat != "" {
		layout = DateFormatToLayout(attrs.dateFormat)
	}
	return Field{Key: key, TimeLayout: layout}
}

// tagly's replacer only knows the lowercase hour token; the Java-style
// 24-hour "HH" must be mapped separately or it survives into the layout.
var hourToken = strings.NewReplacer("HH", "15")

// DateFormatToLayout converts a java.text style date format such as
// "yyyy-MM-dd HH:mm:ss" to a Go time layout.
func DateFormatToLayout(dateFormat string) string {
	return hourToken.Replace(ftime.DateFormatToTimeLayout(dateFormat))
}

type formatTag struct {
	name       string
	ignore     bool
	timeLayout string
	dateFormat string
}

var formatTagCache sync.Map // raw struct tag -> formatTag

func formatAttributes(rawTag string) formatTag {
	if v, ok := formatTagCache.Load(rawTag); ok {
		return v.(formatTag)
	}
	out := formatTag{}
	if tag, err := format.Parse(reflect.StructTag(rawTag)); err == nil && tag != nil {
		out = formatTag{
			name:       tag.Name,
			ignore:     tag.Ignore,
			timeLayout: tag.TimeLayout,
			dateFormat: tag.DateFormat,
		}
	}
	formatTagCache.Store(rawTag, out)
	return out
}
