package inspector

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"
)

// Widget selects how a field is drawn.
type Widget int

const (
	WidgetAuto Widget = iota
	WidgetLabel
	WidgetBar
	WidgetBool
	WidgetSpark
	WidgetSkip
)

var widgetNames = map[string]Widget{
	"label": WidgetLabel,
	"bar":   WidgetBar,
	"bool":  WidgetBool,
	"spark": WidgetSpark,
	"skip":  WidgetSkip,
}

// Tag is a parsed `inspect:"widget[,max:N][,fmt:F]"` struct tag.
type Tag struct {
	Widget Widget
	Max    float32 // full-scale value for bars and sparklines
	Format string  // fmt verb for labels
}

// ParseTag parses an inspect struct tag. Unknown widgets and options are
// ignored; Max defaults to 1.
func ParseTag(tag string) Tag {
	out := Tag{Max: 1}
	name, rest, _ := strings.Cut(tag, ",")
	out.Widget = widgetNames[strings.TrimSpace(name)]

	for rest != "" {
		var opt string
		opt, rest, _ = strings.Cut(rest, ",")
		key, val, ok := strings.Cut(strings.TrimSpace(opt), ":")
		if !ok {
			continue
		}
		switch key {
		case "max":
			if m, err := strconv.ParseFloat(val, 32); err == nil && m > 0 {
				out.Max = float32(m)
			}
		case "fmt":
			out.Format = val
		}
	}
	return out
}

// Field is one drawable field of an inspected struct.
type Field struct {
	Name  string
	Value any
	Tag
}

type fieldSpec struct {
	index int
	name  string
	tag   Tag
}

// specs caches the parsed layout per struct type; views are extracted every frame.
var specs sync.Map // reflect.Type -> []fieldSpec

func specsFor(t reflect.Type) []fieldSpec {
	if cached, ok := specs.Load(t); ok {
		return cached.([]fieldSpec)
	}

	var out []fieldSpec
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag := ParseTag(sf.Tag.Get("inspect"))
		if tag.Widget == WidgetAuto {
			tag.Widget = autoWidget(sf.Type)
		}
		if tag.Widget == WidgetSkip {
			continue
		}
		out = append(out, fieldSpec{index: i, name: sf.Name, tag: tag})
	}

	specs.Store(t, out)
	return out
}

// ExtractFields returns the drawable exported fields of a struct or struct
// pointer, in declaration order. Anything else yields nil.
func ExtractFields(view any) []Field {
	v := reflect.ValueOf(view)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	layout := specsFor(v.Type())
	fields := make([]Field, len(layout))
	for i, s := range layout {
		fields[i] = Field{Name: s.name, Value: v.Field(s.index).Interface(), Tag: s.tag}
	}
	return fields
}

func autoWidget(t reflect.Type) Widget {
	switch t.Kind() {
	case reflect.Bool:
		return WidgetBool
	case reflect.Struct, reflect.Map, reflect.Func, reflect.Chan:
		return WidgetSkip
	case reflect.Array, reflect.Slice:
		if k := t.Elem().Kind(); k == reflect.Float32 || k == reflect.Float64 {
			return WidgetSpark
		}
		return WidgetLabel
	default:
		return WidgetLabel
	}
}

// FormatValue renders a value for a label. Floats default to two decimals.
func FormatValue(value any, format string) string {
	if format != "" {
		return fmt.Sprintf(format, value)
	}
	switch v := value.(type) {
	case float32, float64:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprint(value)
	}
}

// FloatValue converts numeric scalars to float32.
func FloatValue(value any) (float32, bool) {
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		return float32(v.Float()), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float32(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float32(v.Uint()), true
	}
	return 0, false
}

// FloatSeries converts an array or slice of floats to []float32.
func FloatSeries(value any) ([]float32, bool) {
	v := reflect.ValueOf(value)
	if v.Kind() != reflect.Array && v.Kind() != reflect.Slice {
		return nil, false
	}
	if k := v.Type().Elem().Kind(); k != reflect.Float32 && k != reflect.Float64 {
		return nil, false
	}

	out := make([]float32, v.Len())
	for i := range out {
		out[i] = float32(v.Index(i).Float())
	}
	return out, true
}
