package cli

import (
	"strings"

	"github.com/spf13/pflag"

	"github.com/jmylchreest/huepick/internal/render"
)

// formatValue is a pflag.Value that only accepts known output formats.
type formatValue struct {
	format render.Format
}

var _ pflag.Value = (*formatValue)(nil)

func newFormatValue(def render.Format) *formatValue {
	return &formatValue{format: def}
}

func (f *formatValue) String() string {
	return string(f.format)
}

func (f *formatValue) Set(s string) error {
	format, err := render.ParseFormat(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return err
	}
	f.format = format
	return nil
}

func (f *formatValue) Type() string {
	return "format"
}

func formatNames() string {
	names := make([]string, 0, len(render.ValidFormats()))
	for _, f := range render.ValidFormats() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}
