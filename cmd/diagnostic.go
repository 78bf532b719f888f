// Copyright © 2024 The ELPS authors

package cmd

import (
	"io"
	"os"

	"github.com/luthersystems/skim/diagnostic"
	"github.com/spf13/viper"
)

// colorMode returns the configured color mode.  The setting is validated
// before any command runs.
func colorMode() diagnostic.ColorMode {
	mode, _ := diagnostic.ParseColorMode(viper.GetString("color"))
	return mode
}

// newRenderer returns a renderer which reads the source of expressions given
// on the command line from sources and everything else from disk.
func newRenderer(sources map[string]string) *diagnostic.Renderer {
	r := &diagnostic.Renderer{Color: colorMode()}
	if len(sources) > 0 {
		r.SourceReader = func(name string) ([]byte, error) {
			if src, ok := sources[name]; ok {
				return []byte(src), nil
			}
			return os.ReadFile(name) //nolint:gosec // reads user-specified source files for display
		}
	}
	return r
}

// renderFailure renders err with diagnostic formatting to w.
func renderFailure(w io.Writer, err error, sources map[string]string) {
	d := diagnostic.FromError(err, viper.GetBool("verbose"))
	logger.Debug("reporting failure", "diagnostic", d.Summary())
	_ = newRenderer(sources).Render(w, d)
}
