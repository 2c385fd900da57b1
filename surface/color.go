// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/gogpu/gg"
	"golang.org/x/image/colornames"

	"github.com/gogpu/photomark/scene"
)

// ResolveColor converts a scene colour to RGBA. Names follow the SVG/CSS
// keyword list ("red", "purple"); hex strings use #rgb, #rgba, #rrggbb or
// #rrggbbaa.
func ResolveColor(c scene.Color) (color.RGBA, error) {
	s := strings.TrimSpace(string(c))
	if s == "" {
		return color.RGBA{}, fmt.Errorf("surface: empty colour")
	}
	if rgba, ok := colornames.Map[strings.ToLower(s)]; ok {
		return rgba, nil
	}
	if isHexColor(s) {
		return color.RGBAModel.Convert(gg.Hex(s).Color()).(color.RGBA), nil
	}
	return color.RGBA{}, fmt.Errorf("surface: unknown colour %q", s)
}

func isHexColor(s string) bool {
	h, ok := strings.CutPrefix(s, "#")
	if !ok {
		return false
	}
	switch len(h) {
	case 3, 4, 6, 8:
	default:
		return false
	}
	for _, r := range h {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}
