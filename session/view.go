// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package session

import (
	"errors"
	"math"
)

const (
	MinZoom  = 0.3
	MaxZoom  = 3.0
	ZoomStep = 0.25
)

// ZoomLevels are the preset scales a viewer offers.
var ZoomLevels = []float64{0.5, 0.75, 1.0, 1.25, 1.5, 2.0, 2.5, 3.0}

var ErrInvalidZoom = errors.New("unsupported zoom level")

// View is the page display state: scale, rotation in degrees and fit-to-width.
type View struct {
	Scale    float64
	Rotation int
	FitWidth bool
}

func NewView() View {
	return View{Scale: 1.0}
}

func (v *View) ZoomIn() {
	v.Scale = math.Min(MaxZoom, v.Scale+ZoomStep)
	v.FitWidth = false
}

func (v *View) ZoomOut() {
	v.Scale = math.Max(MinZoom, v.Scale-ZoomStep)
	v.FitWidth = false
}

func (v *View) CanZoomIn() bool  { return v.Scale < MaxZoom }
func (v *View) CanZoomOut() bool { return v.Scale > MinZoom }

// SetZoom selects one of ZoomLevels.
func (v *View) SetZoom(level float64) error {
	for _, l := range ZoomLevels {
		if l == level {
			v.Scale = level
			v.FitWidth = false
			return nil
		}
	}
	return ErrInvalidZoom
}

func (v *View) ResetZoom() {
	v.Scale = 1.0
	v.FitWidth = false
}

// ToggleFitWidth switches fit-to-width. Entering it resets the scale.
func (v *View) ToggleFitWidth() {
	if !v.FitWidth {
		v.Scale = 1.0
	}
	v.FitWidth = !v.FitWidth
}

// Rotate turns the pages a quarter turn clockwise.
func (v *View) Rotate() {
	v.Rotation = (v.Rotation + 90) % 360
}
