// Copyright © 2026, SAS Institute Inc., Cary, NC, USA.  All Rights Reserved.
// SPDX-License-Identifier: BSD-3-Clause

package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestView_Zoom(t *testing.T) {
	v := NewView()
	for i := 0; i < 20; i++ {
		v.ZoomIn()
	}
	assert.Equal(t, MaxZoom, v.Scale)
	assert.False(t, v.CanZoomIn())

	for i := 0; i < 20; i++ {
		v.ZoomOut()
	}
	assert.Equal(t, MinZoom, v.Scale)
	assert.False(t, v.CanZoomOut())

	v.ResetZoom()
	assert.Equal(t, 1.0, v.Scale)
}

func TestView_SetZoom(t *testing.T) {
	v := NewView()
	assert.NoError(t, v.SetZoom(2.5))
	assert.Equal(t, 2.5, v.Scale)
	assert.ErrorIs(t, v.SetZoom(1.1), ErrInvalidZoom)
	assert.Equal(t, 2.5, v.Scale)
}

func TestView_FitWidth(t *testing.T) {
	v := NewView()
	v.ZoomIn()
	v.ToggleFitWidth()
	assert.True(t, v.FitWidth)
	assert.Equal(t, 1.0, v.Scale, "entering fit-to-width resets the scale")

	v.ZoomIn()
	assert.False(t, v.FitWidth, "zooming leaves fit-to-width")
	assert.Equal(t, 1.25, v.Scale)
}

func TestView_Rotate(t *testing.T) {
	v := NewView()
	var seen []int
	for i := 0; i < 5; i++ {
		v.Rotate()
		seen = append(seen, v.Rotation)
	}
	assert.Equal(t, []int{90, 180, 270, 0, 90}, seen)
}
