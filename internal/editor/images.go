// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package editor

import (
	"sitecms/internal/binding"
)

// ImageEditor is the transient URL editor anchored to an image region.
type ImageEditor struct {
	Region binding.Region `json:"region"`
	URL    string         `json:"url"`
}

// AttrUpdate is a change to apply to a rendered element.
type AttrUpdate struct {
	Attr  string `json:"attr"`
	Value string `json:"value"`
}

// OpenImageEditor opens the image editor for r, closing any editor that
// was open. The editor shows the region's current URL.
func (s *Session) OpenImageEditor(r binding.Region) (*ImageEditor, error) {
	s.lock()
	defer s.mu.Unlock()

	if found, ok := s.discovered(r); ok {
		r = found
	}
	if binding.AffordanceFor(r.Type) != binding.ImagePicker {
		return nil, ErrNotEditable
	}

	url := r.Value
	if v, ok := binding.Lookup(s.model, r.Target(), s.locale); ok && v != "" {
		url = v
	}
	s.image = &ImageEditor{Region: r, URL: url}
	return s.image, nil
}

// ApplyImage writes url into the model at the open editor's field and
// closes the editor. The returned update sets the image source or the
// background-image style of the region.
func (s *Session) ApplyImage(url string) (*AttrUpdate, error) {
	s.lock()
	defer s.mu.Unlock()

	ed := s.image
	if ed == nil {
		return nil, ErrNoImageEditor
	}
	if err := s.model.SetPlain(ed.Region.Target(), url); err != nil {
		return nil, err
	}
	s.touch()
	s.image = nil

	if ed.Region.Type == binding.TypeBackgroundImage {
		return &AttrUpdate{Attr: "style", Value: "background-image: url('" + url + "')"}, nil
	}
	return &AttrUpdate{Attr: "src", Value: url}, nil
}

// ClickImage handles a click while the image editor is open. A click
// outside both the editor and its anchor closes the editor without
// applying. It reports whether an editor was closed.
func (s *Session) ClickImage(insideEditor, onAnchor bool) bool {
	s.lock()
	defer s.mu.Unlock()
	if s.image == nil || insideEditor || onAnchor {
		return false
	}
	s.image = nil
	return true
}

// CloseImageEditor discards the open image editor, if any.
func (s *Session) CloseImageEditor() {
	s.lock()
	defer s.mu.Unlock()
	s.image = nil
}

// discovered returns the region found at bind time that addresses the
// same field as r.
func (s *Session) discovered(r binding.Region) (binding.Region, bool) {
	if s.page == nil {
		return binding.Region{}, false
	}
	for _, d := range s.page.Regions {
		if d.File == r.File && d.Section == r.Section && d.Field == r.Field {
			return d, true
		}
	}
	return binding.Region{}, false
}
